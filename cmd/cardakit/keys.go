package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Klingon-tech/cardakit/internal/wallet"
)

func genSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "genseed",
		Short: "Generate a new 24-word mnemonic",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			phrase, err := wallet.GenerateMnemonic()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), phrase)
			return nil
		},
	}
}

func loadSeed(cmd *cobra.Command, file string) (*wallet.Seed, error) {
	net, err := networkFlag(cmd)
	if err != nil {
		return nil, err
	}
	phrase, err := readMnemonic(cmd, file)
	if err != nil {
		return nil, err
	}
	return wallet.NewSeed(phrase, net)
}

func addressCmd() *cobra.Command {
	var (
		file       string
		index      uint32
		enterprise bool
		stake      bool
	)
	cmd := &cobra.Command{
		Use:   "address",
		Short: "Derive an address from a mnemonic",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, err := loadSeed(cmd, file)
			if err != nil {
				return err
			}
			var addr string
			if stake {
				addr, err = seed.StakeAddress(index)
			} else {
				addr, err = seed.AddressAt(index, !enterprise)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), addr)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "mnemonic-file", "", "read the mnemonic from this file")
	cmd.Flags().Uint32Var(&index, "index", 0, "address index")
	cmd.Flags().BoolVar(&enterprise, "enterprise", false, "payment-only address without a stake key")
	cmd.Flags().BoolVar(&stake, "stake", false, "print the reward address instead")
	cmd.MarkFlagsMutuallyExclusive("enterprise", "stake")
	return cmd
}

func privKeyCmd() *cobra.Command {
	var (
		file  string
		role  string
		index uint32
	)
	cmd := &cobra.Command{
		Use:   "privkey",
		Short: "Print the extended private key at role/index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := wallet.ParseRole(role)
			if err != nil {
				return err
			}
			seed, err := loadSeed(cmd, file)
			if err != nil {
				return err
			}
			key, err := seed.PrivateKey(r, index)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), key)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "mnemonic-file", "", "read the mnemonic from this file")
	cmd.Flags().StringVar(&role, "role", "payment", "payment, change or stake")
	cmd.Flags().Uint32Var(&index, "index", 0, "key index")
	return cmd
}

func pubKeyCmd() *cobra.Command {
	var (
		file  string
		role  string
		index uint32
	)
	cmd := &cobra.Command{
		Use:   "pubkey",
		Short: "Print the public key at role/index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := wallet.ParseRole(role)
			if err != nil {
				return err
			}
			seed, err := loadSeed(cmd, file)
			if err != nil {
				return err
			}
			key, err := seed.Key(r, index)
			if err != nil {
				return err
			}
			pub, err := key.Bech32PublicKey()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), pub)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "mnemonic-file", "", "read the mnemonic from this file")
	cmd.Flags().StringVar(&role, "role", "payment", "payment, change or stake")
	cmd.Flags().Uint32Var(&index, "index", 0, "key index")
	return cmd
}
