package main

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/Klingon-tech/cardakit/internal/wallet"
	"github.com/Klingon-tech/cardakit/pkg/types"
)

func utxosCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "utxos <address>",
		Short: "List the unspent outputs of an address",
		Args:  cobra.ExactArgs(1),
		RunE: withSession(opts, func(cmd *cobra.Command, args []string, s *session) error {
			utxos, err := s.bf.GetUtxos(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), utxos)
		}),
	}
}

// walletView is the printed form of a wallet snapshot.
type walletView struct {
	Address      string          `json:"address"`
	StakeAddress string          `json:"stake_address"`
	Addresses    []string        `json:"addresses"`
	UtxoCount    int             `json:"utxo_count"`
	Balance      decimal.Decimal `json:"balance"`
	Assets       types.Assets    `json:"assets"`
	Utxos        []types.UTXO    `json:"utxos,omitempty"`
}

func walletCmd(opts *rootOptions) *cobra.Command {
	var (
		fromSeed  bool
		file      string
		withUtxos bool
	)
	cmd := &cobra.Command{
		Use:   "wallet [address]",
		Short: "Aggregate every output held under an address's stake key",
		Args:  cobra.MaximumNArgs(1),
		RunE: withSession(opts, func(cmd *cobra.Command, args []string, s *session) error {
			var (
				w   *wallet.Wallet
				err error
			)
			switch {
			case fromSeed:
				phrase, rerr := readMnemonic(cmd, file)
				if rerr != nil {
					return rerr
				}
				w, err = wallet.FromSeed(cmd.Context(), s.bf, phrase)
			case len(args) == 1:
				w, err = wallet.FromAddress(cmd.Context(), s.bf, args[0])
			default:
				return fmt.Errorf("an address or --seed is required")
			}
			if err != nil {
				return err
			}

			view := walletView{
				Address:      w.Address(),
				StakeAddress: w.StakeAddress(),
				Addresses:    w.Addresses(),
				UtxoCount:    len(w.Utxos()),
				Balance:      w.Balance(),
				Assets:       w.Assets(),
			}
			if withUtxos {
				view.Utxos = w.Utxos()
			}
			return printJSON(cmd.OutOrStdout(), view)
		}),
	}
	cmd.Flags().BoolVar(&fromSeed, "seed", false, "derive the address from a mnemonic")
	cmd.Flags().StringVar(&file, "mnemonic-file", "", "read the mnemonic from this file")
	cmd.Flags().BoolVar(&withUtxos, "utxos", false, "include every output")
	return cmd
}

func tokenCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "token <asset>",
		Short: "Print the single holder of a unique asset",
		Args:  cobra.ExactArgs(1),
		RunE: withSession(opts, func(cmd *cobra.Command, args []string, s *session) error {
			asset, err := types.ParseAssetID(args[0])
			if err != nil {
				return err
			}
			addr, err := s.bf.FindToken(cmd.Context(), asset.String())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), addr)
			return nil
		}),
	}
}

func tokensCmd(opts *rootOptions) *cobra.Command {
	var holders bool
	cmd := &cobra.Command{
		Use:   "tokens <policy-id>",
		Short: "List the assets minted under a policy",
		Args:  cobra.ExactArgs(1),
		RunE: withSession(opts, func(cmd *cobra.Command, args []string, s *session) error {
			if holders {
				all, err := s.bf.FindAllTokenHolders(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), all)
			}
			assets, err := s.bf.FindTokensOf(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), assets)
		}),
	}
	cmd.Flags().BoolVar(&holders, "holders", false, "expand every asset into its holders")
	return cmd
}

func holdersCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "holders <asset>",
		Short: "List the holders of an asset",
		Args:  cobra.ExactArgs(1),
		RunE: withSession(opts, func(cmd *cobra.Command, args []string, s *session) error {
			holders, err := s.bf.GetAssetAddresses(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), holders)
		}),
	}
}

func historyCmd(opts *rootOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history <asset>",
		Short: "List the most recent transactions touching an asset",
		Args:  cobra.ExactArgs(1),
		RunE: withSession(opts, func(cmd *cobra.Command, args []string, s *session) error {
			hist, err := s.bf.GetTokenHistory(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), hist)
		}),
	}
	cmd.Flags().IntVar(&limit, "limit", wallet.DefaultHistoryLimit, "maximum number of entries")
	return cmd
}

func confirmationsCmd(opts *rootOptions) *cobra.Command {
	var height uint64
	cmd := &cobra.Command{
		Use:   "confirmations <tx-hash>",
		Short: "Print the number of confirmations of a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: withSession(opts, func(cmd *cobra.Command, args []string, s *session) error {
			n, err := s.bf.GetConfirmationsAt(cmd.Context(), args[0], height)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		}),
	}
	cmd.Flags().Uint64Var(&height, "height", 0, "count against this height instead of the tip")
	return cmd
}

func metadataCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "metadata <tx-hash>",
		Short: "Print the metadata attached to a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: withSession(opts, func(cmd *cobra.Command, args []string, s *session) error {
			md, err := s.bf.GetMetadata(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), md)
		}),
	}
}
