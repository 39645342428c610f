// derive_address.go prints keys and addresses for a mnemonic file, for
// checking regression vectors against other wallets.
// Usage: go run scripts/derive_address.go <mnemonic-file> [network] [count]
package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Klingon-tech/cardakit/internal/wallet"
	"github.com/Klingon-tech/cardakit/pkg/types"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: derive_address <mnemonic-file> [network] [count]")
		os.Exit(1)
	}
	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		fatal(err)
	}
	net := types.Mainnet
	if len(os.Args) > 2 {
		if net, err = types.ParseNetwork(os.Args[2]); err != nil {
			fatal(err)
		}
	}
	count := 1
	if len(os.Args) > 3 {
		if count, err = strconv.Atoi(os.Args[3]); err != nil {
			fatal(err)
		}
	}

	seed, err := wallet.NewSeed(strings.TrimSpace(string(data)), net)
	if err != nil {
		fatal(err)
	}
	account := wallet.DeriveAccountKey(seed)
	fmt.Printf("Account pubkey: %s\n", hex.EncodeToString(account.PublicKeyBytes()))

	stake, err := seed.StakeAddress(0)
	if err != nil {
		fatal(err)
	}
	fmt.Printf("Stake address:  %s\n", stake)

	for i := range uint32(count) {
		pay, err := seed.Key(wallet.RolePayment, i)
		if err != nil {
			fatal(err)
		}
		base, err := seed.AddressAt(i, true)
		if err != nil {
			fatal(err)
		}
		enterprise, err := seed.AddressAt(i, false)
		if err != nil {
			fatal(err)
		}
		fmt.Printf("\n[%d]\n", i)
		fmt.Printf("  Pubkey:     %s\n", hex.EncodeToString(pay.PublicKeyBytes()))
		fmt.Printf("  Key hash:   %s\n", pay.KeyHash())
		fmt.Printf("  Base:       %s\n", base)
		fmt.Printf("  Enterprise: %s\n", enterprise)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
