package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Klingon-tech/cardakit/pkg/types"
)

// mnemonicEnv supplies the seed phrase non-interactively.
const mnemonicEnv = "CARDAKIT_MNEMONIC"

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// readMnemonic returns the seed phrase from --mnemonic-file, the
// environment, a hidden terminal prompt or the first line of stdin, in
// that order.
func readMnemonic(cmd *cobra.Command, file string) (string, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read mnemonic file: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}
	if phrase := os.Getenv(mnemonicEnv); phrase != "" {
		return phrase, nil
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(cmd.ErrOrStderr(), "Mnemonic: ")
		phrase, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr()) // newline after hidden input
		if err != nil {
			return "", fmt.Errorf("read mnemonic: %w", err)
		}
		return string(phrase), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read mnemonic: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// networkFlag resolves the offline commands' --network flag. An empty value
// means mainnet.
func networkFlag(cmd *cobra.Command) (types.Network, error) {
	s, err := cmd.Flags().GetString("network")
	if err != nil {
		return "", err
	}
	if s == "" {
		return types.Mainnet, nil
	}
	return types.ParseNetwork(s)
}
