package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jade/jadeos/internal/secrets"
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage stored LLM provider API keys",
}

var keySetCmd = &cobra.Command{
	Use:   "set <provider>",
	Short: "Store an API key read from stdin",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		key := strings.TrimSpace(line)
		if key == "" {
			if err != nil {
				return fmt.Errorf("read key: %w", err)
			}
			return errors.New("empty key")
		}
		store, err := secrets.Default()
		if err != nil {
			return err
		}
		if err := store.Put(args[0], key); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "stored key for %s\n", args[0])
		return nil
	},
}

var keyDeleteCmd = &cobra.Command{
	Use:   "delete <provider>",
	Short: "Remove a stored API key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := secrets.Default()
		if err != nil {
			return err
		}
		return store.Delete(args[0])
	},
}

func init() {
	keyCmd.AddCommand(keySetCmd, keyDeleteCmd)
}
