// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/faculty-outreach/internal/secrets"
)

var keyringCmd = &cobra.Command{
	Use:   "keyring",
	Short: "Manage the IMAP app password in the OS keychain",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := rootCmd.PersistentPreRunE(cmd, args); err != nil {
			return err
		}
		bindCommandFlags(cmd, map[string]string{
			"username":  "mail.username",
			"imap-addr": "mail.imap_addr",
		})
		return nil
	},
}

var keyringSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store the app password read from stdin",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		account, err := keyringAccount()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "app password for %s: ", account)
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("reading password: %w", err)
		}
		if err := secrets.SetIMAPPassword(account, strings.TrimSpace(line)); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", color.GreenString("stored"), account)
		return nil
	},
}

var keyringDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove the stored app password",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		account, err := keyringAccount()
		if err != nil {
			return err
		}
		if err := secrets.DeleteIMAPPassword(account); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", color.YellowString("deleted"), account)
		return nil
	},
}

func init() {
	keyringCmd.PersistentFlags().String("username", "", "mailbox login")
	keyringCmd.PersistentFlags().String("imap-addr", "", "IMAP server host:port (default imap.gmail.com:993)")

	keyringCmd.AddCommand(keyringSetCmd, keyringDeleteCmd)
	rootCmd.AddCommand(keyringCmd)
}

func keyringAccount() (string, error) {
	user := viper.GetString("mail.username")
	if user == "" {
		return "", errors.New("mail.username is required")
	}
	return secrets.IMAPKeyringAccount(user, viper.GetString("mail.imap_addr")), nil
}
