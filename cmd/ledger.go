package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(ledgerCmd)
	ledgerCmd.AddCommand(ledgerVerifyCmd)

	ledgerVerifyCmd.Flags().String("user", "", "User ID")
	_ = ledgerVerifyCmd.MarkFlagRequired("user")
}

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Audit the transaction ledger",
}

var ledgerVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check that a user's balance equals the sum of their transactions",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := uuidFlag(cmd, "user")
		if err != nil {
			return err
		}

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		audit, err := a.accounts.VerifyLedger(cmd.Context(), userID)
		if err != nil {
			return err
		}
		if err := printJSON(cmd, audit); err != nil {
			return err
		}
		if !audit.Consistent() {
			return fmt.Errorf("ledger mismatch for user %s: balance %d, transactions sum to %d",
				userID, audit.Balance, audit.TransactionSum)
		}
		return nil
	},
}
