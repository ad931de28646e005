package cmd

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(accountCmd)
	accountCmd.AddCommand(accountCreateCmd)
	accountCmd.AddCommand(accountShowCmd)
	accountCmd.AddCommand(accountTransactionsCmd)

	accountCreateCmd.Flags().String("name", "", "Display name")
	accountCreateCmd.Flags().String("email", "", "Unique email address")
	accountCreateCmd.Flags().String("community", "", "Community the user belongs to")
	_ = accountCreateCmd.MarkFlagRequired("name")
	_ = accountCreateCmd.MarkFlagRequired("email")

	accountShowCmd.Flags().String("user", "", "User ID")
	_ = accountShowCmd.MarkFlagRequired("user")

	accountTransactionsCmd.Flags().String("user", "", "User ID")
	accountTransactionsCmd.Flags().Int("limit", 50, "Maximum number of transactions")
	_ = accountTransactionsCmd.MarkFlagRequired("user")
}

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Create and inspect accounts",
}

var accountCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Register a user with a zero balance",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		email, _ := cmd.Flags().GetString("email")
		community, _ := cmd.Flags().GetString("community")

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		user, err := a.accounts.CreateAccount(cmd.Context(), name, email, community)
		if err != nil {
			return err
		}
		return printJSON(cmd, user)
	},
}

var accountShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show a user's balance, tier and flags",
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

		user, err := a.accounts.GetAccount(cmd.Context(), userID)
		if err != nil {
			return err
		}
		return printJSON(cmd, user)
	},
}

var accountTransactionsCmd = &cobra.Command{
	Use:   "transactions",
	Short: "List a user's transactions, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := uuidFlag(cmd, "user")
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		txs, err := a.accounts.GetTransactions(cmd.Context(), userID, limit)
		if err != nil {
			return err
		}
		return printJSON(cmd, txs)
	},
}
