package cmd

import (
	"ecochampions/models"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(awardCmd)

	awardCmd.Flags().String("user", "", "User ID")
	awardCmd.Flags().Int64("amount", 0, "Signed number of eco-coins")
	awardCmd.Flags().String("reason", models.ReasonManualAward, "Ledger reason")
	_ = awardCmd.MarkFlagRequired("user")
	_ = awardCmd.MarkFlagRequired("amount")
}

var awardCmd = &cobra.Command{
	Use:   "award",
	Short: "Credit or debit a user's balance with a ledger entry",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := uuidFlag(cmd, "user")
		if err != nil {
			return err
		}
		amount, _ := cmd.Flags().GetInt64("amount")
		reason, _ := cmd.Flags().GetString("reason")

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := a.engine.AwardCoins(cmd.Context(), userID, amount, reason)
		if err != nil {
			return err
		}
		return printJSON(cmd, result)
	},
}
