package cmd

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(tradeCmd)
	tradeCmd.AddCommand(tradeFinalizeCmd)

	tradeFinalizeCmd.Flags().String("caller", "", "User finalizing the trade")
	tradeFinalizeCmd.Flags().String("buyer", "", "Buyer user ID")
	tradeFinalizeCmd.Flags().String("seller", "", "Seller user ID")
	_ = tradeFinalizeCmd.MarkFlagRequired("caller")
	_ = tradeFinalizeCmd.MarkFlagRequired("buyer")
	_ = tradeFinalizeCmd.MarkFlagRequired("seller")
}

var tradeCmd = &cobra.Command{
	Use:   "trade",
	Short: "EcoTrade rewards",
}

var tradeFinalizeCmd = &cobra.Command{
	Use:   "finalize",
	Short: "Reward both parties of a completed trade",
	RunE: func(cmd *cobra.Command, args []string) error {
		callerID, err := uuidFlag(cmd, "caller")
		if err != nil {
			return err
		}
		buyerID, err := uuidFlag(cmd, "buyer")
		if err != nil {
			return err
		}
		sellerID, err := uuidFlag(cmd, "seller")
		if err != nil {
			return err
		}

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := a.trades.FinalizeTrade(cmd.Context(), callerID, buyerID, sellerID)
		if result != nil {
			if perr := printJSON(cmd, result); perr != nil {
				return perr
			}
		}
		return err
	},
}
