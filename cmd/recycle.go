package cmd

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(recycleCmd)
	recycleCmd.AddCommand(recycleLogCmd)
	recycleCmd.AddCommand(recycleGuideCmd)

	recycleLogCmd.Flags().String("user", "", "User ID")
	recycleLogCmd.Flags().String("material", "", "Material type, e.g. plastic")
	recycleLogCmd.Flags().Float64("weight", 0, "Weight in kilograms")
	recycleLogCmd.Flags().String("photo-url", "", "Link to a photo of the drop-off")
	_ = recycleLogCmd.MarkFlagRequired("user")
	_ = recycleLogCmd.MarkFlagRequired("material")

	recycleGuideCmd.Flags().String("user", "", "User ID")
	_ = recycleGuideCmd.MarkFlagRequired("user")
}

var recycleCmd = &cobra.Command{
	Use:   "recycle",
	Short: "Recycling rewards",
}

var recycleLogCmd = &cobra.Command{
	Use:   "log",
	Short: "Record a recycling log and apply its rewards",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := uuidFlag(cmd, "user")
		if err != nil {
			return err
		}
		material, _ := cmd.Flags().GetString("material")
		weight, _ := cmd.Flags().GetFloat64("weight")
		photoURL, _ := cmd.Flags().GetString("photo-url")

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := a.recycling.RecordRecyclingLog(cmd.Context(), userID, material, weight, photoURL)
		if err != nil {
			return err
		}
		return printJSON(cmd, result)
	},
}

var recycleGuideCmd = &cobra.Command{
	Use:   "guide",
	Short: "Claim the one-time recycling guide bonus",
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

		result, err := a.recycling.ClaimGuideBonus(cmd.Context(), userID)
		if err != nil {
			return err
		}
		return printJSON(cmd, result)
	},
}
