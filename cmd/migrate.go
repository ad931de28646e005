package cmd

import (
	"fmt"

	"ecochampions/config"
	"ecochampions/database"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateStatusCmd)

	migrateDownCmd.Flags().Int("steps", 1, "Number of migrations to roll back")
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return database.MigrateUp(config.Get().GetDatabaseURL())
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		steps, _ := cmd.Flags().GetInt("steps")
		return database.MigrateDown(config.Get().GetDatabaseURL(), steps)
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := database.MigrateStatus(config.Get().GetDatabaseURL())
		if err != nil {
			return err
		}

		if !status.Applied {
			fmt.Fprintln(cmd.OutOrStdout(), "No migrations have been applied yet")
			return nil
		}

		state := "clean"
		if status.Dirty {
			state = "dirty"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Current migration version: %d (status: %s)\n", status.Version, state)
		return nil
	},
}
