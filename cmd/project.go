package cmd

import (
	"ecochampions/models"
	"ecochampions/service"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(projectCmd)
	projectCmd.AddCommand(projectCreateCmd)
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectJoinCmd)

	projectCreateCmd.Flags().String("creator", "", "Creator user ID")
	projectCreateCmd.Flags().String("title", "", "Project title")
	projectCreateCmd.Flags().String("description", "", "Project description")
	projectCreateCmd.Flags().String("material", "", "Goal material")
	projectCreateCmd.Flags().Float64("goal", 0, "Goal weight in kilograms")
	projectCreateCmd.Flags().Int("days", 30, "Days left to reach the goal")
	_ = projectCreateCmd.MarkFlagRequired("creator")
	_ = projectCreateCmd.MarkFlagRequired("title")
	_ = projectCreateCmd.MarkFlagRequired("material")
	_ = projectCreateCmd.MarkFlagRequired("goal")

	projectListCmd.Flags().String("status", "", "Active or Completed")
	projectListCmd.Flags().String("material", "", "Goal material")

	projectJoinCmd.Flags().String("user", "", "User ID")
	projectJoinCmd.Flags().String("project", "", "Project ID")
	projectJoinCmd.Flags().Float64("weight", 0, "Contributed weight in kilograms")
	_ = projectJoinCmd.MarkFlagRequired("user")
	_ = projectJoinCmd.MarkFlagRequired("project")
}

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Community projects",
}

var projectCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Open a project and reward its creator",
	RunE: func(cmd *cobra.Command, args []string) error {
		creatorID, err := uuidFlag(cmd, "creator")
		if err != nil {
			return err
		}
		var input service.NewProject
		input.Title, _ = cmd.Flags().GetString("title")
		input.Description, _ = cmd.Flags().GetString("description")
		input.GoalMaterial, _ = cmd.Flags().GetString("material")
		input.GoalWeight, _ = cmd.Flags().GetFloat64("goal")
		input.DaysLeft, _ = cmd.Flags().GetInt("days")

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		project, err := a.projects.CreateProject(cmd.Context(), creatorID, input)
		if err != nil {
			return err
		}
		return printJSON(cmd, project)
	},
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		status, _ := cmd.Flags().GetString("status")
		material, _ := cmd.Flags().GetString("material")

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		projects, err := a.projects.ListProjects(cmd.Context(), models.ProjectFilter{
			Status:   models.ProjectStatus(status),
			Material: material,
		})
		if err != nil {
			return err
		}
		return printJSON(cmd, projects)
	},
}

var projectJoinCmd = &cobra.Command{
	Use:   "join",
	Short: "Contribute to a project and run its reward cascade",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := uuidFlag(cmd, "user")
		if err != nil {
			return err
		}
		projectID, err := uuidFlag(cmd, "project")
		if err != nil {
			return err
		}
		weight, _ := cmd.Flags().GetFloat64("weight")

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := a.projects.JoinProject(cmd.Context(), userID, projectID, weight)
		if result != nil {
			if perr := printJSON(cmd, result); perr != nil {
				return perr
			}
		}
		return err
	},
}
