package cmd

import (
	"fmt"

	"github.com/josephgoksu/TaskPulse/internal/ui"
	"github.com/spf13/cobra"
)

var (
	projectDescFlag  string
	projectColorFlag string
	projectIconFlag  string
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects",
}

var projectAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a project",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := GetStore()
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		rec := GetRecorder(st)
		project, err := rec.CreateProject(args[0], projectDescFlag, projectColorFlag, projectIconFlag)
		if err != nil {
			return fmt.Errorf("failed to create project: %w", err)
		}
		fmt.Printf("%s %s (%s)\n", ui.StyleSuccess.Render("Created"), project.Name, project.ID)
		return nil
	},
}

var projectEditCmd = &cobra.Command{
	Use:   "edit <project-id>",
	Short: "Edit project presentation fields (not logged)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := GetStore()
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		name, _ := cmd.Flags().GetString("name")
		rec := GetRecorder(st)
		project, err := rec.EditProject(args[0], name, projectDescFlag, projectColorFlag, projectIconFlag)
		if err != nil {
			return fmt.Errorf("failed to edit project: %w", err)
		}
		fmt.Printf("%s %s\n", ui.StyleSuccess.Render("Updated"), project.Name)
		return nil
	},
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := GetStore()
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		projects, err := st.ListProjects()
		if err != nil {
			return fmt.Errorf("failed to list projects: %w", err)
		}
		if len(projects) == 0 {
			fmt.Println(ui.StyleSubtle.Render("No projects."))
			return nil
		}
		for _, p := range projects {
			fmt.Printf("%s  %s\n", ui.StyleSubtle.Render(p.ID[:8]), ui.StyleTitle.Render(p.Name))
		}
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{projectAddCmd, projectEditCmd} {
		c.Flags().StringVar(&projectDescFlag, "description", "", "project description")
		c.Flags().StringVar(&projectColorFlag, "color", "", "project color")
		c.Flags().StringVar(&projectIconFlag, "icon", "", "project icon")
	}
	projectEditCmd.Flags().String("name", "", "new project name")

	projectCmd.AddCommand(projectAddCmd, projectEditCmd, projectListCmd)
	rootCmd.AddCommand(projectCmd)
}
