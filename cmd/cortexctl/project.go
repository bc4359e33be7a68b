package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	projectName          string
	projectStatus        string
	projectPriority      int
	projectDescription   string
	projectCollaborators string
)

var projectCmd = &cobra.Command{
	Use:     "project <tag>",
	GroupID: "data",
	Short:   "Create or update a tracked project",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := client()
		if err != nil {
			return err
		}
		resp, err := c.RunCommand("project_upsert", map[string]any{
			"tag":           args[0],
			"name":          projectName,
			"status":        projectStatus,
			"priority":      projectPriority,
			"description":   projectDescription,
			"collaborators": projectCollaborators,
		})
		if err != nil {
			return err
		}
		fmt.Println(resp)
		return nil
	},
}

func init() {
	projectCmd.Flags().StringVar(&projectName, "name", "", "display name")
	projectCmd.Flags().StringVar(&projectStatus, "status", "active", "active, paused, or done")
	projectCmd.Flags().IntVar(&projectPriority, "priority", 0, "priority number (0 stores the default, 3)")
	projectCmd.Flags().StringVar(&projectDescription, "description", "", "one-line description")
	projectCmd.Flags().StringVar(&projectCollaborators, "collaborators", "", "comma-separated names")
	rootCmd.AddCommand(projectCmd)
}
