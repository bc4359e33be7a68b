package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	activityDetails     string
	activityFilePath    string
	activityProject     string
	activityDurationMin int
)

var activityCmd = &cobra.Command{
	Use:     "activity <program>",
	GroupID: "data",
	Short:   "Log a tool/program invocation against the active session",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := client()
		if err != nil {
			return err
		}
		resp, err := c.RunCommand("activity", map[string]any{
			"program":      args[0],
			"details":      activityDetails,
			"file_path":    activityFilePath,
			"project":      activityProject,
			"duration_min": activityDurationMin,
		})
		if err != nil {
			return err
		}
		fmt.Println(resp)
		return nil
	},
}

func init() {
	activityCmd.Flags().StringVar(&activityDetails, "details", "", "free-form details")
	activityCmd.Flags().StringVar(&activityFilePath, "file", "", "file the activity touched")
	activityCmd.Flags().StringVar(&activityProject, "project", "", "project tag")
	activityCmd.Flags().IntVar(&activityDurationMin, "duration-min", 0, "duration in minutes")
	rootCmd.AddCommand(activityCmd)
}
