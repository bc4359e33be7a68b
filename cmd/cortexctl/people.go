package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	personName     string
	personRole     string
	personEmail    string
	personProjects string
	personNotes    string
)

var peopleCmd = &cobra.Command{
	Use:     "person <id>",
	GroupID: "data",
	Short:   "Create or update a person record",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := client()
		if err != nil {
			return err
		}
		resp, err := c.RunCommand("people_upsert", map[string]any{
			"id":       args[0],
			"name":     personName,
			"role":     personRole,
			"email":    personEmail,
			"projects": personProjects,
			"notes":    personNotes,
		})
		if err != nil {
			return err
		}
		fmt.Println(resp)
		return nil
	},
}

func init() {
	peopleCmd.Flags().StringVar(&personName, "name", "", "display name")
	peopleCmd.Flags().StringVar(&personRole, "role", "", "role or title")
	peopleCmd.Flags().StringVar(&personEmail, "email", "", "email address")
	peopleCmd.Flags().StringVar(&personProjects, "projects", "", "comma-separated project tags")
	peopleCmd.Flags().StringVar(&personNotes, "notes", "", "free-form notes")
	rootCmd.AddCommand(peopleCmd)
}
