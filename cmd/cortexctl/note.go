package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var (
	noteTags    string
	noteProject string
	noteType    string
)

var noteCmd = &cobra.Command{
	Use:     "note [text]",
	GroupID: "data",
	Short:   "Save a text note, prompting interactively if text is omitted",
	RunE:    runNote,
}

func init() {
	noteCmd.Flags().StringVar(&noteTags, "tags", "", "comma-separated tags")
	noteCmd.Flags().StringVar(&noteProject, "project", "", "project tag this note belongs to")
	noteCmd.Flags().StringVar(&noteType, "type", "note", "note type (note, voice, decision, bug, todo)")
	rootCmd.AddCommand(noteCmd)
}

func runNote(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")
	if text == "" {
		if err := huh.NewForm(
			huh.NewGroup(
				huh.NewText().
					Title("Note").
					Description("What do you want to remember?").
					CharLimit(5000).
					Value(&text).
					Validate(func(s string) error {
						if strings.TrimSpace(s) == "" {
							return fmt.Errorf("note text is required")
						}
						return nil
					}),
				huh.NewInput().
					Title("Tags").
					Description("comma-separated, optional").
					Value(&noteTags),
				huh.NewInput().
					Title("Project").
					Description("optional").
					Value(&noteProject),
			),
		).WithTheme(huh.ThemeDracula()).Run(); err != nil {
			if err == huh.ErrUserAborted {
				fmt.Println("note canceled.")
				return nil
			}
			return err
		}
	}

	c, err := client()
	if err != nil {
		return err
	}
	resp, err := c.RunCommand("note", map[string]any{
		"content": text,
		"tags":    noteTags,
		"project": noteProject,
		"type":    noteType,
	})
	if err != nil {
		return err
	}
	fmt.Println(resp)
	return nil
}
