package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/cortexwear/cortexd/internal/store"
	"github.com/cortexwear/cortexd/internal/ui"
)

var contextCmd = &cobra.Command{
	Use:     "context",
	GroupID: "data",
	Short:   "Show the orientation summary a fresh session would load",
	RunE:    runContext,
}

func init() {
	rootCmd.AddCommand(contextCmd)
}

func runContext(cmd *cobra.Command, args []string) error {
	c, err := client()
	if err != nil {
		return err
	}
	raw, err := c.RunCommand("get_context", nil)
	if err != nil {
		return err
	}

	_, payload, _ := strings.Cut(raw, ":context:")
	if jsonOutput {
		fmt.Println(payload)
		return nil
	}

	var ctx store.Context
	if err := json.Unmarshal([]byte(payload), &ctx); err != nil {
		return fmt.Errorf("parsing context response: %w", err)
	}

	md := renderContextMarkdown(ctx)
	if !ui.ShouldUseColor() {
		fmt.Println(md)
		return nil
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(ui.GlamourStyle()),
		glamour.WithWordWrap(ui.GetWidth()),
	)
	if err != nil {
		fmt.Println(md)
		return nil
	}
	out, err := renderer.Render(md)
	if err != nil {
		fmt.Println(md)
		return nil
	}
	fmt.Print(out)
	return nil
}

func renderContextMarkdown(ctx store.Context) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# cortex context\n\n")
	fmt.Fprintf(&b, "%d notes, %d activities, %d files, %d active sessions\n\n",
		ctx.Stats.NotesTotal, ctx.Stats.ActivitiesTotal, ctx.Stats.FilesTotal, ctx.Stats.ActiveSessions)

	writeProjects(&b, ctx.ActiveProjects)
	writeNotes(&b, "Pending reminders", ctx.PendingReminders)
	writeNotes(&b, "Recent decisions", ctx.RecentDecisions)
	writeNotes(&b, "Open bugs", ctx.OpenBugs)
	writeNotes(&b, "Recent notes", ctx.RecentNotes)
	writeFiles(&b, ctx.RecentFiles)

	return b.String()
}

func writeProjects(b *strings.Builder, projects []store.Project) {
	if len(projects) == 0 {
		return
	}
	fmt.Fprintf(b, "## Active projects\n\n")
	for _, p := range projects {
		fmt.Fprintf(b, "- **%s** (%s, priority %d): %s\n", p.Tag, p.Status, p.Priority, p.Description)
	}
	fmt.Fprintln(b)
}

func writeNotes(b *strings.Builder, heading string, notes []store.Note) {
	if len(notes) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", heading)
	for _, n := range notes {
		fmt.Fprintf(b, "- %s _(%s)_\n", n.Content, n.CreatedAt)
	}
	fmt.Fprintln(b)
}

func writeFiles(b *strings.Builder, files []store.File) {
	if len(files) == 0 {
		return
	}
	fmt.Fprintf(b, "## Recent files\n\n")
	for _, f := range files {
		fmt.Fprintf(b, "- `%s` (%s, %d bytes)\n", f.Filename, f.Category, f.SizeBytes)
	}
	fmt.Fprintln(b)
}
