package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cortexwear/cortexd/internal/ui"
)

var searchCmd = &cobra.Command{
	Use:     "search <query>",
	GroupID: "data",
	Short:   "Log a web/doc search event",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := client()
		if err != nil {
			return err
		}
		resp, err := c.RunCommand("search", map[string]any{"query": args[0]})
		if err != nil {
			return err
		}
		fmt.Println(resp)
		return nil
	},
}

var (
	fileSearchLimit int
)

var fileSearchCmd = &cobra.Command{
	Use:     "file-search <query>",
	GroupID: "data",
	Short:   "Search registered files by filename, tags, or description",
	Args:    cobra.ExactArgs(1),
	RunE:    runFileSearch,
}

func init() {
	fileSearchCmd.Flags().IntVar(&fileSearchLimit, "limit", 20, "max results")
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(fileSearchCmd)
}

func runFileSearch(cmd *cobra.Command, args []string) error {
	c, err := client()
	if err != nil {
		return err
	}
	raw, err := c.RunCommand("file_search", map[string]any{"query": args[0], "limit": fileSearchLimit})
	if err != nil {
		return err
	}

	_, payload, _ := strings.Cut(raw, ":file_search:")
	if jsonOutput {
		fmt.Println(payload)
		return nil
	}

	var files []struct {
		ID       int64  `json:"id"`
		Filename string `json:"filename"`
		Category string `json:"category"`
	}
	if err := json.Unmarshal([]byte(payload), &files); err != nil {
		return fmt.Errorf("parsing file search response: %w", err)
	}
	records := make([]ui.Record, 0, len(files))
	for _, f := range files {
		records = append(records, ui.Record{ID: strconv.FormatInt(f.ID, 10), Summary: fmt.Sprintf("%s (%s)", f.Filename, f.Category)})
	}
	if len(records) == 0 {
		fmt.Println(ui.RenderNoResults("files", args[0], []string{"try a broader query"}, ui.GetWidth()))
		return nil
	}
	fmt.Println(ui.RenderRecordsTable("files", args[0], records, nil, ui.GetWidth()))
	return nil
}
