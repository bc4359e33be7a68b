package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cortexwear/cortexd/internal/ui"
)

var (
	queryFilter  []string
	queryOrderBy string
	queryLimit   int
)

var queryCmd = &cobra.Command{
	Use:     "query <table>",
	GroupID: "data",
	Short:   "Run an ad-hoc query against one of the eight knowledge tables",
	Args:    cobra.ExactArgs(1),
	RunE:    runQuery,
}

func init() {
	queryCmd.Flags().StringArrayVar(&queryFilter, "filter", nil, "column=value filter, repeatable")
	queryCmd.Flags().StringVar(&queryOrderBy, "order-by", "", "column [asc|desc]")
	queryCmd.Flags().IntVar(&queryLimit, "limit", 20, "max rows (1-100)")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	table := args[0]
	filters := map[string]any{}
	for _, f := range queryFilter {
		col, val, ok := strings.Cut(f, "=")
		if !ok {
			return fmt.Errorf("invalid --filter %q, expected column=value", f)
		}
		filters[col] = val
	}

	c, err := client()
	if err != nil {
		return err
	}
	raw, err := c.RunCommand("query", map[string]any{
		"table":    table,
		"filters":  filters,
		"order_by": queryOrderBy,
		"limit":    queryLimit,
	})
	if err != nil {
		return err
	}

	_, payload, _ := strings.Cut(raw, ":query:")
	if jsonOutput {
		fmt.Println(payload)
		return nil
	}

	var rows []map[string]any
	if err := json.Unmarshal([]byte(payload), &rows); err != nil {
		return fmt.Errorf("parsing query response: %w", err)
	}
	records := make([]ui.Record, 0, len(rows))
	for i, row := range rows {
		records = append(records, ui.Record{ID: strconv.Itoa(i + 1), Summary: summarizeRow(row)})
	}
	if len(records) == 0 {
		fmt.Println(ui.RenderNoResults(table, table, []string{"check --filter column names", "try a broader --limit"}, ui.GetWidth()))
		return nil
	}
	fmt.Println(ui.RenderRecordsTable(table, table, records, nil, ui.GetWidth()))
	return nil
}

func summarizeRow(row map[string]any) string {
	parts := make([]string, 0, len(row))
	for k, v := range row {
		parts = append(parts, fmt.Sprintf("%s=%v", k, v))
	}
	return strings.Join(parts, " ")
}
