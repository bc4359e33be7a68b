package store

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Query runs a whitelisted ad-hoc SELECT against one of the eight
// knowledge tables (files included, alongside its own dedicated
// list/search/delete verbs). Column names in filters and orderBy are
// restricted to alphanumerics/underscore so they can never carry SQL
// outside of a bound parameter position.
func (s *Store) Query(table string, filters map[string]any, orderBy string, limit int) ([]map[string]any, error) {
	if !queryableTables[table] {
		return nil, fmt.Errorf("invalid or missing table: %q", table)
	}
	if limit <= 0 || limit > 100 {
		limit = min(max(limit, 1), 100)
		if limit <= 0 {
			limit = 20
		}
	}

	sqlStr := "SELECT * FROM " + table
	var args []any
	var clauses []string
	for col, val := range filters {
		if !isSafeIdent(col) {
			continue
		}
		clauses = append(clauses, col+" = ?")
		args = append(args, val)
	}
	if len(clauses) > 0 {
		sqlStr += " WHERE " + strings.Join(clauses, " AND ")
	}

	if orderBy != "" {
		parts := strings.Fields(orderBy)
		if len(parts) <= 2 && isSafeIdent(parts[0]) {
			direction := "DESC"
			if len(parts) > 1 {
				direction = strings.ToUpper(parts[1])
			}
			if direction == "ASC" || direction == "DESC" {
				sqlStr += " ORDER BY " + parts[0] + " " + direction
			}
		}
	}

	sqlStr += " LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.Query(sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("running query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("reading query columns: %w", err)
	}

	var out []map[string]any
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scanning query row: %w", err)
		}
		row := make(map[string]any, len(cols))
		for i, c := range cols {
			row[c] = normalizeQueryValue(vals[i])
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// normalizeQueryValue makes driver-returned []byte values (TEXT columns
// frequently come back this way) JSON-marshalable as plain strings.
func normalizeQueryValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

func isSafeIdent(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_') {
			return false
		}
	}
	return true
}

// MarshalQueryResults renders query results the same way the wire
// protocol's RSP:query: payload expects: compact JSON, no HTML escaping
// surprises.
func MarshalQueryResults(rows []map[string]any) ([]byte, error) {
	return json.Marshal(rows)
}
