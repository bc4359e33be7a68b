package store

import "fmt"

// InsertNote adds a note row. sessionID may be empty, meaning the note
// isn't attached to any active session.
func (s *Store) InsertNote(n Note) (int64, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if n.NoteType == "" {
		n.NoteType = "note"
	}
	if n.Source == "" {
		n.Source = "ble"
	}

	res, err := s.db.Exec(
		`INSERT INTO notes (content, tags, project, note_type, source, session_id)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		n.Content, n.Tags, n.Project, n.NoteType, n.Source, nullableString(n.SessionID),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting note: %w", err)
	}
	return res.LastInsertId()
}

// RecentNotes returns the most recently created notes, optionally
// filtered by project and/or note_type.
func (s *Store) RecentNotes(limit int, project, noteType string) ([]Note, error) {
	sqlStr := "SELECT id, content, tags, project, note_type, source, IFNULL(session_id,''), created_at FROM notes"
	var args []any
	var wheres []string
	if project != "" {
		wheres = append(wheres, "project = ?")
		args = append(args, project)
	}
	if noteType != "" {
		wheres = append(wheres, "note_type = ?")
		args = append(args, noteType)
	}
	sqlStr += whereClause(wheres)
	sqlStr += " ORDER BY created_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.Query(sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("querying notes: %w", err)
	}
	defer rows.Close()

	var out []Note
	for rows.Next() {
		var n Note
		if err := rows.Scan(&n.ID, &n.Content, &n.Tags, &n.Project, &n.NoteType, &n.Source, &n.SessionID, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning note: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func whereClause(wheres []string) string {
	if len(wheres) == 0 {
		return ""
	}
	s := " WHERE "
	for i, w := range wheres {
		if i > 0 {
			s += " AND "
		}
		s += w
	}
	return s
}
