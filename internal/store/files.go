package store

import (
	"database/sql"
	"fmt"
)

// InsertFile records a file that has appeared under one of the
// transport-visible directories.
func (s *Store) InsertFile(f File) (int64, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if f.Category == "" {
		f.Category = "uploads"
	}
	if f.Source == "" {
		f.Source = "upload"
	}

	res, err := s.db.Exec(
		`INSERT INTO files (filename, category, description, tags, project, mime_type, size_bytes, source, session_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.Filename, f.Category, f.Description, f.Tags, f.Project, f.MimeType, f.SizeBytes,
		f.Source, nullableString(f.SessionID),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting file: %w", err)
	}
	return res.LastInsertId()
}

// ListFiles returns files, optionally filtered by category/project.
func (s *Store) ListFiles(category, project string, limit int) ([]File, error) {
	sqlStr := `SELECT id, filename, category, description, tags, project, mime_type,
		size_bytes, source, IFNULL(session_id,''), created_at FROM files`
	var args []any
	var wheres []string
	if category != "" {
		wheres = append(wheres, "category = ?")
		args = append(args, category)
	}
	if project != "" {
		wheres = append(wheres, "project = ?")
		args = append(args, project)
	}
	sqlStr += whereClause(wheres)
	sqlStr += " ORDER BY created_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.Query(sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}
	defer rows.Close()
	return scanFiles(rows)
}

// SearchFiles returns files whose filename, description, or tags contain
// query (substring match via SQLite's default LIKE, case-insensitive for
// ASCII letters).
func (s *Store) SearchFiles(query string, limit int) ([]File, error) {
	like := "%" + query + "%"
	rows, err := s.db.Query(
		`SELECT id, filename, category, description, tags, project, mime_type,
			size_bytes, source, IFNULL(session_id,''), created_at
		 FROM files WHERE filename LIKE ? OR description LIKE ? OR tags LIKE ?
		 ORDER BY created_at DESC LIMIT ?`,
		like, like, like, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("searching files: %w", err)
	}
	defer rows.Close()
	return scanFiles(rows)
}

// FileCategory returns the category of the file with the given id, and
// whether a row was found at all.
func (s *Store) FileCategory(id int64) (string, bool, error) {
	var category string
	err := s.db.QueryRow(`SELECT category FROM files WHERE id = ?`, id).Scan(&category)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, fmt.Errorf("looking up file category: %w", err)
	}
	return category, true, nil
}

// DeleteFile removes a file row by id. Returns false if no row matched.
func (s *Store) DeleteFile(id int64) (bool, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	res, err := s.db.Exec(`DELETE FROM files WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("deleting file: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking file delete result: %w", err)
	}
	return n > 0, nil
}

func scanFiles(rows interface {
	Next() bool
	Scan(...any) error
	Err() error
}) ([]File, error) {
	var out []File
	for rows.Next() {
		var f File
		if err := rows.Scan(&f.ID, &f.Filename, &f.Category, &f.Description, &f.Tags,
			&f.Project, &f.MimeType, &f.SizeBytes, &f.Source, &f.SessionID, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning file: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
