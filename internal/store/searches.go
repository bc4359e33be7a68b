package store

import "fmt"

// InsertSearch adds a search row recording a lookup the session performed.
func (s *Store) InsertSearch(q Search) (int64, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	res, err := s.db.Exec(
		`INSERT INTO searches (query, source, url, project, session_id)
		 VALUES (?, ?, ?, ?, ?)`,
		q.Query, q.Source, q.URL, q.Project, nullableString(q.SessionID),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting search: %w", err)
	}
	return res.LastInsertId()
}
