package store

import "fmt"

// InsertActivity adds an activity row recording a tool/program invocation.
func (s *Store) InsertActivity(a Activity) (int64, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	res, err := s.db.Exec(
		`INSERT INTO activities (program, details, file_path, project, session_id, duration_min)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		a.Program, a.Details, a.FilePath, a.Project, nullableString(a.SessionID), a.DurationMin,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting activity: %w", err)
	}
	return res.LastInsertId()
}
