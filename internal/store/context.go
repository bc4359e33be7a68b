package store

import "fmt"

// Stats returns row counts across the database, used both standalone (the
// status command) and embedded in GetContext.
func (s *Store) Stats() (Stats, error) {
	var st Stats
	row := s.db.QueryRow(
		`SELECT
			(SELECT COUNT(*) FROM notes),
			(SELECT COUNT(*) FROM activities),
			(SELECT COUNT(*) FROM searches),
			(SELECT COUNT(*) FROM sessions WHERE ended_at IS NULL),
			(SELECT COUNT(*) FROM sessions),
			(SELECT COUNT(*) FROM projects),
			(SELECT COUNT(*) FROM files)`,
	)
	if err := row.Scan(&st.NotesTotal, &st.ActivitiesTotal, &st.SearchesTotal,
		&st.ActiveSessions, &st.SessionsTotal, &st.ProjectsTotal, &st.FilesTotal); err != nil {
		return Stats{}, fmt.Errorf("reading stats: %w", err)
	}
	return st, nil
}

// GetContext is the composite query a fresh session uses to orient
// itself: active projects, recent history, open reminders/decisions/bugs,
// and headline stats.
func (s *Store) GetContext() (Context, error) {
	projects, err := s.ActiveProjects()
	if err != nil {
		return Context{}, err
	}
	sessions, err := s.RecentSessions(5)
	if err != nil {
		return Context{}, err
	}
	notes, err := s.RecentNotes(10, "", "")
	if err != nil {
		return Context{}, err
	}
	reminders, err := s.RecentNotes(20, "", "reminder")
	if err != nil {
		return Context{}, err
	}
	decisions, err := s.RecentNotes(10, "", "decision")
	if err != nil {
		return Context{}, err
	}
	bugs, err := s.RecentNotes(20, "", "bug")
	if err != nil {
		return Context{}, err
	}
	files, err := s.ListFiles("", "", 10)
	if err != nil {
		return Context{}, err
	}
	stats, err := s.Stats()
	if err != nil {
		return Context{}, err
	}

	return Context{
		ActiveProjects:   projects,
		RecentSessions:   sessions,
		RecentNotes:      notes,
		PendingReminders: reminders,
		RecentDecisions:  decisions,
		OpenBugs:         bugs,
		RecentFiles:      files,
		Stats:            stats,
	}, nil
}
