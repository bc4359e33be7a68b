package store

import "fmt"

// UpsertPerson creates or updates a person record by id.
func (s *Store) UpsertPerson(p Person) (string, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO people (id, name, role, email, projects, notes)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			name=excluded.name, role=excluded.role, email=excluded.email,
			projects=excluded.projects, notes=excluded.notes`,
		p.ID, p.Name, p.Role, p.Email, p.Projects, p.Notes,
	)
	if err != nil {
		return "", fmt.Errorf("upserting person: %w", err)
	}
	return p.ID, nil
}
