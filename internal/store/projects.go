package store

import "fmt"

// UpsertProject creates or updates a project by tag.
func (s *Store) UpsertProject(p Project) (string, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if p.Status == "" {
		p.Status = "active"
	}
	if p.Priority == 0 {
		p.Priority = 3
	}

	_, err := s.db.Exec(
		`INSERT INTO projects (tag, name, status, priority, description, collaborators)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(tag) DO UPDATE SET
			name=excluded.name, status=excluded.status, priority=excluded.priority,
			description=excluded.description, collaborators=excluded.collaborators,
			last_touched=datetime('now')`,
		p.Tag, p.Name, p.Status, p.Priority, p.Description, p.Collaborators,
	)
	if err != nil {
		return "", fmt.Errorf("upserting project: %w", err)
	}
	return p.Tag, nil
}

// ActiveProjects returns every project whose status is "active", newest
// touched first.
func (s *Store) ActiveProjects() ([]Project, error) {
	rows, err := s.db.Query(
		`SELECT tag, name, status, priority, description, collaborators, last_touched, created_at
		 FROM projects WHERE status='active' ORDER BY last_touched DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying active projects: %w", err)
	}
	defer rows.Close()

	var out []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.Tag, &p.Name, &p.Status, &p.Priority, &p.Description,
			&p.Collaborators, &p.LastTouched, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning project: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
