package store

import "fmt"

// RegisterComputer creates or refreshes a computer record by hostname.
func (s *Store) RegisterComputer(c Computer) (string, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO computers (hostname, os, cpu, gpu, ram_gb, notes)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(hostname) DO UPDATE SET
			os=excluded.os, cpu=excluded.cpu, gpu=excluded.gpu,
			ram_gb=excluded.ram_gb, notes=excluded.notes, last_seen=datetime('now')`,
		c.Hostname, c.OS, c.CPU, c.GPU, c.RAMGB, c.Notes,
	)
	if err != nil {
		return "", fmt.Errorf("registering computer: %w", err)
	}
	return c.Hostname, nil
}
