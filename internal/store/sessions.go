package store

import (
	"fmt"

	"github.com/google/uuid"
)

// StartSession opens a new session, returning its generated UUIDv4 id.
// If hostname is set, it also upserts the computers table so the
// computer's last_seen timestamp advances.
func (s *Store) StartSession(aiPlatform, hostname, osInfo string) (string, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	id := uuid.NewString()
	if _, err := s.db.Exec(
		`INSERT INTO sessions (id, ai_platform, hostname, os_info) VALUES (?, ?, ?, ?)`,
		id, aiPlatform, hostname, osInfo,
	); err != nil {
		return "", fmt.Errorf("starting session: %w", err)
	}

	if hostname != "" {
		if _, err := s.db.Exec(
			`INSERT INTO computers (hostname, os) VALUES (?, ?)
			 ON CONFLICT(hostname) DO UPDATE SET os=excluded.os, last_seen=datetime('now')`,
			hostname, osInfo,
		); err != nil {
			return "", fmt.Errorf("registering computer for session: %w", err)
		}
	}

	return id, nil
}

// EndSession closes an open session. Returns false if the session doesn't
// exist or has already ended.
func (s *Store) EndSession(id, summary, projects string) (bool, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	res, err := s.db.Exec(
		`UPDATE sessions SET ended_at=datetime('now'), summary=?, projects=?
		 WHERE id=? AND ended_at IS NULL`,
		summary, projects, id,
	)
	if err != nil {
		return false, fmt.Errorf("ending session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking session end result: %w", err)
	}
	return n > 0, nil
}

// RecentSessions returns the most recently started sessions.
func (s *Store) RecentSessions(limit int) ([]Session, error) {
	rows, err := s.db.Query(
		`SELECT id, ai_platform, hostname, os_info, started_at, IFNULL(ended_at,''), summary, projects
		 FROM sessions ORDER BY started_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		var sess Session
		if err := rows.Scan(&sess.ID, &sess.AIPlatform, &sess.Hostname, &sess.OSInfo,
			&sess.StartedAt, &sess.EndedAt, &sess.Summary, &sess.Projects); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		out = append(out, sess)
	}
	return out, rows.Err()
}
