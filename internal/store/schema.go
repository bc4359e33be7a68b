package store

// schemaSQL creates the eight knowledge tables if they don't already
// exist. Applied once at Open and safe to re-run on every startup.
//
// session_id columns carry no FOREIGN KEY clause on purpose: the link is
// advisory, so a session id that doesn't exist (or never did) must never
// block an insert.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS sessions (
	id TEXT PRIMARY KEY,
	ai_platform TEXT DEFAULT '',
	hostname TEXT DEFAULT '',
	os_info TEXT DEFAULT '',
	started_at TEXT NOT NULL DEFAULT (datetime('now')),
	ended_at TEXT,
	summary TEXT DEFAULT '',
	projects TEXT DEFAULT ''
);

CREATE TABLE IF NOT EXISTS notes (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	content TEXT NOT NULL,
	tags TEXT DEFAULT '',
	project TEXT DEFAULT '',
	note_type TEXT DEFAULT 'note',
	source TEXT DEFAULT 'ble',
	session_id TEXT,
	created_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS activities (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	program TEXT NOT NULL,
	details TEXT DEFAULT '',
	file_path TEXT DEFAULT '',
	project TEXT DEFAULT '',
	session_id TEXT,
	duration_min INTEGER DEFAULT 0,
	created_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS searches (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	query TEXT NOT NULL,
	source TEXT DEFAULT '',
	url TEXT DEFAULT '',
	project TEXT DEFAULT '',
	session_id TEXT,
	created_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS projects (
	tag TEXT PRIMARY KEY,
	name TEXT DEFAULT '',
	status TEXT DEFAULT 'active',
	priority INTEGER DEFAULT 3,
	description TEXT DEFAULT '',
	collaborators TEXT DEFAULT '',
	last_touched TEXT DEFAULT (datetime('now')),
	created_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS computers (
	hostname TEXT PRIMARY KEY,
	os TEXT DEFAULT '',
	cpu TEXT DEFAULT '',
	gpu TEXT DEFAULT '',
	ram_gb REAL DEFAULT 0,
	first_seen TEXT NOT NULL DEFAULT (datetime('now')),
	last_seen TEXT DEFAULT (datetime('now')),
	notes TEXT DEFAULT ''
);

CREATE TABLE IF NOT EXISTS people (
	id TEXT PRIMARY KEY,
	name TEXT DEFAULT '',
	role TEXT DEFAULT '',
	email TEXT DEFAULT '',
	projects TEXT DEFAULT '',
	notes TEXT DEFAULT '',
	created_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS files (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	filename TEXT NOT NULL,
	category TEXT DEFAULT 'uploads',
	description TEXT DEFAULT '',
	tags TEXT DEFAULT '',
	project TEXT DEFAULT '',
	mime_type TEXT DEFAULT '',
	size_bytes INTEGER DEFAULT 0,
	source TEXT DEFAULT 'upload',
	session_id TEXT,
	created_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_notes_project ON notes(project);
CREATE INDEX IF NOT EXISTS idx_notes_created ON notes(created_at);
CREATE INDEX IF NOT EXISTS idx_notes_session ON notes(session_id);
CREATE INDEX IF NOT EXISTS idx_notes_type ON notes(note_type);
CREATE INDEX IF NOT EXISTS idx_activities_project ON activities(project);
CREATE INDEX IF NOT EXISTS idx_activities_created ON activities(created_at);
CREATE INDEX IF NOT EXISTS idx_searches_project ON searches(project);
CREATE INDEX IF NOT EXISTS idx_sessions_active ON sessions(ended_at);
CREATE INDEX IF NOT EXISTS idx_files_project ON files(project);
CREATE INDEX IF NOT EXISTS idx_files_category ON files(category);
CREATE INDEX IF NOT EXISTS idx_files_created ON files(created_at);
`

// queryableTables whitelists the tables the ad-hoc query() command may
// touch. Anything else is rejected before a query is ever built.
var queryableTables = map[string]bool{
	"notes":      true,
	"activities": true,
	"searches":   true,
	"sessions":   true,
	"projects":   true,
	"computers":  true,
	"people":     true,
	"files":      true,
}
