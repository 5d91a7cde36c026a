// ABOUTME: Core SQLite store for the packkit dev platform server.
// ABOUTME: Handles database initialization, migrations, and connection management.

package store

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/mattn/go-sqlite3"
)

// Migration version constants
const (
	MigrationV1 = 1 // Initial schema: packs, categories, versions, source files, numbers
	MigrationV2 = 2 // Request logs table and query indexes
)

// CurrentSchemaVersion is the target version for the database schema
const CurrentSchemaVersion = MigrationV2

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Verify connection works
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Configure connection pooling
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(0) // Connections don't expire

	// Enable foreign keys and WAL mode
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, err
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sql.DB {
	return s.db
}

// migrate runs all pending migrations
func (s *Store) migrate() error {
	if err := s.createMigrationsTable(); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	currentVersion, err := s.getCurrentMigrationVersion()
	if err != nil {
		return fmt.Errorf("failed to get current migration version: %w", err)
	}

	log.Printf("Database schema version: %d, target version: %d", currentVersion, CurrentSchemaVersion)

	if currentVersion < MigrationV1 {
		if err := s.migrateV1(); err != nil {
			return fmt.Errorf("migration v1 failed: %w", err)
		}
	}

	if currentVersion < MigrationV2 {
		if err := s.migrateV2(); err != nil {
			return fmt.Errorf("migration v2 failed: %w", err)
		}
	}

	return nil
}

// createMigrationsTable creates the schema_migrations tracking table
func (s *Store) createMigrationsTable() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			description TEXT
		)
	`)
	return err
}

// getCurrentMigrationVersion retrieves the current schema version
func (s *Store) getCurrentMigrationVersion() (int, error) {
	var version int
	err := s.db.QueryRow(`
		SELECT COALESCE(MAX(version), 0) FROM schema_migrations
	`).Scan(&version)
	if err != nil {
		return 0, err
	}
	return version, nil
}

// recordMigration records a completed migration
func (s *Store) recordMigration(version int, description string) error {
	_, err := s.db.Exec(`
		INSERT INTO schema_migrations (version, description)
		VALUES (?, ?)
	`, version, description)
	return err
}

// migrateV1 creates the pack catalog and number directory tables
func (s *Store) migrateV1() error {
	schema := `
	CREATE TABLE IF NOT EXISTS packs (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		short_description TEXT DEFAULT '',
		description TEXT DEFAULT '',
		version TEXT DEFAULT '1.0.0',
		maker_name TEXT DEFAULT '',
		published INTEGER DEFAULT 0,
		archived INTEGER DEFAULT 0,
		workspace INTEGER DEFAULT 0,
		install_count INTEGER DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS pack_categories (
		pack_id TEXT NOT NULL REFERENCES packs(id) ON DELETE CASCADE,
		category TEXT NOT NULL,
		PRIMARY KEY (pack_id, category)
	);

	CREATE TABLE IF NOT EXISTS pack_versions (
		pack_id TEXT NOT NULL REFERENCES packs(id) ON DELETE CASCADE,
		pack_version TEXT NOT NULL,
		release_date TEXT NOT NULL,
		notes TEXT DEFAULT '',
		PRIMARY KEY (pack_id, pack_version)
	);

	CREATE TABLE IF NOT EXISTS pack_source_files (
		pack_id TEXT NOT NULL REFERENCES packs(id) ON DELETE CASCADE,
		filename TEXT NOT NULL,
		size INTEGER DEFAULT 0,
		PRIMARY KEY (pack_id, filename)
	);

	CREATE TABLE IF NOT EXISTS phone_numbers (
		id TEXT PRIMARY KEY,
		number TEXT NOT NULL,
		label TEXT DEFAULT '',
		verified INTEGER DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_packs_name ON packs(name);
	CREATE INDEX IF NOT EXISTS idx_packs_published ON packs(published, archived);
	CREATE INDEX IF NOT EXISTS idx_phone_numbers_verified ON phone_numbers(verified);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	if err := s.recordMigration(MigrationV1, "Create pack catalog and number directory tables"); err != nil {
		return err
	}

	log.Printf("Applied migration v%d: Create pack catalog and number directory tables", MigrationV1)
	return nil
}

// migrateV2 creates the request_logs table and its query indexes
func (s *Store) migrateV2() error {
	schema := `
	CREATE TABLE IF NOT EXISTS request_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		component TEXT DEFAULT '',
		method TEXT NOT NULL,
		path TEXT NOT NULL,
		status_code INTEGER,
		duration_ms INTEGER,
		user_id TEXT,
		ip_address TEXT,
		user_agent TEXT,
		request_body TEXT,
		response_body TEXT,
		error TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_request_logs_timestamp ON request_logs(timestamp DESC);
	CREATE INDEX IF NOT EXISTS idx_request_logs_path ON request_logs(path);
	CREATE INDEX IF NOT EXISTS idx_request_logs_component ON request_logs(component, timestamp DESC);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	if err := s.recordMigration(MigrationV2, "Create request_logs table and indexes"); err != nil {
		return err
	}

	log.Printf("Applied migration v%d: Create request_logs table and indexes", MigrationV2)
	return nil
}
