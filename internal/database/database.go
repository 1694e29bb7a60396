// Package database archives generated layouts in SQLite or PostgreSQL.
package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/lawnchairsociety/dungeongen/internal/logger"
)

// Database wraps the connection and its dialect.
type Database struct {
	db      *sql.DB
	dialect Dialect
	qb      *QueryBuilder
}

// Open connects to the backend selected by cfg.Driver and creates the schema.
func Open(cfg Config) (*Database, error) {
	dialect := NewDialect(DialectType(cfg.Driver))

	var dsn string
	switch dialect.(type) {
	case *PostgresDialect:
		dsn = cfg.Postgres.DSN()
	default:
		if cfg.SQLitePath == "" {
			return nil, fmt.Errorf("sqlite path is empty")
		}
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn = cfg.SQLitePath
	}

	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, ok := dialect.(*PostgresDialect); ok {
		db.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.Postgres.ConnMaxLifetime)
	} else {
		// SQLite allows one writer at a time.
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	for _, stmt := range dialect.InitStatements() {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run %q: %w", stmt, err)
		}
	}

	d := &Database{db: db, dialect: dialect, qb: NewQueryBuilder(dialect)}

	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("Layout archive opened", "driver", dialect.DriverName())
	return d, nil
}

// Close closes the database connection.
func (d *Database) Close() error {
	return d.db.Close()
}

// Dialect returns the dialect in use.
func (d *Database) Dialect() Dialect {
	return d.dialect
}

// migrate creates the database schema if it doesn't exist.
func (d *Database) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS layouts (
			` + d.dialect.PrimaryKeyColumn() + `,
			name ` + d.dialect.CaseInsensitiveText() + ` UNIQUE,
			seed BIGINT NOT NULL,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			requested_rooms INTEGER NOT NULL,
			room_count INTEGER NOT NULL,
			complete INTEGER NOT NULL DEFAULT 0,
			start_index INTEGER NOT NULL,
			boss_index INTEGER NOT NULL,
			config TEXT NOT NULL,
			grid TEXT NOT NULL,
			created_at BIGINT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS layout_rooms (
			layout_id BIGINT NOT NULL REFERENCES layouts(id) ON DELETE CASCADE,
			room_index INTEGER NOT NULL,
			room_type TEXT NOT NULL,
			x INTEGER NOT NULL,
			y INTEGER NOT NULL,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			doors TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (layout_id, room_index)
		)`,

		`CREATE TABLE IF NOT EXISTS layout_corridors (
			layout_id BIGINT NOT NULL REFERENCES layouts(id) ON DELETE CASCADE,
			corridor_index INTEGER NOT NULL,
			from_room INTEGER NOT NULL,
			to_room INTEGER NOT NULL,
			door_a TEXT NOT NULL,
			door_b TEXT NOT NULL,
			path TEXT NOT NULL,
			PRIMARY KEY (layout_id, corridor_index)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_layouts_seed ON layouts(seed)`,
	}

	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}

	return nil
}
