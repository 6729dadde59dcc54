package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// timeLayout has a fixed-width fraction so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Catalog indexes saved runs in SQLite so listing does not have to walk and
// decode every run directory.
type Catalog struct {
	db *sql.DB
}

func OpenCatalog(path string) (*Catalog, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}

	c := &Catalog{db: db}
	if err := c.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate catalog: %w", err)
	}
	return c, nil
}

func (c *Catalog) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		scene TEXT NOT NULL,
		created_at TEXT NOT NULL,
		dt REAL NOT NULL,
		frames INTEGER NOT NULL,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		shapes INTEGER NOT NULL,
		tracked INTEGER NOT NULL,
		rendered INTEGER NOT NULL DEFAULT 0,
		elapsed_ms REAL NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_runs_scene ON runs(scene);
	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
	`
	_, err := c.db.Exec(schema)
	return err
}

func (c *Catalog) Close() error {
	return c.db.Close()
}

// Put inserts or replaces a run row.
func (c *Catalog) Put(ctx context.Context, m RunMetadata) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO runs
			(id, scene, created_at, dt, frames, width, height, shapes, tracked, rendered, elapsed_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, m.ID, m.Scene, m.Timestamp.UTC().Format(timeLayout), m.Dt, m.Frames, m.Width, m.Height,
		m.Shapes, m.Tracked, m.Rendered, m.ElapsedMS)
	if err != nil {
		return fmt.Errorf("failed to index run %s: %w", m.ID, err)
	}
	return nil
}

// List returns runs newest first, optionally filtered by scene name.
func (c *Catalog) List(ctx context.Context, scene string) ([]RunMetadata, error) {
	query := `
		SELECT id, scene, created_at, dt, frames, width, height, shapes, tracked, rendered, elapsed_ms
		FROM runs`
	args := []any{}
	if scene != "" {
		query += ` WHERE scene = ?`
		args = append(args, scene)
	}
	query += ` ORDER BY created_at DESC, id`

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	runs := make([]RunMetadata, 0)
	for rows.Next() {
		var (
			m       RunMetadata
			created string
		)
		if err := rows.Scan(&m.ID, &m.Scene, &created, &m.Dt, &m.Frames, &m.Width, &m.Height,
			&m.Shapes, &m.Tracked, &m.Rendered, &m.ElapsedMS); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if m.Timestamp, err = time.Parse(timeLayout, created); err != nil {
			return nil, fmt.Errorf("failed to parse run time %q: %w", created, err)
		}
		runs = append(runs, m)
	}
	return runs, rows.Err()
}

func (c *Catalog) Delete(ctx context.Context, id string) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	return err
}
