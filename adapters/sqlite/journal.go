// Package sqlite provides the SQLite lifecycle journal.
//
// The journal is append-only audit data. It is never read back to restore
// orchestrator state.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/modrig/modrig/ports"
)

// Journal persists lifecycle events to a SQLite database.
type Journal struct {
	db   *sql.DB
	owns bool
}

// NewJournal opens (or creates) the journal database at path.
func NewJournal(path string) (*Journal, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set pragma: %w", err)
		}
	}

	j := &Journal{db: db, owns: true}
	if err := j.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return j, nil
}

// NewJournalFromDB wraps an existing connection. The caller keeps ownership
// of the connection; Close does not close it.
func NewJournalFromDB(db *sql.DB) (*Journal, error) {
	j := &Journal{db: db}
	if err := j.migrate(); err != nil {
		return nil, err
	}
	return j, nil
}

func (j *Journal) migrate() error {
	const schema = `
CREATE TABLE IF NOT EXISTS lifecycle_events (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	at        TIMESTAMP NOT NULL,
	cycle     TEXT NOT NULL DEFAULT '',
	kind      TEXT NOT NULL,
	module    TEXT NOT NULL DEFAULT '',
	category  TEXT NOT NULL DEFAULT '',
	detail    TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_lifecycle_events_cycle ON lifecycle_events(cycle);
CREATE INDEX IF NOT EXISTS idx_lifecycle_events_kind ON lifecycle_events(kind);
`
	if _, err := j.db.Exec(schema); err != nil {
		return fmt.Errorf("migrate journal: %w", err)
	}
	return nil
}

// Record appends one lifecycle event.
func (j *Journal) Record(ctx context.Context, e ports.Event) error {
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO lifecycle_events (at, cycle, kind, module, category, detail)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.Time, e.Cycle, e.Kind, e.Module, e.Category, e.Detail,
	)
	if err != nil {
		return fmt.Errorf("record event: %w", err)
	}
	return nil
}

// Close closes the underlying database if the journal opened it.
func (j *Journal) Close() error {
	if !j.owns {
		return nil
	}
	return j.db.Close()
}

// CountByKind returns the number of stored events of one kind. Used by the
// journal's own tests and the debug endpoint.
func (j *Journal) CountByKind(ctx context.Context, kind string) (int, error) {
	var n int
	err := j.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM lifecycle_events WHERE kind = ?`, kind,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return n, nil
}
