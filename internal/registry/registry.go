// Package registry is a sqlite-backed index of every game directory this
// machine has ever run, its save slots, and their header metadata — a
// relational index kept *alongside* the flat save files internal/save
// writes, not a replacement for them. It lets a front end list "recently
// played" games and save slots without re-walking every game directory
// on disk.
package registry

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	// Registered database/sql drivers a deployment can point the registry
	// at: modernc.org/sqlite is the default (pure Go, no cgo), and
	// mattn/go-sqlite3, lib/pq, go-sql-driver/mysql, and
	// denisenkom/go-mssqldb let a multi-machine install share one
	// registry over a real network database instead of the per-machine
	// sqlite file. Only the blank import is needed; OpenWithDriver picks
	// one by name.
	_ "github.com/denisenkom/go-mssqldb"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"sentra/internal/errs"
)

// driverNames maps a short, deployment-facing driver name to the
// database/sql driver name the corresponding package registers itself
// under.
var driverNames = map[string]string{
	"sqlite":    "sqlite",    // modernc.org/sqlite, pure Go, default
	"sqlite3":   "sqlite3",   // github.com/mattn/go-sqlite3, cgo
	"postgres":  "postgres",  // github.com/lib/pq
	"mysql":     "mysql",     // github.com/go-sql-driver/mysql
	"sqlserver": "sqlserver", // github.com/denisenkom/go-mssqldb
}

// Registry wraps a single sqlite database tracking registered games and
// their save slots.
type Registry struct {
	db *sql.DB
	mu sync.Mutex
}

// GameRecord is one row of the games table.
type GameRecord struct {
	ID        uuid.UUID
	RegName   string
	Root      string
	CreatedAt time.Time
	LastSeen  time.Time
}

// SaveRecord is one row of the saves table.
type SaveRecord struct {
	ID        uuid.UUID
	GameID    uuid.UUID
	Slot      int
	Title     string
	Subtitle  string
	SizeBytes int64
	CreatedAt time.Time
}

const schema = `
CREATE TABLE IF NOT EXISTS games (
	id         TEXT PRIMARY KEY,
	regname    TEXT NOT NULL UNIQUE,
	root       TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL,
	last_seen  TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS saves (
	id         TEXT PRIMARY KEY,
	game_id    TEXT NOT NULL REFERENCES games(id),
	slot       INTEGER NOT NULL,
	title      TEXT NOT NULL,
	subtitle   TEXT NOT NULL,
	size_bytes INTEGER NOT NULL,
	created_at TIMESTAMP NOT NULL,
	UNIQUE(game_id, slot)
);
`

// BaseDir returns the root directory every registered game lives under:
// $HOME/.rlvm. Open uses this to place the registry database itself
// unless an explicit path is given.
func BaseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errs.Wrap(errs.IOError, err, "resolving home directory")
	}
	return filepath.Join(home, ".rlvm"), nil
}

// GameDir returns the per-game directory $HOME/.rlvm/<sanitized REGNAME>
// that internal/save's Manager should be pointed at for this game.
func GameDir(regname string) (string, error) {
	base, err := BaseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, sanitize(regname)), nil
}

// sanitize replaces path separators and other characters unsafe in a
// directory name, since REGNAME is an arbitrary game-supplied string.
func sanitize(regname string) string {
	out := make([]rune, 0, len(regname))
	for _, r := range regname {
		switch {
		case r == '/' || r == '\\' || r == ':' || r == 0:
			out = append(out, '_')
		default:
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return "_"
	}
	return string(out)
}

// Open creates (if needed) and opens the default local sqlite registry
// database at dbPath, applying its schema. Passing "" opens/creates
// $HOME/.rlvm/registry.db. Equivalent to OpenWithDriver("sqlite", dbPath)
// with that default-path resolution.
func Open(dbPath string) (*Registry, error) {
	if dbPath == "" {
		base, err := BaseDir()
		if err != nil {
			return nil, err
		}
		if err := os.MkdirAll(base, 0o755); err != nil {
			return nil, errs.Wrap(errs.IOError, err, "creating registry base directory %s", base)
		}
		dbPath = filepath.Join(base, "registry.db")
	} else if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errs.Wrap(errs.IOError, err, "creating registry directory %s", dir)
		}
	}
	return OpenWithDriver("sqlite", dbPath)
}

// OpenWithDriver opens the registry against an arbitrary database/sql
// driver and DSN, applying its schema. driver is a short name from
// driverNames ("sqlite", "sqlite3", "postgres", "mysql", "sqlserver") —
// this lets a multi-machine deployment share one registry over a real
// network database instead of each machine keeping its own local sqlite
// file. dsn is passed straight through to sql.Open for every driver
// except "sqlite"/"sqlite3", where it is a filesystem path.
func OpenWithDriver(driver, dsn string) (*Registry, error) {
	driverName, ok := driverNames[driver]
	if !ok {
		return nil, errs.New(errs.BadFormat, "unknown registry driver %q", driver)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, errs.Wrap(errs.IOError, err, "opening registry database (%s)", driver)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errs.Wrap(errs.IOError, err, "connecting to registry database (%s)", driver)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errs.Wrap(errs.IOError, err, "applying registry schema")
	}

	return &Registry{db: db}, nil
}

// Close releases the underlying database connection.
func (r *Registry) Close() error { return r.db.Close() }

// RegisterGame inserts regname/root as a new game, or — if regname is
// already registered — updates its root and last-seen timestamp in
// place. Returns the game's stable id either way.
func (r *Registry) RegisterGame(regname, root string) (uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var existing string
	err := r.db.QueryRow(`SELECT id FROM games WHERE regname = ?`, regname).Scan(&existing)
	switch err {
	case nil:
		id, parseErr := uuid.Parse(existing)
		if parseErr != nil {
			return uuid.Nil, errs.Wrap(errs.BadFormat, parseErr, "parsing stored game id for %s", regname)
		}
		if _, err := r.db.Exec(`UPDATE games SET root = ?, last_seen = ? WHERE id = ?`, root, time.Now(), existing); err != nil {
			return uuid.Nil, errs.Wrap(errs.IOError, err, "updating game record for %s", regname)
		}
		return id, nil
	case sql.ErrNoRows:
		id := uuid.New()
		now := time.Now()
		if _, err := r.db.Exec(`INSERT INTO games (id, regname, root, created_at, last_seen) VALUES (?, ?, ?, ?, ?)`,
			id.String(), regname, root, now, now); err != nil {
			return uuid.Nil, errs.Wrap(errs.IOError, err, "registering game %s", regname)
		}
		return id, nil
	default:
		return uuid.Nil, errs.Wrap(errs.IOError, err, "looking up game %s", regname)
	}
}

// RecordSave upserts the (gameID, slot) save-slot index row in one
// transaction. internal/save's Manager does not call it; the registry is
// a derived index, never a source of truth.
func (r *Registry) RecordSave(gameID uuid.UUID, slot int, title, subtitle string, sizeBytes int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return errs.Wrap(errs.IOError, err, "beginning save-record transaction")
	}

	var existing string
	err = tx.QueryRow(`SELECT id FROM saves WHERE game_id = ? AND slot = ?`, gameID.String(), slot).Scan(&existing)
	now := time.Now()
	switch err {
	case nil:
		_, execErr := tx.Exec(`UPDATE saves SET title = ?, subtitle = ?, size_bytes = ?, created_at = ? WHERE id = ?`,
			title, subtitle, sizeBytes, now, existing)
		if execErr != nil {
			tx.Rollback()
			return errs.Wrap(errs.IOError, execErr, "updating save record")
		}
	case sql.ErrNoRows:
		id := uuid.New()
		_, execErr := tx.Exec(`INSERT INTO saves (id, game_id, slot, title, subtitle, size_bytes, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id.String(), gameID.String(), slot, title, subtitle, sizeBytes, now)
		if execErr != nil {
			tx.Rollback()
			return errs.Wrap(errs.IOError, execErr, "inserting save record")
		}
	default:
		tx.Rollback()
		return errs.Wrap(errs.IOError, err, "looking up save record")
	}

	if err := tx.Commit(); err != nil {
		return errs.Wrap(errs.IOError, err, "committing save-record transaction")
	}
	return nil
}

// ListGames returns every registered game, most recently seen first.
func (r *Registry) ListGames() ([]GameRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT id, regname, root, created_at, last_seen FROM games ORDER BY last_seen DESC`)
	if err != nil {
		return nil, errs.Wrap(errs.IOError, err, "listing games")
	}
	defer rows.Close()

	var out []GameRecord
	for rows.Next() {
		var idStr string
		var g GameRecord
		if err := rows.Scan(&idStr, &g.RegName, &g.Root, &g.CreatedAt, &g.LastSeen); err != nil {
			return nil, errs.Wrap(errs.IOError, err, "scanning game row")
		}
		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, errs.Wrap(errs.BadFormat, err, "parsing game id")
		}
		g.ID = id
		out = append(out, g)
	}
	return out, rows.Err()
}

// ListSaves returns every save slot recorded for gameID, ordered by slot.
func (r *Registry) ListSaves(gameID uuid.UUID) ([]SaveRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT id, game_id, slot, title, subtitle, size_bytes, created_at FROM saves WHERE game_id = ? ORDER BY slot ASC`, gameID.String())
	if err != nil {
		return nil, errs.Wrap(errs.IOError, err, "listing saves for %s", gameID)
	}
	defer rows.Close()

	var out []SaveRecord
	for rows.Next() {
		var idStr, gameIDStr string
		var s SaveRecord
		if err := rows.Scan(&idStr, &gameIDStr, &s.Slot, &s.Title, &s.Subtitle, &s.SizeBytes, &s.CreatedAt); err != nil {
			return nil, errs.Wrap(errs.IOError, err, "scanning save row")
		}
		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, errs.Wrap(errs.BadFormat, err, "parsing save id")
		}
		gid, err := uuid.Parse(gameIDStr)
		if err != nil {
			return nil, errs.Wrap(errs.BadFormat, err, "parsing save's game id")
		}
		s.ID, s.GameID = id, gid
		out = append(out, s)
	}
	return out, rows.Err()
}

// Describe renders a one-line, human-friendly summary of a save record:
// its title, formatted size, and relative age, for CLI listing output.
func Describe(s SaveRecord) string {
	return fmt.Sprintf("slot %d: %s (%s, %s ago)", s.Slot, s.Title, humanize.Bytes(uint64(s.SizeBytes)), humanize.Time(s.CreatedAt))
}
