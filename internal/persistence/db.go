// Package persistence provides SQLite-based website state storage.
package persistence

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/josephrcox/web-pioneer/internal/engine"
	"github.com/josephrcox/web-pioneer/internal/site"
)

// ErrNoWebsite is returned by LoadWebsite when nothing has been saved yet.
var ErrNoWebsite = errors.New("no saved website")

// Meta keys.
const (
	MetaTick   = "tick"
	MetaPaused = "paused"
	MetaSeed   = "seed"
)

// DB wraps a SQLite connection for website persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path. ":memory:"
// gives a private in-memory database.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// One writer; also keeps an in-memory database on a single connection.
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS websites (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		version INTEGER NOT NULL,
		state_json TEXT NOT NULL,
		day INTEGER NOT NULL DEFAULT 0,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS daily_stats (
		website_id TEXT NOT NULL,
		day INTEGER NOT NULL,
		users INTEGER NOT NULL,
		added INTEGER NOT NULL,
		removed INTEGER NOT NULL,
		capacity INTEGER NOT NULL,
		retention REAL NOT NULL,
		money REAL NOT NULL,
		gained REAL NOT NULL,
		spent REAL NOT NULL,
		investors_paid REAL NOT NULL,
		PRIMARY KEY (website_id, day)
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		website_id TEXT NOT NULL,
		day INTEGER NOT NULL,
		tick INTEGER NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS world_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS leases (
		name TEXT PRIMARY KEY,
		holder TEXT NOT NULL,
		port INTEGER NOT NULL DEFAULT 0,
		expires INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_website ON events(website_id, id);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveWebsite upserts the website's full state.
func (db *DB) SaveWebsite(w *site.Website) error {
	state, err := site.Encode(w)
	if err != nil {
		return fmt.Errorf("encode website: %w", err)
	}
	_, err = db.conn.Exec(`
		INSERT INTO websites (id, name, version, state_json, day, updated_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			version = excluded.version,
			state_json = excluded.state_json,
			day = excluded.day,
			updated_at = excluded.updated_at`,
		w.ID, w.Name, w.Version, string(state), w.Day,
	)
	if err != nil {
		return fmt.Errorf("save website %s: %w", w.ID, err)
	}
	return nil
}

// LoadWebsite returns the most recently saved website, upgraded to the
// current state layout. ErrNoWebsite when the store is empty.
func (db *DB) LoadWebsite() (*site.Website, error) {
	var state string
	err := db.conn.Get(&state, "SELECT state_json FROM websites ORDER BY updated_at DESC, rowid DESC LIMIT 1")
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoWebsite
	}
	if err != nil {
		return nil, fmt.Errorf("load website: %w", err)
	}
	w, err := site.Decode([]byte(state))
	if err != nil {
		return nil, fmt.Errorf("load website: %w", err)
	}
	return w, nil
}

// HasWebsite reports whether any website has been saved.
func (db *DB) HasWebsite() (bool, error) {
	var n int
	if err := db.conn.Get(&n, "SELECT COUNT(*) FROM websites"); err != nil {
		return false, fmt.Errorf("count websites: %w", err)
	}
	return n > 0, nil
}

// SaveMeta stores a key-value pair in metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO world_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM world_meta WHERE key = ?", key)
	return value, err
}

// GetMetaInt retrieves an integer metadata value, or def when the key is
// missing.
func (db *DB) GetMetaInt(key string, def int64) (int64, error) {
	v, err := db.GetMeta(key)
	if errors.Is(err, sql.ErrNoRows) {
		return def, nil
	}
	if err != nil {
		return def, err
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def, fmt.Errorf("meta %s: %w", key, err)
	}
	return n, nil
}

// SaveEvents appends events for a website.
func (db *DB) SaveEvents(websiteID string, events []engine.Event) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex(`INSERT INTO events (website_id, day, tick, description, category) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range events {
		if _, err := stmt.Exec(websiteID, e.Day, e.Tick, e.Description, e.Category); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// RecentEvents returns the most recent N events of a website, newest first.
func (db *DB) RecentEvents(websiteID string, limit int) ([]engine.Event, error) {
	var events []engine.Event
	err := db.conn.Select(&events,
		"SELECT day, tick, description, category FROM events WHERE website_id = ? ORDER BY id DESC LIMIT ?",
		websiteID, limit,
	)
	return events, err
}

// SaveWorldState performs a full save: website state, the tick counter,
// the pause flag and any events not yet persisted. Events are written last,
// so an error means none of them were stored. The caller must hold the
// simulation lock.
func (db *DB) SaveWorldState(sim *engine.Simulation, tick int, paused bool, newEvents []engine.Event) error {
	w := sim.Website
	slog.Debug("saving website state", "website", w.Name, "day", w.Day, "tick", tick)

	if err := db.SaveWebsite(w); err != nil {
		return err
	}
	if err := db.SaveMeta(MetaTick, strconv.Itoa(tick)); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}
	if err := db.SaveMeta(MetaPaused, strconv.FormatBool(paused)); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}
	if err := db.SaveEvents(w.ID, newEvents); err != nil {
		return fmt.Errorf("save events: %w", err)
	}
	return nil
}

// Checkpoint saves closed days and then the world state. Whatever was not
// stored goes back on the simulation's queues for the next attempt. The
// caller must hold the simulation lock.
func (db *DB) Checkpoint(sim *engine.Simulation, tick int, paused bool) error {
	days := sim.TakeClosedDays()
	for i, r := range days {
		if err := db.SaveDayStats(StatsFromReport(sim.Website.ID, r)); err != nil {
			sim.Requeue(nil, days[i:])
			return err
		}
	}

	events := sim.TakePending()
	if err := db.SaveWorldState(sim, tick, paused, events); err != nil {
		sim.Requeue(events, nil)
		return err
	}
	return nil
}
