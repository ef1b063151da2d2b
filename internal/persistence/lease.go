package persistence

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SimLease names the lease a process holds while it owns the saved
// website. Only the holder may load, mutate and save it.
const SimLease = "simulation"

// Lease is a time-limited claim on a named resource. Port is the holder's
// API port, or 0 when it serves none.
type Lease struct {
	Name    string `db:"name"`
	Holder  string `db:"holder"`
	Port    int    `db:"port"`
	Expires int64  `db:"expires"` // unix seconds
}

// Live reports whether the lease is still in force at now.
func (l Lease) Live(now time.Time) bool {
	return l.Expires > now.Unix()
}

// AcquireLease claims name for holder until ttl from now. A holder may
// renew its own lease at any time; another holder's lease blocks the claim
// until it expires. Returns the lease in force afterwards and whether
// holder owns it.
func (db *DB) AcquireLease(name, holder string, port int, ttl time.Duration) (Lease, bool, error) {
	now := time.Now()
	res, err := db.conn.Exec(`
		INSERT INTO leases (name, holder, port, expires) VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			holder = excluded.holder, port = excluded.port, expires = excluded.expires
		WHERE leases.holder = excluded.holder OR leases.expires <= ?`,
		name, holder, port, now.Add(ttl).Unix(), now.Unix(),
	)
	if err != nil {
		return Lease{}, false, fmt.Errorf("acquire lease %s: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Lease{}, false, err
	}

	l, err := db.GetLease(name)
	if err != nil {
		return Lease{}, false, err
	}
	return l, n > 0 && l.Holder == holder, nil
}

// GetLease returns the current lease on name, live or not.
func (db *DB) GetLease(name string) (Lease, error) {
	var l Lease
	err := db.conn.Get(&l, "SELECT name, holder, port, expires FROM leases WHERE name = ?", name)
	if errors.Is(err, sql.ErrNoRows) {
		return Lease{Name: name}, nil
	}
	return l, err
}

// ReleaseLease drops holder's lease on name. Releasing a lease held by
// someone else does nothing.
func (db *DB) ReleaseLease(name, holder string) error {
	_, err := db.conn.Exec("DELETE FROM leases WHERE name = ? AND holder = ?", name, holder)
	return err
}
