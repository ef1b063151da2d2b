package persistence

import (
	"fmt"

	"github.com/josephrcox/web-pioneer/internal/engine"
)

// DayStats is the long-term record of one closed day. The website keeps
// only a short rolling window in memory; this table keeps everything.
type DayStats struct {
	WebsiteID     string  `db:"website_id" json:"-"`
	Day           int     `db:"day" json:"day"`
	Users         int     `db:"users" json:"users"`
	Added         int     `db:"added" json:"added"`
	Removed       int     `db:"removed" json:"removed"`
	Capacity      int     `db:"capacity" json:"capacity"`
	Retention     float64 `db:"retention" json:"retention"`
	Money         float64 `db:"money" json:"money"`
	Gained        float64 `db:"gained" json:"gained"`
	Spent         float64 `db:"spent" json:"spent"`
	InvestorsPaid float64 `db:"investors_paid" json:"investors_paid"`
}

// StatsFromReport builds the stats row for a closed day.
func StatsFromReport(websiteID string, r engine.DayReport) DayStats {
	return DayStats{
		WebsiteID:     websiteID,
		Day:           r.Users.Day,
		Users:         r.EndUsers,
		Added:         r.Users.Added,
		Removed:       r.Users.Removed,
		Capacity:      r.Capacity,
		Retention:     r.Retention,
		Money:         r.Money,
		Gained:        r.Profit.Gained,
		Spent:         r.Profit.Spent,
		InvestorsPaid: r.Profit.InvestorsPaid,
	}
}

// SaveDayStats upserts one day's stats row.
func (db *DB) SaveDayStats(s DayStats) error {
	_, err := db.conn.NamedExec(`
		INSERT OR REPLACE INTO daily_stats
			(website_id, day, users, added, removed, capacity, retention, money, gained, spent, investors_paid)
		VALUES
			(:website_id, :day, :users, :added, :removed, :capacity, :retention, :money, :gained, :spent, :investors_paid)`,
		s,
	)
	if err != nil {
		return fmt.Errorf("save stats for day %d: %w", s.Day, err)
	}
	return nil
}

// RecentStats returns up to limit of a website's latest days, oldest first.
func (db *DB) RecentStats(websiteID string, limit int) ([]DayStats, error) {
	var rows []DayStats
	err := db.conn.Select(&rows, `
		SELECT * FROM (
			SELECT * FROM daily_stats WHERE website_id = ? ORDER BY day DESC LIMIT ?
		) ORDER BY day ASC`,
		websiteID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("recent stats: %w", err)
	}
	return rows, nil
}
