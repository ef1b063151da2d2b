// Simulation ties together the website systems and runs them each tick.
package engine

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/dustin/go-humanize"

	"github.com/josephrcox/web-pioneer/internal/catalog"
	"github.com/josephrcox/web-pioneer/internal/entropy"
	"github.com/josephrcox/web-pioneer/internal/hiring"
	"github.com/josephrcox/web-pioneer/internal/site"
)

// GrowthBias is the chance that an hour brings users in rather than losing
// them.
const GrowthBias = 0.8

// maxEvents bounds the in-memory event log.
const maxEvents = 1000

// Simulation is the single owner of one Website. Every mutation, whether a
// tick or a player action, goes through Update; readers use View.
type Simulation struct {
	mu sync.Mutex

	Website *site.Website
	Catalog *catalog.Catalog
	Market  *hiring.Market
	Rand    entropy.Source

	GrowthBias float64
	LastTick   int
	Events     []Event // recent events, oldest first
	LastDay    DayReport
	LastWeek   WeekReport

	pending    []Event     // recorded since the last TakePending
	closedDays []DayReport // closed since the last TakeClosedDays
}

// Event is a notable occurrence at the company.
type Event struct {
	Day         int    `json:"day"`
	Tick        int    `json:"tick"`
	Description string `json:"description"`
	Category    string `json:"category"` // "project", "investment", "staff", "users"
}

// NewSimulation wraps a website with the systems that drive it. A nil
// market disables candidate refreshes.
func NewSimulation(w *site.Website, cat *catalog.Catalog, market *hiring.Market, src entropy.Source) *Simulation {
	w.Normalize()
	s := &Simulation{
		Website:    w,
		Catalog:    cat,
		Market:     market,
		Rand:       src,
		GrowthBias: GrowthBias,
	}
	RecalculateScores(w, cat)
	if len(w.Candidates) == 0 && market != nil {
		w.Candidates = market.Generate(w, src)
	}
	return s
}

// Locker exposes the simulation lock so the tick engine can hold it for
// the duration of each tick.
func (s *Simulation) Locker() sync.Locker { return &s.mu }

// Update runs fn with exclusive access to the simulation.
func (s *Simulation) Update(fn func(s *Simulation)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s)
}

// View runs fn with the simulation locked for reading. fn must not mutate.
func (s *Simulation) View(fn func(s *Simulation)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s)
}

// Wire installs the simulation's tick layers on e and makes e hold the
// simulation lock while ticking.
func (s *Simulation) Wire(e *Engine) {
	e.Guard = s.Locker()
	e.OnHour = s.TickHour
	e.OnDay = s.TickDay
	e.OnWeek = s.TickWeek
}

func (s *Simulation) record(category, format string, args ...any) {
	s.Events = append(s.Events, Event{
		Day:         s.Website.Day,
		Tick:        s.LastTick,
		Description: fmt.Sprintf(format, args...),
		Category:    category,
	})
	s.pending = append(s.pending, s.Events[len(s.Events)-1])
	if len(s.Events) > maxEvents {
		s.Events = s.Events[len(s.Events)-maxEvents:]
	}
}

// Record adds an event to the log.
func (s *Simulation) Record(category, description string) {
	s.record(category, "%s", description)
}

// TakePending returns events recorded since the previous call.
func (s *Simulation) TakePending() []Event {
	out := s.pending
	s.pending = nil
	return out
}

// TakeClosedDays returns the reports of days closed since the previous
// call, oldest first.
func (s *Simulation) TakeClosedDays() []DayReport {
	out := s.closedDays
	s.closedDays = nil
	return out
}

// Requeue puts back events and day reports a failed save took, ahead of
// anything recorded since.
func (s *Simulation) Requeue(events []Event, days []DayReport) {
	if len(events) > 0 {
		s.pending = append(slices.Clip(events), s.pending...)
	}
	if len(days) > 0 {
		s.closedDays = append(slices.Clip(days), s.closedDays...)
	}
}

// TickHour runs every tick: work, growth, scoring, then money. Growth
// sees the scores from before this tick's ships.
// The caller must hold the simulation lock.
func (s *Simulation) TickHour(tick int) {
	s.LastTick = tick
	w := s.Website

	for _, name := range advanceAll(w, s.Rand) {
		s.record("project", "%s shipped", name)
	}
	growthStep(w, s.Catalog, s.Rand, s.GrowthBias)
	RecalculateScores(w, s.Catalog)
	UpdateMoney(w, s.Catalog)
}

// TickDay closes the day and returns the new day number.
// The caller must hold the simulation lock.
func (s *Simulation) TickDay(tick int) int {
	s.LastTick = tick
	w := s.Website
	r := DailyRollup(w, s.Catalog)
	s.LastDay = r
	s.closedDays = append(s.closedDays, r)

	if r.ExpiredOffers > 0 {
		s.record("investment", "%d investment offer(s) expired", r.ExpiredOffers)
	}

	slog.Info("daily report",
		"day", r.Users.Day,
		"time", SimTime(w.Day, tick),
		"users", humanize.Comma(int64(w.Users)),
		"capacity", humanize.Comma(int64(r.Capacity)),
		"added", r.Users.Added,
		"removed", r.Users.Removed,
		"retention", fmt.Sprintf("%.3f", r.Retention),
		"money", "$"+humanize.CommafWithDigits(w.Money, 2),
		"net", "$"+humanize.CommafWithDigits(r.Profit.Net(), 2),
		"employees", len(w.Employees),
		"score", fmt.Sprintf("%.1f", w.Scores.Total()),
	)
	return w.Day
}

// TickWeek runs the weekly rollup and investment round.
// The caller must hold the simulation lock.
func (s *Simulation) TickWeek(day int) {
	r := WeeklyRollup(s.Website, s.Market, s.Rand)
	s.LastWeek = r

	if r.Offer != nil {
		s.record("investment", "%s offers %s for %.0f%%",
			r.Offer.Firm, "$"+humanize.Comma(int64(r.Offer.Valuation*r.Offer.Percent/100)), r.Offer.Percent)
		slog.Info("investment offer",
			"firm", r.Offer.Firm,
			"percent", r.Offer.Percent,
			"valuation", "$"+humanize.Comma(int64(r.Offer.Valuation)),
			"expires", r.Offer.Expires,
		)
	}

	slog.Info("weekly summary",
		"day", day,
		"revenue", "$"+humanize.CommafWithDigits(r.Totals.Revenue, 2),
		"costs", "$"+humanize.CommafWithDigits(r.Totals.Costs, 2),
		"investors_paid", "$"+humanize.CommafWithDigits(r.Totals.InvestorsPaid, 2),
		"candidates", r.Candidates,
		"events", len(s.Events),
	)
}

// RecentEvents returns up to limit of the newest events, newest last.
func (s *Simulation) RecentEvents(limit int) []Event {
	start := 0
	if limit > 0 && len(s.Events) > limit {
		start = len(s.Events) - limit
	}
	return append([]Event(nil), s.Events[start:]...)
}
