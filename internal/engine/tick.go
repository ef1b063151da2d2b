// Package engine provides the tick-based website simulation: the scheduler
// and the state transitions it drives (work, scoring, growth, economy,
// investment).
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/josephrcox/web-pioneer/internal/site"
)

// DefaultInterval is one in-game hour of wall-clock time.
const DefaultInterval = time.Second

// Engine drives the simulation forward one in-game hour at a time.
type Engine struct {
	Tick     int           // hour of the current day, [0, TicksPerDay)
	Interval time.Duration // wall-clock time per tick

	// Guard, when set, is held for the whole of each tick so ticks never
	// interleave with player actions or readers.
	Guard sync.Locker

	// Callbacks for each tick layer, populated during setup.
	OnHour func(tick int)     // every tick
	OnDay  func(tick int) int // when the hour wraps to 0; returns the new day
	OnWeek func(day int)      // when the new day is a multiple of DaysPerWeek
	OnStep func(tick int)     // after each completed tick, outside Guard

	paused  atomic.Bool
	running atomic.Bool
}

// NewEngine creates an engine with the default interval.
func NewEngine() *Engine {
	return &Engine{Interval: DefaultInterval}
}

// Pause stops ticks from having any effect until Resume.
func (e *Engine) Pause() { e.paused.Store(true) }

// Resume undoes Pause.
func (e *Engine) Resume() { e.paused.Store(false) }

// SetPaused sets the pause flag.
func (e *Engine) SetPaused(p bool) { e.paused.Store(p) }

// Paused reports the pause flag.
func (e *Engine) Paused() bool { return e.paused.Load() }

// Running reports whether Run is looping.
func (e *Engine) Running() bool { return e.running.Load() }

// Step advances the simulation by one tick. The pause flag is read once;
// a paused step does nothing and reports false.
func (e *Engine) Step() bool {
	if e.paused.Load() {
		return false
	}

	if e.Guard != nil {
		e.Guard.Lock()
	}
	tick := e.advance()
	if e.Guard != nil {
		e.Guard.Unlock()
	}

	if e.OnStep != nil {
		e.OnStep(tick)
	}
	return true
}

// advance runs hourly work, then the day and week layers when the hour
// wraps. The week check uses the day number after the increment.
func (e *Engine) advance() int {
	e.Tick = (e.Tick + 1) % site.TicksPerDay

	if e.OnHour != nil {
		e.OnHour(e.Tick)
	}
	if e.Tick != 0 || e.OnDay == nil {
		return e.Tick
	}
	day := e.OnDay(e.Tick)
	if day%site.DaysPerWeek == 0 && e.OnWeek != nil {
		e.OnWeek(day)
	}
	return e.Tick
}

// Run steps the engine every Interval until ctx is cancelled. Ticks run on
// this goroutine only, so they never overlap.
func (e *Engine) Run(ctx context.Context) error {
	interval := e.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	e.running.Store(true)
	defer e.running.Store(false)
	slog.Info("simulation engine started", "tick", e.Tick, "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("simulation engine stopped", "tick", e.Tick)
			return ctx.Err()
		case <-ticker.C:
			e.Step()
		}
	}
}

// SimTime formats a day and hour tick as a game clock, starting at 9am.
func SimTime(day, tick int) string {
	week := day/site.DaysPerWeek + 1
	weekday := [site.DaysPerWeek]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}[day%site.DaysPerWeek]
	return fmt.Sprintf("Week %d %s %02d:00", week, weekday, 9+tick)
}
