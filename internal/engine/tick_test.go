package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josephrcox/web-pioneer/internal/site"
)

type layerCounter struct {
	hours, days, weeks, steps int
	day                       int
	weekDays                  []int
}

func (c *layerCounter) wire(e *Engine) {
	e.OnHour = func(int) { c.hours++ }
	e.OnDay = func(int) int {
		c.days++
		c.day++
		return c.day
	}
	e.OnWeek = func(day int) {
		c.weeks++
		c.weekDays = append(c.weekDays, day)
	}
	e.OnStep = func(int) { c.steps++ }
}

func TestDayClosesAfterEightTicks(t *testing.T) {
	e := NewEngine()
	var c layerCounter
	c.wire(e)

	for range site.TicksPerDay - 1 {
		require.True(t, e.Step())
	}
	assert.Zero(t, c.days)

	e.Step()
	assert.Equal(t, 1, c.days)
	assert.Equal(t, site.TicksPerDay, c.hours)
	assert.Equal(t, 0, e.Tick)
}

func TestWeekFiresOnNewDayMultipleOfSeven(t *testing.T) {
	e := NewEngine()
	var c layerCounter
	c.wire(e)

	for range 2 * site.TicksPerWeek {
		e.Step()
	}
	assert.Equal(t, 14, c.days)
	assert.Equal(t, []int{7, 14}, c.weekDays)
	assert.Equal(t, 2*site.TicksPerWeek, c.steps)
}

func TestPausedStepDoesNothing(t *testing.T) {
	e := NewEngine()
	var c layerCounter
	c.wire(e)

	e.Pause()
	assert.True(t, e.Paused())
	assert.False(t, e.Step())
	assert.Zero(t, c.hours)
	assert.Zero(t, c.steps)
	assert.Zero(t, e.Tick)

	e.Resume()
	assert.True(t, e.Step())
	assert.Equal(t, 1, e.Tick)
}

func TestStepHoldsGuard(t *testing.T) {
	var mu sync.Mutex
	e := NewEngine()
	e.Guard = &mu
	e.OnHour = func(int) {
		assert.False(t, mu.TryLock(), "guard must be held during the tick")
	}
	e.OnStep = func(int) {
		require.True(t, mu.TryLock(), "guard must be released before OnStep")
		mu.Unlock()
	}
	e.Step()
}

func TestRunStopsOnCancel(t *testing.T) {
	e := NewEngine()
	e.Interval = time.Millisecond
	var mu sync.Mutex
	hours := 0
	e.OnHour = func(int) {
		mu.Lock()
		hours++
		mu.Unlock()
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return hours >= 3
	}, time.Second, time.Millisecond)
	assert.True(t, e.Running())

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.False(t, e.Running())
}

func TestSimTime(t *testing.T) {
	assert.Equal(t, "Week 1 Mon 09:00", SimTime(0, 0))
	assert.Equal(t, "Week 2 Wed 16:00", SimTime(9, 7))
}
