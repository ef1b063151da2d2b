package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/josephrcox/web-pioneer/internal/catalog"
	"github.com/josephrcox/web-pioneer/internal/config"
	"github.com/josephrcox/web-pioneer/internal/engine"
	"github.com/josephrcox/web-pioneer/internal/entropy"
	"github.com/josephrcox/web-pioneer/internal/hiring"
	"github.com/josephrcox/web-pioneer/internal/persistence"
	"github.com/josephrcox/web-pioneer/internal/site"
)

// app is a loaded simulation plus the store it came from. holder is set
// when the app owns the simulation lease and may save.
type app struct {
	db  *persistence.DB
	sim *engine.Simulation
	eng *engine.Engine

	holder string
	port   int
	ttl    time.Duration
}

// Lease lifetimes. A long-running owner renews at a third of its TTL.
const (
	runLeaseTTL    = 30 * time.Second
	actionLeaseTTL = 15 * time.Second
)

// busyError reports that another process owns the website.
type busyError struct {
	lease persistence.Lease
}

func (e *busyError) Error() string {
	if e.lease.Port > 0 {
		return fmt.Sprintf("website is owned by a running simulation (API port %d)", e.lease.Port)
	}
	return "website is busy in another websim process; try again shortly"
}

func openDB(cfg *config.Config) (*persistence.DB, error) {
	if dir := filepath.Dir(cfg.DB.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	db, err := persistence.Open(cfg.DB.Path)
	if err != nil {
		return nil, err
	}
	slog.Debug("database opened", "path", cfg.DB.Path)
	return db, nil
}

func loadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.Catalog.Path != "" {
		return catalog.LoadFile(cfg.Catalog.Path)
	}
	return catalog.Default()
}

// openApp loads the saved website read-only: the returned app cannot save.
// persistence.ErrNoWebsite means `websim new` has not been run.
func openApp(cfg *config.Config) (*app, error) {
	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}
	a, err := loadApp(cfg, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return a, nil
}

// claimApp takes the simulation lease, advertising port to other
// processes, and then loads the website. It fails with *busyError while
// another process holds a live lease.
func claimApp(cfg *config.Config, port int, ttl time.Duration) (*app, error) {
	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}
	holder, err := claim(db, port, ttl)
	if err != nil {
		db.Close()
		return nil, err
	}
	a, err := loadApp(cfg, db)
	if err != nil {
		db.ReleaseLease(persistence.SimLease, holder)
		db.Close()
		return nil, err
	}
	a.holder, a.port, a.ttl = holder, port, ttl
	return a, nil
}

func claim(db *persistence.DB, port int, ttl time.Duration) (string, error) {
	holder := uuid.NewString()
	lease, ok, err := db.AcquireLease(persistence.SimLease, holder, port, ttl)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", &busyError{lease: lease}
	}
	return holder, nil
}

func loadApp(cfg *config.Config, db *persistence.DB) (*app, error) {
	cat, err := loadCatalog(cfg)
	if err != nil {
		return nil, err
	}
	w, err := db.LoadWebsite()
	if err != nil {
		if errors.Is(err, persistence.ErrNoWebsite) {
			return nil, fmt.Errorf("%w: run `websim new NAME` first", err)
		}
		return nil, err
	}

	marketSeed, err := db.GetMetaInt(persistence.MetaSeed, 1)
	if err != nil {
		return nil, err
	}
	tick, err := db.GetMetaInt(persistence.MetaTick, 0)
	if err != nil {
		return nil, err
	}
	paused, _ := db.GetMeta(persistence.MetaPaused)

	sim := engine.NewSimulation(w, cat, hiring.NewMarket(marketSeed), entropy.New(cfg.Sim.Seed))
	eng := engine.NewEngine()
	eng.Interval = cfg.Sim.TickInterval
	eng.Tick = int(tick) % site.TicksPerDay
	eng.SetPaused(paused == "true")
	sim.Wire(eng)

	return &app{db: db, sim: sim, eng: eng}, nil
}

// renew extends the lease. It fails once another process has taken it.
func (a *app) renew() error {
	lease, ok, err := a.db.AcquireLease(persistence.SimLease, a.holder, a.port, a.ttl)
	if err != nil {
		return err
	}
	if !ok {
		return &busyError{lease: lease}
	}
	return nil
}

// keepLease renews the lease until ctx ends and calls lost if it is taken.
func (a *app) keepLease(ctx context.Context, lost context.CancelFunc) {
	ticker := time.NewTicker(a.ttl / 3)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			err := a.renew()
			var busy *busyError
			switch {
			case errors.As(err, &busy):
				slog.Error("simulation lease lost, stopping", "error", err)
				lost()
				return
			case err != nil:
				slog.Warn("lease renewal failed", "error", err)
			}
		}
	}
}

// create founds a new website and saves it as the current one.
func create(cfg *config.Config, name string) (*site.Website, error) {
	cat, err := loadCatalog(cfg)
	if err != nil {
		return nil, err
	}
	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	holder, err := claim(db, 0, actionLeaseTTL)
	if err != nil {
		return nil, err
	}
	defer db.ReleaseLease(persistence.SimLease, holder)

	seed := cfg.Sim.Seed
	if seed == 0 {
		seed = entropy.CryptoSeed()
	}
	w := site.New(name)
	sim := engine.NewSimulation(w, cat, hiring.NewMarket(seed), entropy.New(seed))

	if err := db.SaveMeta(persistence.MetaSeed, strconv.FormatInt(seed, 10)); err != nil {
		return nil, fmt.Errorf("save seed: %w", err)
	}
	if err := db.SaveWorldState(sim, 0, false, nil); err != nil {
		return nil, err
	}
	return w, nil
}

// save persists state and any days that closed since the last save. The
// caller must hold the simulation lock.
func (a *app) save() error {
	if a.holder == "" {
		return errors.New("website opened read-only")
	}
	if err := a.renew(); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return a.db.Checkpoint(a.sim, a.eng.Tick, a.eng.Paused())
}

// mutate applies fn under the simulation lock and saves when it reports
// success.
func (a *app) mutate(fn func(s *engine.Simulation) bool) (bool, error) {
	var ok bool
	var err error
	a.sim.Update(func(s *engine.Simulation) {
		ok = fn(s)
		if ok {
			err = a.save()
		}
	})
	return ok, err
}

func (a *app) Close() error {
	if a.holder != "" {
		if err := a.db.ReleaseLease(persistence.SimLease, a.holder); err != nil {
			slog.Warn("release lease failed", "error", err)
		}
	}
	return a.db.Close()
}
