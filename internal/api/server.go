// Package api provides the HTTP API for observing the website simulation.
// GET endpoints are public (read-only observation).
// POST endpoints require a bearer token (admin control plane), including
// player actions sent by the CLI while a simulation is running.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/josephrcox/web-pioneer/internal/economy"
	"github.com/josephrcox/web-pioneer/internal/engine"
	"github.com/josephrcox/web-pioneer/internal/persistence"
	"github.com/josephrcox/web-pioneer/internal/site"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Server serves the simulation state over HTTP.
type Server struct {
	Sim      *engine.Simulation
	Eng      *engine.Engine
	DB       *persistence.DB // optional; history falls back to memory
	Port     int
	AdminKey string // Bearer token for POST endpoints. Empty = POST disabled.
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	adminLimiter := NewRateLimiter(30, time.Minute)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		// Public endpoints (GET, read-only).
		r.Get("/status", s.handleStatus)
		r.Get("/website", s.handleWebsite)
		r.Get("/offers", s.handleOffers)
		r.Get("/candidates", s.handleCandidates)
		r.Get("/events", s.handleEvents)
		r.Get("/history", s.handleHistory)

		// Admin endpoints (POST, require bearer token).
		r.Group(func(r chi.Router) {
			r.Use(RateLimitMiddleware(adminLimiter))
			r.Use(s.adminOnly)
			r.Post("/pause", s.handlePause)
			r.Post("/snapshot", s.handleSnapshot)
			r.Post("/action", s.handleAction)
		})
	})
	return r
}

// Start serves the API until ctx is cancelled.
func (s *Server) Start(ctx context.Context) {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	slog.Info("HTTP API starting", "addr", srv.Addr, "admin_auth", s.AdminKey != "")

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("HTTP shutdown error", "error", err)
		}
	}()
}

// checkBearerToken returns true if the request has a valid admin bearer token.
func (s *Server) checkBearerToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	return strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == s.AdminKey
}

// adminOnly requires bearer token auth.
func (s *Server) adminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.AdminKey == "" {
			http.Error(w, "admin endpoints disabled (no WEBSIM_ADMIN_KEY set)", http.StatusForbidden)
			return
		}
		if !s.checkBearerToken(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusResponse struct {
	Name      string  `json:"name"`
	Day       int     `json:"day"`
	Tick      int     `json:"tick"`
	SimTime   string  `json:"sim_time"`
	Paused    bool    `json:"paused"`
	Running   bool    `json:"running"`
	Users     int     `json:"users"`
	Capacity  int     `json:"capacity"`
	Retention float64 `json:"retention"`
	Money     float64 `json:"money"`
	Valuation float64 `json:"valuation"`
	Employees int     `json:"employees"`
	Projects  int     `json:"projects"`
	Investors int     `json:"investors"`
	Score     float64 `json:"score"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	var resp statusResponse
	s.Sim.View(func(sim *engine.Simulation) {
		ws := sim.Website
		resp = statusResponse{
			Name:      ws.Name,
			Day:       ws.Day,
			Tick:      s.Eng.Tick,
			SimTime:   engine.SimTime(ws.Day, s.Eng.Tick),
			Paused:    s.Eng.Paused(),
			Running:   s.Eng.Running(),
			Users:     ws.Users,
			Capacity:  ws.ServerCosts.UserCapacity,
			Retention: ws.Retention,
			Money:     ws.Money,
			Valuation: economy.Valuation(ws),
			Employees: len(ws.Employees),
			Projects:  len(ws.Projects),
			Investors: len(ws.Investors),
			Score:     ws.Scores.Total(),
		}
	})
	writeJSON(w, resp)
}

func (s *Server) handleWebsite(w http.ResponseWriter, r *http.Request) {
	var data []byte
	var err error
	s.Sim.View(func(sim *engine.Simulation) {
		data, err = site.Encode(sim.Website)
	})
	if err != nil {
		slog.Error("encode website failed", "error", err)
		http.Error(w, "encode failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (s *Server) handleOffers(w http.ResponseWriter, r *http.Request) {
	var offers []site.Offer
	s.Sim.View(func(sim *engine.Simulation) {
		offers = append([]site.Offer{}, sim.Website.Offers...)
	})
	writeJSON(w, offers)
}

func (s *Server) handleCandidates(w http.ResponseWriter, r *http.Request) {
	var candidates []site.Candidate
	s.Sim.View(func(sim *engine.Simulation) {
		candidates = append([]site.Candidate{}, sim.Website.Candidates...)
	})
	writeJSON(w, candidates)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	limit := queryLimit(r, 50, 500)
	var events []engine.Event
	s.Sim.View(func(sim *engine.Simulation) {
		events = sim.RecentEvents(limit)
	})
	if category := r.URL.Query().Get("category"); category != "" {
		filtered := events[:0]
		for _, e := range events {
			if e.Category == category {
				filtered = append(filtered, e)
			}
		}
		events = filtered
	}
	writeJSON(w, events)
}

// handleHistory returns long-term daily stats when a database is attached,
// else the in-memory rolling window.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := queryLimit(r, 30, 1000)

	var id string
	var users []site.UserDay
	var profit []site.ProfitDay
	s.Sim.View(func(sim *engine.Simulation) {
		id = sim.Website.ID
		users = append([]site.UserDay{}, sim.Website.UserChanges.DailyHistory...)
		profit = append([]site.ProfitDay{}, sim.Website.ProfitChanges.DailyHistory...)
	})

	if s.DB != nil {
		rows, err := s.DB.RecentStats(id, limit)
		if err != nil {
			slog.Error("stats history query failed", "error", err)
			writeJSON(w, []persistence.DayStats{})
			return
		}
		if rows == nil {
			rows = []persistence.DayStats{}
		}
		writeJSON(w, rows)
		return
	}

	writeJSON(w, map[string]any{"users": users, "profit": profit})
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Paused bool `json:"paused"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	s.Eng.SetPaused(req.Paused)
	slog.Info("pause changed", "paused", req.Paused)
	writeJSON(w, map[string]bool{"paused": s.Eng.Paused()})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "database not available", http.StatusServiceUnavailable)
		return
	}

	var err error
	var day int
	s.Sim.Update(func(sim *engine.Simulation) {
		day = sim.Website.Day
		err = s.DB.Checkpoint(sim, s.Eng.Tick, s.Eng.Paused())
	})
	if err != nil {
		slog.Error("snapshot save failed", "error", err)
		http.Error(w, "snapshot failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{
		"day":     day,
		"message": "snapshot saved",
	})
}

type actionResponse struct {
	Action  string `json:"action"`
	Applied bool   `json:"applied"`
}

// handleAction applies a player command under the simulation lock and saves
// it straight away when a database is attached. A refused command answers
// 409 and changes nothing.
func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	var cmd engine.Command
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(cmd); err != nil {
		http.Error(w, "invalid action: "+err.Error(), http.StatusBadRequest)
		return
	}

	var applied bool
	var err error
	s.Sim.Update(func(sim *engine.Simulation) {
		applied = cmd.Apply(sim)
		if applied && s.DB != nil {
			err = s.DB.Checkpoint(sim, s.Eng.Tick, s.Eng.Paused())
		}
	})
	if err != nil {
		slog.Error("save after action failed", "action", cmd.String(), "error", err)
		http.Error(w, "save failed", http.StatusInternalServerError)
		return
	}

	slog.Info("player action", "action", cmd.String(), "applied", applied)
	status := http.StatusOK
	if !applied {
		status = http.StatusConflict
	}
	writeJSONStatus(w, status, actionResponse{Action: cmd.String(), Applied: applied})
}

func queryLimit(r *http.Request, def, max int) int {
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= max {
			return n
		}
	}
	return def
}

func writeJSON(w http.ResponseWriter, data any) {
	writeJSONStatus(w, http.StatusOK, data)
}

func writeJSONStatus(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
