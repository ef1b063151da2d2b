package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josephrcox/web-pioneer/internal/catalog"
	"github.com/josephrcox/web-pioneer/internal/engine"
	"github.com/josephrcox/web-pioneer/internal/entropy"
	"github.com/josephrcox/web-pioneer/internal/persistence"
	"github.com/josephrcox/web-pioneer/internal/site"
)

const testKey = "let-me-in-please"

func newTestServer(t *testing.T, adminKey string) *Server {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	w := site.New("Lonely Hearts")
	w.Offers = []site.Offer{{ID: "o1", Firm: "Pacific Fund", Percent: 5, Valuation: 80_000, Expires: 7}}
	sim := engine.NewSimulation(w, cat, nil, entropy.New(1))
	sim.Record("project", "Hello World shipped")
	sim.Record("staff", "Sarah Moore joined")
	eng := engine.NewEngine()
	sim.Wire(eng)
	return &Server{Sim: sim, Eng: eng, AdminKey: adminKey}
}

func do(t *testing.T, h http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestStatus(t *testing.T) {
	s := newTestServer(t, "")
	s.Eng.Step()

	rec := do(t, s.Handler(), http.MethodGet, "/api/v1/status", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got statusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Lonely Hearts", got.Name)
	assert.Equal(t, 1, got.Tick)
	assert.Equal(t, "Week 1 Mon 10:00", got.SimTime)
	assert.Equal(t, site.DefaultCapacity, got.Capacity)
	assert.False(t, got.Paused)
}

func TestWebsiteSnapshotDecodes(t *testing.T) {
	s := newTestServer(t, "")
	rec := do(t, s.Handler(), http.MethodGet, "/api/v1/website", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	w, err := site.Decode(rec.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, s.Sim.Website.ID, w.ID)
}

func TestOffersAndEvents(t *testing.T) {
	s := newTestServer(t, "")
	h := s.Handler()

	var offers []site.Offer
	rec := do(t, h, http.MethodGet, "/api/v1/offers", "", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &offers))
	require.Len(t, offers, 1)
	assert.Equal(t, "Pacific Fund", offers[0].Firm)

	var events []engine.Event
	rec = do(t, h, http.MethodGet, "/api/v1/events?category=staff", "", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &events))
	require.Len(t, events, 1)
	assert.Equal(t, "Sarah Moore joined", events[0].Description)

	rec = do(t, h, http.MethodGet, "/api/v1/events?limit=1", "", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &events))
	assert.Len(t, events, 1)
}

func TestHistoryFromMemory(t *testing.T) {
	s := newTestServer(t, "")
	engine.DailyRollup(s.Sim.Website, s.Sim.Catalog)

	rec := do(t, s.Handler(), http.MethodGet, "/api/v1/history", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got struct {
		Users  []site.UserDay   `json:"users"`
		Profit []site.ProfitDay `json:"profit"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got.Users, 1)
	assert.Len(t, got.Profit, 1)
}

func TestPauseRequiresAdminKey(t *testing.T) {
	disabled := newTestServer(t, "")
	rec := do(t, disabled.Handler(), http.MethodPost, "/api/v1/pause", `{"paused":true}`, testKey)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	s := newTestServer(t, testKey)
	h := s.Handler()

	rec = do(t, h, http.MethodPost, "/api/v1/pause", `{"paused":true}`, "wrong-key-entirely")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, s.Eng.Paused())

	rec = do(t, h, http.MethodPost, "/api/v1/pause", `{"paused":true}`, testKey)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, s.Eng.Paused())

	rec = do(t, h, http.MethodPost, "/api/v1/pause", `not json`, testKey)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSnapshot(t *testing.T) {
	s := newTestServer(t, testKey)
	rec := do(t, s.Handler(), http.MethodPost, "/api/v1/snapshot", "", testKey)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code, "no database attached")

	db, err := persistence.Open(filepath.Join(t.TempDir(), "websim.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	s.DB = db

	rec = do(t, s.Handler(), http.MethodPost, "/api/v1/snapshot", "", testKey)
	require.Equal(t, http.StatusOK, rec.Code)

	loaded, err := db.LoadWebsite()
	require.NoError(t, err)
	assert.Equal(t, s.Sim.Website.ID, loaded.ID)
	events, err := db.RecentEvents(loaded.ID, 10)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestActionUpdatesRunningSimulation(t *testing.T) {
	s := newTestServer(t, testKey)
	db, err := persistence.Open(filepath.Join(t.TempDir(), "websim.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	s.DB = db
	h := s.Handler()

	rec := do(t, h, http.MethodPost, "/api/v1/action", `{"action":"start","project":"Hello World"}`, testKey)
	require.Equal(t, http.StatusOK, rec.Code)
	var got actionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, actionResponse{Action: "start Hello World", Applied: true}, got)
	assert.True(t, s.Sim.Website.Started("Hello World"))

	loaded, err := db.LoadWebsite()
	require.NoError(t, err)
	assert.Contains(t, loaded.Projects, "Hello World", "saved with the change")

	// The next tick works on the same copy the action changed.
	s.Eng.Step()
	s.Sim.View(func(sim *engine.Simulation) {
		assert.True(t, sim.Website.Started("Hello World"))
	})

	rec = do(t, h, http.MethodPost, "/api/v1/action", `{"action":"start","project":"Hello World"}`, testKey)
	assert.Equal(t, http.StatusConflict, rec.Code, "already started")

	rec = do(t, h, http.MethodPost, "/api/v1/action", `{"action":"dance"}`, testKey)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(t, h, http.MethodPost, "/api/v1/action", `{"action":"servers","amount":-5}`, testKey)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(t, h, http.MethodPost, "/api/v1/action", `{"action":"start","project":"Blog"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("5.6.7.8"))
	assert.Positive(t, rl.RetryAfter("1.2.3.4"))
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", clientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", clientIP(req))
}
