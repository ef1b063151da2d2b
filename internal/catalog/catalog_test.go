package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type progress struct {
	started, completed map[string]bool
}

func (p progress) Started(name string) bool   { return p.started[name] }
func (p progress) Completed(name string) bool { return p.completed[name] }

func TestDefaultCatalog(t *testing.T) {
	cat, err := Default()
	require.NoError(t, err)
	assert.Equal(t, 47, cat.Len())

	hello, ok := cat.Get("Hello World")
	require.True(t, ok)
	assert.Equal(t, Costs{Engineering: 5}, hello.Costs)
	assert.Empty(t, hello.Dependencies)

	banner, ok := cat.Get("Banner Ads")
	require.True(t, ok)
	require.NotNil(t, banner.Monetization)
	assert.Equal(t, ModelAds, banner.Monetization.Model)
	assert.True(t, banner.AggressiveAds)
	assert.True(t, banner.RevenueBearing())

	news, ok := cat.Get("Newspaper Ads")
	require.True(t, ok)
	require.NotNil(t, news.Marketing)
	assert.InDelta(t, 500.0, news.Marketing.DefaultSpend, 1e-9)
	assert.Equal(t, map[Role]int{RoleGrowth: 1, RoleDesign: 1}, news.RequiredRoles)

	_, ok = cat.Get("Time Machine")
	assert.False(t, ok)
}

func TestAvailable(t *testing.T) {
	cat, err := Default()
	require.NoError(t, err)

	fresh := progress{}
	var names []string
	for _, p := range cat.Available(fresh) {
		names = append(names, p.Name)
	}
	assert.Contains(t, names, "Hello World")
	assert.Contains(t, names, "Banner Ads")
	assert.NotContains(t, names, "Profile Creation")

	p := progress{
		started:   map[string]bool{"Basic Bug Fixes #1": true},
		completed: map[string]bool{"Hello World": true},
	}
	names = names[:0]
	for _, proj := range cat.Available(p) {
		names = append(names, proj.Name)
	}
	assert.Contains(t, names, "Profile Creation")
	assert.NotContains(t, names, "Hello World", "completed projects are not offered again")
	assert.NotContains(t, names, "Basic Bug Fixes #1", "started projects are not offered again")
}

func TestNewRejectsBadTemplates(t *testing.T) {
	tests := []struct {
		name     string
		projects []Project
	}{
		{"missing name", []Project{{}}},
		{"duplicate", []Project{{Name: "a"}, {Name: "a"}}},
		{"unknown dependency", []Project{{Name: "a", Dependencies: []string{"b"}}}},
		{"unknown role", []Project{{Name: "a", RequiredRoles: map[Role]int{"sales": 1}}}},
		{"unknown target", []Project{{Name: "a", TargetScore: "charm"}}},
		{"bad rate band", []Project{{Name: "a", Monetization: &Monetization{MinRate: 2, MaxRate: 1, DefaultRate: 1}}}},
		{"bad spend band", []Project{{Name: "a", Marketing: &Marketing{MinSpend: 10, MaxSpend: 100, DefaultSpend: 500}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.projects)
			assert.Error(t, err)
		})
	}

	_, err := New([]Project{{Name: "a", Dependencies: []string{"b"}}})
	assert.ErrorIs(t, err, ErrUnknownProject)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	doc := `
projects:
  - name: "Hello World"
    costs: {engineering: 1}
    scores: {reliability: 2}
  - name: "Guestbook"
    dependencies: ["Hello World"]
    costs: {product: 1, engineering: 2}
    scores: {virality: 3}
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cat, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cat.Len())

	guest, ok := cat.Get("Guestbook")
	require.True(t, ok)
	assert.True(t, guest.DependsOn("Hello World"))
	assert.InDelta(t, 3.0, guest.Scores.Virality, 1e-9)
}

func TestScores(t *testing.T) {
	s := Scores{Reliability: 10, Performance: -30}
	s.Add(Scores{Performance: 5, Virality: 7})
	s.AddTo(ScoreSecurity, 4)
	s.AddTo("charm", 100)

	assert.InDelta(t, 10+(-25)+7+4.0, s.Total(), 1e-9)
	assert.InDelta(t, -25.0, s.Get(ScorePerformance), 1e-9)

	s.FloorAtZero()
	assert.Zero(t, s.Performance)
	assert.InDelta(t, 10.0, s.Reliability, 1e-9)
}

func TestCosts(t *testing.T) {
	c := Costs{Product: 1, Engineering: 2}
	assert.False(t, c.Done())

	c.Sub(RoleProduct, 1.5)
	c.Sub(RoleEngineering, 2)
	assert.InDelta(t, -0.5, c.Get(RoleProduct), 1e-9)
	assert.True(t, c.Done())
}
