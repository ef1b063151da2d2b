package hiring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josephrcox/web-pioneer/internal/entropy"
	"github.com/josephrcox/web-pioneer/internal/site"
)

func TestMaxXPForHiring(t *testing.T) {
	cases := []struct {
		users int
		want  float64
	}{
		{0, 1500},
		{500, 1500},
		{501, 2500},
		{1001, 5000},
		{10_001, 7500},
		{100_001, 10_000},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, MaxXPForHiring(c.users), "users=%d", c.users)
	}
}

func TestMarketIsDeterministic(t *testing.T) {
	a, b := NewMarket(42), NewMarket(42)
	for day := 0; day < 200; day += 7 {
		ca, cb := a.At(day), b.At(day)
		assert.Equal(t, ca, cb)
		assert.GreaterOrEqual(t, ca.Supply, 0.0)
		assert.LessOrEqual(t, ca.Supply, 1.0)
		assert.GreaterOrEqual(t, ca.Pressure, 0.0)
		assert.LessOrEqual(t, ca.Pressure, 1.0)
	}
	assert.Equal(t, a.At(7), a.At(13), "conditions hold for the whole week")
}

func TestSalary(t *testing.T) {
	assert.Equal(t, 320.0, Salary(0, Conditions{Pressure: 0}))
	assert.Equal(t, 480.0, Salary(0, Conditions{Pressure: 1}))
	assert.Equal(t, 1000.0, Salary(5000, Conditions{Pressure: 0.5}))
}

func TestGenerate(t *testing.T) {
	m := NewMarket(9)
	w := site.New("x")
	w.Users = 600
	src := entropy.New(9)

	candidates := m.Generate(w, src)

	c := m.At(w.Day)
	require.GreaterOrEqual(t, len(candidates), MinCandidates)
	require.LessOrEqual(t, len(candidates), MaxCandidates)
	ids := make(map[string]bool)
	for _, cand := range candidates {
		assert.Less(t, cand.XP, 2500.0)
		assert.True(t, cand.Role.Valid())
		assert.NotEmpty(t, cand.Name)
		assert.Equal(t, Salary(cand.XP, c), cand.Salary)
		assert.False(t, ids[cand.ID], "candidate ids are unique")
		ids[cand.ID] = true
	}
}

func TestHire(t *testing.T) {
	w := site.New("x")
	w.Day = 3
	w.Candidates = NewMarket(1).Generate(w, entropy.New(1))
	first := w.Candidates[0]
	n := len(w.Candidates)

	e, ok := Hire(w, first.ID)
	require.True(t, ok)
	assert.Equal(t, site.EmployeeID(1), e.ID)
	assert.Equal(t, first.Name, e.Name)
	assert.Equal(t, first.XP, e.XP)
	assert.Equal(t, first.Salary, e.Salary)
	assert.Equal(t, float64(site.StartingHappiness), e.Happiness)
	assert.Equal(t, 3, e.HiredDay)
	assert.Equal(t, site.EmployeeID(2), w.NextEmployeeID)
	assert.Len(t, w.Candidates, n-1)

	_, ok = Hire(w, first.ID)
	assert.False(t, ok)
}
