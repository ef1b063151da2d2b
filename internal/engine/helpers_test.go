package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/josephrcox/web-pioneer/internal/catalog"
	"github.com/josephrcox/web-pioneer/internal/site"
)

// fixedSource always draws the same value: Float64 returns f, Intn returns
// 0 and Read yields zero bytes.
type fixedSource struct{ f float64 }

func (s fixedSource) Float64() float64 { return s.f }
func (s fixedSource) Intn(int) int     { return 0 }
func (s fixedSource) Read(p []byte) (int, error) {
	clear(p)
	return len(p), nil
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	return cat
}

func hire(w *site.Website, role catalog.Role, xp, happiness float64) *site.Employee {
	e := &site.Employee{
		ID:        w.NextEmployeeID,
		Name:      "Test Employee",
		Role:      role,
		XP:        xp,
		Happiness: happiness,
	}
	w.Employees[e.ID] = e
	w.NextEmployeeID++
	return e
}

func shipped(w *site.Website, names ...string) {
	for _, n := range names {
		w.Projects[n] = &site.ProjectRecord{Name: n, Completed: true, Enabled: true, Assignees: []site.EmployeeID{}}
	}
}
