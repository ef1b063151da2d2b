package hiring

import (
	"math"

	"github.com/google/uuid"

	"github.com/josephrcox/web-pioneer/internal/catalog"
	"github.com/josephrcox/web-pioneer/internal/entropy"
	"github.com/josephrcox/web-pioneer/internal/site"
)

// Pool sizing and pay.
const (
	MinCandidates = 3
	MaxCandidates = 8

	baseSalary    = 400  // weekly, for a candidate with no XP
	salaryPerXP   = 0.12 // weekly dollars per XP point
	minPayFactor  = 0.8
	payFactorSpan = 0.4
)

var (
	firstNames = []string{
		"Michael", "Christopher", "Matthew", "Joshua", "Andrew", "Daniel",
		"Joseph", "William", "Ryan", "David", "Jessica", "Ashley", "Jennifer",
		"Sarah", "Stephanie", "Nicole", "Elizabeth", "Rachel", "Megan", "Amanda",
	}
	lastNames = []string{
		"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller",
		"Davis", "Rodriguez", "Martinez", "Hernandez", "Lopez", "Gonzalez",
		"Wilson", "Anderson", "Thomas", "Taylor", "Moore", "Jackson", "Martin",
	}
)

// MaxXPForHiring is the most experienced candidate a website of this size
// can attract.
func MaxXPForHiring(users int) float64 {
	switch {
	case users > 100_000:
		return 10_000
	case users > 10_000:
		return 7500
	case users > 1000:
		return 5000
	case users > 500:
		return 2500
	default:
		return 1500
	}
}

// Name makes up a first and last name.
func Name(src entropy.Source) string {
	return entropy.Pick(src, firstNames) + " " + entropy.Pick(src, lastNames)
}

// Salary is the weekly pay a candidate with xp asks for under the given
// market pressure.
func Salary(xp float64, c Conditions) float64 {
	factor := minPayFactor + payFactorSpan*c.Pressure
	return math.Round((baseSalary + xp*salaryPerXP) * factor)
}

// Generate draws this week's candidates for w. A tighter market (low
// supply) yields fewer people.
func (m *Market) Generate(w *site.Website, src entropy.Source) []site.Candidate {
	c := m.At(w.Day)
	n := MinCandidates + int(math.Round(c.Supply*(MaxCandidates-MinCandidates)))
	maxXP := MaxXPForHiring(w.Users)

	out := make([]site.Candidate, 0, n)
	for range n {
		id, err := uuid.NewRandomFromReader(src)
		if err != nil {
			id = uuid.New()
		}
		xp := math.Floor(src.Float64() * maxXP)
		out = append(out, site.Candidate{
			ID:     id.String(),
			Name:   Name(src),
			Role:   entropy.Pick(src, catalog.Roles),
			XP:     xp,
			Salary: Salary(xp, c),
		})
	}
	return out
}

// Hire turns a candidate into an employee of w and removes them from the
// pool. Reports false when no candidate has the id.
func Hire(w *site.Website, candidateID string) (*site.Employee, bool) {
	for i, c := range w.Candidates {
		if c.ID != candidateID {
			continue
		}
		e := &site.Employee{
			ID:        w.NextEmployeeID,
			Name:      c.Name,
			Role:      c.Role,
			XP:        c.XP,
			Happiness: site.StartingHappiness,
			HiredDay:  w.Day,
			Salary:    c.Salary,
		}
		w.Employees[e.ID] = e
		w.NextEmployeeID++
		w.Candidates = append(w.Candidates[:i:i], w.Candidates[i+1:]...)
		return e, true
	}
	return nil, false
}
