// Work engine: employees assigned to unfinished projects burn down the
// remaining cost for their role each tick.
package engine

import (
	"math"

	"github.com/josephrcox/web-pioneer/internal/catalog"
	"github.com/josephrcox/web-pioneer/internal/economy"
	"github.com/josephrcox/web-pioneer/internal/entropy"
	"github.com/josephrcox/web-pioneer/internal/site"
)

const (
	// contributionScale turns XP × happiness into a sub-unit per-tick output.
	contributionScale = 56 * 40

	// MinContribution is the floor output of any assigned employee, so a
	// fresh hire with no XP still moves work forward.
	MinContribution = 0.1

	xpGainMultiplier = 10
	xpSoftCap        = 5000
	xpMinMultiplier  = 0.05

	// Happiness gained per unit of contribution.
	happinessPerContribution = 0.1

	shipBonusMin = 1
	shipBonusMax = 5
)

// ContributionScore is an employee's output for one tick.
func ContributionScore(e *site.Employee) float64 {
	score := e.XP * (e.Happiness / 100) / contributionScale
	return math.Max(score, MinContribution)
}

// xpGain applies diminishing returns as XP approaches the soft cap.
func xpGain(contribution, currentXP float64) float64 {
	mult := math.Max(xpMinMultiplier, 1-currentXP/xpSoftCap)
	return math.Floor(contribution * xpGainMultiplier * mult)
}

// Advance runs one tick of work on rec. Completed records are left alone.
// When every role's remaining cost reaches zero the project ships in the
// same tick. Reports whether the project shipped.
func Advance(w *site.Website, rec *site.ProjectRecord, src entropy.Source) bool {
	if rec.Completed {
		return false
	}

	for _, e := range w.Assignees(rec) {
		if rec.CostsRemaining.Get(e.Role) <= 0 {
			continue
		}
		contribution := ContributionScore(e)
		rec.CostsRemaining.Sub(e.Role, contribution)
		rec.Productivity += contribution

		e.Contributions += contribution
		e.ContributionToday += contribution
		e.XP = math.Min(site.MaxXP, e.XP+xpGain(contribution, e.XP))
		e.Happiness = economy.Clamp(e.Happiness+contribution*happinessPerContribution, site.MinHappiness, site.MaxHappiness)
	}

	if rec.CostsRemaining.Done() {
		return ShipProject(w, rec, src)
	}
	return false
}

// ShipProject marks rec completed and gives each assignee a one-time
// happiness bonus. Shipping an already completed record changes nothing.
func ShipProject(w *site.Website, rec *site.ProjectRecord, src entropy.Source) bool {
	if rec.Completed {
		return false
	}
	rec.Completed = true
	rec.CompletedDay = w.Day

	for _, e := range w.Assignees(rec) {
		bonus := float64(shipBonusMin + src.Intn(shipBonusMax-shipBonusMin+1))
		e.Happiness = economy.Clamp(e.Happiness+bonus, site.MinHappiness, site.MaxHappiness)
	}
	return true
}

// advanceAll works every unfinished project in name order and returns the
// names of projects that shipped this tick.
func advanceAll(w *site.Website, src entropy.Source) []string {
	var shipped []string
	for _, name := range w.ProjectNames() {
		if Advance(w, w.Projects[name], src) {
			shipped = append(shipped, name)
		}
	}
	return shipped
}

// roleStaffing counts assignees per role on a record.
func roleStaffing(w *site.Website, rec *site.ProjectRecord) map[catalog.Role]int {
	counts := make(map[catalog.Role]int, len(catalog.Roles))
	for _, e := range w.Assignees(rec) {
		counts[e.Role]++
	}
	return counts
}
