// Player actions. Each returns whether it was applied; a refused action
// leaves the website untouched. Callers serialize them with ticks through
// Simulation.Update.
package engine

import (
	"math"
	"slices"

	"github.com/josephrcox/web-pioneer/internal/catalog"
	"github.com/josephrcox/web-pioneer/internal/economy"
	"github.com/josephrcox/web-pioneer/internal/entropy"
	"github.com/josephrcox/web-pioneer/internal/hiring"
	"github.com/josephrcox/web-pioneer/internal/site"
)

// MinServerSpend is the lowest weekly server budget a website can run on.
const MinServerSpend = site.DefaultServerSpend

// StartProject opens a record for a catalog project. Refused when the
// project is unknown, already has a record, or a dependency has not shipped.
func StartProject(w *site.Website, cat *catalog.Catalog, name string) bool {
	p, ok := cat.Get(name)
	if !ok {
		return false
	}
	if _, exists := w.Projects[name]; exists {
		return false
	}
	for _, dep := range p.Dependencies {
		if !w.Completed(dep) {
			return false
		}
	}
	w.Projects[name] = &site.ProjectRecord{
		Name:           name,
		CostsRemaining: p.Costs,
		Assignees:      []site.EmployeeID{},
		Enabled:        true,
		StartedDay:     w.Day,
	}
	return true
}

// AssignEmployee puts an employee on a project. Completed projects only
// take staff when they are continuous.
func AssignEmployee(w *site.Website, cat *catalog.Catalog, id site.EmployeeID, name string) bool {
	if _, ok := w.Employees[id]; !ok {
		return false
	}
	rec, ok := w.Projects[name]
	if !ok || rec.HasAssignee(id) {
		return false
	}
	if rec.Completed {
		p, ok := cat.Get(name)
		if !ok || !p.Continuous {
			return false
		}
	}
	rec.Assignees = append(rec.Assignees, id)
	return true
}

// UnassignEmployee takes an employee off a project.
func UnassignEmployee(w *site.Website, id site.EmployeeID, name string) bool {
	rec, ok := w.Projects[name]
	if !ok || !rec.HasAssignee(id) {
		return false
	}
	rec.Assignees = slices.DeleteFunc(rec.Assignees, func(a site.EmployeeID) bool { return a == id })
	return true
}

// FireEmployee removes an employee and every assignment they held.
func FireEmployee(w *site.Website, id site.EmployeeID) bool {
	if _, ok := w.Employees[id]; !ok {
		return false
	}
	for _, rec := range w.Projects {
		rec.Assignees = slices.DeleteFunc(rec.Assignees, func(a site.EmployeeID) bool { return a == id })
	}
	delete(w.Employees, id)
	return true
}

// HireCandidate hires from the current candidate pool.
func HireCandidate(w *site.Website, candidateID string) (site.EmployeeID, bool) {
	e, ok := hiring.Hire(w, candidateID)
	if !ok {
		return 0, false
	}
	return e.ID, true
}

// ShipNow ships a started project immediately, whatever work remains.
func ShipNow(w *site.Website, cat *catalog.Catalog, name string, src entropy.Source) bool {
	rec, ok := w.Projects[name]
	if !ok || !ShipProject(w, rec, src) {
		return false
	}
	RecalculateScores(w, cat)
	return true
}

// UndoProject removes a shipped project. Refused while any shipped project
// depends on it. Assignees lose the XP their contributions earned them.
func UndoProject(w *site.Website, cat *catalog.Catalog, name string) bool {
	rec, ok := w.Projects[name]
	if !ok || !rec.Completed {
		return false
	}
	for _, other := range w.Projects {
		if !other.Completed || other.Name == name {
			continue
		}
		if p, ok := cat.Get(other.Name); ok && p.DependsOn(name) {
			return false
		}
	}

	for _, e := range w.Assignees(rec) {
		e.XP = math.Max(0, e.XP-e.Contributions)
		e.Contributions = 0
	}
	delete(w.Projects, name)
	delete(w.MonetizationRates, name)
	delete(w.MarketingSpend, name)
	RecalculateScores(w, cat)
	return true
}

// SetEnabled switches a shipped project's effects on or off.
func SetEnabled(w *site.Website, cat *catalog.Catalog, name string, enabled bool) bool {
	rec, ok := w.Projects[name]
	if !ok || !rec.Completed {
		return false
	}
	rec.Enabled = enabled
	RecalculateScores(w, cat)
	return true
}

// SetMonetizationRate overrides a monetized project's weekly per-user rate,
// clamped to the project's band.
func SetMonetizationRate(w *site.Website, cat *catalog.Catalog, name string, rate float64) bool {
	p, ok := cat.Get(name)
	if !ok || p.Monetization == nil {
		return false
	}
	if w.MonetizationRates == nil {
		w.MonetizationRates = make(map[string]float64)
	}
	w.MonetizationRates[name] = economy.Clamp(rate, p.Monetization.MinRate, p.Monetization.MaxRate)
	return true
}

// SetMarketingSpend overrides a marketing project's weekly spend, clamped
// to the channel's band.
func SetMarketingSpend(w *site.Website, cat *catalog.Catalog, name string, spend float64) bool {
	p, ok := cat.Get(name)
	if !ok || p.Marketing == nil {
		return false
	}
	if w.MarketingSpend == nil {
		w.MarketingSpend = make(map[string]float64)
	}
	w.MarketingSpend[name] = economy.Clamp(spend, p.Marketing.MinSpend, p.Marketing.MaxSpend)
	return true
}

// SetServerSpend changes the weekly server budget and the capacity it buys.
// Refused below MinServerSpend.
func SetServerSpend(w *site.Website, spend float64) bool {
	if spend < MinServerSpend {
		return false
	}
	w.ServerCosts.WeeklySpend = spend
	w.ServerCosts.UserCapacity = UserCapacity(w.Scores, spend)
	enforceCapacity(w)
	return true
}

// MakeEmployeeHappy buys an employee full happiness for cost.
func MakeEmployeeHappy(w *site.Website, id site.EmployeeID, cost float64) bool {
	e, ok := w.Employees[id]
	if !ok || cost < 0 || cost > w.Money {
		return false
	}
	e.Happiness = site.MaxHappiness
	w.Money -= cost
	return true
}

// AcceptOffer accepts an open investment offer by id.
func AcceptOffer(w *site.Website, offerID string) bool {
	return AcceptInvestment(w, offerID)
}
