package engine

import (
	"math"

	"github.com/josephrcox/web-pioneer/internal/catalog"
	"github.com/josephrcox/web-pioneer/internal/economy"
	"github.com/josephrcox/web-pioneer/internal/entropy"
	"github.com/josephrcox/web-pioneer/internal/hiring"
	"github.com/josephrcox/web-pioneer/internal/site"
)

const (
	// IdleHappinessLoss is the daily happiness lost by unassigned staff.
	IdleHappinessLoss = 7.1

	happinessXPScaleFloor = 0.1
)

// DayReport summarizes one closed day.
type DayReport struct {
	Users         site.UserDay
	Profit        site.ProfitDay
	ExpiredOffers int
	Capacity      int
	Retention     float64
	EndUsers      int // users when the day closed
	Money         float64
}

// DailyRollup closes the current day: both trackers push their totals into
// history, staff happiness drifts, retention and capacity are recomputed,
// and expired offers are dropped. The day counter then advances.
func DailyRollup(w *site.Website, cat *catalog.Catalog) DayReport {
	var r DayReport
	r.Users = w.UserChanges.CloseDay(w.Day)
	r.Profit = w.ProfitChanges.CloseDay(w.Day)

	driftHappiness(w, cat)

	RecomputeRetention(w, cat)
	w.ServerCosts.UserCapacity = UserCapacity(w.Scores, w.ServerCosts.WeeklySpend)
	enforceCapacity(w)

	w.Day++
	r.ExpiredOffers = expireOffers(w)
	r.Capacity = w.ServerCosts.UserCapacity
	r.Retention = w.Retention
	r.EndUsers = w.Users
	r.Money = w.Money
	return r
}

// driftHappiness makes idle employees unhappier and rewards those who got
// work done today; inexperienced staff enjoy the progress more.
func driftHappiness(w *site.Website, cat *catalog.Catalog) {
	for _, e := range w.SortedEmployees() {
		switch {
		case !w.Busy(e.ID, cat):
			e.Happiness -= IdleHappinessLoss
		case e.ContributionToday > 0:
			scale := math.Max(happinessXPScaleFloor, 1-e.XP/xpSoftCap)
			e.Happiness += e.ContributionToday / 10 * scale
		}
		e.Happiness = economy.Clamp(math.Round(e.Happiness), site.MinHappiness, site.MaxHappiness)
		e.ContributionToday = 0
	}
}

// WeekReport summarizes one closed week.
type WeekReport struct {
	Totals     site.WeekTotals
	Candidates int
	Offer      *site.Offer
}

// WeeklyRollup resets the weekly money totals, refreshes the hiring pool
// and gives investors a chance to make an offer. Running costs were already
// charged hourly, so nothing is charged here.
func WeeklyRollup(w *site.Website, market *hiring.Market, src entropy.Source) WeekReport {
	r := WeekReport{Totals: w.Week}
	w.Week = site.WeekTotals{}

	if market != nil {
		w.Candidates = market.Generate(w, src)
		r.Candidates = len(w.Candidates)
	}
	if offer, ok := ProposeOpportunities(w, src); ok {
		r.Offer = &offer
	}
	return r
}
