// Growth engine: user acquisition, churn, retention and server capacity.
// Organic plus viral growth is multiplied by marketing, then limited by
// internet adoption, a per-tick cap and server capacity.
package engine

import (
	"math"

	"github.com/josephrcox/web-pioneer/internal/catalog"
	"github.com/josephrcox/web-pioneer/internal/economy"
	"github.com/josephrcox/web-pioneer/internal/entropy"
	"github.com/josephrcox/web-pioneer/internal/site"
)

const (
	// MaxPotentialUsers is everyone online who could ever sign up.
	MaxPotentialUsers = 16_000_000

	marketingSpendScale = 30

	// Churn: a site with zero retention loses everyone over this many days.
	retentionWindowDays = 15
	maxDailyLossShare   = 0.015

	// Capacity.
	capacityLogScale       = 500
	capacityMinPerDollar   = 15
	MaxUserCapacity        = 50_000_000
	performanceRatioFloor  = 0.1
	performanceRatioCeil   = 2.0
	retentionFloor         = 0.1
	retentionCeil          = 0.95
	adRetentionPenalty     = 0.3
	retentionScoreHalfMark = 100 // score at which a normalized score reaches 0.5
)

// retentionWeights blend normalized scores into retention, summed in
// catalog.ScoreKeys order. Virality only brings users in; it does not keep
// them.
var retentionWeights = map[catalog.ScoreKey]float64{
	catalog.ScoreReliability:    0.25,
	catalog.ScorePerformance:    0.20,
	catalog.ScoreEaseOfUse:      0.20,
	catalog.ScoreFunctionality:  0.15,
	catalog.ScoreAttractiveness: 0.10,
	catalog.ScoreSecurity:       0.10,
}

// AddUsers runs one tick of acquisition and returns the users gained.
func AddUsers(w *site.Website, cat *catalog.Catalog, src entropy.Source) int {
	users := float64(w.Users)
	total := math.Max(0, w.Scores.Total())

	organic := organicGrowth(w.Users, total, src)
	boost := marketingBoost(w, cat, src)
	viral := viralGrowth(w, total, src)

	growth := organic + viral
	growth += growth * entropy.Between(src, -0.05, 0.05)

	newUsers := math.Floor(growth * boost)
	newUsers = math.Floor(newUsers * adoptionFactor(w.Users))
	newUsers = math.Min(newUsers, float64(maxTickUsers(w.Users)))
	newUsers = math.Max(0, newUsers)

	capacity := float64(w.ServerCosts.UserCapacity)
	if users+newUsers > capacity {
		newUsers = math.Max(0, capacity-users)
	}

	added := int(newUsers)
	w.Users += added
	w.UserChanges.RecordAdded(added)
	enforceCapacity(w)
	return added
}

// organicGrowth draws from total site quality; the divisor grows with the
// user base, and very small sites are guaranteed a trickle.
func organicGrowth(users int, totalScore float64, src entropy.Source) float64 {
	var divisor, floor float64
	switch {
	case users < 10:
		divisor, floor = 4, 2
	case users < 100:
		divisor, floor = 6, 1
	case users < 1000:
		divisor, floor = 8, 1
	default:
		divisor, floor = 10, 1
	}
	return math.Max(floor, math.Round(src.Float64()*math.Sqrt(totalScore)/divisor))
}

// marketingBoost multiplies the effect of every active paid campaign.
func marketingBoost(w *site.Website, cat *catalog.Catalog, src entropy.Source) float64 {
	boost := 1.0
	campaigns := cat.Filter(func(p catalog.Project) bool {
		return p.Marketing != nil && w.ActiveProject(p.Name)
	})
	for _, p := range campaigns {
		spend := economy.MarketingSpend(w, p)
		if spend <= 0 {
			continue
		}
		spendBoost := (math.Sqrt(spend)/marketingSpendScale + p.Marketing.BaseUsers) *
			p.Marketing.ViralityMultiplier *
			entropy.Between(src, 0.9, 1.1)
		boost *= 1 + spendBoost
	}
	return boost
}

// viralCoefficient is 1 plus the share of users who bring in others. The
// virality divisor scales with the user base past 20k users.
func viralCoefficient(users int, virality, totalScore float64) float64 {
	maxForViral := math.Max(1000, float64(users)/10)
	multiplier := math.Min(0.4, totalScore/maxForViral)

	var divisor float64
	switch {
	case users < 10:
		divisor = 10
	case users < 20_000:
		divisor = 20
	default:
		divisor = float64(users) / 2000
	}
	return 1 + virality/divisor*multiplier
}

func viralGrowth(w *site.Website, totalScore float64, src entropy.Source) float64 {
	coef := viralCoefficient(w.Users, w.Scores.Virality, totalScore)

	base := 0.0
	if w.Users == 0 && w.Scores.Virality > 0 {
		base = 2
	}
	spread := 50.0
	if w.Users < 100 {
		spread = 25
	}
	viral := math.Max(1, float64(w.Users)) / spread * (coef - 1) * entropy.Between(src, 0.95, 1.15)
	return math.Max(base, viral)
}

// adoptionFactor slows growth as the site approaches everyone online.
func adoptionFactor(users int) float64 {
	exponent := 1.2
	switch {
	case users < 100:
		exponent = 0.5
	case users < 1000:
		exponent = 0.8
	}
	remaining := math.Max(0, 1-float64(users)/MaxPotentialUsers)
	return math.Max(0.1, math.Pow(remaining, exponent))
}

// maxTickUsers caps one tick's growth as a fraction of current users.
func maxTickUsers(users int) int {
	share := float64(users) / MaxPotentialUsers

	tierCap, tierBase, minUsers := 0.25, 0.25, 1
	switch {
	case users < 10:
		tierCap, tierBase, minUsers = 1.0, 0.5, 3
	case users < 100:
		tierCap, tierBase, minUsers = 0.5, 0.5, 2
	}
	maxDaily := math.Min(tierCap, math.Max(0.05, tierBase-share*0.13))
	maxTick := maxDaily / site.TicksPerDay
	return max(minUsers, int(math.Floor(float64(users)*maxTick)))
}

// RemoveUsers runs one tick of churn and returns the users lost. Full
// retention loses nobody; any churn is capped at 1.5% of users per day.
func RemoveUsers(w *site.Website, src entropy.Source) int {
	users := float64(w.Users)
	retention := economy.Clamp(w.Retention, 0, 1)

	lossRate := (1 - retention) / (retentionWindowDays * site.TicksPerDay)
	lossRate *= entropy.Between(src, 0.9, 1.1)
	toRemove := math.Floor(users * lossRate)

	maxDaily := math.Floor(users * maxDailyLossShare)
	maxTick := math.Floor(maxDaily / site.TicksPerDay)
	toRemove = math.Min(toRemove, maxTick)

	protection := math.Max(0.5, 1-retention*0.5)
	toRemove = math.Floor(toRemove * protection)
	toRemove = economy.Clamp(toRemove, 0, users)

	removed := int(toRemove)
	w.Users -= removed
	w.UserChanges.RecordRemoved(removed)
	enforceCapacity(w)
	return removed
}

// enforceCapacity drops users above server capacity.
func enforceCapacity(w *site.Website) {
	if w.Users < 0 {
		w.Users = 0
	}
	if over := w.Users - w.ServerCosts.UserCapacity; over > 0 {
		w.Users = w.ServerCosts.UserCapacity
		w.UserChanges.RecordRemoved(over)
	}
}

// UserCapacity is how many users weeklySpend on servers supports given the
// site's scores. Reliable, fast sites get more out of each dollar.
func UserCapacity(scores catalog.Scores, weeklySpend float64) int {
	if weeklySpend < 0 {
		weeklySpend = 0
	}
	base := math.Log10(weeklySpend+1) * capacityLogScale
	ratio := (scores.Reliability + scores.Performance) / math.Max(1, scores.Functionality) * 0.5
	ratio = economy.Clamp(ratio, performanceRatioFloor, performanceRatioCeil)

	capacity := math.Round(base * ratio)
	capacity = math.Max(capacity, weeklySpend*capacityMinPerDollar)
	capacity = math.Min(capacity, MaxUserCapacity)
	return int(capacity)
}

// RecomputeRetention derives retention from a weighted blend of normalized
// scores, scaled into [0.1, 0.95], then penalized by aggressive ads.
func RecomputeRetention(w *site.Website, cat *catalog.Catalog) {
	blend := 0.0
	for _, key := range catalog.ScoreKeys {
		weight, ok := retentionWeights[key]
		if !ok {
			continue
		}
		s := math.Max(0, w.Scores.Get(key))
		blend += weight * s / (s + retentionScoreHalfMark)
	}
	retention := retentionFloor + (retentionCeil-retentionFloor)*blend

	for _, p := range cat.Filter(func(p catalog.Project) bool { return p.AggressiveAds && w.ActiveProject(p.Name) }) {
		aggression := 0.0
		if p.Monetization != nil && p.Monetization.MaxRate > 0 {
			aggression = economy.Rate(w, p) / p.Monetization.MaxRate
		}
		retention *= 1 - adRetentionPenalty*aggression
	}
	w.Retention = economy.Clamp(retention, 0, 1)
}

// growthStep runs acquisition with probability bias, churn otherwise.
func growthStep(w *site.Website, cat *catalog.Catalog, src entropy.Source, bias float64) (added, removed int) {
	if entropy.Chance(src, bias) {
		return AddUsers(w, cat, src), 0
	}
	return 0, RemoveUsers(w, src)
}
