package economy

import (
	"math"

	"github.com/josephrcox/web-pioneer/internal/catalog"
	"github.com/josephrcox/web-pioneer/internal/site"
)

// Site quality beyond this total score no longer raises willingness to pay.
const willingnessScoreCap = 2000

// Rate returns the weekly per-user rate a monetized project charges: the
// website's override clamped to the catalog band, else the default.
func Rate(w *site.Website, p catalog.Project) float64 {
	m := p.Monetization
	if m == nil {
		return 0
	}
	if r, ok := w.MonetizationRates[p.Name]; ok {
		return Clamp(r, m.MinRate, m.MaxRate)
	}
	return m.DefaultRate
}

// priceSensitivity is 1 at the bottom of the band and 0 at the top.
func priceSensitivity(rate float64, m *catalog.Monetization) float64 {
	span := m.MaxRate - m.MinRate
	if span <= 0 {
		return 1
	}
	return Clamp(1-(rate-m.MinRate)/span, 0, 1)
}

// Willingness is the share of users open to paying at all, from site quality.
func Willingness(w *site.Website) float64 {
	return math.Min(math.Max(w.Scores.Total(), 0), willingnessScoreCap) / willingnessScoreCap
}

// AdAggression is the highest active ad rate relative to its maximum.
func AdAggression(w *site.Website, cat *catalog.Catalog) float64 {
	aggression := 0.0
	for _, p := range activeWithModel(w, cat, catalog.ModelAds) {
		if p.Monetization.MaxRate > 0 {
			aggression = math.Max(aggression, Rate(w, p)/p.Monetization.MaxRate)
		}
	}
	return aggression
}

// AdFreeShare is the fraction of users paying to remove ads. It rises when
// ads are aggressive and falls as the subscription price rises. Zero unless
// an ad-free project is active.
func AdFreeShare(w *site.Website, cat *catalog.Catalog) float64 {
	adFree := activeWithModel(w, cat, catalog.ModelAdFree)
	if len(adFree) == 0 {
		return 0
	}
	p := adFree[0]
	sensitivity := priceSensitivity(Rate(w, p), p.Monetization)
	return Willingness(w) * sensitivity * (0.3 + AdAggression(w, cat)*0.9) * 0.15
}

// WeeklyRevenue is the revenue one completed project earns per week at the
// website's current users, retention and rates. Inactive projects earn 0.
func WeeklyRevenue(w *site.Website, cat *catalog.Catalog, p catalog.Project) float64 {
	if !w.ActiveProject(p.Name) {
		return 0
	}
	users := float64(w.Users)

	if p.Monetization == nil {
		return p.WeeklyRevenuePerUser * w.Retention * users
	}

	rate := Rate(w, p)
	switch p.Monetization.Model {
	case catalog.ModelAds:
		seeAds := users * (1 - AdFreeShare(w, cat))
		return seeAds * rate * w.Retention
	case catalog.ModelPremium:
		adopters := Willingness(w) * priceSensitivity(rate, p.Monetization) * w.Retention
		return users * w.Retention * adopters * rate
	case catalog.ModelAdFree:
		return users * w.Retention * AdFreeShare(w, cat) * rate
	}
	return 0
}

// MarketingSpend returns the weekly spend of a marketing project: the
// website override, then the record's rule, then the catalog default.
// Overrides are clamped to the channel's band.
func MarketingSpend(w *site.Website, p catalog.Project) float64 {
	m := p.Marketing
	if m == nil {
		return 0
	}
	if v, ok := w.MarketingSpend[p.Name]; ok {
		return Clamp(v, m.MinSpend, m.MaxSpend)
	}
	if r, ok := w.Projects[p.Name]; ok && r.Rules.WeeklyAdSpend != nil {
		return Clamp(*r.Rules.WeeklyAdSpend, m.MinSpend, m.MaxSpend)
	}
	return m.DefaultSpend
}

func activeWithModel(w *site.Website, cat *catalog.Catalog, model catalog.MonetizationModel) []catalog.Project {
	return cat.Filter(func(p catalog.Project) bool {
		return p.Monetization != nil && p.Monetization.Model == model && w.ActiveProject(p.Name)
	})
}
