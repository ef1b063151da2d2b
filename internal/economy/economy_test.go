package economy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josephrcox/web-pioneer/internal/catalog"
	"github.com/josephrcox/web-pioneer/internal/site"
)

func defaultCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	return cat
}

func ship(w *site.Website, names ...string) {
	for _, n := range names {
		w.Projects[n] = &site.ProjectRecord{Name: n, Completed: true, Enabled: true, Assignees: []site.EmployeeID{}}
	}
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 5, Clamp(9, 1, 5))
	assert.Equal(t, 1, Clamp(-3, 1, 5))
	assert.InDelta(t, 0.5, Clamp(0.5, 0.0, 1.0), 1e-12)
}

func TestHourly(t *testing.T) {
	assert.InDelta(t, 1.0, Hourly(56), 1e-12)
}

func TestSplitProfitTwoInvestors(t *testing.T) {
	investors := []site.Investor{
		{Firm: "Gateway Capital", PercentOwned: 10},
		{Firm: "Micro Wave Fund", PercentOwned: 25},
	}
	payouts := SplitProfit(investors, 100)

	require.Len(t, payouts, 2)
	assert.Equal(t, "Gateway Capital", payouts[0].Firm)
	assert.InDelta(t, 9.9, payouts[0].Amount, 1e-9)
	assert.InDelta(t, 24.75, payouts[1].Amount, 1e-9)
}

func TestSplitProfitBelowThreshold(t *testing.T) {
	investors := []site.Investor{{Firm: "a", PercentOwned: 50}}
	assert.Nil(t, SplitProfit(investors, 1))
	assert.Nil(t, SplitProfit(investors, -40))
	assert.Nil(t, SplitProfit(nil, 100))
}

func TestRateClampsOverride(t *testing.T) {
	cat := defaultCatalog(t)
	banner, _ := cat.Get("Banner Ads")
	w := site.New("x")

	assert.InDelta(t, 0.003, Rate(w, banner), 1e-12)

	w.MonetizationRates = map[string]float64{"Banner Ads": 5}
	assert.InDelta(t, 0.01, Rate(w, banner), 1e-12)
}

func TestWeeklyRevenueAds(t *testing.T) {
	cat := defaultCatalog(t)
	banner, _ := cat.Get("Banner Ads")
	w := site.New("x")
	w.Users = 1000
	w.Retention = 0.5

	assert.Zero(t, WeeklyRevenue(w, cat, banner), "not shipped yet")

	ship(w, "Banner Ads")
	assert.InDelta(t, 1000*0.003*0.5, WeeklyRevenue(w, cat, banner), 1e-9)

	w.Projects["Banner Ads"].Enabled = false
	assert.Zero(t, WeeklyRevenue(w, cat, banner))
}

func TestAdFreeSubscribersStopSeeingAds(t *testing.T) {
	cat := defaultCatalog(t)
	banner, _ := cat.Get("Banner Ads")
	adFree, _ := cat.Get("Ad-free")
	w := site.New("x")
	w.Users = 1000
	w.Retention = 1
	w.Scores = catalog.Scores{Reliability: 500, Functionality: 500}
	ship(w, "Banner Ads")

	before := WeeklyRevenue(w, cat, banner)
	ship(w, "Ad-free")
	share := AdFreeShare(w, cat)

	assert.Greater(t, share, 0.0)
	assert.InDelta(t, before*(1-share), WeeklyRevenue(w, cat, banner), 1e-9)
	assert.InDelta(t, 1000*share*2, WeeklyRevenue(w, cat, adFree), 1e-9)
}

func TestWeeklyRevenuePremiumFallsWithPrice(t *testing.T) {
	cat := defaultCatalog(t)
	heart, _ := cat.Get("SuperHeart")
	w := site.New("x")
	w.Users = 5000
	w.Retention = 0.8
	w.Scores = catalog.Scores{Functionality: 1000}
	ship(w, "SuperHeart")

	w.MonetizationRates = map[string]float64{"SuperHeart": 5}
	assert.Zero(t, WeeklyRevenue(w, cat, heart), "nobody pays the top of the band")

	w.MonetizationRates["SuperHeart"] = 1
	assert.Greater(t, WeeklyRevenue(w, cat, heart), 0.0)
}

func TestWeeklyRevenuePerUser(t *testing.T) {
	cat := defaultCatalog(t)
	classifieds, _ := cat.Get("Classified Ads")
	w := site.New("x")
	w.Users = 2000
	w.Retention = 0.5
	ship(w, "Classified Ads")

	assert.InDelta(t, 0.02*0.5*2000, WeeklyRevenue(w, cat, classifieds), 1e-9)
}

func TestMarketingSpendLookupOrder(t *testing.T) {
	cat := defaultCatalog(t)
	news, _ := cat.Get("Newspaper Ads")
	w := site.New("x")
	ship(w, "Newspaper Ads")

	assert.InDelta(t, 500.0, MarketingSpend(w, news), 1e-9, "catalog default")

	rule := 800.0
	w.Projects["Newspaper Ads"].Rules.WeeklyAdSpend = &rule
	assert.InDelta(t, 800.0, MarketingSpend(w, news), 1e-9, "record rule")

	w.MarketingSpend = map[string]float64{"Newspaper Ads": 50_000}
	assert.InDelta(t, 10_000.0, MarketingSpend(w, news), 1e-9, "override, clamped to band")
}

func TestValuation(t *testing.T) {
	w := site.New("x")
	assert.Equal(t, float64(MinValuation), Valuation(w))

	w.ProfitChanges.RollingAverage = 1000
	w.Retention = 0.5
	w.Users = 10_000
	assert.Equal(t, 1000.0*365*4+30_000, Valuation(w))

	w.ProfitChanges.RollingAverage = 1e9
	assert.Equal(t, float64(MaxValuation), Valuation(w))
}
