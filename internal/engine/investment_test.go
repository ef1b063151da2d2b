package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josephrcox/web-pioneer/internal/economy"
	"github.com/josephrcox/web-pioneer/internal/entropy"
	"github.com/josephrcox/web-pioneer/internal/site"
)

func TestProposeOpportunities(t *testing.T) {
	w := site.New("x")
	w.Day = 14

	offer, ok := ProposeOpportunities(w, fixedSource{0})
	require.True(t, ok)
	assert.Equal(t, "Horizon Valley Ventures", offer.Firm)
	assert.Equal(t, 2.0, offer.Percent)
	assert.Equal(t, economy.Valuation(w), offer.Valuation)
	assert.Equal(t, 21, offer.Expires)
	assert.NotEmpty(t, offer.ID)
	assert.Len(t, w.Offers, 1)

	_, ok = ProposeOpportunities(w, fixedSource{0.99})
	assert.False(t, ok)
	assert.Len(t, w.Offers, 1)
}

func TestOfferPercentRange(t *testing.T) {
	w := site.New("x")
	src := entropy.New(3)
	for range 500 {
		ProposeOpportunities(w, src)
	}
	require.NotEmpty(t, w.Offers)
	for _, o := range w.Offers {
		assert.GreaterOrEqual(t, o.Percent, 2.0)
		assert.LessOrEqual(t, o.Percent, 31.0)
	}
}

func TestAcceptInvestment(t *testing.T) {
	w := site.New("x")
	w.Offers = []site.Offer{{ID: "o1", Firm: "Gateway Fund", Percent: 10, Valuation: 200_000, Expires: 7}}

	require.True(t, AcceptInvestment(w, "o1"))
	assert.Empty(t, w.Offers)
	require.Len(t, w.Investors, 1)
	assert.Equal(t, "Gateway Fund", w.Investors[0].Firm)
	assert.Equal(t, 10.0, w.Investors[0].PercentOwned)
	assert.InDelta(t, site.StartingMoney+20_000.0, w.Money, 1e-9)

	assert.False(t, AcceptInvestment(w, "o1"), "offers are single use")
}

func TestAcceptInvestmentRefusesOverselling(t *testing.T) {
	w := site.New("x")
	w.Investors = []site.Investor{{Firm: "Digital Capital", PercentOwned: 80}}
	w.Offers = []site.Offer{{ID: "o2", Firm: "Cyber Group", Percent: 25, Valuation: 100_000, Expires: 7}}

	assert.False(t, AcceptInvestment(w, "o2"))
	assert.Len(t, w.Investors, 1)
	assert.Len(t, w.Offers, 1)
	assert.Equal(t, float64(site.StartingMoney), w.Money)
}

func TestExpiredOffers(t *testing.T) {
	w := site.New("x")
	w.Day = 4
	w.Offers = []site.Offer{
		{ID: "old", Percent: 5, Valuation: 100_000, Expires: 3},
		{ID: "today", Percent: 5, Valuation: 100_000, Expires: 4},
		{ID: "tomorrow", Percent: 5, Valuation: 100_000, Expires: 5},
	}

	assert.False(t, AcceptInvestment(w, "old"))
	assert.False(t, AcceptInvestment(w, "today"), "an offer lapses on its expiry day")
	assert.Equal(t, 2, expireOffers(w))
	require.Len(t, w.Offers, 1)
	assert.Equal(t, "tomorrow", w.Offers[0].ID)
	assert.True(t, AcceptInvestment(w, "tomorrow"))
}

func TestFirmNameWithoutMiddle(t *testing.T) {
	assert.Equal(t, "Horizon Ventures", FirmName(fixedSource{0.5}))
}
