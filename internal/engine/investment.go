// Investment engine: weekly funding offers and their acceptance.
package engine

import (
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/josephrcox/web-pioneer/internal/economy"
	"github.com/josephrcox/web-pioneer/internal/entropy"
	"github.com/josephrcox/web-pioneer/internal/site"
)

const (
	// OfferChance is the weekly probability of a new funding offer.
	OfferChance = 0.3

	offerMinPercent = 2
	offerMaxPercent = 31
	offerLifetime   = site.DaysPerWeek

	MaxOwnership = 100
)

var (
	firmStarters = []string{
		"Horizon", "Silicon", "Digital", "Tech", "Millennium", "Pacific", "Gateway",
		"Cyber", "Future", "American", "Pioneer", "Global", "Micro", "Info",
	}
	firmMiddles = []string{"Valley", "Frontier", "Growth", "Innovation", "Systems", "Wave", "Tech"}
	firmEnders  = []string{"Ventures", "Capital", "Partners", "Fund", "Associates", "Investments", "Group", "LLC"}
)

// FirmName makes up a venture firm: a starter, sometimes a middle word,
// and an ender.
func FirmName(src entropy.Source) string {
	parts := []string{entropy.Pick(src, firmStarters)}
	if entropy.Chance(src, 0.4) {
		parts = append(parts, entropy.Pick(src, firmMiddles))
	}
	parts = append(parts, entropy.Pick(src, firmEnders))
	return strings.Join(parts, " ")
}

// ProposeOpportunities rolls for a new offer at the current valuation and
// returns it when one is made.
func ProposeOpportunities(w *site.Website, src entropy.Source) (site.Offer, bool) {
	if !entropy.Chance(src, OfferChance) {
		return site.Offer{}, false
	}
	id, err := uuid.NewRandomFromReader(src)
	if err != nil {
		id = uuid.New()
	}
	offer := site.Offer{
		ID:        id.String(),
		Firm:      FirmName(src),
		Percent:   float64(offerMinPercent + src.Intn(offerMaxPercent-offerMinPercent+1)),
		Valuation: economy.Valuation(w),
		Day:       w.Day,
		Expires:   w.Day + offerLifetime,
	}
	w.Offers = append(w.Offers, offer)
	w.SortOffers()
	return offer, true
}

// AcceptInvestment takes the offer with the given id. It refuses unknown
// or expired offers and anything that would sell more than the whole
// company. On success the offer becomes an investor and the website is
// credited valuation × percent/100.
func AcceptInvestment(w *site.Website, offerID string) bool {
	i := slices.IndexFunc(w.Offers, func(o site.Offer) bool { return o.ID == offerID })
	if i < 0 {
		return false
	}
	offer := w.Offers[i]
	if offer.Expires <= w.Day {
		return false
	}
	if w.OwnershipSold()+offer.Percent > MaxOwnership {
		return false
	}

	w.Offers = slices.Delete(w.Offers, i, i+1)
	w.Investors = append(w.Investors, site.Investor{
		Firm:         offer.Firm,
		PercentOwned: offer.Percent,
		Valuation:    offer.Valuation,
		DayInvested:  w.Day,
	})
	w.Money += offer.Valuation * offer.Percent / 100
	return true
}

// expireOffers drops offers whose expiry day has arrived and returns how
// many.
func expireOffers(w *site.Website) int {
	before := len(w.Offers)
	w.Offers = slices.DeleteFunc(w.Offers, func(o site.Offer) bool { return o.Expires <= w.Day })
	return before - len(w.Offers)
}
