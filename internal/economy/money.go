// Package economy provides the pure money formulas of the simulation:
// per-project revenue models, valuation, and profit distribution.
// Nothing here mutates a website; the engine applies the results.
package economy

import (
	"golang.org/x/exp/constraints"

	"github.com/josephrcox/web-pioneer/internal/site"
)

// Clamp bounds v to [lo, hi].
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Hourly converts a weekly amount to one tick's share.
func Hourly(weekly float64) float64 {
	return weekly / site.TicksPerWeek
}

// PayoutThreshold is the profit the company keeps each period before
// investors share in the rest.
const PayoutThreshold = 1.0

// Payout is one investor's share of a distribution.
type Payout struct {
	Firm   string
	Amount float64
}

// SplitProfit divides netGain among investors. Nothing is paid unless
// netGain exceeds the threshold; each investor receives
// (netGain − threshold) × percentOwned/100.
func SplitProfit(investors []site.Investor, netGain float64) []Payout {
	if len(investors) == 0 || netGain <= PayoutThreshold {
		return nil
	}
	distributable := netGain - PayoutThreshold
	out := make([]Payout, 0, len(investors))
	for _, inv := range investors {
		out = append(out, Payout{
			Firm:   inv.Firm,
			Amount: distributable * inv.PercentOwned / 100,
		})
	}
	return out
}
