package economy

import (
	"math"

	"github.com/josephrcox/web-pioneer/internal/site"
)

// Valuation bounds and heuristics, pitched at a mid-nineties internet company.
const (
	MinValuation  = 50_000
	MaxValuation  = 50_000_000
	ValuePerUser  = 3
	DaysPerYear   = 365
	BaseMultiple  = 3 // revenue multiple at zero retention
	RetentionBump = 2 // extra multiple at full retention
)

// Valuation estimates what an investor would value the website at, from the
// rolling daily profit annualized, a retention-driven multiple, and users.
func Valuation(w *site.Website) float64 {
	annualProfit := w.ProfitChanges.RollingAverage * DaysPerYear
	multiple := BaseMultiple + w.Retention*RetentionBump
	v := math.Max(MinValuation, annualProfit*multiple+float64(w.Users)*ValuePerUser)
	return math.Round(math.Min(v, MaxValuation))
}
