// Economy engine: hourly revenue and cost, profit tracking and investor
// payouts. Weekly amounts are charged in 1/56 slices every tick, so nothing
// is charged again at the week boundary.
package engine

import (
	"github.com/josephrcox/web-pioneer/internal/catalog"
	"github.com/josephrcox/web-pioneer/internal/economy"
	"github.com/josephrcox/web-pioneer/internal/site"
)

// Ledger is one tick of money movement.
type Ledger struct {
	Revenue  float64
	Costs    float64
	Payouts  float64
	Salaries float64
	Servers  float64
	Upkeep   float64
	Ads      float64
}

// Net is revenue minus costs, before investor payouts.
func (l Ledger) Net() float64 { return l.Revenue - l.Costs }

// WeeklyRevenue sums every active revenue-bearing project's weekly revenue.
func WeeklyRevenue(w *site.Website, cat *catalog.Catalog) float64 {
	total := 0.0
	for _, p := range cat.Filter(catalog.Project.RevenueBearing) {
		total += economy.WeeklyRevenue(w, cat, p)
	}
	return total
}

// WeeklyCosts breaks down the website's weekly running costs.
func WeeklyCosts(w *site.Website, cat *catalog.Catalog) Ledger {
	l := Ledger{
		Salaries: w.WeeklySalaries(),
		Servers:  w.ServerCosts.WeeklySpend,
	}
	for _, p := range cat.Filter(func(p catalog.Project) bool { return w.ActiveProject(p.Name) }) {
		if p.Continuous {
			l.Upkeep += p.WeeklyCost
		}
		if p.Marketing != nil {
			l.Ads += economy.MarketingSpend(w, p)
		}
	}
	l.Costs = l.Salaries + l.Servers + l.Upkeep + l.Ads
	return l
}

// UpdateMoney applies one tick's revenue and costs, records them in the
// profit tracker and pays investors out of any positive net.
func UpdateMoney(w *site.Website, cat *catalog.Catalog) Ledger {
	l := WeeklyCosts(w, cat)
	l.Revenue = WeeklyRevenue(w, cat)

	l.Revenue = economy.Hourly(l.Revenue)
	l.Costs = economy.Hourly(l.Costs)
	l.Salaries = economy.Hourly(l.Salaries)
	l.Servers = economy.Hourly(l.Servers)
	l.Upkeep = economy.Hourly(l.Upkeep)
	l.Ads = economy.Hourly(l.Ads)

	w.Money += l.Net()
	w.ProfitChanges.RecordTick(l.Revenue, l.Costs)
	w.Week.Revenue += l.Revenue
	w.Week.Costs += l.Costs

	l.Payouts = DistributeInvestorPayouts(w, l.Net())
	return l
}

// DistributeInvestorPayouts pays each investor their share of netGain above
// the payout threshold and returns the total paid.
func DistributeInvestorPayouts(w *site.Website, netGain float64) float64 {
	payouts := economy.SplitProfit(w.Investors, netGain)
	total := 0.0
	for i, p := range payouts {
		w.Investors[i].TotalPaid += p.Amount
		total += p.Amount
	}
	if total == 0 {
		return 0
	}
	w.Money -= total
	w.ProfitChanges.RecordPayout(total)
	w.Week.InvestorsPaid += total
	return total
}
