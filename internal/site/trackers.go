package site

// RollingWindow is how many recent days feed the rolling averages.
const RollingWindow = 3

// UserDay is one day of user movement.
type UserDay struct {
	Day     int `json:"day"`
	Added   int `json:"added"`
	Removed int `json:"removed"`
}

// Net is users gained minus users lost.
func (d UserDay) Net() int { return d.Added - d.Removed }

// ProfitDay is one day of money movement.
type ProfitDay struct {
	Day           int     `json:"day"`
	Gained        float64 `json:"gained"`
	Spent         float64 `json:"spent"`
	InvestorsPaid float64 `json:"investors_paid"`
}

// Net is money kept by the company that day.
func (d ProfitDay) Net() float64 { return d.Gained - d.Spent - d.InvestorsPaid }

// UserChanges tracks today's user movement plus a bounded daily history.
type UserChanges struct {
	NetChangeToday int       `json:"net_change_today"`
	AddedToday     int       `json:"added_today"`
	RemovedToday   int       `json:"removed_today"`
	RollingAverage float64   `json:"rolling_average"`
	DailyHistory   []UserDay `json:"daily_history"`
}

// RecordAdded notes users gained this tick.
func (u *UserChanges) RecordAdded(n int) {
	u.AddedToday += n
	u.NetChangeToday += n
}

// RecordRemoved notes users lost this tick.
func (u *UserChanges) RecordRemoved(n int) {
	u.RemovedToday += n
	u.NetChangeToday -= n
}

// CloseDay pushes today into history, refreshes the rolling average and
// resets today's accumulators.
func (u *UserChanges) CloseDay(day int) UserDay {
	entry := UserDay{Day: day, Added: u.AddedToday, Removed: u.RemovedToday}
	u.DailyHistory = pushBounded(u.DailyHistory, entry, HistoryWindow)

	recent := lastN(u.DailyHistory, RollingWindow)
	sum := 0
	for _, d := range recent {
		sum += d.Net()
	}
	u.RollingAverage = float64(sum) / float64(len(recent))

	u.NetChangeToday, u.AddedToday, u.RemovedToday = 0, 0, 0
	return entry
}

// ProfitChanges tracks today's money movement plus a bounded daily history.
type ProfitChanges struct {
	NetChangeToday      float64     `json:"net_change_today"`
	GainedToday         float64     `json:"gained_today"`
	SpentToday          float64     `json:"spent_today"`
	InvestorPayoutToday float64     `json:"investor_payout_today"`
	RollingAverage      float64     `json:"rolling_average"`
	DailyHistory        []ProfitDay `json:"daily_history"`
}

// RecordTick notes one tick's revenue and costs.
func (p *ProfitChanges) RecordTick(gained, spent float64) {
	p.GainedToday += gained
	p.SpentToday += spent
	p.NetChangeToday += gained - spent
}

// RecordPayout notes money distributed to investors.
func (p *ProfitChanges) RecordPayout(amount float64) {
	p.InvestorPayoutToday += amount
	p.NetChangeToday -= amount
}

// CloseDay pushes today into history, refreshes the rolling average and
// resets today's accumulators.
func (p *ProfitChanges) CloseDay(day int) ProfitDay {
	entry := ProfitDay{
		Day:           day,
		Gained:        p.GainedToday,
		Spent:         p.SpentToday,
		InvestorsPaid: p.InvestorPayoutToday,
	}
	p.DailyHistory = pushBounded(p.DailyHistory, entry, HistoryWindow)

	recent := lastN(p.DailyHistory, RollingWindow)
	sum := 0.0
	for _, d := range recent {
		sum += d.Net()
	}
	p.RollingAverage = sum / float64(len(recent))

	p.NetChangeToday, p.GainedToday, p.SpentToday, p.InvestorPayoutToday = 0, 0, 0, 0
	return entry
}

// pushBounded appends v and evicts the oldest entries beyond limit.
func pushBounded[T any](history []T, v T, limit int) []T {
	history = append(history, v)
	if over := len(history) - limit; over > 0 {
		history = append(history[:0:0], history[over:]...)
	}
	return history
}

func lastN[T any](s []T, n int) []T {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
