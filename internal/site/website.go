// Package site holds the mutable business state of one simulated website:
// employees, project records, investors, offers and the rolling trackers.
// A Website is exclusively owned by its Simulation; engines receive it
// explicitly and mutate it in place.
package site

import (
	"cmp"
	"maps"
	"slices"

	"github.com/google/uuid"

	"github.com/josephrcox/web-pioneer/internal/catalog"
)

// Defaults for a freshly founded website.
const (
	StartingMoney      = 100_000
	DefaultServerSpend = 50
	DefaultCapacity    = 750 // DefaultServerSpend × 15, the capacity floor
	HistoryWindow      = 7
	MaxXP              = 10_000
	MinHappiness       = 1
	MaxHappiness       = 100
	StartingHappiness  = 50
)

// EmployeeID identifies an employee within one website.
type EmployeeID int

// Employee is a member of staff.
type Employee struct {
	ID                EmployeeID   `json:"id"`
	Name              string       `json:"name"`
	Role              catalog.Role `json:"role"`
	XP                float64      `json:"xp"`        // 0–10000
	Happiness         float64      `json:"happiness"` // 1–100
	HiredDay          int          `json:"hired_day"`
	Salary            float64      `json:"salary"` // weekly
	Contributions     float64      `json:"contributions"`
	ContributionToday float64      `json:"contribution_today"`
}

// Rules are per-record knobs set by the player.
type Rules struct {
	PaidOnly      bool     `json:"paid_only"`
	WeeklyAdSpend *float64 `json:"weekly_ad_spend,omitempty"`
}

// ProjectRecord is a website's instance of a catalog project.
type ProjectRecord struct {
	Name           string        `json:"name"`
	CostsRemaining catalog.Costs `json:"costs_remaining"`
	Assignees      []EmployeeID  `json:"assignees"`
	Completed      bool          `json:"completed"`
	Enabled        bool          `json:"enabled"`
	Rules          Rules         `json:"rules"`
	Productivity   float64       `json:"productivity"`
	StartedDay     int           `json:"started_day"`
	CompletedDay   int           `json:"completed_day,omitempty"`
}

// Active reports whether the record's effects currently apply.
func (r *ProjectRecord) Active() bool {
	return r.Completed && r.Enabled
}

// HasAssignee reports whether id is assigned to the record.
func (r *ProjectRecord) HasAssignee(id EmployeeID) bool {
	return slices.Contains(r.Assignees, id)
}

// Investor owns a share of future profit distributions.
type Investor struct {
	Firm         string  `json:"firm"`
	PercentOwned float64 `json:"percent_owned"`
	Valuation    float64 `json:"valuation"`
	DayInvested  int     `json:"day_invested"`
	TotalPaid    float64 `json:"total_paid"`
}

// Offer is an open funding proposal.
type Offer struct {
	ID        string  `json:"id"`
	Firm      string  `json:"firm"`
	Percent   float64 `json:"percent"`
	Valuation float64 `json:"valuation"`
	Day       int     `json:"day"`
	Expires   int     `json:"expires"`
}

// Candidate is a job applicant on the hiring market.
type Candidate struct {
	ID     string       `json:"id"`
	Name   string       `json:"name"`
	Role   catalog.Role `json:"role"`
	XP     float64      `json:"xp"`
	Salary float64      `json:"salary"`
}

// ServerCosts pairs weekly server spend with the user capacity it buys.
type ServerCosts struct {
	WeeklySpend  float64 `json:"weekly_spend"`
	UserCapacity int     `json:"user_capacity"`
}

// WeekTotals accumulate money movement since the last weekly rollup.
type WeekTotals struct {
	Revenue       float64 `json:"revenue"`
	Costs         float64 `json:"costs"`
	InvestorsPaid float64 `json:"investors_paid"`
}

// Website is the simulated business.
type Website struct {
	Version   int            `json:"version"`
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Day       int            `json:"day"`
	Money     float64        `json:"money"`
	Users     int            `json:"users"`
	Retention float64        `json:"retention"`
	Scores    catalog.Scores `json:"scores"`

	ServerCosts   ServerCosts   `json:"server_costs"`
	UserChanges   UserChanges   `json:"user_changes"`
	ProfitChanges ProfitChanges `json:"profit_changes"`
	Week          WeekTotals    `json:"week"`

	Employees      map[EmployeeID]*Employee  `json:"employees"`
	NextEmployeeID EmployeeID                `json:"next_employee_id"`
	Projects       map[string]*ProjectRecord `json:"projects"`
	Investors      []Investor                `json:"investors"`
	Offers         []Offer                   `json:"investment_opportunities"`
	Candidates     []Candidate               `json:"candidates"`

	// Per-project overrides keyed by catalog project name.
	MonetizationRates map[string]float64 `json:"monetization_rates,omitempty"`
	MarketingSpend    map[string]float64 `json:"marketing_spend,omitempty"`
}

// New founds a website with starting cash and default server costs.
func New(name string) *Website {
	w := &Website{
		Version: CurrentVersion,
		ID:      uuid.NewString(),
		Name:    name,
		Money:   StartingMoney,
		ServerCosts: ServerCosts{
			WeeklySpend:  DefaultServerSpend,
			UserCapacity: DefaultCapacity,
		},
		NextEmployeeID: 1,
	}
	w.Normalize()
	return w
}

// Normalize lazily initializes collections a partially built or decoded
// website may lack.
func (w *Website) Normalize() {
	if w.Employees == nil {
		w.Employees = make(map[EmployeeID]*Employee)
	}
	if w.Projects == nil {
		w.Projects = make(map[string]*ProjectRecord)
	}
	if w.Investors == nil {
		w.Investors = []Investor{}
	}
	if w.Offers == nil {
		w.Offers = []Offer{}
	}
	if w.UserChanges.DailyHistory == nil {
		w.UserChanges.DailyHistory = []UserDay{}
	}
	if w.ProfitChanges.DailyHistory == nil {
		w.ProfitChanges.DailyHistory = []ProfitDay{}
	}
	if w.ServerCosts.WeeklySpend <= 0 {
		w.ServerCosts = ServerCosts{WeeklySpend: DefaultServerSpend, UserCapacity: DefaultCapacity}
	}
	for id := range w.Employees {
		if id >= w.NextEmployeeID {
			w.NextEmployeeID = id + 1
		}
	}
	if w.NextEmployeeID < 1 {
		w.NextEmployeeID = 1
	}
}

// Started reports whether a project is in progress (started, not completed).
func (w *Website) Started(name string) bool {
	r, ok := w.Projects[name]
	return ok && !r.Completed
}

// Completed reports whether a project has shipped.
func (w *Website) Completed(name string) bool {
	r, ok := w.Projects[name]
	return ok && r.Completed
}

// ActiveProject reports whether a project is completed and enabled.
func (w *Website) ActiveProject(name string) bool {
	r, ok := w.Projects[name]
	return ok && r.Active()
}

// ProjectNames returns record names in sorted order so iteration, and
// therefore random draws, are reproducible.
func (w *Website) ProjectNames() []string {
	return slices.Sorted(maps.Keys(w.Projects))
}

// EmployeeIDs returns employee ids in ascending order.
func (w *Website) EmployeeIDs() []EmployeeID {
	return slices.Sorted(maps.Keys(w.Employees))
}

// SortedEmployees returns employees in id order.
func (w *Website) SortedEmployees() []*Employee {
	out := make([]*Employee, 0, len(w.Employees))
	for _, id := range w.EmployeeIDs() {
		out = append(out, w.Employees[id])
	}
	return out
}

// Assignees resolves a record's assignee ids to employees, skipping ids
// that no longer exist.
func (w *Website) Assignees(r *ProjectRecord) []*Employee {
	out := make([]*Employee, 0, len(r.Assignees))
	for _, id := range r.Assignees {
		if e, ok := w.Employees[id]; ok {
			out = append(out, e)
		}
	}
	return out
}

// OwnershipSold is the total percent held by investors.
func (w *Website) OwnershipSold() float64 {
	total := 0.0
	for _, inv := range w.Investors {
		total += inv.PercentOwned
	}
	return total
}

// WeeklySalaries sums every employee's weekly salary.
func (w *Website) WeeklySalaries() float64 {
	total := 0.0
	for _, e := range w.Employees {
		total += e.Salary
	}
	return total
}

// Busy reports whether an employee is staffing work: an unfinished project
// with outstanding cost in their role, or an active continuous project.
func (w *Website) Busy(id EmployeeID, cat *catalog.Catalog) bool {
	e, ok := w.Employees[id]
	if !ok {
		return false
	}
	for _, r := range w.Projects {
		if !r.HasAssignee(id) {
			continue
		}
		if !r.Completed && r.CostsRemaining.Get(e.Role) > 0 {
			return true
		}
		if r.Active() {
			if p, ok := cat.Get(r.Name); ok && p.Continuous {
				return true
			}
		}
	}
	return false
}

// IdleEmployees returns employees not staffing any work, in id order.
func (w *Website) IdleEmployees(cat *catalog.Catalog) []*Employee {
	var out []*Employee
	for _, e := range w.SortedEmployees() {
		if !w.Busy(e.ID, cat) {
			out = append(out, e)
		}
	}
	return out
}

// SortOffers orders offers by expiry, then firm.
func (w *Website) SortOffers() {
	slices.SortFunc(w.Offers, func(a, b Offer) int {
		if c := cmp.Compare(a.Expires, b.Expires); c != 0 {
			return c
		}
		return cmp.Compare(a.Firm, b.Firm)
	})
}
