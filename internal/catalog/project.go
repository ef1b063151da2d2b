// Package catalog holds the immutable project templates a website can build.
// The catalog is shared read-only by every simulation; records in a website
// refer to templates by name.
package catalog

// Role is both an employee specialization and a project cost dimension.
type Role string

const (
	RoleProduct     Role = "product"
	RoleEngineering Role = "engineering"
	RoleDesign      Role = "design"
	RoleGrowth      Role = "growth"
)

// Roles lists every role in cost-iteration order.
var Roles = []Role{RoleProduct, RoleEngineering, RoleDesign, RoleGrowth}

// Valid reports whether r is one of the four known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleProduct, RoleEngineering, RoleDesign, RoleGrowth:
		return true
	}
	return false
}

// Costs is an amount of work per role.
type Costs struct {
	Product     float64 `yaml:"product" json:"product"`
	Engineering float64 `yaml:"engineering" json:"engineering"`
	Design      float64 `yaml:"design" json:"design"`
	Growth      float64 `yaml:"growth" json:"growth"`
}

// Get returns the cost for one role.
func (c Costs) Get(r Role) float64 {
	switch r {
	case RoleProduct:
		return c.Product
	case RoleEngineering:
		return c.Engineering
	case RoleDesign:
		return c.Design
	case RoleGrowth:
		return c.Growth
	}
	return 0
}

// Sub subtracts work from one role. The result may go negative.
func (c *Costs) Sub(r Role, amount float64) {
	switch r {
	case RoleProduct:
		c.Product -= amount
	case RoleEngineering:
		c.Engineering -= amount
	case RoleDesign:
		c.Design -= amount
	case RoleGrowth:
		c.Growth -= amount
	}
}

// Done reports whether every role's cost is satisfied (≤ 0).
func (c Costs) Done() bool {
	return c.Product <= 0 && c.Engineering <= 0 && c.Design <= 0 && c.Growth <= 0
}

// ScoreKey names one of the seven quality scores.
type ScoreKey string

const (
	ScoreReliability    ScoreKey = "reliability"
	ScorePerformance    ScoreKey = "performance"
	ScoreEaseOfUse      ScoreKey = "ease_of_use"
	ScoreFunctionality  ScoreKey = "functionality"
	ScoreAttractiveness ScoreKey = "attractiveness"
	ScoreSecurity       ScoreKey = "security"
	ScoreVirality       ScoreKey = "virality"
)

// Scores are unbounded quality values compared by ratio.
type Scores struct {
	Reliability    float64 `yaml:"reliability" json:"reliability"`
	Performance    float64 `yaml:"performance" json:"performance"`
	EaseOfUse      float64 `yaml:"ease_of_use" json:"ease_of_use"`
	Functionality  float64 `yaml:"functionality" json:"functionality"`
	Attractiveness float64 `yaml:"attractiveness" json:"attractiveness"`
	Security       float64 `yaml:"security" json:"security"`
	Virality       float64 `yaml:"virality" json:"virality"`
}

// Total is the plain sum of all seven scores.
func (s Scores) Total() float64 {
	return s.Reliability + s.Performance + s.EaseOfUse + s.Functionality +
		s.Attractiveness + s.Security + s.Virality
}

// Add accumulates another score set.
func (s *Scores) Add(o Scores) {
	s.Reliability += o.Reliability
	s.Performance += o.Performance
	s.EaseOfUse += o.EaseOfUse
	s.Functionality += o.Functionality
	s.Attractiveness += o.Attractiveness
	s.Security += o.Security
	s.Virality += o.Virality
}

// AddTo adds v to a single score. Unknown keys are ignored.
func (s *Scores) AddTo(key ScoreKey, v float64) {
	if p := s.field(key); p != nil {
		*p += v
	}
}

// Get returns a single score by key.
func (s Scores) Get(key ScoreKey) float64 {
	if p := s.field(key); p != nil {
		return *p
	}
	return 0
}

// FloorAtZero clamps every score to ≥ 0.
func (s *Scores) FloorAtZero() {
	for _, k := range ScoreKeys {
		if p := s.field(k); *p < 0 {
			*p = 0
		}
	}
}

func (s *Scores) field(key ScoreKey) *float64 {
	switch key {
	case ScoreReliability:
		return &s.Reliability
	case ScorePerformance:
		return &s.Performance
	case ScoreEaseOfUse:
		return &s.EaseOfUse
	case ScoreFunctionality:
		return &s.Functionality
	case ScoreAttractiveness:
		return &s.Attractiveness
	case ScoreSecurity:
		return &s.Security
	case ScoreVirality:
		return &s.Virality
	}
	return nil
}

// ScoreKeys lists all seven scores.
var ScoreKeys = []ScoreKey{
	ScoreReliability, ScorePerformance, ScoreEaseOfUse, ScoreFunctionality,
	ScoreAttractiveness, ScoreSecurity, ScoreVirality,
}

// MonetizationModel selects a project's revenue formula.
type MonetizationModel string

const (
	ModelAds     MonetizationModel = "ads"     // revenue from users who still see ads
	ModelAdFree  MonetizationModel = "ad_free" // subscription to remove ads
	ModelPremium MonetizationModel = "premium" // optional paid feature
)

// Monetization describes a configurable weekly per-user rate band.
type Monetization struct {
	Model       MonetizationModel `yaml:"model"`
	MinRate     float64           `yaml:"min_rate"`
	MaxRate     float64           `yaml:"max_rate"`
	DefaultRate float64           `yaml:"default_rate"`
}

// Marketing describes a paid acquisition channel.
type Marketing struct {
	BaseUsers          float64 `yaml:"base_users"`
	ViralityMultiplier float64 `yaml:"virality_multiplier"`
	MinSpend           float64 `yaml:"min_spend"`
	MaxSpend           float64 `yaml:"max_spend"`
	DefaultSpend       float64 `yaml:"default_spend"`
}

// Project is an immutable template.
type Project struct {
	Name         string   `yaml:"name"`
	Description  string   `yaml:"description"`
	Feature      string   `yaml:"feature"`
	Dependencies []string `yaml:"dependencies"`
	Costs        Costs    `yaml:"costs"`
	Scores       Scores   `yaml:"scores"`

	// Continuous projects keep costing, earning, or boosting every period
	// after completion.
	Continuous           bool         `yaml:"continuous"`
	WeeklyCost           float64      `yaml:"weekly_cost"`
	WeeklyRevenuePerUser float64      `yaml:"weekly_revenue_per_user"`
	RequiredRoles        map[Role]int `yaml:"required_roles"`
	TargetScore          ScoreKey     `yaml:"target_score"`

	Monetization  *Monetization `yaml:"monetization"`
	Marketing     *Marketing    `yaml:"marketing"`
	AggressiveAds bool          `yaml:"aggressive_ads"` // lowers retention as its rate rises
}

// DependsOn reports whether name is a direct prerequisite of p.
func (p Project) DependsOn(name string) bool {
	for _, d := range p.Dependencies {
		if d == name {
			return true
		}
	}
	return false
}

// RevenueBearing reports whether the project produces weekly revenue.
func (p Project) RevenueBearing() bool {
	return p.Monetization != nil || p.WeeklyRevenuePerUser > 0
}
