package site

// Simulation calendar. One tick is one in-game hour of work; a day has
// eight working hours.
const (
	TicksPerDay  = 8
	DaysPerWeek  = 7
	TicksPerWeek = TicksPerDay * DaysPerWeek // 56
)
