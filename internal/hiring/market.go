// Package hiring generates the weekly pool of job candidates. Labor market
// conditions drift smoothly from week to week, driven by simplex noise, so
// good and bad hiring seasons last a while instead of flipping every week.
package hiring

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// Market conditions for one week, both in [0, 1].
type Conditions struct {
	Supply   float64 `json:"supply"`   // how many people are looking for work
	Pressure float64 `json:"pressure"` // how hard they bargain on salary
}

// Market samples labor conditions over time.
type Market struct {
	supply   opensimplex.Noise
	pressure opensimplex.Noise
}

// NewMarket returns a market whose conditions are fixed by seed.
func NewMarket(seed int64) *Market {
	return &Market{
		supply:   opensimplex.NewNormalized(seed),
		pressure: opensimplex.NewNormalized(seed + 1),
	}
}

// weekFrequency controls how fast conditions drift; one full swing takes
// roughly a couple of months of game time.
const weekFrequency = 0.15

// At returns the conditions for the week containing day.
func (m *Market) At(day int) Conditions {
	week := float64(day / 7)
	return Conditions{
		Supply:   octaveNoise(m.supply, week, 0, 3, weekFrequency, 0.5),
		Pressure: octaveNoise(m.pressure, week, 0, 3, weekFrequency, 0.5),
	}
}

// octaveNoise layers frequencies of a normalized noise field; the result
// stays in [0, 1).
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return math.Min(math.Max(total/maxVal, 0), 1)
}
