package entropy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIsDeterministic(t *testing.T) {
	a, b := New(7), New(7)
	for range 10 {
		assert.Equal(t, a.Float64(), b.Float64())
	}
}

func TestBetween(t *testing.T) {
	src := New(1)
	for range 1000 {
		v := Between(src, 0.9, 1.1)
		assert.GreaterOrEqual(t, v, 0.9)
		assert.Less(t, v, 1.1)
	}
}

func TestChanceExtremes(t *testing.T) {
	src := New(3)
	for range 100 {
		assert.False(t, Chance(src, 0))
		assert.True(t, Chance(src, 1))
	}
}

func TestPick(t *testing.T) {
	src := New(5)
	items := []string{"a", "b", "c"}
	for range 50 {
		assert.Contains(t, items, Pick(src, items))
	}
}

func TestCryptoSeedNonZero(t *testing.T) {
	assert.NotZero(t, CryptoSeed())
}
