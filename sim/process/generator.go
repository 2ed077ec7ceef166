package process

import (
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"
)

// A TimeIntervalGenerator draws random time intervals.
type TimeIntervalGenerator interface {
	Next() float64

	// WarmUp discards n draws.
	WarmUp(n int)
}

// ExponentialGenerator draws exponentially distributed intervals.
type ExponentialGenerator struct {
	mean float64
	rand *rand.Rand
}

// NewExponentialGenerator creates a generator with the given seed and mean.
func NewExponentialGenerator(seed int64, mean float64) *ExponentialGenerator {
	logrus.WithFields(logrus.Fields{
		"seed": seed,
		"mean": mean,
	}).Debug("exponential generator created")

	return &ExponentialGenerator{
		mean: mean,
		rand: rand.New(rand.NewSource(seed)),
	}
}

// Next draws an interval.
func (g *ExponentialGenerator) Next() float64 {
	return -g.mean * math.Log(1-g.rand.Float64())
}

// WarmUp discards n draws.
func (g *ExponentialGenerator) WarmUp(n int) {
	for i := 0; i < n; i++ {
		g.rand.Int()
	}
}

// BinaryGenerator returns one of two intervals.
type BinaryGenerator struct {
	t1, p1, t2 float64
	rand       *rand.Rand
}

// NewBinaryGenerator creates a generator that returns t1 with probability p1
// and t2 otherwise.
func NewBinaryGenerator(seed int64, t1, p1, t2 float64) *BinaryGenerator {
	return &BinaryGenerator{
		t1:   t1,
		p1:   p1,
		t2:   t2,
		rand: rand.New(rand.NewSource(seed)),
	}
}

// Next draws an interval.
func (g *BinaryGenerator) Next() float64 {
	if g.rand.Float64() < g.p1 {
		return g.t1
	}

	return g.t2
}

// WarmUp discards n draws.
func (g *BinaryGenerator) WarmUp(n int) {
	for i := 0; i < n; i++ {
		g.rand.Int()
	}
}
