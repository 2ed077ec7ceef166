package surplusstats

import (
	"fmt"
	"math"
)

// A StreamCalculator updates the statistics one point at a time, without
// keeping the trajectory.
type StreamCalculator struct {
	stats SurplusStatistics

	started         bool
	previousTime    float64
	previousSurplus float64
}

// NewStreamCalculator creates a calculator with no points.
func NewStreamCalculator() *StreamCalculator {
	return &StreamCalculator{
		stats: SurplusStatistics{
			MinSurplus: math.Inf(1),
			MaxSurplus: math.Inf(-1),
		},
	}
}

// AddPoint adds the next point of the trajectory. The first point only sets
// the initial time.
func (c *StreamCalculator) AddPoint(t, surplus float64) error {
	s := &c.stats

	if !c.started {
		c.started = true
		s.InitialTime = t
	} else {
		if t < c.previousTime {
			return fmt.Errorf(
				"%w: a data point for time %.3f was given, "+
					"but the calculator is currently at time %.3f",
				ErrOutOfOrder, t, c.previousTime)
		}

		if t > s.InitialTime {
			prevDelta := s.FinalTime - s.InitialTime
			newDelta := t - s.InitialTime
			t1, y1 := c.previousTime, c.previousSurplus

			s.AverageInventory = (s.AverageInventory*prevDelta +
				areaAbove(t1, y1, t, surplus)) / newDelta
			s.AverageBacklog = (s.AverageBacklog*prevDelta +
				areaBelow(t1, y1, t, surplus)) / newDelta
			s.ServiceLevel = (s.ServiceLevel*prevDelta +
				periodAbove(t1, y1, t, surplus)) / newDelta
		}
	}

	s.MinSurplus = math.Min(s.MinSurplus, surplus)
	s.MaxSurplus = math.Max(s.MaxSurplus, surplus)

	c.previousTime = t
	c.previousSurplus = surplus
	s.FinalTime = t

	return nil
}

// HasPoints tells if at least one point was added.
func (c *StreamCalculator) HasPoints() bool {
	return c.started
}

// Calculate returns the statistics of the points added so far.
func (c *StreamCalculator) Calculate() SurplusStatistics {
	return c.stats
}
