package surplusstats

import (
	"fmt"
	"math"
)

// A BatchCalculator keeps every point and integrates the whole trajectory
// when asked.
type BatchCalculator struct {
	points []Point
}

// NewBatchCalculator creates a calculator with no points.
func NewBatchCalculator() *BatchCalculator {
	return &BatchCalculator{}
}

// AddPoints adds points to the trajectory.
func (c *BatchCalculator) AddPoints(points []Point) error {
	return c.TranslateAndAdd(0, points)
}

// TranslateAndAdd adds points to the trajectory after shifting their surplus
// by offset.
func (c *BatchCalculator) TranslateAndAdd(offset float64, points []Point) error {
	for _, p := range points {
		if n := len(c.points); n > 0 && p.Time < c.points[n-1].Time {
			return fmt.Errorf(
				"%w: a data point for time %.3f was given, "+
					"but the calculator is currently at time %.3f",
				ErrOutOfOrder, p.Time, c.points[n-1].Time)
		}

		c.points = append(c.points, Point{Time: p.Time, Surplus: p.Surplus + offset})
	}

	return nil
}

// Calculate integrates the trajectory.
func (c *BatchCalculator) Calculate() SurplusStatistics {
	s := SurplusStatistics{
		MinSurplus: math.Inf(1),
		MaxSurplus: math.Inf(-1),
	}

	if len(c.points) == 0 {
		return s
	}

	var inventory, backlog, above float64

	for i, p := range c.points {
		s.MinSurplus = math.Min(s.MinSurplus, p.Surplus)
		s.MaxSurplus = math.Max(s.MaxSurplus, p.Surplus)

		if i == 0 {
			continue
		}

		q := c.points[i-1]
		if p.Time == q.Time {
			continue
		}

		inventory += areaAbove(q.Time, q.Surplus, p.Time, p.Surplus)
		backlog += areaBelow(q.Time, q.Surplus, p.Time, p.Surplus)
		above += periodAbove(q.Time, q.Surplus, p.Time, p.Surplus)
	}

	s.InitialTime = c.points[0].Time
	s.FinalTime = c.points[len(c.points)-1].Time

	if span := s.FinalTime - s.InitialTime; span > 0 {
		s.AverageInventory = inventory / span
		s.AverageBacklog = backlog / span
		s.ServiceLevel = above / span
	}

	return s
}

// Calculate returns the statistics of the points.
func Calculate(points []Point) (SurplusStatistics, error) {
	return TranslateAndCalculate(0, points)
}

// TranslateAndCalculate returns the statistics of the points after shifting
// their surplus by offset.
func TranslateAndCalculate(
	offset float64,
	points []Point,
) (SurplusStatistics, error) {
	c := NewBatchCalculator()
	if err := c.TranslateAndAdd(offset, points); err != nil {
		return SurplusStatistics{}, err
	}

	return c.Calculate(), nil
}
