// Package surplusstats computes time-weighted statistics of a surplus
// trajectory. The trajectory is piecewise linear between its points.
package surplusstats

import (
	"errors"
	"math"
)

// ErrOutOfOrder is returned when a point is earlier than the one before it.
var ErrOutOfOrder = errors.New("surplusstats: point out of order")

// A Point is a sample of the surplus trajectory.
type Point struct {
	Time    float64
	Surplus float64
}

// SurplusStatistics summarizes a surplus trajectory between its first and
// last points.
type SurplusStatistics struct {
	InitialTime      float64
	FinalTime        float64
	AverageInventory float64
	AverageBacklog   float64
	ServiceLevel     float64
	MinSurplus       float64
	MaxSurplus       float64
}

// AverageCost returns the average cost given the inventory and backlog cost
// rates.
func (s SurplusStatistics) AverageCost(h, b float64) float64 {
	return h*s.AverageInventory + b*s.AverageBacklog
}

func crossoverTime(t1, y1, t2, y2 float64) float64 {
	return t1 - y1*(t2-t1)/(y2-y1)
}

// areaAbove returns the area between the positive part of the segment and
// the time axis.
func areaAbove(t1, y1, t2, y2 float64) float64 {
	switch {
	case y1 <= 0 && y2 <= 0:
		return 0
	case y1 <= 0 && y2 > 0:
		t1 = crossoverTime(t1, y1, t2, y2)
		y1 = 0
	case y1 > 0 && y2 <= 0:
		t2 = crossoverTime(t1, y1, t2, y2)
		y2 = 0
	}

	dt := t2 - t1

	return math.Min(y1, y2)*dt + 0.5*dt*math.Abs(y2-y1)
}

func areaBelow(t1, y1, t2, y2 float64) float64 {
	return areaAbove(t1, -y1, t2, -y2)
}

// periodAbove returns how long the segment stays strictly above zero.
func periodAbove(t1, y1, t2, y2 float64) float64 {
	switch {
	case y1 <= 0 && y2 <= 0:
		return 0
	case y1 > 0 && y2 > 0:
		return t2 - t1
	}

	tc := crossoverTime(t1, y1, t2, y2)
	if y1 <= 0 {
		return t2 - tc
	}

	return tc - t1
}
