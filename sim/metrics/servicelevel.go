package metrics

import (
	"errors"
	"fmt"
	"math"

	"github.com/sarchlab/prodsim/sim/hooking"
	"github.com/sarchlab/prodsim/sim/surplusstats"
	"github.com/sarchlab/prodsim/sim/timing"
	"github.com/sirupsen/logrus"
)

// MaxIterations bounds the service level search.
const MaxIterations = 1000

// ErrNoConvergence is returned when the service level search gives up.
var ErrNoConvergence = errors.New("metrics: service level search did not converge")

// ServiceLevelSurplus keeps the surplus trajectory of every item so that the
// trajectory can be shifted to reach a service level.
type ServiceLevelSurplus struct {
	env       Env
	tolerance float64
	targets   []float64
	points    [][]surplusstats.Point
}

// NewServiceLevelSurplus creates the metric. The search stops when the
// relative error of the service level is within tolerance.
func NewServiceLevelSurplus(env Env, tolerance float64) *ServiceLevelSurplus {
	m := &ServiceLevelSurplus{
		env:       env,
		tolerance: tolerance,
	}

	for _, item := range env.Machine().Items() {
		m.targets = append(m.targets, item.SurplusTarget)
		m.points = append(m.points, nil)
	}

	return m
}

// Func samples the surplus after an event.
func (m *ServiceLevelSurplus) Func(ctx hooking.HookCtx) {
	if ctx.Pos != timing.HookPosAfterEvent || !m.env.IsTimeToRecordData() {
		return
	}

	now := m.env.Scheduler().Now().Float64()
	for i, item := range m.env.Machine().Items() {
		m.points[i] = append(m.points[i],
			surplusstats.Point{Time: now, Surplus: item.Surplus()})
	}
}

// Points returns the recorded trajectory of the item.
func (m *ServiceLevelSurplus) Points(item int) []surplusstats.Point {
	return m.points[item]
}

// FindOffsetForServiceLevel searches the surplus target that would have given
// the item the service level, and returns it together with the statistics
// of the shifted trajectory.
func (m *ServiceLevelSurplus) FindOffsetForServiceLevel(
	item int,
	level float64,
) (float64, surplusstats.SurplusStatistics, error) {
	points := m.points[item]
	target := m.targets[item]

	initial, err := surplusstats.Calculate(points)
	if err != nil {
		return 0, initial, err
	}

	minSurplus := initial.MinSurplus

	switch level {
	case 0:
		s, err := surplusstats.TranslateAndCalculate(-target, points)
		return -target, s, err
	case 1:
		s, err := surplusstats.TranslateAndCalculate(-minSurplus, points)
		return -minSurplus, s, err
	}

	lower, upper := 0.0, target-minSurplus
	relErr := math.Inf(1)

	var (
		offset float64
		stats  surplusstats.SurplusStatistics
	)

	for it := 0; relErr > m.tolerance; it++ {
		if it >= MaxIterations {
			return offset, stats, fmt.Errorf(
				"%w: item %d, service level %.6f after %d iterations",
				ErrNoConvergence, item, stats.ServiceLevel, it)
		}

		offset = 0.5 * (lower + upper)

		stats, err = surplusstats.TranslateAndCalculate(offset-target, points)
		if err != nil {
			return offset, stats, err
		}

		if stats.ServiceLevel == level {
			break
		}

		if stats.ServiceLevel < level {
			lower = offset
		} else {
			upper = offset
		}

		relErr = math.Abs(stats.ServiceLevel-level) / level

		logrus.WithFields(logrus.Fields{
			"item":          item,
			"iteration":     it,
			"error":         relErr,
			"service_level": stats.ServiceLevel,
			"target":        offset,
		}).Trace("service level search")
	}

	return offset, stats, nil
}
