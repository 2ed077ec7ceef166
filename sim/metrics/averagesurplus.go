package metrics

import (
	"github.com/sarchlab/prodsim/sim/hooking"
	"github.com/sarchlab/prodsim/sim/surplusstats"
	"github.com/sarchlab/prodsim/sim/timing"
)

// AverageSurplus keeps the surplus statistics of every item. It samples the
// surplus after each event.
type AverageSurplus struct {
	env         Env
	canRecord   func() bool
	calculators []*surplusstats.StreamCalculator
}

// NewAverageSurplus creates a metric that records once the warm-up period is
// over.
func NewAverageSurplus(env Env) *AverageSurplus {
	return newAverageSurplus(env, env.IsTimeToRecordData)
}

func newAverageSurplus(env Env, canRecord func() bool) *AverageSurplus {
	m := &AverageSurplus{
		env:       env,
		canRecord: canRecord,
	}

	for range env.Machine().Items() {
		m.calculators = append(m.calculators,
			surplusstats.NewStreamCalculator())
	}

	return m
}

// Func samples the surplus after an event.
func (m *AverageSurplus) Func(ctx hooking.HookCtx) {
	if ctx.Pos != timing.HookPosAfterEvent || !m.canRecord() {
		return
	}

	now := m.env.Scheduler().Now().Float64()

	for i, item := range m.env.Machine().Items() {
		err := m.calculators[i].AddPoint(now, item.Surplus())
		if err != nil {
			panic(err)
		}
	}
}

// Statistics returns the surplus statistics of the item.
func (m *AverageSurplus) Statistics(item int) surplusstats.SurplusStatistics {
	return m.calculators[item].Calculate()
}

// AverageInventory returns the time-average inventory of the item.
func (m *AverageSurplus) AverageInventory(item int) float64 {
	return m.Statistics(item).AverageInventory
}

// AverageBacklog returns the time-average backlog of the item.
func (m *AverageSurplus) AverageBacklog(item int) float64 {
	return m.Statistics(item).AverageBacklog
}

// ServiceLevel returns the fraction of time the item has inventory.
func (m *AverageSurplus) ServiceLevel(item int) float64 {
	return m.Statistics(item).ServiceLevel
}

// MinSurplus returns the lowest surplus of the item.
func (m *AverageSurplus) MinSurplus(item int) float64 {
	return m.Statistics(item).MinSurplus
}

// AverageCost returns the time-average cost of the item.
func (m *AverageSurplus) AverageCost(item int) float64 {
	i := m.env.Machine().Item(item)

	return m.Statistics(item).AverageCost(i.InventoryCostRate, i.BacklogCostRate)
}

// TotalAverageCost returns the time-average cost of all items.
func (m *AverageSurplus) TotalAverageCost() float64 {
	total := 0.0
	for i := range m.calculators {
		total += m.AverageCost(i)
	}

	return total
}
