package process

import (
	"github.com/sarchlab/prodsim/sim/hooking"
	"github.com/sarchlab/prodsim/sim/machine"
	"github.com/sarchlab/prodsim/sim/timing"
)

// ContinuousProduction makes the setup item accrue at its production rate
// while the machine sprints, and at its demand rate while it cruises. It
// emits no events.
type ContinuousProduction struct {
	env Env
}

// NewContinuousProduction creates a continuous production process.
func NewContinuousProduction() *ContinuousProduction {
	return &ContinuousProduction{}
}

// Init registers the production update hook.
func (p *ContinuousProduction) Init(env Env) {
	p.env = env
	env.Scheduler().AcceptHook(p)
}

// Func adds the production since the previous event.
func (p *ContinuousProduction) Func(ctx hooking.HookCtx) {
	if ctx.Pos != timing.HookPosBeforeEvent {
		return
	}

	m := p.env.Machine()
	if !m.IsUp() {
		return
	}

	evt := ctx.Item.(*timing.Event)
	delta := evt.Time().Sub(ctx.Detail.(timing.TimeInstant)).Float64()
	item := m.Setup()

	switch m.OperationalState() {
	case machine.Sprint:
		item.AddProduction(item.ProductionRate * delta)
	case machine.Cruise:
		item.AddProduction(item.DemandRate * delta)
	}
}

// NextDeparture returns nil.
func (p *ContinuousProduction) NextDeparture(
	_ int,
	_ timing.TimeInstant,
) *timing.Event {
	return nil
}

// IsDiscrete returns false.
func (p *ContinuousProduction) IsDiscrete() bool {
	return false
}

// NextScheduledDepartureTime returns now.
func (p *ContinuousProduction) NextScheduledDepartureTime(
	_ int,
) timing.TimeInstant {
	return p.env.Scheduler().Now()
}

// DeterministicBatchesProduction turns out fixed batches of the setup item
// at fixed intervals.
type DeterministicBatchesProduction struct {
	batchSize           int
	interDepartureTimes []float64
	ms                  *timing.MasterScheduler
}

// NewDeterministicBatchesProduction creates a production process with the
// given batch size.
func NewDeterministicBatchesProduction(
	batchSize int,
) *DeterministicBatchesProduction {
	return &DeterministicBatchesProduction{batchSize: batchSize}
}

// Init schedules the first departure of the setup item.
func (p *DeterministicBatchesProduction) Init(env Env) {
	items := env.Machine().Items()
	p.ms = env.Scheduler()

	p.interDepartureTimes = make([]float64, len(items))
	for i, item := range items {
		p.interDepartureTimes[i] = float64(p.batchSize) / item.ProductionRate
	}

	p.ms.AddEvent(p.NextDeparture(env.Machine().Setup().ID(), p.ms.Now()))
}

// NextDeparture creates the departure that follows one at now.
func (p *DeterministicBatchesProduction) NextDeparture(
	item int,
	now timing.TimeInstant,
) *timing.Event {
	return timing.NewProductionDepartureEvent(
		now.AddFloat(p.interDepartureTimes[item]), item, float64(p.batchSize))
}

// IsDiscrete returns true.
func (p *DeterministicBatchesProduction) IsDiscrete() bool {
	return true
}

// NextScheduledDepartureTime returns the time of the pending departure of
// the item, or Infinity if the item has none.
func (p *DeterministicBatchesProduction) NextScheduledDepartureTime(
	item int,
) timing.TimeInstant {
	next := p.ms.Schedule(timing.ScheduleProduction).PeekNextEvent()
	if next == nil || next.Item != item {
		return timing.Infinity()
	}

	return next.Time()
}
