package process

import (
	"github.com/sarchlab/prodsim/sim/hooking"
	"github.com/sarchlab/prodsim/sim/timing"
)

// ContinuousDemand makes demand accrue at the demand rate of every item. It
// emits no events. Demand is brought up to date right before each event.
type ContinuousDemand struct {
	env        Env
	lastUpdate timing.TimeInstant
}

// NewContinuousDemand creates a continuous demand process.
func NewContinuousDemand() *ContinuousDemand {
	return &ContinuousDemand{}
}

// Init registers the demand update hook.
func (d *ContinuousDemand) Init(env Env) {
	d.env = env
	d.lastUpdate = env.Scheduler().Now()
	env.Scheduler().AcceptHook(d)
}

// Func adds the demand accrued since the last update.
func (d *ContinuousDemand) Func(ctx hooking.HookCtx) {
	if ctx.Pos != timing.HookPosBeforeEvent {
		return
	}

	evt := ctx.Item.(*timing.Event)

	delta := evt.Time().Sub(d.lastUpdate)
	if !delta.HasPassedEpoch(timing.Zero()) {
		return
	}

	for _, item := range d.env.Machine().Items() {
		item.AddDemand(item.DemandRate * delta.Float64())
	}

	d.lastUpdate = evt.Time()
}

// NextArrival returns nil.
func (d *ContinuousDemand) NextArrival(
	_ int,
	_ timing.TimeInstant,
) *timing.Event {
	return nil
}

// IsDiscrete returns false.
func (d *ContinuousDemand) IsDiscrete() bool {
	return false
}

// NextScheduledArrivalTime returns now, as demand arrives all the time.
func (d *ContinuousDemand) NextScheduledArrivalTime(_ int) timing.TimeInstant {
	return d.env.Scheduler().Now()
}

// DeterministicBatchesDemand makes demand arrive in fixed batches at fixed
// intervals.
type DeterministicBatchesDemand struct {
	batchSize         int
	interArrivalTimes []float64
	scheduled         []*timing.Event
}

// NewDeterministicBatchesDemand creates a demand process with the given
// batch size.
func NewDeterministicBatchesDemand(batchSize int) *DeterministicBatchesDemand {
	return &DeterministicBatchesDemand{batchSize: batchSize}
}

// Init schedules the first arrival of every item.
func (d *DeterministicBatchesDemand) Init(env Env) {
	items := env.Machine().Items()
	ms := env.Scheduler()

	d.interArrivalTimes = make([]float64, len(items))
	d.scheduled = make([]*timing.Event, len(items))

	for i, item := range items {
		d.interArrivalTimes[i] = float64(d.batchSize) / item.DemandRate
		ms.AddEvent(d.NextArrival(i, ms.Now()))
	}
}

// NextArrival creates the arrival that follows one at now.
func (d *DeterministicBatchesDemand) NextArrival(
	item int,
	now timing.TimeInstant,
) *timing.Event {
	evt := timing.NewDemandArrivalEvent(
		now.AddFloat(d.interArrivalTimes[item]), item, float64(d.batchSize))
	d.scheduled[item] = evt

	return evt
}

// IsDiscrete returns true.
func (d *DeterministicBatchesDemand) IsDiscrete() bool {
	return true
}

// NextScheduledArrivalTime returns the time of the last arrival created for
// the item.
func (d *DeterministicBatchesDemand) NextScheduledArrivalTime(
	item int,
) timing.TimeInstant {
	return d.scheduled[item].Time()
}
