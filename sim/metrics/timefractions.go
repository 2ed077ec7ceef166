package metrics

import (
	"fmt"

	"github.com/sarchlab/prodsim/sim/hooking"
	"github.com/sarchlab/prodsim/sim/machine"
	"github.com/sarchlab/prodsim/sim/timing"
)

// Activity is what the machine spends time on.
type Activity int

// The activities.
const (
	ActivitySprint Activity = iota
	ActivityCruise
	ActivityIdle
	ActivitySetup
	ActivityRepair
	numActivities
)

// Activities returns all the activities.
func Activities() []Activity {
	return []Activity{
		ActivitySprint, ActivityCruise, ActivityIdle,
		ActivitySetup, ActivityRepair,
	}
}

func (a Activity) String() string {
	switch a {
	case ActivitySprint:
		return "SPRINT"
	case ActivityCruise:
		return "CRUISE"
	case ActivityIdle:
		return "IDLE"
	case ActivitySetup:
		return "SETUP"
	case ActivityRepair:
		return "REPAIR"
	}

	return fmt.Sprintf("Activity(%d)", int(a))
}

func activityOf(m *machine.Machine) Activity {
	if m.IsDown() {
		return ActivityRepair
	}

	switch m.OperationalState() {
	case machine.Sprint:
		return ActivitySprint
	case machine.Cruise:
		return ActivityCruise
	case machine.Setup:
		return ActivitySetup
	default:
		return ActivityIdle
	}
}

// TimeFractions measures how long the machine spends on each activity,
// charged to the item it is set up for.
type TimeFractions struct {
	env   Env
	times [numActivities][]float64
	total float64
}

// NewTimeFractions creates the metric.
func NewTimeFractions(env Env) *TimeFractions {
	m := &TimeFractions{env: env}

	n := env.Machine().NumItems()
	for a := range m.times {
		m.times[a] = make([]float64, n)
	}

	return m
}

// Func charges the time since the previous event. The machine has not
// changed state yet, so the time goes to the state it was in.
func (m *TimeFractions) Func(ctx hooking.HookCtx) {
	if ctx.Pos != timing.HookPosBeforeEvent || !m.env.IsTimeToRecordData() {
		return
	}

	evt := ctx.Item.(*timing.Event)
	delta := evt.Time().Sub(ctx.Detail.(timing.TimeInstant)).Float64()
	mc := m.env.Machine()

	m.times[activityOf(mc)][mc.Setup().ID()] += delta
	m.total += delta
}

// Time returns the time spent on the activity for the item.
func (m *TimeFractions) Time(a Activity, item int) float64 {
	return m.times[a][item]
}

// Fraction returns the share of the recorded time spent on the activity for
// the item.
func (m *TimeFractions) Fraction(a Activity, item int) float64 {
	if m.total == 0 {
		return 0
	}

	return m.times[a][item] / m.total
}

// TotalTime returns the recorded time.
func (m *TimeFractions) TotalTime() float64 {
	return m.total
}
