package policy

import (
	"fmt"

	"github.com/sarchlab/prodsim/sim/timing"
	"github.com/sirupsen/logrus"
)

// A Rule holds the decisions that tell policies apart.
type Rule interface {
	// IsTimeToChangeOver tells if the machine should leave the current
	// setup.
	IsTimeToChangeOver(env Env) bool

	// NextItem returns the item to change over to, or timing.NoItem if it is
	// not time to change over.
	NextItem(env Env) int

	// OnReady runs when the machine is up and set up, and returns the next
	// control event.
	OnReady(env Env) *timing.Event
}

// Base runs the control loop shared by all policies and asks a Rule for the
// decisions.
type Base struct {
	rule Rule

	lastChangeoverTime timing.TimeInstant
	numChangeovers     int
}

// Setup does nothing by default.
func (b *Base) Setup(_ Env) {
}

// UpdateControl makes a new decision.
func (b *Base) UpdateControl(env Env) {
	m := env.Machine()
	ms := env.Scheduler()

	if m.IsDown() {
		logrus.Trace("machine is down")
		b.onFailure(env)

		return
	}

	switch {
	case !m.IsChangingSetups():
		if b.rule.IsTimeToChangeOver(env) {
			b.startChangeover(env, b.rule.NextItem(env))
			return
		}

		ms.AddEvent(b.rule.OnReady(env))
	case m.IsSetupComplete():
		logrus.WithField("sim_time", ms.Now()).Trace("setup change complete")
		m.SetSprint()
		ms.AddEvent(timing.NewControlEvent(ms.Now()))
	default:
		ms.AddEvent(timing.NewControlEvent(m.NextSetupCompleteTime()))
	}
}

func (b *Base) onFailure(env Env) {
	env.Scheduler().DumpEvents()
}

func (b *Base) startChangeover(env Env, item int) {
	m := env.Machine()
	ms := env.Scheduler()

	if item == timing.NoItem || item == m.Setup().ID() {
		panic(fmt.Sprintf(
			"policy: cannot change over from %s to item %d", m.Setup(), item))
	}

	logrus.WithFields(logrus.Fields{
		"sim_time":        ms.Now(),
		"to":              item,
		"last_changeover": b.lastChangeoverTime,
	}).Debug("changeover scheduled")

	ms.AddEvent(timing.NewChangeoverEvent(ms.Now(), item))
	b.lastChangeoverTime = ms.Now()
	b.numChangeovers++
}

// NumChangeovers returns how many changeovers the policy has asked for.
func (b *Base) NumChangeovers() int {
	return b.numChangeovers
}

// sprintToTarget sets the machine to sprint and returns a control event at
// the time the setup item reaches its target.
func sprintToTarget(env Env) *timing.Event {
	m := env.Machine()
	ms := env.Scheduler()
	item := m.Setup()

	m.SetSprint()

	t := TimeToHit(item, item.SurplusTarget,
		env.DemandProcess(), env.ProductionProcess())

	return timing.NewSurplusControlEvent(
		ms.Now().Add(t), item.ID(), item.SurplusTarget)
}
