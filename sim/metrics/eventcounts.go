package metrics

import (
	"github.com/sarchlab/prodsim/sim/hooking"
	"github.com/sarchlab/prodsim/sim/timing"
	"github.com/sirupsen/logrus"
)

// EventCounts counts the handled events of each kind, separately for the
// warm-up period and for the rest of the run.
type EventCounts struct {
	env         Env
	transient   map[timing.EventKind]int
	steadyState map[timing.EventKind]int
}

// NewEventCounts creates the metric with a zero count for every kind.
func NewEventCounts(env Env) *EventCounts {
	m := &EventCounts{
		env:         env,
		transient:   make(map[timing.EventKind]int),
		steadyState: make(map[timing.EventKind]int),
	}

	for _, k := range timing.EventKinds() {
		m.transient[k] = 0
		m.steadyState[k] = 0
	}

	return m
}

// Func counts a handled event.
func (m *EventCounts) Func(ctx hooking.HookCtx) {
	if ctx.Pos != timing.HookPosAfterEvent {
		return
	}

	evt := ctx.Item.(*timing.Event)

	if m.env.IsTimeToRecordData() {
		m.steadyState[evt.Kind]++
	} else {
		m.transient[evt.Kind]++
	}
}

// TransientCount returns how many events of the kind were handled during
// the warm-up period.
func (m *EventCounts) TransientCount(k timing.EventKind) int {
	return m.transient[k]
}

// SteadyStateCount returns how many events of the kind were handled after
// the warm-up period.
func (m *EventCounts) SteadyStateCount(k timing.EventKind) int {
	return m.steadyState[k]
}

// Fields returns the steady-state count of every kind, keyed by kind name,
// for logging.
func (m *EventCounts) Fields() logrus.Fields {
	fields := logrus.Fields{}
	for _, k := range timing.EventKinds() {
		fields[k.String()] = m.steadyState[k]
	}

	return fields
}
