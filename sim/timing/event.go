package timing

import (
	"fmt"

	"github.com/sarchlab/prodsim/sim/hooking"
)

// EventKind identifies what an event does when it is handled.
type EventKind int

// The kinds of events. The set is closed; the simulation handles each kind
// explicitly.
const (
	KindControl EventKind = iota
	KindSurplusControl
	KindChangeover
	KindFailure
	KindRepair
	KindDemandArrival
	KindProductionDeparture
	numEventKinds
)

// EventKinds returns all the event kinds.
func EventKinds() []EventKind {
	kinds := make([]EventKind, 0, numEventKinds)
	for k := KindControl; k < numEventKinds; k++ {
		kinds = append(kinds, k)
	}

	return kinds
}

// ScheduleType returns the category that events of the kind belong to.
func (k EventKind) ScheduleType() ScheduleType {
	switch k {
	case KindControl, KindSurplusControl, KindChangeover:
		return ScheduleControl
	case KindFailure:
		return ScheduleFailures
	case KindRepair:
		return ScheduleRepairs
	case KindDemandArrival:
		return ScheduleDemand
	case KindProductionDeparture:
		return ScheduleProduction
	default:
		panic(fmt.Sprintf("timing: unknown event kind %d", int(k)))
	}
}

func (k EventKind) String() string {
	switch k {
	case KindControl:
		return "Control"
	case KindSurplusControl:
		return "SurplusControl"
	case KindChangeover:
		return "Changeover"
	case KindFailure:
		return "Failure"
	case KindRepair:
		return "Repair"
	case KindDemandArrival:
		return "DemandArrival"
	case KindProductionDeparture:
		return "ProductionDeparture"
	default:
		return "Unknown"
	}
}

// HookPosBeforeEvent is a hook position that triggers before handling an
// event. The hook context carries the event as Item and the time the clock
// was at before the event as Detail.
var HookPosBeforeEvent = &hooking.HookPos{Name: "BeforeEvent"}

// HookPosAfterEvent is a hook position that triggers after handling an event.
var HookPosAfterEvent = &hooking.HookPos{Name: "AfterEvent"}

// NoItem is the item index of events that do not concern a specific item.
const NoItem = -1

// An Event is something going to happen in the future. The schedule that
// owns a pending event may shift its time.
type Event struct {
	ID       string
	Kind     EventKind
	Item     int
	Quantity float64
	Target   float64

	time TimeInstant
	seq  uint64
}

// NewEvent creates an event of the given kind that does not concern any
// item.
func NewEvent(kind EventKind, t TimeInstant) *Event {
	return &Event{
		Kind: kind,
		Item: NoItem,
		time: t,
	}
}

// NewControlEvent creates an event that asks the policy for a new decision.
func NewControlEvent(t TimeInstant) *Event {
	return NewEvent(KindControl, t)
}

// NewSurplusControlEvent creates a control event placed at the time the item
// is expected to reach the target surplus.
func NewSurplusControlEvent(t TimeInstant, item int, target float64) *Event {
	e := NewEvent(KindSurplusControl, t)
	e.Item = item
	e.Target = target

	return e
}

// NewChangeoverEvent creates an event that starts a setup change to the item.
func NewChangeoverEvent(t TimeInstant, item int) *Event {
	e := NewEvent(KindChangeover, t)
	e.Item = item

	return e
}

// NewFailureEvent creates an event that breaks the machine down.
func NewFailureEvent(t TimeInstant) *Event {
	return NewEvent(KindFailure, t)
}

// NewRepairEvent creates an event that brings the machine back up.
func NewRepairEvent(t TimeInstant) *Event {
	return NewEvent(KindRepair, t)
}

// NewDemandArrivalEvent creates an event that adds a quantity to the
// cumulative demand of the item.
func NewDemandArrivalEvent(t TimeInstant, item int, qty float64) *Event {
	e := NewEvent(KindDemandArrival, t)
	e.Item = item
	e.Quantity = qty

	return e
}

// NewProductionDepartureEvent creates an event that adds a quantity to the
// cumulative production of the item.
func NewProductionDepartureEvent(
	t TimeInstant,
	item int,
	qty float64,
) *Event {
	e := NewEvent(KindProductionDeparture, t)
	e.Item = item
	e.Quantity = qty

	return e
}

// Time returns the time that the event is going to happen.
func (e *Event) Time() TimeInstant {
	return e.time
}

// ScheduleType returns the category of the event.
func (e *Event) ScheduleType() ScheduleType {
	return e.Kind.ScheduleType()
}

func (e *Event) String() string {
	return fmt.Sprintf("%s:%s (%s)", e.Kind, e.ID, e.time)
}
