package timing

import (
	"fmt"

	"github.com/sarchlab/prodsim/sim/hooking"
	"github.com/sarchlab/prodsim/sim/id"
	"github.com/sirupsen/logrus"
)

// A Trigger is called once, the next time an event is added to a
// MasterScheduler.
type Trigger interface {
	Trigger(e *Event)
}

// A TriggerFunc turns a function into a Trigger.
type TriggerFunc func(e *Event)

// Trigger calls f.
func (f TriggerFunc) Trigger(e *Event) {
	f(e)
}

// A MasterScheduler owns one Schedule per ScheduleType and merges them into a
// single sequence of events. Hooks registered on the MasterScheduler are
// invoked at HookPosBeforeEvent every time an event is dispatched.
type MasterScheduler struct {
	hooking.HookableBase

	clock       *Clock
	schedules   []*Schedule
	triggers    []Trigger
	idGenerator id.IDGenerator
}

// NewMasterScheduler creates a MasterScheduler that advances the given clock.
func NewMasterScheduler(clock *Clock) *MasterScheduler {
	ms := &MasterScheduler{
		clock:       clock,
		idGenerator: id.NewIDGenerator(),
	}

	for _, st := range ScheduleTypes() {
		ms.schedules = append(ms.schedules, NewSchedule(st, clock))
	}

	return ms
}

// Clock returns the clock that the MasterScheduler advances.
func (ms *MasterScheduler) Clock() *Clock {
	return ms.clock
}

// Now returns the current time.
func (ms *MasterScheduler) Now() TimeInstant {
	return ms.clock.Now()
}

// Schedule returns the schedule of the given category.
func (ms *MasterScheduler) Schedule(st ScheduleType) *Schedule {
	return ms.schedules[st]
}

// AddEvent adds an event to the schedule of its category. Adding a nil event
// does nothing.
func (ms *MasterScheduler) AddEvent(e *Event) {
	if e == nil {
		return
	}

	now := ms.clock.Now()
	if e.time.Before(now) {
		panic(fmt.Sprintf(
			"timing: cannot schedule event in the past, evt %s @ %s, now %s",
			e.Kind, e.time, now))
	}

	if e.ID == "" {
		e.ID = ms.idGenerator.Generate()
	}

	ms.schedules[e.ScheduleType()].AddEvent(e)

	// Triggers may register new triggers; those wait for the next event.
	triggers := ms.triggers
	ms.triggers = nil

	for _, t := range triggers {
		t.Trigger(e)
	}
}

// AddTrigger registers a trigger for the next added event.
func (ms *MasterScheduler) AddTrigger(t Trigger) {
	ms.triggers = append(ms.triggers, t)
}

func (ms *MasterScheduler) nextSchedule() *Schedule {
	var next *Schedule

	for _, s := range ms.schedules {
		if s.IsOnHold() || s.EventsComplete() {
			continue
		}

		if next == nil || s.NextEventTime().Before(next.NextEventTime()) {
			next = s
		}
	}

	return next
}

// NextEventTime returns the time of the next event that can be dispatched.
// The second return value is false if no event can be dispatched, in which
// case the time is Infinity.
func (ms *MasterScheduler) NextEventTime() (TimeInstant, bool) {
	s := ms.nextSchedule()
	if s == nil {
		return Infinity(), false
	}

	return s.NextEventTime(), true
}

// NextEventType returns the category of the next event that can be
// dispatched.
func (ms *MasterScheduler) NextEventType() (ScheduleType, bool) {
	s := ms.nextSchedule()
	if s == nil {
		return 0, false
	}

	return s.Type(), true
}

// NextEvent removes the next event, advances the clock to its time, and
// invokes the before-event hooks. It returns nil if no event can be
// dispatched.
func (ms *MasterScheduler) NextEvent() *Event {
	s := ms.nextSchedule()
	if s == nil {
		return nil
	}

	evt := s.NextEvent()
	previous := ms.clock.Now()

	if evt.time.Before(previous) {
		panic(fmt.Sprintf(
			"timing: cannot run event in the past, evt %s @ %s, now %s",
			evt.Kind, evt.time, previous))
	}

	ms.clock.AdvanceTo(evt.time)

	ms.InvokeHook(hooking.HookCtx{
		Domain: ms,
		Pos:    HookPosBeforeEvent,
		Item:   evt,
		Detail: previous,
	})

	return evt
}

// EventsComplete tells if every schedule is empty.
func (ms *MasterScheduler) EventsComplete() bool {
	for _, s := range ms.schedules {
		if !s.EventsComplete() {
			return false
		}
	}

	return true
}

// DumpEvents discards the pending events of every dumpable category.
func (ms *MasterScheduler) DumpEvents() {
	for _, s := range ms.schedules {
		if s.Type().Dumpable() {
			s.DumpEvents()
		}
	}
}

// DelayEvents postpones the pending events of every delayable category.
func (ms *MasterScheduler) DelayEvents(delta TimeInstant) {
	for _, s := range ms.schedules {
		if s.Type().Delayable() {
			s.DelayEvents(delta)
		}
	}
}

// HoldDelayableEvents puts every delayable category on hold.
func (ms *MasterScheduler) HoldDelayableEvents() {
	for _, s := range ms.schedules {
		if s.Type().Delayable() && !s.IsOnHold() {
			s.HoldEvents()
		}
	}

	logrus.WithField("sim_time", ms.clock.Now()).Debug("delayable events held")
}

// ReleaseAndDelayEvents releases every delayable category that is on hold,
// postponing its events by the time it was held.
func (ms *MasterScheduler) ReleaseAndDelayEvents() {
	for _, s := range ms.schedules {
		if s.Type().Delayable() && s.IsOnHold() {
			s.ReleaseAndDelayEvents()
		}
	}

	logrus.WithField("sim_time", ms.clock.Now()).Debug("delayable events released")
}
