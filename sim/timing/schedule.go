package timing

import (
	"container/heap"
	"fmt"

	"github.com/sirupsen/logrus"
)

type eventHeap []*Event

func (h eventHeap) Len() int {
	return len(h)
}

func (h eventHeap) Less(i, j int) bool {
	c := h[i].time.Cmp(h[j].time)
	if c != 0 {
		return c < 0
	}

	return h[i].seq < h[j].seq
}

func (h eventHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

func (h *eventHeap) Push(x interface{}) {
	*h = append(*h, x.(*Event))
}

func (h *eventHeap) Pop() interface{} {
	old := *h
	n := len(old)
	evt := old[n-1]
	old[n-1] = nil
	*h = old[0 : n-1]

	return evt
}

// A Schedule keeps the pending events of one category, earliest first.
// Events with the same time leave in the order they were added.
type Schedule struct {
	scheduleType ScheduleType
	timeTeller   TimeTeller

	events  eventHeap
	nextSeq uint64

	onHold        bool
	holdStartTime TimeInstant

	lastDispatchTime   TimeInstant
	lastInterEventTime TimeInstant
}

// NewSchedule creates an empty schedule of the given category. The time
// teller provides the hold start and release times.
func NewSchedule(st ScheduleType, timeTeller TimeTeller) *Schedule {
	return &Schedule{
		scheduleType: st,
		timeTeller:   timeTeller,
	}
}

// Type returns the category of the schedule.
func (s *Schedule) Type() ScheduleType {
	return s.scheduleType
}

// Len returns the number of pending events.
func (s *Schedule) Len() int {
	return len(s.events)
}

// AddEvent inserts an event.
func (s *Schedule) AddEvent(e *Event) {
	e.seq = s.nextSeq
	s.nextSeq++

	heap.Push(&s.events, e)

	logrus.WithFields(logrus.Fields{
		"schedule": s.scheduleType,
		"event":    e,
	}).Trace("event added")
}

// PeekNextEvent returns the earliest event without removing it. It returns
// nil if the schedule is empty.
func (s *Schedule) PeekNextEvent() *Event {
	if len(s.events) == 0 {
		return nil
	}

	return s.events[0]
}

// NextEventTime returns the time of the earliest event, or Infinity if the
// schedule is empty.
func (s *Schedule) NextEventTime() TimeInstant {
	if len(s.events) == 0 {
		return Infinity()
	}

	return s.events[0].time
}

// NextEvent removes and returns the earliest event. It returns nil if the
// schedule is empty.
func (s *Schedule) NextEvent() *Event {
	if s.onHold {
		panic(fmt.Sprintf(
			"timing: cannot dispatch from schedule %s while it is on hold",
			s.scheduleType))
	}

	if len(s.events) == 0 {
		return nil
	}

	evt := heap.Pop(&s.events).(*Event)

	s.lastInterEventTime = evt.time.Sub(s.lastDispatchTime)
	s.lastDispatchTime = evt.time

	return evt
}

// LastInterEventTime returns the time between the last two events dispatched
// from the schedule. Delays applied in between do not count as a gap.
func (s *Schedule) LastInterEventTime() TimeInstant {
	return s.lastInterEventTime
}

// DelayEvents postpones every pending event by delta.
func (s *Schedule) DelayEvents(delta TimeInstant) {
	if delta.Before(Zero()) {
		panic(fmt.Sprintf(
			"timing: cannot delay schedule %s by a negative time %s",
			s.scheduleType, delta))
	}

	for _, e := range s.events {
		e.time = e.time.Add(delta)
	}

	s.lastDispatchTime = s.lastDispatchTime.Add(delta)

	logrus.WithFields(logrus.Fields{
		"schedule": s.scheduleType,
		"delay":    delta,
		"events":   len(s.events),
	}).Debug("events delayed")
}

// HoldEvents stops the schedule from dispatching events. Holding a schedule
// that is already on hold keeps the original hold start time.
func (s *Schedule) HoldEvents() {
	if s.onHold {
		return
	}

	s.onHold = true
	s.holdStartTime = s.timeTeller.Now()

	logrus.WithFields(logrus.Fields{
		"schedule": s.scheduleType,
		"sim_time": s.holdStartTime,
	}).Debug("schedule on hold")
}

// ReleaseAndDelayEvents lets the schedule dispatch events again, after
// postponing every pending event by the time the schedule was on hold.
func (s *Schedule) ReleaseAndDelayEvents() {
	if !s.onHold {
		panic(fmt.Sprintf(
			"timing: cannot release schedule %s, it is not on hold",
			s.scheduleType))
	}

	elapsed := s.timeTeller.Now().Sub(s.holdStartTime)
	s.DelayEvents(elapsed)
	s.onHold = false
}

// IsOnHold tells if the schedule is on hold.
func (s *Schedule) IsOnHold() bool {
	return s.onHold
}

// DumpEvents discards all pending events.
func (s *Schedule) DumpEvents() {
	if len(s.events) > 0 {
		logrus.WithFields(logrus.Fields{
			"schedule": s.scheduleType,
			"events":   len(s.events),
		}).Trace("events dumped")
	}

	s.events = nil
}

// EventsComplete tells if there is no pending event.
func (s *Schedule) EventsComplete() bool {
	return len(s.events) == 0
}
