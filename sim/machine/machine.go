// Package machine models the single machine of a production system and the
// items it produces.
package machine

import (
	"fmt"

	"github.com/sarchlab/prodsim/sim/timing"
	"github.com/sirupsen/logrus"
)

// FailureState tells if the machine works.
type FailureState int

// The failure states.
const (
	Up FailureState = iota
	Down
)

func (s FailureState) String() string {
	switch s {
	case Up:
		return "UP"
	case Down:
		return "DOWN"
	}

	return fmt.Sprintf("FailureState(%d)", int(s))
}

// OperationalState tells what the machine does while it is up.
type OperationalState int

// The operational states.
const (
	Sprint OperationalState = iota
	Cruise
	Setup
	Idle
)

func (s OperationalState) String() string {
	switch s {
	case Sprint:
		return "SPRINT"
	case Cruise:
		return "CRUISE"
	case Setup:
		return "SETUP"
	case Idle:
		return "IDLE"
	}

	return fmt.Sprintf("OperationalState(%d)", int(s))
}

// A DepartureSource creates the production departures of the machine.
type DepartureSource interface {
	NextDeparture(item int, now timing.TimeInstant) *timing.Event
	IsDiscrete() bool
}

// A Machine produces one item at a time. Changing the item it is set up for
// takes the setup time of the new item, and the machine fails and gets
// repaired at random.
//
// Production departures live in the production schedule of the master
// scheduler. The schedule is on hold whenever the machine is not producing,
// so pending departures are pushed back by the time the machine spends idle,
// down, or changing setups.
type Machine struct {
	ms         *timing.MasterScheduler
	production DepartureSource

	items []*Item
	setup int

	failureState      FailureState
	operationalState  OperationalState
	changingOverUntil timing.TimeInstant
}

// NewMachine creates a machine that is up, idle, and set up for the initial
// item.
func NewMachine(
	ms *timing.MasterScheduler,
	items []*Item,
	initialSetup int,
) *Machine {
	if initialSetup < 0 || initialSetup >= len(items) {
		panic(fmt.Sprintf("machine: initial setup %d out of range [0, %d)",
			initialSetup, len(items)))
	}

	m := &Machine{
		ms:               ms,
		items:            items,
		setup:            initialSetup,
		failureState:     Up,
		operationalState: Idle,
	}

	items[initialSetup].setUnderProduction(true)
	m.productionSchedule().HoldEvents()

	logrus.WithFields(logrus.Fields{
		"items": len(items),
		"setup": initialSetup,
	}).Debug("machine created")

	return m
}

// SetProductionProcess sets where the machine gets departures from.
func (m *Machine) SetProductionProcess(p DepartureSource) {
	m.production = p
}

func (m *Machine) productionSchedule() *timing.Schedule {
	return m.ms.Schedule(timing.ScheduleProduction)
}

// Items returns all the items, ordered by ID.
func (m *Machine) Items() []*Item {
	return m.items
}

// NumItems returns the number of items.
func (m *Machine) NumItems() int {
	return len(m.items)
}

// Item returns the item with the given ID.
func (m *Machine) Item(id int) *Item {
	return m.items[id]
}

// Setup returns the item the machine is set up for.
func (m *Machine) Setup() *Item {
	return m.items[m.setup]
}

// FailureState returns the failure state.
func (m *Machine) FailureState() FailureState {
	return m.failureState
}

// OperationalState returns the operational state.
func (m *Machine) OperationalState() OperationalState {
	return m.operationalState
}

// IsUp tells if the machine works.
func (m *Machine) IsUp() bool {
	return m.failureState == Up
}

// IsDown tells if the machine is under repair.
func (m *Machine) IsDown() bool {
	return m.failureState == Down
}

// IsChangingSetups tells if the machine is in the SETUP state. A setup that
// has completed still counts until the machine is told what to do next.
func (m *Machine) IsChangingSetups() bool {
	return m.operationalState == Setup
}

// IsSetupComplete tells if no setup change is in progress.
func (m *Machine) IsSetupComplete() bool {
	if m.operationalState != Setup {
		return true
	}

	return m.ms.Now().HasReachedEpoch(m.changingOverUntil)
}

// NextSetupCompleteTime returns the time the last setup change ends.
func (m *Machine) NextSetupCompleteTime() timing.TimeInstant {
	return m.changingOverUntil
}

// IsProducing tells if the machine is turning out the setup item.
func (m *Machine) IsProducing() bool {
	return m.IsUp() &&
		(m.operationalState == Sprint || m.operationalState == Cruise)
}

func (m *Machine) isMidSetup() bool {
	return !m.IsSetupComplete()
}

// BreakDown fails the machine. The delayable schedules stay on hold until
// the machine is repaired.
func (m *Machine) BreakDown() {
	if m.IsDown() {
		panic("machine: cannot break down, the machine is already down")
	}

	if m.isMidSetup() {
		panic(fmt.Sprintf(
			"machine: cannot break down during a setup change, setup ends at %s, now %s",
			m.changingOverUntil, m.ms.Now()))
	}

	m.failureState = Down
	m.ms.HoldDelayableEvents()

	logrus.WithField("sim_time", m.ms.Now()).Debug("machine down")
}

// Repair brings the machine back up and lets the delayable schedules
// dispatch again.
func (m *Machine) Repair() {
	if !m.IsDown() {
		panic("machine: cannot repair, the machine is not down")
	}

	m.failureState = Up
	m.ms.ReleaseAndDelayEvents()

	switch m.operationalState {
	case Sprint:
		m.requestDepartureIfNone()
	case Cruise:
	default:
		m.productionSchedule().HoldEvents()
	}

	logrus.WithField("sim_time", m.ms.Now()).Debug("machine up")
}

// StartChangeover sets the machine up for the item. The machine stays in
// SETUP for the setup time of the item, or no time at all if it is already
// set up for it. Pending departures of the old item are discarded.
func (m *Machine) StartChangeover(item int) {
	if m.isMidSetup() {
		panic(fmt.Sprintf(
			"machine: cannot change over to item %d, already changing setups until %s",
			item, m.changingOverUntil))
	}

	if m.IsDown() {
		panic(fmt.Sprintf(
			"machine: cannot change over to item %d while the machine is down",
			item))
	}

	duration := m.items[item].SetupTime
	if item == m.setup {
		duration = 0
	}

	old := m.setup
	m.items[old].setUnderProduction(false)
	m.items[item].setUnderProduction(true)

	m.setup = item
	m.operationalState = Setup
	m.changingOverUntil = m.ms.Now().AddFloat(duration)

	ps := m.productionSchedule()
	ps.DumpEvents()
	ps.HoldEvents()

	logrus.WithFields(logrus.Fields{
		"sim_time": m.ms.Now(),
		"from":     old,
		"to":       item,
		"until":    m.changingOverUntil,
	}).Debug("changeover started")
}

func (m *Machine) setupMustBeComplete(target OperationalState) {
	if m.isMidSetup() {
		panic(fmt.Sprintf(
			"machine: cannot switch to %s, changing setups until %s",
			target, m.changingOverUntil))
	}
}

// SetIdle stops production.
func (m *Machine) SetIdle() {
	m.setupMustBeComplete(Idle)

	if m.operationalState == Idle {
		return
	}

	m.operationalState = Idle
	m.productionSchedule().HoldEvents()

	logrus.WithField("sim_time", m.ms.Now()).Trace("machine idle")
}

// SetCruise produces the setup item at its demand rate. It requires a
// continuous production process.
func (m *Machine) SetCruise() {
	m.setupMustBeComplete(Cruise)

	if m.IsDown() {
		panic("machine: cannot cruise while the machine is down")
	}

	if m.production != nil && m.production.IsDiscrete() {
		panic("machine: cannot cruise with a discrete production process")
	}

	if m.operationalState == Cruise {
		return
	}

	m.operationalState = Cruise
	m.releaseProduction()

	logrus.WithField("sim_time", m.ms.Now()).Trace("machine cruising")
}

// SetSprint produces the setup item at its production rate.
func (m *Machine) SetSprint() {
	m.setupMustBeComplete(Sprint)

	if m.IsDown() {
		panic("machine: cannot sprint while the machine is down")
	}

	if m.operationalState == Sprint {
		return
	}

	m.operationalState = Sprint
	m.releaseProduction()
	m.requestDepartureIfNone()

	logrus.WithField("sim_time", m.ms.Now()).Trace("machine sprinting")
}

func (m *Machine) releaseProduction() {
	ps := m.productionSchedule()
	if ps.IsOnHold() {
		ps.ReleaseAndDelayEvents()
	}
}

func (m *Machine) requestDepartureIfNone() {
	if m.production == nil || !m.productionSchedule().EventsComplete() {
		return
	}

	m.ms.AddEvent(m.production.NextDeparture(m.setup, m.ms.Now()))
}
