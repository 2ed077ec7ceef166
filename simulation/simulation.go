// Package simulation runs a production control policy on a single machine
// and measures how it performs.
package simulation

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sarchlab/prodsim/config"
	"github.com/sarchlab/prodsim/datarecording"
	"github.com/sarchlab/prodsim/monitoring"
	"github.com/sarchlab/prodsim/sim/hooking"
	"github.com/sarchlab/prodsim/sim/machine"
	"github.com/sarchlab/prodsim/sim/metrics"
	"github.com/sarchlab/prodsim/sim/policy"
	"github.com/sarchlab/prodsim/sim/process"
	"github.com/sarchlab/prodsim/sim/recording"
	"github.com/sarchlab/prodsim/sim/surplusstats"
	"github.com/sarchlab/prodsim/sim/timing"
	"github.com/sirupsen/logrus"
)

// ErrAlreadyRun is returned when a simulation is run a second time.
var ErrAlreadyRun = errors.New("simulation: already run")

// A Simulation owns everything a run needs: the clock, the master scheduler
// with its hooks, the machine, the processes, the policy and the metrics.
type Simulation struct {
	id     string
	params config.Params

	clock      *timing.Clock
	ms         *timing.MasterScheduler
	machine    *machine.Machine
	demand     process.DemandProcess
	production process.ProductionProcess
	policy     policy.Policy
	failures   process.TimeIntervalGenerator
	repairs    process.TimeIntervalGenerator

	averageSurplus        *metrics.AverageSurplus
	batchedAverageSurplus *metrics.BatchedAverageSurplus
	timeFractions         *metrics.TimeFractions
	eventCounts           *metrics.EventCounts
	serviceLevel          *metrics.ServiceLevelSurplus

	dataRecorder  datarecording.DataRecorder
	recorderHooks []hooking.Hook
	monitor       *monitoring.Monitor
	progressBar   *monitoring.ProgressBar

	started  bool
	finished bool

	stepLock  sync.Mutex
	pauseLock sync.Mutex
	paused    bool

	statusLock sync.RWMutex
	status     Status
}

// ID returns the unique ID of the run.
func (s *Simulation) ID() string {
	return s.id
}

// Params returns the parameters of the run.
func (s *Simulation) Params() config.Params {
	return s.params
}

// Scheduler returns the master scheduler.
func (s *Simulation) Scheduler() *timing.MasterScheduler {
	return s.ms
}

// Machine returns the machine.
func (s *Simulation) Machine() *machine.Machine {
	return s.machine
}

// DemandProcess returns the demand process.
func (s *Simulation) DemandProcess() process.DemandProcess {
	return s.demand
}

// ProductionProcess returns the production process.
func (s *Simulation) ProductionProcess() process.ProductionProcess {
	return s.production
}

// Policy returns the control policy.
func (s *Simulation) Policy() policy.Policy {
	return s.policy
}

// DataRecorder returns the data recorder, or nil if the run records nothing.
func (s *Simulation) DataRecorder() datarecording.DataRecorder {
	return s.dataRecorder
}

// Monitor returns the monitor, or nil if the run is not monitored.
func (s *Simulation) Monitor() *monitoring.Monitor {
	return s.monitor
}

// AverageSurplus returns the surplus statistics metric.
func (s *Simulation) AverageSurplus() *metrics.AverageSurplus {
	return s.averageSurplus
}

// TimeFractions returns the time fractions metric.
func (s *Simulation) TimeFractions() *metrics.TimeFractions {
	return s.timeFractions
}

// EventCounts returns the event counts metric.
func (s *Simulation) EventCounts() *metrics.EventCounts {
	return s.eventCounts
}

// IsTimeToRecordData tells if the clock has reached the end of the warm-up
// period.
func (s *Simulation) IsTimeToRecordData() bool {
	return s.clock.HasReachedEpoch(s.params.MetricsStartTime)
}

// Start schedules the first failure, the initial events of the processes
// and a control event at the current time. Calling it again does nothing.
func (s *Simulation) Start() {
	if s.started {
		return
	}

	s.started = true

	s.demand.Init(s)
	s.production.Init(s)
	s.policy.Setup(s)

	now := s.ms.Now()
	s.ms.AddEvent(timing.NewFailureEvent(now.AddFloat(s.failures.Next())))
	s.ms.AddEvent(timing.NewControlEvent(now))

	logrus.WithField("sim_time", now).Debug("simulation started")
}

// Run dispatches events until the next one is later than the final time,
// then closes the horizon with a control event at the final time.
func (s *Simulation) Run() error {
	if s.finished {
		return fmt.Errorf("%w: %s", ErrAlreadyRun, s.id)
	}

	s.Start()

	final := timing.At(s.params.FinalTime)

	for {
		t, ok := s.ms.NextEventTime()
		if !ok || t.After(final) {
			break
		}

		s.Step()
	}

	s.ms.AddEvent(timing.NewControlEvent(final))
	s.Step()

	s.finished = true
	s.publishStatus()

	logrus.WithFields(logrus.Fields{
		"sim_time":   s.ms.Now(),
		"total_cost": s.averageSurplus.TotalAverageCost(),
	}).Info("simulation finished")
	logrus.WithFields(s.eventCounts.Fields()).Debug("events handled")

	return nil
}

// Step dispatches and handles the next event. It returns false if no event
// can be dispatched.
func (s *Simulation) Step() bool {
	s.stepLock.Lock()
	defer s.stepLock.Unlock()

	evt := s.ms.NextEvent()
	if evt == nil {
		return false
	}

	s.Handle(evt)
	s.publishStatus()

	return true
}

// Handle applies the effect of an event that has just been dispatched and
// then invokes the after-event hooks.
func (s *Simulation) Handle(evt *timing.Event) {
	now := s.ms.Now()

	switch evt.Kind {
	case timing.KindControl, timing.KindSurplusControl:
		s.ms.DumpEvents()
		s.policy.UpdateControl(s)
	case timing.KindChangeover:
		d := s.machine.Item(evt.Item).SetupTime
		if evt.Item == s.machine.Setup().ID() {
			d = 0
		}

		s.machine.StartChangeover(evt.Item)
		s.ms.DelayEvents(timing.At(d))
		s.ms.AddEvent(timing.NewControlEvent(now.AddFloat(d)))
	case timing.KindFailure:
		s.ms.AddEvent(timing.NewRepairEvent(now.AddFloat(s.repairs.Next())))
		s.machine.BreakDown()
		s.policy.UpdateControl(s)
	case timing.KindRepair:
		s.machine.Repair()
		s.policy.UpdateControl(s)
		s.ms.AddEvent(timing.NewFailureEvent(now.AddFloat(s.failures.Next())))
	case timing.KindDemandArrival:
		s.machine.Item(evt.Item).AddDemand(evt.Quantity)
		s.ms.AddEvent(s.demand.NextArrival(evt.Item, now))
		s.ms.AddEvent(timing.NewControlEvent(now))
	case timing.KindProductionDeparture:
		s.machine.Item(evt.Item).AddProduction(evt.Quantity)

		if s.machine.IsProducing() && s.machine.Setup().ID() == evt.Item {
			s.ms.AddEvent(s.production.NextDeparture(evt.Item, now))
		}

		s.ms.AddEvent(timing.NewControlEvent(now))
	default:
		panic(fmt.Sprintf("simulation: cannot handle event of kind %s", evt.Kind))
	}

	s.ms.InvokeHook(hooking.HookCtx{
		Domain: s.ms,
		Pos:    timing.HookPosAfterEvent,
		Item:   evt,
	})
}

// Pause blocks the run before its next step. It returns once the current
// step is done.
func (s *Simulation) Pause() {
	s.pauseLock.Lock()
	defer s.pauseLock.Unlock()

	if s.paused {
		return
	}

	s.stepLock.Lock()
	s.paused = true

	logrus.Info("simulation paused")
}

// Continue resumes a paused run.
func (s *Simulation) Continue() {
	s.pauseLock.Lock()
	defer s.pauseLock.Unlock()

	if !s.paused {
		return
	}

	s.paused = false
	s.stepLock.Unlock()

	logrus.Info("simulation continued")
}

// ServiceLevelOffset searches the surplus target offset that gives the item
// the service level over the recorded trajectory.
func (s *Simulation) ServiceLevelOffset(
	item int,
	level float64,
) (float64, surplusstats.SurplusStatistics, error) {
	return s.serviceLevel.FindOffsetForServiceLevel(item, level)
}

// Terminate writes the summary of the run, closes the recorder and removes
// the progress bar from the monitor. Steps after Terminate record nothing.
func (s *Simulation) Terminate() error {
	if s.monitor != nil && s.progressBar != nil {
		s.monitor.CompleteProgressBar(s.progressBar)
	}

	if s.dataRecorder == nil {
		return nil
	}

	recording.WriteSummary(s.dataRecorder, s.machine.NumItems(),
		s.averageSurplus, s.batchedAverageSurplus)

	for _, h := range s.recorderHooks {
		s.ms.RemoveHook(h)
	}

	err := s.dataRecorder.Close()
	s.dataRecorder = nil
	s.recorderHooks = nil

	return err
}
