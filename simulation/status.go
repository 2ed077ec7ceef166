package simulation

import (
	"github.com/sarchlab/prodsim/sim/machine"
	"github.com/sarchlab/prodsim/sim/metrics"
	"github.com/sarchlab/prodsim/sim/timing"
)

// Status is a copy of the state of a run, safe to read from other
// goroutines.
type Status struct {
	Now      float64
	Started  bool
	Finished bool
	Machine  machine.Snapshot
}

func (s *Simulation) publishStatus() {
	status := Status{
		Now:      s.clock.Now().Float64(),
		Started:  s.started,
		Finished: s.finished,
		Machine:  s.machine.Snapshot(),
	}

	s.statusLock.Lock()
	s.status = status
	s.statusLock.Unlock()
}

// Status returns the state of the run after the last handled event.
func (s *Simulation) Status() Status {
	s.statusLock.RLock()
	defer s.statusLock.RUnlock()

	return s.status
}

// CurrentTime returns the simulated time of the last handled event.
func (s *Simulation) CurrentTime() float64 {
	return s.Status().Now
}

// MachineSnapshot returns the machine state after the last handled event.
func (s *Simulation) MachineSnapshot() machine.Snapshot {
	return s.Status().Machine
}

// ItemResult summarizes how one item did over the recording period.
type ItemResult struct {
	Item             int
	AverageInventory float64
	AverageBacklog   float64
	ServiceLevel     float64
	MinSurplus       float64
	AverageCost      float64
	SprintFraction   float64
	SetupFraction    float64
}

// Results summarize a run.
type Results struct {
	Items            []ItemResult
	TotalAverageCost float64
	BatchedCosts     []float64
	Changeovers      int
	Failures         int
}

// Results returns the summary of the recording period.
func (s *Simulation) Results() Results {
	r := Results{
		TotalAverageCost: s.averageSurplus.TotalAverageCost(),
		Changeovers: s.eventCounts.SteadyStateCount(
			timing.KindChangeover),
		Failures: s.eventCounts.SteadyStateCount(timing.KindFailure),
	}

	for i := 0; i < s.machine.NumItems(); i++ {
		stats := s.averageSurplus.Statistics(i)

		r.Items = append(r.Items, ItemResult{
			Item:             i,
			AverageInventory: stats.AverageInventory,
			AverageBacklog:   stats.AverageBacklog,
			ServiceLevel:     stats.ServiceLevel,
			MinSurplus:       stats.MinSurplus,
			AverageCost:      s.averageSurplus.AverageCost(i),
			SprintFraction: s.timeFractions.Fraction(
				metrics.ActivitySprint, i),
			SetupFraction: s.timeFractions.Fraction(
				metrics.ActivitySetup, i),
		})
	}

	if s.batchedAverageSurplus != nil {
		r.BatchedCosts = s.batchedAverageSurplus.BatchedAverageCosts()
	}

	return r
}
