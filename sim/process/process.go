// Package process provides the demand and production processes that move
// material in and out of the items, and the random generators of failure and
// repair times.
package process

import (
	"errors"
	"fmt"
	"sort"

	"github.com/sarchlab/prodsim/sim/machine"
	"github.com/sarchlab/prodsim/sim/timing"
)

// ErrUnknownProcess is returned when a process name is not registered.
var ErrUnknownProcess = errors.New("process: unknown process")

// Env is what a process can see of the simulation.
type Env interface {
	Scheduler() *timing.MasterScheduler
	Machine() *machine.Machine
}

// A DemandProcess decides when demand arrives. Continuous processes emit no
// events and update the demand from a before-event hook instead.
type DemandProcess interface {
	Init(env Env)
	NextArrival(item int, now timing.TimeInstant) *timing.Event
	IsDiscrete() bool
	NextScheduledArrivalTime(item int) timing.TimeInstant
}

// A ProductionProcess decides when production leaves the machine.
type ProductionProcess interface {
	Init(env Env)
	NextDeparture(item int, now timing.TimeInstant) *timing.Event
	IsDiscrete() bool
	NextScheduledDepartureTime(item int) timing.TimeInstant
}

// Names of the registered processes.
const (
	Continuous           = "continuous"
	DeterministicBatches = "deterministic-batches"
)

// Params select and configure a process.
type Params struct {
	Name      string `yaml:"name"`
	BatchSize int    `yaml:"batchSize"`
}

var demandProcesses = map[string]func(Params) (DemandProcess, error){
	Continuous: func(Params) (DemandProcess, error) {
		return NewContinuousDemand(), nil
	},
	DeterministicBatches: func(p Params) (DemandProcess, error) {
		if err := batchSizeMustBePositive(p); err != nil {
			return nil, err
		}

		return NewDeterministicBatchesDemand(p.BatchSize), nil
	},
}

var productionProcesses = map[string]func(Params) (ProductionProcess, error){
	Continuous: func(Params) (ProductionProcess, error) {
		return NewContinuousProduction(), nil
	},
	DeterministicBatches: func(p Params) (ProductionProcess, error) {
		if err := batchSizeMustBePositive(p); err != nil {
			return nil, err
		}

		return NewDeterministicBatchesProduction(p.BatchSize), nil
	},
}

func batchSizeMustBePositive(p Params) error {
	if p.BatchSize <= 0 {
		return fmt.Errorf("process %q: batch size must be positive, got %d",
			p.Name, p.BatchSize)
	}

	return nil
}

// NewDemandProcess creates the demand process registered under p.Name.
func NewDemandProcess(p Params) (DemandProcess, error) {
	f, ok := demandProcesses[p.Name]
	if !ok {
		return nil, fmt.Errorf("%w: demand process %q", ErrUnknownProcess, p.Name)
	}

	return f(p)
}

// NewProductionProcess creates the production process registered under
// p.Name.
func NewProductionProcess(p Params) (ProductionProcess, error) {
	f, ok := productionProcesses[p.Name]
	if !ok {
		return nil, fmt.Errorf("%w: production process %q",
			ErrUnknownProcess, p.Name)
	}

	return f(p)
}

// Names returns the names of the registered processes.
func Names() []string {
	names := make([]string, 0, len(demandProcesses))
	for name := range demandProcesses {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
