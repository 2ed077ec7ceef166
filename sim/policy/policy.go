// Package policy provides the production control policies. A policy decides
// which item the machine produces and when it switches to another one. It is
// consulted every time a control event is handled.
package policy

import (
	"errors"
	"fmt"
	"sort"

	"github.com/sarchlab/prodsim/sim/machine"
	"github.com/sarchlab/prodsim/sim/process"
	"github.com/sarchlab/prodsim/sim/timing"
)

// ErrUnknownPolicy is returned when a policy name is not registered.
var ErrUnknownPolicy = errors.New("policy: unknown policy")

// Env is what a policy can see of the simulation.
type Env interface {
	Scheduler() *timing.MasterScheduler
	Machine() *machine.Machine
	DemandProcess() process.DemandProcess
	ProductionProcess() process.ProductionProcess
}

// A Policy controls the machine.
type Policy interface {
	// Setup is called once, before the first control event.
	Setup(env Env)

	// UpdateControl makes a new decision and schedules the events that
	// carry it out.
	UpdateControl(env Env)

	// IsTargetBased tells if the policy drives items to surplus targets.
	IsTargetBased() bool
}

// Names of the registered policies.
const (
	ClearTheLargestDeviationName = "cld"
	RoundRobinName               = "round-robin"
)

var policies = map[string]func() Policy{
	ClearTheLargestDeviationName: func() Policy {
		return NewClearTheLargestDeviation()
	},
	RoundRobinName: func() Policy {
		return NewRoundRobin()
	},
}

// New creates the policy registered under name.
func New(name string) (Policy, error) {
	f, ok := policies[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
	}

	return f(), nil
}

// Names returns the names of the registered policies.
func Names() []string {
	names := make([]string, 0, len(policies))
	for name := range policies {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// TimeToHit returns how long the item, which must be under production, takes
// to reach the target surplus while the machine sprints. It is only known
// when both processes are continuous. Otherwise it is infinite.
func TimeToHit(
	item *machine.Item,
	target float64,
	demand process.DemandProcess,
	production process.ProductionProcess,
) timing.TimeInstant {
	if !item.IsUnderProduction() {
		panic(fmt.Sprintf("policy: %s is not under production", item))
	}

	if demand.IsDiscrete() || production.IsDiscrete() {
		return timing.Infinity()
	}

	diff := target - item.Surplus()
	if diff <= 0 {
		if item.DemandRate == 0 {
			return timing.Infinity()
		}

		return timing.At(-diff / item.DemandRate)
	}

	return timing.At(diff / (item.ProductionRate - item.DemandRate))
}
