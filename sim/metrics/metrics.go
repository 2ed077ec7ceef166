// Package metrics measures the performance of a policy. Every metric is a
// hook that the simulation registers on its master scheduler.
package metrics

import (
	"github.com/sarchlab/prodsim/sim/machine"
	"github.com/sarchlab/prodsim/sim/timing"
)

// Env is what a metric can see of the simulation.
type Env interface {
	Scheduler() *timing.MasterScheduler
	Machine() *machine.Machine

	// IsTimeToRecordData tells if the warm-up period is over.
	IsTimeToRecordData() bool
}
