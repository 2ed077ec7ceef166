// Package recording writes what happens during a run into a
// datarecording.DataRecorder.
package recording

import (
	"github.com/sarchlab/prodsim/datarecording"
	"github.com/sarchlab/prodsim/sim/machine"
	"github.com/sarchlab/prodsim/sim/metrics"
	"github.com/sarchlab/prodsim/sim/timing"
)

// The names of the tables.
const (
	FailureTable = "failure_event"
	SurplusTable = "surplus_trajectory"
	ItemTable    = "item_metric"
	BatchTable   = "batch_cost"
)

// Env is what a recorder can see of the simulation.
type Env interface {
	Scheduler() *timing.MasterScheduler
	Machine() *machine.Machine
}

// FailureEntry is a row of the failure_event table.
type FailureEntry struct {
	EventID string
	Kind    string
	Time    float64
}

// SurplusEntry is a row of the surplus_trajectory table.
type SurplusEntry struct {
	Time    float64
	Item    int
	Surplus float64
	Setup   int
	State   string
}

// ItemEntry is a row of the item_metric table.
type ItemEntry struct {
	Item             int
	AverageInventory float64
	AverageBacklog   float64
	ServiceLevel     float64
	MinSurplus       float64
	AverageCost      float64
}

// BatchEntry is a row of the batch_cost table.
type BatchEntry struct {
	Batch int
	Cost  float64
}

// WriteSummary writes the per-item statistics and the batch costs of a
// finished run. A nil batched metric writes no batch rows.
func WriteSummary(
	r datarecording.DataRecorder,
	numItems int,
	avg *metrics.AverageSurplus,
	batched *metrics.BatchedAverageSurplus,
) {
	r.CreateTable(ItemTable, ItemEntry{})

	for i := 0; i < numItems; i++ {
		s := avg.Statistics(i)

		r.InsertData(ItemTable, ItemEntry{
			Item:             i,
			AverageInventory: s.AverageInventory,
			AverageBacklog:   s.AverageBacklog,
			ServiceLevel:     s.ServiceLevel,
			MinSurplus:       s.MinSurplus,
			AverageCost:      avg.AverageCost(i),
		})
	}

	if batched == nil {
		return
	}

	r.CreateTable(BatchTable, BatchEntry{})

	for i, c := range batched.BatchedAverageCosts() {
		r.InsertData(BatchTable, BatchEntry{Batch: i, Cost: c})
	}
}
