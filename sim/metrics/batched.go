package metrics

import (
	"github.com/sarchlab/prodsim/sim/hooking"
)

// BatchedAverageSurplus splits the recording period into equal batches and
// keeps the surplus statistics of each batch apart. Batch costs tell how
// much the cost varies over a run.
type BatchedAverageSurplus struct {
	batches []*AverageSurplus
}

// NewBatchedAverageSurplus splits [start, final] into numBatches batches.
func NewBatchedAverageSurplus(
	env Env,
	numBatches int,
	start, final float64,
) *BatchedAverageSurplus {
	m := &BatchedAverageSurplus{}
	clock := env.Scheduler().Clock()
	batchTime := (final - start) / float64(numBatches)

	for i := 0; i < numBatches; i++ {
		from := start + float64(i)*batchTime
		to := from + batchTime

		m.batches = append(m.batches, newAverageSurplus(env, func() bool {
			return clock.HasPassedEpoch(from) && !clock.HasReachedEpoch(to)
		}))
	}

	return m
}

// Func samples the surplus of the active batch.
func (m *BatchedAverageSurplus) Func(ctx hooking.HookCtx) {
	for _, b := range m.batches {
		b.Func(ctx)
	}
}

// NumBatches returns the number of batches.
func (m *BatchedAverageSurplus) NumBatches() int {
	return len(m.batches)
}

// Batch returns the statistics of one batch.
func (m *BatchedAverageSurplus) Batch(i int) *AverageSurplus {
	return m.batches[i]
}

// BatchedAverageCosts returns the average cost of every batch.
func (m *BatchedAverageSurplus) BatchedAverageCosts() []float64 {
	costs := make([]float64, len(m.batches))
	for i, b := range m.batches {
		costs[i] = b.TotalAverageCost()
	}

	return costs
}
