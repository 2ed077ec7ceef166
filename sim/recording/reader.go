package recording

import (
	"context"

	"github.com/sarchlab/prodsim/datarecording"
	"github.com/sarchlab/prodsim/sim/timing"
)

// A Run is a recorded run read back from its database.
type Run struct {
	reader *datarecording.Reader
}

// OpenRun opens the database of a recorded run.
func OpenRun(path string) (*Run, error) {
	r, err := datarecording.Open(path)
	if err != nil {
		return nil, err
	}

	return &Run{reader: r}, nil
}

// Close closes the database.
func (r *Run) Close() error {
	return r.reader.Close()
}

func readIfPresent[T any](
	ctx context.Context,
	r *Run,
	table string,
	f datarecording.Filter,
) ([]T, error) {
	ok, err := r.reader.HasTable(ctx, table)
	if err != nil || !ok {
		return nil, err
	}

	return datarecording.ReadTable[T](ctx, r.reader, table, f)
}

// Items returns the per-item statistics, ordered by item. A run that has not
// terminated has none.
func (r *Run) Items(ctx context.Context) ([]ItemEntry, error) {
	return readIfPresent[ItemEntry](ctx, r, ItemTable,
		datarecording.Filter{OrderBy: "Item"})
}

// Batches returns the batch costs, ordered by batch.
func (r *Run) Batches(ctx context.Context) ([]BatchEntry, error) {
	return readIfPresent[BatchEntry](ctx, r, BatchTable,
		datarecording.Filter{OrderBy: "Batch"})
}

// Failures returns the failure and repair records in time order.
func (r *Run) Failures(ctx context.Context) ([]FailureEntry, error) {
	return readIfPresent[FailureEntry](ctx, r, FailureTable,
		datarecording.Filter{OrderBy: "Time, rowid"})
}

// Surplus returns the recorded surplus trajectory of the item.
func (r *Run) Surplus(ctx context.Context, item int) ([]SurplusEntry, error) {
	return readIfPresent[SurplusEntry](ctx, r, SurplusTable,
		datarecording.Filter{
			Where:   "Item = ?",
			Args:    []any{item},
			OrderBy: "Time, rowid",
		})
}

// Downtime returns the total time between each failure and the repair that
// follows it. A failure without a repair counts up to end.
func Downtime(failures []FailureEntry, end float64) float64 {
	total := 0.0
	downSince := -1.0

	for _, f := range failures {
		switch f.Kind {
		case timing.KindFailure.String():
			downSince = f.Time
		case timing.KindRepair.String():
			if downSince >= 0 {
				total += f.Time - downSince
				downSince = -1
			}
		}
	}

	if downSince >= 0 && end > downSince {
		total += end - downSince
	}

	return total
}
