package recording

import (
	"github.com/sarchlab/prodsim/datarecording"
	"github.com/sarchlab/prodsim/sim/hooking"
	"github.com/sarchlab/prodsim/sim/timing"
)

// FailureRecorder writes a row every time the machine fails or gets
// repaired.
type FailureRecorder struct {
	recorder datarecording.DataRecorder
}

// NewFailureRecorder creates the failure_event table and returns a hook
// that fills it.
func NewFailureRecorder(r datarecording.DataRecorder) *FailureRecorder {
	r.CreateTable(FailureTable, FailureEntry{})

	return &FailureRecorder{recorder: r}
}

// Func records Failure and Repair events after they are handled.
func (h *FailureRecorder) Func(ctx hooking.HookCtx) {
	if ctx.Pos != timing.HookPosAfterEvent {
		return
	}

	evt := ctx.Item.(*timing.Event)
	if evt.Kind != timing.KindFailure && evt.Kind != timing.KindRepair {
		return
	}

	h.recorder.InsertData(FailureTable, FailureEntry{
		EventID: evt.ID,
		Kind:    evt.Kind.String(),
		Time:    evt.Time().Float64(),
	})
}
