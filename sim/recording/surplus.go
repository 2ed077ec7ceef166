package recording

import (
	"github.com/sarchlab/prodsim/datarecording"
	"github.com/sarchlab/prodsim/sim/hooking"
	"github.com/sarchlab/prodsim/sim/timing"
)

// SurplusRecorder writes the surplus of every item after events. With a
// positive minimum interval, it skips events that come sooner than that
// after the last recorded one.
type SurplusRecorder struct {
	env         Env
	recorder    datarecording.DataRecorder
	minInterval float64

	recorded     bool
	lastRecorded timing.TimeInstant
}

// NewSurplusRecorder creates the surplus_trajectory table and returns a hook
// that fills it.
func NewSurplusRecorder(
	env Env,
	r datarecording.DataRecorder,
	minInterval float64,
) *SurplusRecorder {
	r.CreateTable(SurplusTable, SurplusEntry{})

	return &SurplusRecorder{
		env:         env,
		recorder:    r,
		minInterval: minInterval,
	}
}

// Func records the surplus after an event.
func (h *SurplusRecorder) Func(ctx hooking.HookCtx) {
	if ctx.Pos != timing.HookPosAfterEvent {
		return
	}

	now := h.env.Scheduler().Now()
	if h.recorded &&
		!now.HasReachedEpoch(h.lastRecorded.AddFloat(h.minInterval)) {
		return
	}

	h.recorded = true
	h.lastRecorded = now

	m := h.env.Machine()
	state := m.OperationalState().String()

	if m.IsDown() {
		state = m.FailureState().String()
	}

	for _, item := range m.Items() {
		h.recorder.InsertData(SurplusTable, SurplusEntry{
			Time:    now.Float64(),
			Item:    item.ID(),
			Surplus: item.Surplus(),
			Setup:   m.Setup().ID(),
			State:   state,
		})
	}
}
