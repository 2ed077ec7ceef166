package timing

import (
	"github.com/sarchlab/prodsim/sim/hooking"
	"github.com/sirupsen/logrus"
)

// EventLogger is a hook that logs every event before it is handled.
type EventLogger struct {
	logger logrus.FieldLogger
}

// NewEventLogger returns a new EventLogger which will write in to the logger.
func NewEventLogger(logger logrus.FieldLogger) *EventLogger {
	h := new(EventLogger)

	h.logger = logger

	return h
}

// Func writes the event information into the logger
func (h *EventLogger) Func(ctx hooking.HookCtx) {
	if ctx.Pos != HookPosBeforeEvent {
		return
	}

	evt, ok := ctx.Item.(*Event)
	if !ok {
		return
	}

	entry := h.logger.WithFields(logrus.Fields{
		"sim_time": evt.Time().String(),
		"kind":     evt.Kind.String(),
		"id":       evt.ID,
	})

	if evt.Item != NoItem {
		entry = entry.WithField("item", evt.Item)
	}

	entry.Info("event")
}
