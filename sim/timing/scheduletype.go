package timing

// ScheduleType is the category of an event. Every category has its own
// Schedule in a MasterScheduler. The declaration order is the order in which
// simultaneous events of different categories are dispatched.
type ScheduleType int

// The schedule types.
const (
	ScheduleDemand ScheduleType = iota
	ScheduleProduction
	ScheduleControl
	ScheduleFailures
	ScheduleRepairs
	numScheduleTypes
)

// ScheduleTypes returns all the schedule types in precedence order.
func ScheduleTypes() []ScheduleType {
	types := make([]ScheduleType, 0, numScheduleTypes)
	for st := ScheduleDemand; st < numScheduleTypes; st++ {
		types = append(types, st)
	}

	return types
}

// Dumpable tells if the pending events of the category become moot when a
// new control decision is made.
func (st ScheduleType) Dumpable() bool {
	return st == ScheduleControl
}

// Delayable tells if the pending events of the category track machine
// uptime and therefore move when the machine stops.
func (st ScheduleType) Delayable() bool {
	return st == ScheduleProduction || st == ScheduleFailures
}

func (st ScheduleType) String() string {
	switch st {
	case ScheduleDemand:
		return "DEMAND"
	case ScheduleProduction:
		return "PRODUCTION"
	case ScheduleControl:
		return "CONTROL"
	case ScheduleFailures:
		return "FAILURES"
	case ScheduleRepairs:
		return "REPAIRS"
	default:
		return "UNKNOWN"
	}
}
