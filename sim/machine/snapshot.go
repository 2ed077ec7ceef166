package machine

// ItemSnapshot is the state of an item at one point in time.
type ItemSnapshot struct {
	ID                   int     `json:"id"`
	Surplus              float64 `json:"surplus"`
	SurplusDeviation     float64 `json:"surplus_deviation"`
	Inventory            float64 `json:"inventory"`
	Backlog              float64 `json:"backlog"`
	CumulativeProduction float64 `json:"cumulative_production"`
	CumulativeDemand     float64 `json:"cumulative_demand"`
	UnderProduction      bool    `json:"under_production"`
}

// A Snapshot is a copy of the machine state. It does not change when the
// machine does.
type Snapshot struct {
	Time              float64        `json:"time"`
	FailureState      string         `json:"failure_state"`
	OperationalState  string         `json:"operational_state"`
	Setup             int            `json:"setup"`
	ChangingOverUntil float64        `json:"changing_over_until"`
	Items             []ItemSnapshot `json:"items"`
}

// Snapshot copies the current state of the machine.
func (m *Machine) Snapshot() Snapshot {
	s := Snapshot{
		Time:              m.ms.Now().Float64(),
		FailureState:      m.failureState.String(),
		OperationalState:  m.operationalState.String(),
		Setup:             m.setup,
		ChangingOverUntil: m.changingOverUntil.Float64(),
		Items:             make([]ItemSnapshot, 0, len(m.items)),
	}

	for _, item := range m.items {
		s.Items = append(s.Items, ItemSnapshot{
			ID:                   item.id,
			Surplus:              item.surplus,
			SurplusDeviation:     item.SurplusDeviation(),
			Inventory:            item.inventory,
			Backlog:              item.backlog,
			CumulativeProduction: item.cumulativeProduction,
			CumulativeDemand:     item.cumulativeDemand,
			UnderProduction:      item.underProduction,
		})
	}

	return s
}
