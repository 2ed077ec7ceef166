package policy

import (
	"github.com/sarchlab/prodsim/sim/timing"
	"github.com/sirupsen/logrus"
)

// ClearTheLargestDeviation produces the setup item until it reaches its
// target and then switches to the item furthest below its target.
type ClearTheLargestDeviation struct {
	Base
}

// NewClearTheLargestDeviation creates the policy.
func NewClearTheLargestDeviation() *ClearTheLargestDeviation {
	p := &ClearTheLargestDeviation{}
	p.rule = p

	return p
}

// IsTargetBased returns true.
func (p *ClearTheLargestDeviation) IsTargetBased() bool {
	return true
}

// IsTimeToChangeOver tells if the setup item has reached its target.
func (p *ClearTheLargestDeviation) IsTimeToChangeOver(env Env) bool {
	return env.Machine().Setup().OnOrAboveTarget()
}

// NextItem returns the item other than the setup with the largest positive
// deviation. If no such item is below its target, it returns the first item
// other than the setup. The setup item can sit within the tolerance below
// its target, so it is never a candidate.
func (p *ClearTheLargestDeviation) NextItem(env Env) int {
	if !p.IsTimeToChangeOver(env) {
		return timing.NoItem
	}

	m := env.Machine()
	next := timing.NoItem
	largest := 0.0

	for _, item := range m.Items() {
		if item == m.Setup() {
			continue
		}

		if item.SurplusDeviation() > largest {
			largest = item.SurplusDeviation()
			next = item.ID()
		}
	}

	if next != timing.NoItem {
		return next
	}

	for _, item := range m.Items() {
		if item != m.Setup() {
			logrus.WithField("item", item.ID()).
				Trace("no deviation, changing over to the next item")

			return item.ID()
		}
	}

	return timing.NoItem
}

// OnReady sprints until the setup item reaches its target.
func (p *ClearTheLargestDeviation) OnReady(env Env) *timing.Event {
	return sprintToTarget(env)
}
