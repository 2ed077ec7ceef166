package policy

import "github.com/sarchlab/prodsim/sim/timing"

// RoundRobin produces the setup item until it reaches its target and then
// switches to the following item.
type RoundRobin struct {
	Base
}

// NewRoundRobin creates the policy.
func NewRoundRobin() *RoundRobin {
	p := &RoundRobin{}
	p.rule = p

	return p
}

// IsTargetBased returns true.
func (p *RoundRobin) IsTargetBased() bool {
	return true
}

// IsTimeToChangeOver tells if the setup item has reached its target.
func (p *RoundRobin) IsTimeToChangeOver(env Env) bool {
	return env.Machine().Setup().OnOrAboveTarget()
}

// NextItem returns the item after the setup.
func (p *RoundRobin) NextItem(env Env) int {
	if !p.IsTimeToChangeOver(env) {
		return timing.NoItem
	}

	m := env.Machine()

	return (m.Setup().ID() + 1) % m.NumItems()
}

// OnReady sprints until the setup item reaches its target.
func (p *RoundRobin) OnReady(env Env) *timing.Event {
	return sprintToTarget(env)
}
