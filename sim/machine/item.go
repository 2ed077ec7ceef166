package machine

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// SurplusTolerance is the tolerance used when comparing a surplus with its
// target.
const SurplusTolerance = 1e-6

// ItemParams are the static parameters of an item.
type ItemParams struct {
	DemandRate        float64
	ProductionRate    float64
	SetupTime         float64
	InventoryCostRate float64
	BacklogCostRate   float64
	SurplusTarget     float64
	InitialDemand     float64
}

// An Item is a product type that the machine can produce.
type Item struct {
	ItemParams

	id int

	cumulativeProduction float64
	cumulativeDemand     float64
	surplus              float64
	inventory            float64
	backlog              float64

	underProduction bool
}

// NewItem creates an item. The initial demand is counted as cumulative
// demand, so the item starts with a backlog.
func NewItem(id int, p ItemParams) *Item {
	item := &Item{
		ItemParams: p,
		id:         id,
	}

	item.SetCumulativeDemand(p.InitialDemand)

	return item
}

// ID returns the index of the item.
func (i *Item) ID() int {
	return i.id
}

func (i *Item) String() string {
	return fmt.Sprintf("Item:%d", i.id)
}

// CumulativeProduction returns the total amount produced so far.
func (i *Item) CumulativeProduction() float64 {
	return i.cumulativeProduction
}

// SetCumulativeProduction sets the total amount produced so far.
func (i *Item) SetCumulativeProduction(v float64) {
	i.cumulativeProduction = v
	i.updateSurplus()
}

// AddProduction adds q to the cumulative production.
func (i *Item) AddProduction(q float64) {
	i.SetCumulativeProduction(i.cumulativeProduction + q)
}

// CumulativeDemand returns the total amount demanded so far.
func (i *Item) CumulativeDemand() float64 {
	return i.cumulativeDemand
}

// SetCumulativeDemand sets the total amount demanded so far.
func (i *Item) SetCumulativeDemand(v float64) {
	i.cumulativeDemand = v
	i.updateSurplus()
}

// AddDemand adds q to the cumulative demand.
func (i *Item) AddDemand(q float64) {
	i.SetCumulativeDemand(i.cumulativeDemand + q)
}

func (i *Item) updateSurplus() {
	i.surplus = i.cumulativeProduction - i.cumulativeDemand
	i.inventory = math.Max(i.surplus, 0)
	i.backlog = math.Max(-i.surplus, 0)

	logrus.WithFields(logrus.Fields{
		"item":      i.id,
		"surplus":   i.surplus,
		"inventory": i.inventory,
		"backlog":   i.backlog,
	}).Trace("surplus updated")
}

// Surplus returns production minus demand.
func (i *Item) Surplus() float64 {
	return i.surplus
}

// Inventory returns the positive part of the surplus.
func (i *Item) Inventory() float64 {
	return i.inventory
}

// Backlog returns the negative part of the surplus, as a positive number.
func (i *Item) Backlog() float64 {
	return i.backlog
}

// SurplusDeviation returns how far the surplus is below its target.
func (i *Item) SurplusDeviation() float64 {
	return i.SurplusTarget - i.surplus
}

// OnTarget tells if the surplus equals the target.
func (i *Item) OnTarget() bool {
	return math.Abs(i.surplus-i.SurplusTarget) < SurplusTolerance
}

// OnOrAboveTarget tells if the surplus has reached the target.
func (i *Item) OnOrAboveTarget() bool {
	return i.surplus >= i.SurplusTarget-SurplusTolerance
}

// Utilization returns the fraction of the machine time the item needs.
func (i *Item) Utilization() float64 {
	return i.DemandRate / i.ProductionRate
}

// CCostRate returns the combined cost rate of the item.
func (i *Item) CCostRate() float64 {
	return CombinedCostRate(i.InventoryCostRate, i.BacklogCostRate)
}

// CombinedCostRate returns h*b/(h+b). An infinite rate leaves the other one.
func CombinedCostRate(h, b float64) float64 {
	switch {
	case math.IsInf(h, 1):
		return b
	case math.IsInf(b, 1):
		return h
	}

	return h * b / (h + b)
}

// IsUnderProduction tells if the machine is set up for the item.
func (i *Item) IsUnderProduction() bool {
	return i.underProduction
}

func (i *Item) setUnderProduction(v bool) {
	i.underProduction = v
}
