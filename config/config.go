// Package config loads the parameters of a simulation run.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/sarchlab/prodsim/sim/machine"
	"github.com/sarchlab/prodsim/sim/policy"
	"github.com/sarchlab/prodsim/sim/process"
	"gopkg.in/yaml.v3"
)

// ErrInvalidParams is returned when the parameters do not describe a system
// that can be simulated.
var ErrInvalidParams = errors.New("config: invalid params")

// PolicyParams select the control policy.
type PolicyParams struct {
	Name string `yaml:"name"`
}

// Params are the parameters of a simulation run. Per-item lists are indexed
// by item.
type Params struct {
	NumItems              int       `yaml:"numItems"`
	DemandRates           []float64 `yaml:"demandRates"`
	ProductionRates       []float64 `yaml:"productionRates"`
	SetupTimes            []float64 `yaml:"setupTimes"`
	SurplusTargets        []float64 `yaml:"surplusTargets"`
	InventoryHoldingCosts []float64 `yaml:"inventoryHoldingCosts"`
	BacklogCosts          []float64 `yaml:"backlogCosts"`
	InitialDemand         []float64 `yaml:"initialDemand"`

	MeanTimeToFail   float64 `yaml:"meanTimeToFail"`
	MeanTimeToRepair float64 `yaml:"meanTimeToRepair"`

	FinalTime            float64 `yaml:"finalTime"`
	MetricsStartTime     float64 `yaml:"metricsStartTime"`
	Seed                 int64   `yaml:"seed"`
	InitialSetup         int     `yaml:"initialSetup"`
	ConvergenceTolerance float64 `yaml:"convergenceTolerance"`
	NumBatches           int     `yaml:"numBatches"`

	DemandProcess     process.Params `yaml:"demandProcess"`
	ProductionProcess process.Params `yaml:"productionProcess"`
	Policy            PolicyParams   `yaml:"policy"`
}

// DefaultParams returns a two-item system that runs with the continuous
// processes and the clear-the-largest-deviation policy.
func DefaultParams() Params {
	return Params{
		NumItems:              2,
		DemandRates:           []float64{0.3, 0.2},
		ProductionRates:       []float64{1, 1},
		SetupTimes:            []float64{1, 1},
		SurplusTargets:        []float64{10, 10},
		InventoryHoldingCosts: []float64{1, 1},
		BacklogCosts:          []float64{10, 10},
		MeanTimeToFail:        100,
		MeanTimeToRepair:      5,
		FinalTime:             10000,
		MetricsStartTime:      1000,
		Seed:                  1,
		ConvergenceTolerance:  1e-6,
		NumBatches:            10,
		DemandProcess:         process.Params{Name: process.Continuous},
		ProductionProcess:     process.Params{Name: process.Continuous},
		Policy:                PolicyParams{Name: policy.ClearTheLargestDeviationName},
	}
}

// Load reads the YAML file at path over the default parameters and
// validates the result.
func Load(path string) (Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Params{}, fmt.Errorf("config: reading %s: %w", path, err)
	}

	return Parse(data)
}

// Parse reads YAML parameters over the default parameters and validates the
// result.
func Parse(data []byte) (Params, error) {
	p := DefaultParams()

	// Lists given in the document replace the default lists as a whole.
	err := yaml.Unmarshal(data, &p)
	if err != nil {
		return Params{}, fmt.Errorf("config: parsing: %w", err)
	}

	if err := p.Validate(); err != nil {
		return Params{}, err
	}

	return p, nil
}

// Validate checks that the parameters describe a feasible system.
func (p Params) Validate() error {
	if p.NumItems < 2 {
		return invalid("numItems must be at least 2, got %d", p.NumItems)
	}

	lists := []struct {
		name   string
		values []float64
	}{
		{"demandRates", p.DemandRates},
		{"productionRates", p.ProductionRates},
		{"setupTimes", p.SetupTimes},
		{"surplusTargets", p.SurplusTargets},
		{"inventoryHoldingCosts", p.InventoryHoldingCosts},
		{"backlogCosts", p.BacklogCosts},
	}

	for _, l := range lists {
		if len(l.values) != p.NumItems {
			return invalid("%s has %d values, want %d",
				l.name, len(l.values), p.NumItems)
		}
	}

	if len(p.InitialDemand) != 0 && len(p.InitialDemand) != p.NumItems {
		return invalid("initialDemand has %d values, want %d",
			len(p.InitialDemand), p.NumItems)
	}

	if err := p.validateItems(); err != nil {
		return err
	}

	if p.MeanTimeToFail <= 0 || p.MeanTimeToRepair <= 0 {
		return invalid("mean times to fail and repair must be positive")
	}

	if p.InitialSetup < 0 || p.InitialSetup >= p.NumItems {
		return invalid("initialSetup %d out of range [0, %d)",
			p.InitialSetup, p.NumItems)
	}

	if p.FinalTime <= 0 {
		return invalid("finalTime must be positive, got %g", p.FinalTime)
	}

	if p.MetricsStartTime < 0 || p.MetricsStartTime > p.FinalTime {
		return invalid("metricsStartTime %g is not within [0, %g]",
			p.MetricsStartTime, p.FinalTime)
	}

	if p.ConvergenceTolerance <= 0 {
		return invalid("convergenceTolerance must be positive")
	}

	if p.NumBatches < 0 {
		return invalid("numBatches cannot be negative")
	}

	return nil
}

func (p Params) validateItems() error {
	for i := 0; i < p.NumItems; i++ {
		if p.DemandRates[i] < 0 {
			return invalid("item %d: negative demand rate", i)
		}

		if p.ProductionRates[i] <= 0 {
			return invalid("item %d: production rate must be positive", i)
		}

		if p.SetupTimes[i] < 0 {
			return invalid("item %d: negative setup time", i)
		}

		if p.InventoryHoldingCosts[i] < 0 || p.BacklogCosts[i] < 0 {
			return invalid("item %d: negative cost rate", i)
		}
	}

	if u := p.Utilization(); u >= 1 {
		return invalid("the machine cannot keep up, utilization %.4f", u)
	}

	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidParams, fmt.Sprintf(format, args...))
}

// Utilization returns the sum of demand over production rates, the share of
// time the machine must produce to meet demand.
func (p Params) Utilization() float64 {
	u := 0.0
	for i := 0; i < p.NumItems; i++ {
		u += p.DemandRates[i] / p.ProductionRates[i]
	}

	return u
}

// ItemParams returns the parameters of every item.
func (p Params) ItemParams() []machine.ItemParams {
	items := make([]machine.ItemParams, p.NumItems)

	for i := range items {
		items[i] = machine.ItemParams{
			DemandRate:        p.DemandRates[i],
			ProductionRate:    p.ProductionRates[i],
			SetupTime:         p.SetupTimes[i],
			InventoryCostRate: p.InventoryHoldingCosts[i],
			BacklogCostRate:   p.BacklogCosts[i],
			SurplusTarget:     p.SurplusTargets[i],
		}

		if len(p.InitialDemand) > 0 {
			items[i].InitialDemand = p.InitialDemand[i]
		}
	}

	return items
}
