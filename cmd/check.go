package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the run parameters and print a summary.",
	Run: func(cmd *cobra.Command, args []string) {
		params, _ := setUp(cmd)

		if err := params.Validate(); err != nil {
			logrus.Fatalf("Invalid params: %v", err)
		}

		fmt.Printf("items: %d, utilization: %.4f\n",
			params.NumItems, params.Utilization())
		fmt.Printf("policy: %s, demand: %s, production: %s\n",
			params.Policy.Name,
			params.DemandProcess.Name,
			params.ProductionProcess.Name)
		fmt.Printf("mttf: %.2f, mttr: %.2f, horizon: [%.2f, %.2f], seed: %d\n",
			params.MeanTimeToFail, params.MeanTimeToRepair,
			params.MetricsStartTime, params.FinalTime, params.Seed)

		for i, p := range params.ItemParams() {
			fmt.Printf("item %d: d=%.4f p=%.4f setup=%.4f target=%.4f "+
				"h=%.4f b=%.4f\n",
				i, p.DemandRate, p.ProductionRate, p.SetupTime,
				p.SurplusTarget, p.InventoryCostRate, p.BacklogCostRate)
		}
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
