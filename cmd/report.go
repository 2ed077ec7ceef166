package cmd

import (
	"context"
	"fmt"

	"github.com/sarchlab/prodsim/sim/recording"
	"github.com/sarchlab/prodsim/sim/timing"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	reportDB     string
	reportEnd    float64
	reportSample int
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the summary of a recorded run.",
	Run: func(cmd *cobra.Command, args []string) {
		setUp(cmd)

		if reportDB == "" {
			logrus.Fatal("No database given; use --db")
		}

		run, err := recording.OpenRun(reportDB)
		if err != nil {
			logrus.Fatalf("Cannot open the run: %v", err)
		}
		defer run.Close()

		err = report(context.Background(), run)
		if err != nil {
			logrus.Fatalf("Cannot read the run: %v", err)
		}
	},
}

func report(ctx context.Context, run *recording.Run) error {
	items, err := run.Items(ctx)
	if err != nil {
		return err
	}

	if len(items) == 0 {
		logrus.Warn("The run has no item statistics; it may not have terminated")
	}

	total := 0.0
	for _, item := range items {
		fmt.Printf("item %d: inventory %.4f, backlog %.4f, "+
			"service level %.4f, min surplus %.4f, cost %.4f\n",
			item.Item, item.AverageInventory, item.AverageBacklog,
			item.ServiceLevel, item.MinSurplus, item.AverageCost)
		total += item.AverageCost
	}

	fmt.Printf("total cost: %.4f\n", total)

	batches, err := run.Batches(ctx)
	if err != nil {
		return err
	}

	for _, b := range batches {
		fmt.Printf("batch %d: cost %.4f\n", b.Batch, b.Cost)
	}

	end := reportEnd

	for _, item := range items {
		surplus, err := run.Surplus(ctx, item.Item)
		if err != nil {
			return err
		}

		if len(surplus) > 0 && surplus[len(surplus)-1].Time > end {
			end = surplus[len(surplus)-1].Time
		}

		printSurplusSamples(item.Item, surplus)
	}

	failures, err := run.Failures(ctx)
	if err != nil {
		return err
	}

	numFailures := 0
	for _, f := range failures {
		if f.Kind == timing.KindFailure.String() {
			numFailures++
		}
	}

	fmt.Printf("failures: %d, downtime: %.4f\n",
		numFailures, recording.Downtime(failures, end))

	return nil
}

func printSurplusSamples(item int, surplus []recording.SurplusEntry) {
	if reportSample <= 0 || len(surplus) == 0 {
		return
	}

	step := len(surplus) / reportSample
	if step == 0 {
		step = 1
	}

	for i := 0; i < len(surplus); i += step {
		s := surplus[i]
		fmt.Printf("  item %d t=%.4f surplus=%.4f setup=%d %s\n",
			item, s.Time, s.Surplus, s.Setup, s.State)
	}
}

func init() {
	reportCmd.Flags().StringVar(&reportDB, "db", "", "The .sqlite3 file of a recorded run")
	reportCmd.Flags().Float64Var(&reportEnd, "end", 0, "End of the run, for an open failure; the last sample if later")
	reportCmd.Flags().IntVar(&reportSample, "samples", 0, "Surplus samples to print per item")

	rootCmd.AddCommand(reportCmd)
}
