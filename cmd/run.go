package cmd

import (
	"fmt"

	"github.com/sarchlab/prodsim/simulation"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

var (
	seed        int64
	finalTime   float64
	output      string
	noRecord    bool
	monitor     bool
	monitorPort int
	openMonitor bool
	traceEvents bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a simulation and print the cost of the policy.",
	Run: func(cmd *cobra.Command, args []string) {
		params, overrides := setUp(cmd)

		if cmd.Flags().Changed("seed") {
			params.Seed = seed
		}

		if cmd.Flags().Changed("final-time") {
			params.FinalTime = finalTime
		}

		if !cmd.Flags().Changed("output") && overrides.Output != "" {
			output = overrides.Output
		}

		s, err := makeBuilder().WithParams(params).Build()
		if err != nil {
			logrus.Fatalf("Cannot build the simulation: %v", err)
		}

		err = s.Run()
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}

		err = s.Terminate()
		if err != nil {
			logrus.Fatalf("Cannot write the results: %v", err)
		}

		printResults(s.Results())

		atexit.Exit(0)
	},
}

func makeBuilder() simulation.Builder {
	b := simulation.MakeBuilder()

	if monitor {
		b = b.WithMonitorPort(monitorPort)
		if openMonitor {
			b = b.WithMonitorOpenedInBrowser()
		}
	} else {
		b = b.WithoutMonitoring()
	}

	if noRecord {
		b = b.WithoutRecording()
	} else if output != "" {
		b = b.WithOutputFileName(output)
	}

	if traceEvents {
		b = b.WithEventLogging()
	}

	return b
}

func printResults(r simulation.Results) {
	for _, item := range r.Items {
		fmt.Printf("item %d: inventory %.4f, backlog %.4f, "+
			"service level %.4f, cost %.4f\n",
			item.Item, item.AverageInventory, item.AverageBacklog,
			item.ServiceLevel, item.AverageCost)
	}

	fmt.Printf("total cost: %.4f\n", r.TotalAverageCost)
	fmt.Printf("changeovers: %d, failures: %d\n", r.Changeovers, r.Failures)

	if len(r.BatchedCosts) > 0 {
		fmt.Printf("batched costs: %.4f\n", r.BatchedCosts)
	}
}

func init() {
	runCmd.Flags().Int64Var(&seed, "seed", 1, "Seed of the failure and repair times")
	runCmd.Flags().Float64Var(&finalTime, "final-time", 10000, "Simulated time at which the run ends")
	runCmd.Flags().StringVar(&output, "output", "", "Output file name, without the .sqlite3 extension")
	runCmd.Flags().BoolVar(&noRecord, "no-record", false, "Do not record the run")
	runCmd.Flags().BoolVar(&monitor, "monitor", false, "Serve the monitor while the run is going")
	runCmd.Flags().IntVar(&monitorPort, "monitor-port", 0, "Port of the monitor; a random port if 0")
	runCmd.Flags().BoolVar(&openMonitor, "open-monitor", false, "Open the monitor in a browser")
	runCmd.Flags().BoolVar(&traceEvents, "trace-events", false, "Log every event at info level")

	rootCmd.AddCommand(runCmd)
}
