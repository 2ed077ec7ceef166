// Package cmd provides the command-line interface of prodsim.
package cmd

import (
	"os"

	"github.com/sarchlab/prodsim/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	paramsFile string
	envFile    string
	logLevel   string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "prodsim",
	Short: "Discrete-event simulator of a failure-prone production machine",
	Long: `prodsim simulates a single machine that produces several items, ` +
		`changes setups between them and fails at random. A control policy ` +
		`decides what the machine produces; prodsim measures the cost.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&paramsFile, "params", "",
		"YAML file with the run parameters; defaults are used if empty")
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env",
		"File with PRODSIM_* overrides")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info",
		"Log level (trace, debug, info, warn, error, fatal, panic)")
}

// setUp reads the overrides and the parameters and sets the log level.
// Values given as flags beat the environment, and the environment beats the
// params file.
func setUp(cmd *cobra.Command) (config.Params, config.Overrides) {
	overrides, err := config.LoadEnv(envFile)
	if err != nil {
		logrus.Fatalf("Cannot load the environment: %v", err)
	}

	level := logLevel
	if !cmd.Flags().Changed("log") && overrides.LogLevel != "" {
		level = overrides.LogLevel
	}

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", level)
	}

	logrus.SetLevel(parsed)

	params := config.DefaultParams()
	if paramsFile != "" {
		params, err = config.Load(paramsFile)
		if err != nil {
			logrus.Fatalf("Cannot load the params: %v", err)
		}
	}

	overrides.Apply(&params)

	return params, overrides
}
