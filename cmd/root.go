/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"tsched/config"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	cfgFile string

	// appFs backs every file the commands read or write.
	appFs = afero.NewOsFs()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tsched",
	Short: "Pick the test cases worth running within a time budget",
	Long: `tsched selects the subset of test cases with the highest total
priority whose total execution time fits a budget.

It can solve a CSV export locally (select), or run as a service that
queues, solves and executes scheduling runs (serve, run, status, execute).`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file (defaults built in)")
}

// loadConfig reads --config and applies the budget and strategy flags of
// cmd when they were set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if cfgFile != "" {
		data, err := afero.ReadFile(appFs, cfgFile)
		if err != nil {
			return nil, err
		}
		cfg, err = config.Parse(data)
		if err != nil {
			return nil, err
		}
	}

	if f := cmd.Flags().Lookup("budget"); f != nil && f.Changed {
		cfg.BudgetSeconds, _ = cmd.Flags().GetFloat64("budget")
	}
	if f := cmd.Flags().Lookup("strategy"); f != nil && f.Changed {
		cfg.Strategy, _ = cmd.Flags().GetString("strategy")
	}
	if f := cmd.Flags().Lookup("listen"); f != nil && f.Changed {
		cfg.Listen, _ = cmd.Flags().GetString("listen")
	}

	return cfg, cfg.Validate()
}
