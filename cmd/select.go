/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"io"

	"tsched/catalog"
	"tsched/config"
	"tsched/loader"
	"tsched/scheduler"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// selectCmd represents the select command
var selectCmd = &cobra.Command{
	Use:   "select",
	Short: "Select test cases from a CSV file",
	Long: `tsched select command.

The select command reads candidate test cases from a CSV file, picks the
highest-priority subset that fits the budget and writes the selected rows
to the output file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		input, _ := cmd.Flags().GetString("input")
		output, _ := cmd.Flags().GetString("output")

		_, err = runSelect(cmd.Context(), appFs, cfg, input, output, cmd.OutOrStdout())
		return err
	},
}

func init() {
	rootCmd.AddCommand(selectCmd)

	selectCmd.Flags().StringP("input", "i", "CosmosDB/scheduled_tests_qlearning.csv", "CSV file with candidate test cases")
	selectCmd.Flags().StringP("output", "o", "CosmosDB/scheduled_tests_cp_sat.csv", "CSV file to write the selection to")
	selectCmd.Flags().Float64P("budget", "b", 20, "Total execution time budget in seconds")
	selectCmd.Flags().StringP("strategy", "s", "hybrid", "Solver: dp, bnb or hybrid")
}

func runSelect(ctx context.Context, fs afero.Fs, cfg *config.Config, input, output string, out io.Writer) (*scheduler.Schedule, error) {
	tbl, err := loader.ReadFile(fs, input, cfg.Columns, cfg.Aliases)
	if err != nil {
		return nil, err
	}

	c, err := catalog.Build(tbl.Entries)
	if err != nil {
		return nil, err
	}

	budget, err := catalog.ToFixed(cfg.BudgetSeconds)
	if err != nil {
		return nil, fmt.Errorf("budget %w", err)
	}

	s, err := scheduler.NewLimited(cfg.Strategy, cfg.MaxCells)
	if err != nil {
		return nil, err
	}

	sched, err := s.Solve(ctx, c, budget)
	if err != nil {
		return nil, err
	}

	if err := loader.WriteSelectedFile(fs, output, tbl, sched); err != nil {
		return nil, err
	}

	fmt.Fprintf(out, "Schedule saved to %s\n", output)
	printSchedule(out, sched)

	return sched, nil
}

func printSchedule(out io.Writer, s *scheduler.Schedule) {
	rows := make([][]string, 0, s.Count)
	for _, c := range s.Selected {
		rows = append(rows, []string{
			c.ID,
			c.Name,
			fmt.Sprintf("%.3f", catalog.FromFixed(c.Value)),
			fmt.Sprintf("%.3f", catalog.FromFixed(c.Cost)),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers("ID", "NAME", "PRIORITY", "TIME (s)").
		Rows(rows...)

	fmt.Fprintln(out, t.Render())
	fmt.Fprintf(out, "\nTotal Scheduled Test Cases: %d\n", s.Count)
	fmt.Fprintf(out, "Total Execution Time: %.2f sec (budget %.2f sec)\n", catalog.FromFixed(s.TotalCost), catalog.FromFixed(s.Budget))
	fmt.Fprintf(out, "Total Priority Score: %.4f\n", catalog.FromFixed(s.TotalValue))
}
