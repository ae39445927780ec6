/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"tsched/catalog"
	"tsched/manager"
	"tsched/run"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/docker/go-units"
	"github.com/spf13/cobra"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Status command to list runs",
	Long: `tsched status command.

The status command lists the runs known to the manager.`,
	Run: func(cmd *cobra.Command, args []string) {
		addr, _ := cmd.Flags().GetString("manager")

		url := fmt.Sprintf("http://%s/runs", addr)
		resp, err := http.Get(url)
		if err != nil {
			log.Println(err)
			return
		}
		defer resp.Body.Close()

		var runs []*run.Run
		if err := json.NewDecoder(resp.Body).Decode(&runs); err != nil {
			log.Println(err)
			return
		}

		printRuns(cmd.OutOrStdout(), runs, time.Now())
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().StringP("manager", "m", "localhost:5555", "Manager to talk to")
}

func printRuns(out io.Writer, runs []*run.Run, now time.Time) {
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		selected, value := "-", "-"
		if r.Schedule != nil {
			selected = fmt.Sprintf("%d/%d", r.Schedule.Count, len(r.Candidates))
			value = fmt.Sprintf("%.4f", catalog.FromFixed(r.Schedule.TotalValue))
		}
		passed := "-"
		if len(r.Results) > 0 {
			passed = fmt.Sprintf("%d/%d", r.Passed(), len(r.Results))
		}

		rows = append(rows, []string{
			r.ID.String(),
			r.Name,
			r.State.String(),
			selected,
			value,
			passed,
			units.HumanDuration(now.Sub(r.SubmittedAt)) + " ago",
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "NAME", "STATE", "SELECTED", "PRIORITY", "PASSED", "SUBMITTED").
		Rows(rows...)

	fmt.Fprintln(out, t.Render())
}

func decodeError(resp *http.Response) string {
	e := manager.ErrResponse{}
	if err := json.NewDecoder(resp.Body).Decode(&e); err != nil {
		return err.Error()
	}
	return e.Message
}
