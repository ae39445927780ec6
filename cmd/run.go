/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"path/filepath"

	"tsched/loader"
	"tsched/run"

	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Submit a new scheduling run",
	Long: `tsched run command.

The run command reads candidates from a CSV file and submits them to the
manager as a new run.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			log.Println(err)
			return
		}

		manager, _ := cmd.Flags().GetString("manager")
		filename, _ := cmd.Flags().GetString("filename")
		name, _ := cmd.Flags().GetString("name")

		fullFilePath, err := filepath.Abs(filename)
		if err != nil {
			log.Println(err)
			return
		}

		if !fileExists(fullFilePath) {
			log.Printf("file %s not exists", fullFilePath)
			return
		}

		log.Printf("Using manager: %v\n", manager)
		log.Printf("Using file: %v\n", fullFilePath)

		tbl, err := loader.ReadFile(appFs, fullFilePath, cfg.Columns, cfg.Aliases)
		if err != nil {
			log.Println(err)
			return
		}

		req := run.Request{
			Name:       name,
			Strategy:   cfg.Strategy,
			Candidates: tbl.Entries,
		}
		if cmd.Flags().Changed("budget") || cfgFile != "" {
			req.BudgetSeconds = &cfg.BudgetSeconds
		}

		data, err := json.Marshal(req)
		if err != nil {
			log.Println(err)
			return
		}

		url := fmt.Sprintf("http://%s/runs", manager)
		resp, err := http.Post(url, "application/json", bytes.NewBuffer(data))
		if err != nil {
			log.Println(err)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusCreated {
			log.Printf("Error sending request: %v %s", resp.StatusCode, decodeError(resp))
			return
		}

		var created run.Run
		if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
			log.Println(err)
			return
		}
		log.Printf("Successfully submitted run %s with %d candidates", created.ID, len(created.Candidates))
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("manager", "m", "localhost:5555", "Manager to talk to")
	runCmd.Flags().StringP("filename", "f", "CosmosDB/scheduled_tests_qlearning.csv", "CSV file with candidate test cases")
	runCmd.Flags().StringP("name", "n", "", "Run name")
	runCmd.Flags().Float64P("budget", "b", 20, "Total execution time budget in seconds")
	runCmd.Flags().StringP("strategy", "s", "hybrid", "Solver: dp, bnb or hybrid")
}

func fileExists(filename string) bool {
	_, err := appFs.Stat(filename)

	return !errors.Is(err, fs.ErrNotExist)
}
