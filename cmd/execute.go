/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log"
	"net/http"

	"github.com/spf13/cobra"
)

// executeCmd represents the execute command
var executeCmd = &cobra.Command{
	Use:   "execute <run-id>",
	Short: "Execute the selected test cases of a solved run",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		manager, _ := cmd.Flags().GetString("manager")

		url := fmt.Sprintf("http://%s/runs/%s/execute", manager, args[0])
		resp, err := http.Post(url, "application/json", nil)
		if err != nil {
			log.Println(err)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusAccepted {
			log.Printf("Error executing run %s: %v %s", args[0], resp.StatusCode, decodeError(resp))
			return
		}

		log.Printf("Run %s is executing", args[0])
	},
}

func init() {
	rootCmd.AddCommand(executeCmd)

	executeCmd.Flags().StringP("manager", "m", "localhost:5555", "Manager to talk to")
}
