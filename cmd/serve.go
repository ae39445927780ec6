/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"tsched/manager"
	"tsched/runner"

	"github.com/spf13/cobra"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the scheduling service",
	Long: `tsched serve command.

The serve command starts the manager: it accepts runs over HTTP, solves
them in submission order and, when docker is reachable, executes the
selected test cases on request.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		var exec runner.Executor
		if noExec, _ := cmd.Flags().GetBool("no-exec"); !noExec {
			d, err := runner.NewDocker(os.Stdout)
			if err != nil {
				log.Printf("Docker unavailable, runs can be solved but not executed: %v", err)
			} else {
				exec = d
			}
		}

		m, err := manager.New(cfg, exec)
		if err != nil {
			return err
		}
		defer m.Close()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		go m.ProcessRuns(ctx)

		api := manager.NewApi(ctx, cfg.Listen, m)
		errCh := make(chan error, 1)
		go func() {
			errCh <- api.Start()
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
			log.Println("Shutting down manager...")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("listen", "l", "localhost:5555", "Address to listen on")
	serveCmd.Flags().Float64P("budget", "b", 20, "Default budget in seconds for runs that do not set one")
	serveCmd.Flags().StringP("strategy", "s", "hybrid", "Default solver: dp, bnb or hybrid")
	serveCmd.Flags().Bool("no-exec", false, "Do not connect to docker; runs are only solved")
}
