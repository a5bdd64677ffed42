package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/filamentrt/fiber/cmd/fiberctl/internal/config"
	"github.com/filamentrt/fiber/devserver"
)

func newDevserverCommand() *cobra.Command {
	var host string
	var port int
	var scenarioConfig string

	cmd := &cobra.Command{
		Use:   "devserver",
		Short: "serve fiber lifecycle trace events over a websocket",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(".")
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if host == "" {
				host = cfg.Devserver.Host
			}
			if port == 0 {
				port = cfg.Devserver.Port
			}
			if scenarioConfig == "" {
				scenarioConfig = cfg.Devserver.ScenarioConfigPath
			}

			srv := devserver.NewServer()
			addr := fmt.Sprintf("%s:%d", host, port)
			fmt.Printf("fiberctl devserver listening on %s (scenarios: %v)\n", addr, devserver.ScenarioNames())

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			go func() {
				<-sigCh
				cancel()
			}()

			return devserver.Serve(ctx, addr, scenarioConfig, srv)
		},
	}

	cmd.Flags().StringVarP(&host, "host", "H", "", "host to bind (default from fiberctl.json)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "port to bind (default from fiberctl.json)")
	cmd.Flags().StringVar(&scenarioConfig, "scenario-config", "", "path to the scenario-list YAML file to watch for live description reloads")

	return cmd
}
