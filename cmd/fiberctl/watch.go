package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/filamentrt/fiber/cmd/fiberctl/internal/ui"
)

func newWatchCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "open a live terminal dashboard of a devserver's trace stream",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := tea.NewProgram(ui.NewModel(addr))
			_, err := p.Run()
			return err
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "ws://localhost:8787/trace", "devserver websocket endpoint to connect to")
	return cmd
}
