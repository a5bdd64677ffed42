package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/filamentrt/fiber/examples/hello"
)

func newHelloCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hello",
		Short: "run the two-fiber interleaving scenario that prints \"hello world\"",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Print(hello.Run())
			return nil
		},
	}
}
