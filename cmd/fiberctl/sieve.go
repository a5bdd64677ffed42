package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/filamentrt/fiber/examples/sieve"
)

func newSieveCommand() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "sieve",
		Short: "run the lazily-grown prime filter-pipeline scenario",
		RunE: func(cmd *cobra.Command, args []string) error {
			res := sieve.Run(count)
			fmt.Println(res.Primes)
			fmt.Println(res.Summary)
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 10, "number of primes to compute")
	return cmd
}
