package main

import (
	"github.com/spf13/cobra"

	"github.com/buildbarn/bb-split-ldif/internal/router"
)

// newFewestEntriesCommand builds the "split-using-fewest-entries"
// subcommand.
func newFewestEntriesCommand(g *globalFlags) *cobra.Command {
	var numSets int
	s := &strategyFlags{}

	cmd := &cobra.Command{
		Use:     "split-using-fewest-entries",
		Aliases: []string{"fewest-entries"},
		Short:   "Routes entries to whichever numbered shard currently holds the fewest",
		RunE: func(cmd *cobra.Command, args []string) error {
			strategy, err := router.NewFewestEntriesStrategy(router.FewestEntriesOptions{NumSets: numSets})
			if err != nil {
				return err
			}
			return runSplit(g, s, strategy)
		},
	}
	cmd.Flags().IntVarP(&numSets, "numSets", "n", 2, "Number of numbered shards to produce")
	s.register(cmd)
	return cmd
}
