package main

import (
	"github.com/spf13/cobra"

	"github.com/buildbarn/bb-split-ldif/internal/router"
)

// newHashOnAttributeCommand builds the "split-using-hash-on-attribute"
// subcommand.
func newHashOnAttributeCommand(g *globalFlags) *cobra.Command {
	var numSets int
	var attribute string
	var useAllValues bool
	s := &strategyFlags{}

	cmd := &cobra.Command{
		Use:     "split-using-hash-on-attribute",
		Aliases: []string{"hash-on-attribute"},
		Short:   "Routes entries by hashing the value(s) of a chosen attribute",
		RunE: func(cmd *cobra.Command, args []string) error {
			strategy, err := router.NewHashOnAttributeStrategy(router.HashOnAttributeOptions{
				NumSets:      numSets,
				Attribute:    attribute,
				UseAllValues: useAllValues,
			})
			if err != nil {
				return err
			}
			return runSplit(g, s, strategy)
		},
	}
	cmd.Flags().IntVarP(&numSets, "numSets", "n", 2, "Number of numbered shards to produce")
	cmd.Flags().StringVarP(&attribute, "splitAttribute", "a", "", "Attribute whose value(s) determine the shard")
	cmd.Flags().BoolVar(&useAllValues, "useAllValues", false, "Hash over every value of the attribute instead of only the first")
	s.register(cmd)
	return cmd
}
