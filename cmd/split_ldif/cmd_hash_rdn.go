package main

import (
	"github.com/spf13/cobra"

	"github.com/buildbarn/bb-split-ldif/internal/router"
)

// newHashOnRDNCommand builds the "split-using-hash-on-rdn" subcommand.
// This strategy does not support the flat-DIT fallback, as it never
// needs to inherit a shard from an ancestor: the RDN is always
// available directly on the entry being routed.
func newHashOnRDNCommand(g *globalFlags) *cobra.Command {
	var numSets int

	cmd := &cobra.Command{
		Use:     "split-using-hash-on-rdn",
		Aliases: []string{"hash-on-rdn"},
		Short:   "Routes entries by hashing the RDN one level below the split base",
		RunE: func(cmd *cobra.Command, args []string) error {
			strategy, err := router.NewHashOnRDNStrategy(router.HashOnRDNOptions{NumSets: numSets})
			if err != nil {
				return err
			}
			return runSplit(g, nil, strategy)
		},
	}
	cmd.Flags().IntVarP(&numSets, "numSets", "n", 2, "Number of numbered shards to produce")
	return cmd
}
