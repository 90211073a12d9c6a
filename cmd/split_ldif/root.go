package main

import (
	"github.com/spf13/cobra"
)

// newRootCommand builds the root command: the global flags, and the
// four strategy subcommands, one per routing strategy.
func newRootCommand() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:   "split_ldif",
		Short: "Partitions an LDIF export into a fixed number of shards",
		Long: "split_ldif reads one or more LDIF files and distributes their entries\n" +
			"across a set of output shards, using one of several deterministic\n" +
			"routing strategies, while keeping each subtree's entries together.",
		SilenceUsage: true,
	}
	g.register(root)

	root.AddCommand(
		newHashOnRDNCommand(g),
		newHashOnAttributeCommand(g),
		newFewestEntriesCommand(g),
		newFilterCommand(g),
	)
	return root
}
