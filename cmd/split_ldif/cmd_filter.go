package main

import (
	"github.com/spf13/cobra"

	"github.com/buildbarn/bb-split-ldif/internal/router"
	"github.com/buildbarn/bb-split-ldif/pkg/util"
)

// newFilterCommand builds the "split-using-filter" subcommand. Its
// one numbered shard per filter is implicit in the number of --filter
// occurrences; there is no separate --numSets flag.
func newFilterCommand(g *globalFlags) *cobra.Command {
	var filters util.StringList
	s := &strategyFlags{}

	cmd := &cobra.Command{
		Use:     "split-using-filter",
		Aliases: []string{"filter"},
		Short:   "Routes entries to the numbered shard of the first matching filter",
		RunE: func(cmd *cobra.Command, args []string) error {
			sch, err := loadSchema(g)
			if err != nil {
				return err
			}
			strategy, err := router.NewFilterStrategy(router.FilterOptions{
				Filters: []string(filters),
				Schema:  sch,
			})
			if err != nil {
				return err
			}
			return runSplit(g, s, strategy)
		},
	}
	cmd.Flags().VarP(&filters, "filter", "f", "An LDAP filter; entries matching it go to that filter's numbered shard (give at least twice)")
	s.register(cmd)
	return cmd
}
