package main

import (
	"github.com/spf13/cobra"

	"github.com/buildbarn/bb-split-ldif/pkg/util"
)

// globalFlags holds the options shared by every subcommand, mirroring
// the global argument parser of the original tool.
type globalFlags struct {
	sourceLDIF                                 util.StringList
	sourceCompressed                           bool
	targetLDIFBasePath                         string
	compressTarget                             bool
	splitBaseDN                                string
	addEntriesOutsideSplitBaseDNToAllSets      bool
	addEntriesOutsideSplitBaseDNToDedicatedSet bool
	schemaPath                                 util.StringList
	numThreads                                 int
}

func (g *globalFlags) register(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.VarP(&g.sourceLDIF, "sourceLDIF", "l", "LDIF file to read entries from (may be given more than once)")
	flags.BoolVarP(&g.sourceCompressed, "sourceCompressed", "C", false, "Indicates the source LDIF files are GZIP-compressed")
	flags.StringVarP(&g.targetLDIFBasePath, "targetLDIFBasePath", "o", "", "Base path for the generated shard files (required when multiple source files are given)")
	flags.BoolVarP(&g.compressTarget, "compressTarget", "c", false, "GZIP-compress the generated shard files")
	flags.StringVarP(&g.splitBaseDN, "splitBaseDN", "b", "", "The distinguished name at which the directory tree is split")
	flags.BoolVar(&g.addEntriesOutsideSplitBaseDNToAllSets, "addEntriesOutsideSplitBaseDNToAllSets", false, "Add entries at or above the split base DN to every numbered shard")
	flags.BoolVar(&g.addEntriesOutsideSplitBaseDNToDedicatedSet, "addEntriesOutsideSplitBaseDNToDedicatedSet", false, "Add entries at or above the split base DN to a dedicated outside shard")
	flags.Var(&g.schemaPath, "schemaPath", "Path to a schema file or directory of schema files (may be given more than once)")
	flags.IntVarP(&g.numThreads, "numThreads", "t", 1, "Number of worker threads used to parse and translate entries")
}

// strategyFlags is shared by the subcommands whose strategies support
// the flat-DIT fallback (every strategy but hash-on-RDN).
type strategyFlags struct {
	assumeFlatDIT bool
}

func (s *strategyFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&s.assumeFlatDIT, "assumeFlatDIT", false, "Assume every entry below the split base sits exactly one level below it")
}
