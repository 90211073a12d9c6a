package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/buildbarn/bb-split-ldif/internal/dn"
	"github.com/buildbarn/bb-split-ldif/internal/ldifio"
	"github.com/buildbarn/bb-split-ldif/internal/router"
	"github.com/buildbarn/bb-split-ldif/internal/splitter"
	"github.com/buildbarn/bb-split-ldif/pkg/program"
	"github.com/buildbarn/bb-split-ldif/pkg/util"
)

// runIDGenerator produces the per-invocation run ID reported in the
// startup and summary lines. Overridable in tests.
var runIDGenerator util.UUIDGenerator = uuid.NewRandom

// runSplit ties the global flags and a fully constructed strategy
// together into one end-to-end invocation: source concatenation,
// routing, dispatch, and the final summary report. Every subcommand's
// RunE funnels into this after building its own OneLevelStrategy.
func runSplit(g *globalFlags, s *strategyFlags, strategy router.OneLevelStrategy) error {
	runID := util.Must(runIDGenerator())

	if err := router.ValidateOutsideHandling(g.addEntriesOutsideSplitBaseDNToAllSets, g.addEntriesOutsideSplitBaseDNToDedicatedSet); err != nil {
		return err
	}
	if g.splitBaseDN == "" {
		return status.Error(codes.InvalidArgument, "splitBaseDN is required")
	}
	baseDN, err := dn.Parse(g.splitBaseDN)
	if err != nil {
		return util.StatusWrapfWithCode(err, codes.InvalidArgument, "invalid splitBaseDN %q", g.splitBaseDN)
	}

	basePath, err := resolveTargetBasePath(g)
	if err != nil {
		return err
	}

	flatDIT := false
	if s != nil {
		flatDIT = s.assumeFlatDIT
	}

	cfg := router.Config{
		SplitBaseDN:        baseDN,
		OutsideToAllSets:   g.addEntriesOutsideSplitBaseDNToAllSets,
		OutsideToDedicated: g.addEntriesOutsideSplitBaseDNToDedicatedSet,
		AssumeFlatDIT:      flatDIT,
	}
	r := router.New(cfg, strategy, router.NewParentMap())

	source, err := openSources(g)
	if err != nil {
		return err
	}

	// program.RunMain installs signal handling and terminates the
	// process itself (exit code 0 or 1); it never returns to the
	// caller under normal operation.
	program.RunMain(func(ctx context.Context, siblingsGroup, dependenciesGroup program.Group) error {
		defer source.Close()

		fmt.Fprintf(os.Stdout, "Run %s: splitting into %s\n", runID, basePath)

		sink := splitter.NewSink(basePath, g.compressTarget, r, os.Stdout)
		reader := ldifio.NewReader(source, g.numThreads, splitter.TranslateFunc(r))
		results, fatal := reader.Run(ctx)

		if err := sink.Process(results); err != nil {
			return util.StatusWrapf(err, "run %s failed while dispatching entries", runID)
		}
		if err := fatal.Err(); err != nil {
			return util.StatusWrapf(err, "run %s failed while reading entries", runID)
		}

		summary, err := sink.Finish()
		if err != nil {
			return util.StatusWrapf(err, "run %s failed while closing shard files", runID)
		}

		fmt.Fprintf(os.Stdout, "Run %s: read %d entries, excluded %d\n", runID, summary.EntriesRead, summary.EntriesExcluded)
		for _, f := range summary.ShardFiles {
			if f.Shard.IsNumbered() {
				fmt.Fprintf(os.Stdout, "%d entries written to set %d (%s)\n", f.Count, f.Shard.Index(), f.Path)
			} else {
				fmt.Fprintf(os.Stdout, "%d entries written to %s\n", f.Count, f.Path)
			}
		}

		if summary.HadFailure {
			return status.Errorf(codes.DataLoss, "run %s encountered one or more malformed or unroutable entries; see the .errors shard", runID)
		}
		return nil
	})
	return nil
}
