package main

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/gzip"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/buildbarn/bb-split-ldif/internal/schema"
	"github.com/buildbarn/bb-split-ldif/pkg/util"
)

// openSources opens every configured source file (or standard input,
// if none were given), decompressing each with GZIP when requested,
// and concatenates them with a blank-line separator so records never
// run together across file boundaries.
func openSources(g *globalFlags) (io.ReadCloser, error) {
	if len(g.sourceLDIF) == 0 {
		r, err := wrapIfCompressed(os.Stdin, g.sourceCompressed)
		if err != nil {
			return nil, util.StatusWrapfWithCode(err, codes.InvalidArgument, "failed to read from standard input")
		}
		return io.NopCloser(r), nil
	}

	var readers []io.Reader
	var closers []io.Closer
	for i, path := range g.sourceLDIF {
		f, err := os.Open(path)
		if err != nil {
			return nil, util.StatusWrapfWithCode(err, codes.NotFound, "failed to open source file %s", path)
		}
		closers = append(closers, f)

		r, err := wrapIfCompressed(f, g.sourceCompressed)
		if err != nil {
			return nil, util.StatusWrapfWithCode(err, codes.InvalidArgument, "failed to decompress source file %s", path)
		}
		if c, ok := r.(io.Closer); ok && c != f {
			closers = append(closers, c)
		}

		if i > 0 {
			readers = append(readers, strings.NewReader("\n\n"))
		}
		readers = append(readers, r)
	}

	return &multiSourceReader{Reader: io.MultiReader(readers...), closers: closers}, nil
}

func wrapIfCompressed(r io.Reader, compressed bool) (io.Reader, error) {
	if !compressed {
		return r, nil
	}
	return gzip.NewReader(r)
}

type multiSourceReader struct {
	io.Reader
	closers []io.Closer
}

func (m *multiSourceReader) Close() error {
	var first error
	for _, c := range m.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// resolveTargetBasePath derives the output base path: the explicit
// flag value if set, otherwise the single source file's path. Having
// more than one source with no explicit base path is a ConfigError.
func resolveTargetBasePath(g *globalFlags) (string, error) {
	if g.targetLDIFBasePath != "" {
		return g.targetLDIFBasePath, nil
	}
	switch len(g.sourceLDIF) {
	case 0:
		return "", status.Error(codes.InvalidArgument, "targetLDIFBasePath is required when reading from standard input")
	case 1:
		return g.sourceLDIF[0], nil
	default:
		return "", status.Error(codes.InvalidArgument, "targetLDIFBasePath is required when multiple source files are given")
	}
}

// loadSchema loads the schema named by --schemaPath, or falls back to
// $INSTANCE_ROOT/config/schema/*.ldif (sorted by name) when no
// --schemaPath was given and $INSTANCE_ROOT is set. A nil schema
// means "no schema": attribute equality falls back to case-insensitive
// ASCII comparison.
func loadSchema(g *globalFlags) (*schema.Schema, error) {
	if len(g.schemaPath) > 0 {
		s, err := schema.Load(g.schemaPath)
		if err != nil {
			return nil, util.StatusWrapfWithCode(err, codes.InvalidArgument, "failed to load schema")
		}
		return s, nil
	}

	instanceRoot := os.Getenv("INSTANCE_ROOT")
	if instanceRoot == "" {
		return nil, nil
	}
	matches, err := filepath.Glob(filepath.Join(instanceRoot, "config", "schema", "*.ldif"))
	if err != nil || len(matches) == 0 {
		return nil, nil
	}
	sort.Strings(matches)
	s, err := schema.Load(matches)
	if err != nil {
		return nil, util.StatusWrapfWithCode(err, codes.InvalidArgument, "failed to load schema from $INSTANCE_ROOT")
	}
	return s, nil
}
