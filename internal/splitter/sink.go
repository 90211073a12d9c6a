package splitter

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/buildbarn/bb-split-ldif/internal/ldifio"
	"github.com/buildbarn/bb-split-ldif/internal/router"
	"github.com/buildbarn/bb-split-ldif/pkg/atomic"
	"github.com/buildbarn/bb-split-ldif/pkg/util"
)

// Sink is the single-threaded dispatcher/sink (component E): it
// drains translated entries in source order, opens shard output
// streams lazily, handles malformed-record and routing-failure
// recovery, and maintains the run's counters. Its fields are touched
// from one goroutine only, matching the "no locking needed" note of
// the concurrency model.
type Sink struct {
	basePath string
	compress bool
	router   *router.Router
	progress io.Writer

	files           map[router.ShardID]*shardFile
	order           []router.ShardID
	entriesRead     atomic.Int64
	entriesExcluded atomic.Int64
	hadFailure      bool
}

type shardFile struct {
	path  string
	file  *os.File
	gz    *gzip.Writer
	w     io.Writer
	count int64
}

func (f *shardFile) write(data []byte) error {
	if _, err := f.w.Write(data); err != nil {
		return err
	}
	f.count++
	return nil
}

func (f *shardFile) close() error {
	if f.gz != nil {
		if err := f.gz.Close(); err != nil {
			return err
		}
	}
	return f.file.Close()
}

// NewSink constructs a Sink writing shard files under basePath
// (<basePath><suffix>), optionally GZIP-compressed, using r to retry
// deferred routing decisions at drain time. Progress and summary
// lines are written to progress.
func NewSink(basePath string, compress bool, r *router.Router, progress io.Writer) *Sink {
	return &Sink{
		basePath: basePath,
		compress: compress,
		router:   r,
		progress: progress,
		files:    make(map[router.ShardID]*shardFile),
	}
}

// Process drains results until the channel is closed, routing each
// translated entry and recovering from malformed records and routing
// failures by recording them in the errors shard.
func (s *Sink) Process(results <-chan *ldifio.Result) error {
	for res := range results {
		n := s.entriesRead.Add(1)

		if res.ParseErr != nil {
			if err := s.writeToShard(router.ErrorsShard, synthesizeErrorRecord(res.ParseErr.Message, res.ParseErr.RawLines)); err != nil {
				return err
			}
			s.hadFailure = true
			s.maybeReportProgress(n)
			continue
		}

		translated := res.Value.(Translated)

		if translated.DNError != nil {
			if err := s.writeToShard(router.ErrorsShard, synthesizeErrorRecord(
				"entry has a malformed distinguished name: "+translated.DNError.Error(),
				translated.Entry.RawLines())); err != nil {
				return err
			}
			s.hadFailure = true
			s.maybeReportProgress(n)
			continue
		}

		decision := translated.Decision
		if decision.Deferred {
			decision = s.router.Route(translated.Entry, translated.DN)
		}
		if decision.Deferred {
			if err := s.writeToShard(router.ErrorsShard, synthesizeErrorRecord(
				"entry has no parent in a previously-seen shard",
				translated.Entry.RawLines())); err != nil {
				return err
			}
			s.hadFailure = true
			s.maybeReportProgress(n)
			continue
		}

		if len(decision.ShardSet) == 0 {
			s.entriesExcluded.Add(1)
			s.maybeReportProgress(n)
			continue
		}

		for shard := range decision.ShardSet {
			if err := s.writeToShard(shard, translated.Entry.Bytes()); err != nil {
				return err
			}
		}
		s.maybeReportProgress(n)
	}
	return nil
}

func (s *Sink) maybeReportProgress(n int64) {
	if n%1000 == 0 {
		fmt.Fprintf(s.progress, "Processed %d entries\n", n)
	}
}

func (s *Sink) writeToShard(shard router.ShardID, data []byte) error {
	f, err := s.shardFor(shard)
	if err != nil {
		return err
	}
	if err := f.write(data); err != nil {
		return util.StatusWrapf(status.Error(codes.Internal, err.Error()), "failed to write to shard file %s", f.path)
	}
	return nil
}

func (s *Sink) shardFor(shard router.ShardID) (*shardFile, error) {
	if f, ok := s.files[shard]; ok {
		return f, nil
	}

	path := s.basePath + shard.Suffix()
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, util.StatusWrapf(status.Error(codes.Internal, err.Error()), "failed to create directory for shard file %s", path)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, util.StatusWrapf(status.Error(codes.Internal, err.Error()), "failed to open shard file %s", path)
	}

	sf := &shardFile{path: path, file: file}
	var w io.Writer = file
	if s.compress {
		sf.gz = gzip.NewWriter(file)
		w = sf.gz
	}
	sf.w = w

	s.files[shard] = sf
	s.order = append(s.order, shard)
	return sf, nil
}

// Summary is the end-of-stream report.
type Summary struct {
	EntriesRead     int64
	EntriesExcluded int64
	HadFailure      bool
	ShardFiles      []ShardFileCount
}

// ShardFileCount is the entry count written to one shard file. Shard
// is carried alongside Path so callers can tell a numbered partition
// apart from the reserved outside/errors shards without reparsing the
// path.
type ShardFileCount struct {
	Shard router.ShardID
	Path  string
	Count int64
}

// Finish closes every opened shard file (flushing GZIP trailers) and
// returns the run's summary.
func (s *Sink) Finish() (Summary, error) {
	summary := Summary{
		EntriesRead:     s.entriesRead.Load(),
		EntriesExcluded: s.entriesExcluded.Load(),
		HadFailure:      s.hadFailure,
	}
	for _, shard := range s.order {
		f := s.files[shard]
		summary.ShardFiles = append(summary.ShardFiles, ShardFileCount{Shard: shard, Path: f.path, Count: f.count})
		if err := f.close(); err != nil {
			return summary, util.StatusWrapf(status.Error(codes.Internal, err.Error()), "failed to close shard file %s", f.path)
		}
	}
	return summary, nil
}

func synthesizeErrorRecord(message string, rawLines []string) []byte {
	var buf bytes.Buffer
	buf.WriteString("# ")
	buf.WriteString(message)
	buf.WriteByte('\n')
	for _, line := range rawLines {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	buf.WriteByte('\n')
	return buf.Bytes()
}
