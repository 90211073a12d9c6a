package ldifio

import (
	"bufio"
	"context"
	"io"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/buildbarn/bb-split-ldif/pkg/util"
)

// TranslateFunc is the translation pipeline's contract (component D):
// given a parsed entry, produce a caller-defined translation result.
// It must be pure with respect to entry and must never block on I/O;
// the router package supplies the concrete implementation.
type TranslateFunc func(entry *Entry) interface{}

// Result is one record's outcome, released to the consumer strictly
// in source order. Exactly one of ParseErr and Entry is set.
type Result struct {
	Seq      uint64
	Entry    *Entry
	ParseErr *ParseError
	Value    interface{}
}

// Reader tokenizes an LDIF byte stream into records, parses and
// translates them across a pool of worker goroutines, and reassembles
// the results into source order before releasing them.
type Reader struct {
	source      io.Reader
	numThreads  int
	translate   TranslateFunc
	errorLogger util.ErrorLogger
}

// NewReader constructs a Reader. numThreads must be >= 1. Recoverable
// parse errors are reported to util.DefaultErrorLogger as they are
// found, in addition to being carried on the Result stream for the
// errors shard; use WithErrorLogger to override this.
func NewReader(source io.Reader, numThreads int, translate TranslateFunc) *Reader {
	if numThreads < 1 {
		numThreads = 1
	}
	return &Reader{source: source, numThreads: numThreads, translate: translate, errorLogger: util.DefaultErrorLogger}
}

// WithErrorLogger overrides the logger used for recoverable parse
// errors observed by worker goroutines.
func (r *Reader) WithErrorLogger(logger util.ErrorLogger) *Reader {
	r.errorLogger = logger
	return r
}

type rawRecord struct {
	seq   uint64
	lines []string
}

// Run starts tokenizing and processing the stream, returning a
// channel of *Result delivered in source order. The channel is closed
// once the stream is exhausted or an unrecoverable error is reached.
// fatalErr reports the stream-level error (nil on clean EOF) once the
// returned channel has been drained.
func (r *Reader) Run(ctx context.Context) (<-chan *Result, *FatalError) {
	fatal := &FatalError{}
	out := make(chan *Result, 4*r.numThreads)
	jobs := make(chan rawRecord, 4*r.numThreads)

	runCtx, cancel := context.WithCancel(ctx)
	group, groupCtx := errgroup.WithContext(runCtx)

	buf := newReorderBuffer(out)

	// Worker pool: parses and translates records, order-independent.
	for i := 0; i < r.numThreads; i++ {
		group.Go(func() error {
			for {
				select {
				case <-groupCtx.Done():
					return nil
				case rec, ok := <-jobs:
					if !ok {
						return nil
					}
					res := &Result{Seq: rec.seq}
					entry, parseErr := parseEntry(rec.lines)
					if parseErr != nil {
						res.ParseErr = parseErr
						if parseErr.Recoverable {
							r.errorLogger.Log(parseErr)
						} else {
							fatal.set(parseErr)
							cancel()
						}
					} else {
						res.Entry = entry
						res.Value = r.translate(entry)
					}
					buf.submit(res)
				}
			}
		})
	}

	// Tokenizer: sequential by nature (bufio.Scanner), feeds jobs.
	group.Go(func() error {
		defer close(jobs)
		scanner := bufio.NewScanner(r.source)
		scanner.Buffer(make([]byte, 0, 64*1024), 1<<24)

		var seq uint64
		var current []string
		flush := func() bool {
			if len(current) == 0 {
				return true
			}
			rec := rawRecord{seq: seq, lines: current}
			seq++
			current = nil
			select {
			case jobs <- rec:
				return true
			case <-groupCtx.Done():
				return false
			}
		}

		for scanner.Scan() {
			line := scanner.Text()
			if line == "" {
				if !flush() {
					return nil
				}
				continue
			}
			current = append(current, line)
		}
		if err := scanner.Err(); err != nil {
			// The stream itself failed mid-read. Anything left in
			// current is an incomplete record and must not be handed
			// to a worker as if it were well-formed; report it
			// through the same error channel as a malformed record
			// instead, carrying whatever lines were read before the
			// failure, and stop reading.
			parseErr := &ParseError{
				Message:     "I/O error while reading source: " + err.Error(),
				RawLines:    current,
				Recoverable: false,
			}
			fatal.set(parseErr)
			cancel()
			buf.submit(&Result{Seq: seq, ParseErr: parseErr})
			return nil
		}
		if !flush() {
			return nil
		}
		return nil
	})

	go func() {
		group.Wait()
		cancel()
		// If nothing internal already recorded a cause, but the
		// caller's own context was canceled (SIGINT/SIGTERM, a
		// deadline), that's why reading stopped; surface it rather
		// than reporting a silent clean EOF.
		if fatal.Err() == nil {
			if err := util.StatusFromContext(ctx); err != nil {
				fatal.set(err)
			}
		}
		buf.close()
	}()

	return out, fatal
}

// FatalError carries the stream-level error (I/O failure or an
// UnrecoverableParseError) observed while reading, if any. It is only
// safe to read after the Result channel returned by Run has been
// fully drained.
type FatalError struct {
	mu  sync.Mutex
	err error
}

func (f *FatalError) set(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err == nil {
		f.err = err
	}
}

// Err returns the recorded fatal error, or nil if the stream ended
// cleanly.
func (f *FatalError) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// reorderBuffer releases results to out strictly in ascending Seq
// order, regardless of which worker finishes first.
type reorderBuffer struct {
	mu      sync.Mutex
	next    uint64
	pending map[uint64]*Result
	out     chan *Result
}

func newReorderBuffer(out chan *Result) *reorderBuffer {
	return &reorderBuffer{pending: make(map[uint64]*Result), out: out}
}

func (b *reorderBuffer) submit(r *Result) {
	b.mu.Lock()
	b.pending[r.Seq] = r
	for {
		ready, ok := b.pending[b.next]
		if !ok {
			break
		}
		delete(b.pending, b.next)
		b.next++
		b.mu.Unlock()
		b.out <- ready
		b.mu.Lock()
	}
	b.mu.Unlock()
}

func (b *reorderBuffer) close() {
	close(b.out)
}
