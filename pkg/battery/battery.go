package battery

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/kamilpajak/battery/pkg/config"
)

// Func is the plain test-function calling convention: configuration in,
// status out. The execution loop never looks inside a test function, only at
// the status it returns.
type Func func(cfg *config.Config) *Status

// IndexedFunc is the alternate calling convention for tests that want their
// 1-based display index, for example to label their own output.
type IndexedFunc func(cfg *config.Config, testNum int) *Status

// Registration errors.
var (
	ErrNilTest          = errors.New("battery: cannot register a nil test function")
	ErrMixedConventions = errors.New("battery: cannot mix test-function calling conventions in one battery")
)

// storage grows in fixed-size chunks rather than letting append double the
// backing array; chunk growth is counted as a run-level statistic.
const chunkSize = 32

type convention int

const (
	conventionNone convention = iota
	conventionPlain
	conventionIndexed
)

// Battery owns the ordered collection of registered tests, the iteration
// cursor, and the run-wide aggregates: total errors, the coordinates of the
// first failure, and wall-clock bounds. Registration is append-only; a single
// battery supports exactly one calling convention.
type Battery struct {
	cfg  *config.Config
	conv convention

	plain   []Func
	indexed []IndexedFunc
	growths int

	current int
	runID   uuid.UUID

	totalErrors        int
	firstFailure       bool
	firstFailedTest    int
	firstFailedGroup   int
	firstFailedCase    int
	firstFailedSubtest int
	startTime, endTime time.Time
}

// New returns an empty battery bound to the given configuration. The cursor
// starts at -1, the "not started" sentinel.
func New(cfg *config.Config) *Battery {
	return &Battery{cfg: cfg, current: -1}
}

// Config returns the configuration the battery was built with.
func (b *Battery) Config() *config.Config { return b.cfg }

// Count returns the number of registered tests.
func (b *Battery) Count() int {
	if b.conv == conventionIndexed {
		return len(b.indexed)
	}
	return len(b.plain)
}

// Register appends a plain-convention test. It fails for a nil function or
// when the battery was already seeded with the indexed convention.
func (b *Battery) Register(fn Func) error {
	if fn == nil {
		return ErrNilTest
	}
	if b.conv == conventionIndexed {
		return ErrMixedConventions
	}
	b.conv = conventionPlain
	if len(b.plain) == cap(b.plain) {
		grown := make([]Func, len(b.plain), len(b.plain)+chunkSize)
		copy(grown, b.plain)
		b.plain = grown
		b.growths++
	}
	b.plain = append(b.plain, fn)
	return nil
}

// RegisterIndexed appends an indexed-convention test. It fails for a nil
// function or when the battery was already seeded with the plain convention.
func (b *Battery) RegisterIndexed(fn IndexedFunc) error {
	if fn == nil {
		return ErrNilTest
	}
	if b.conv == conventionPlain {
		return ErrMixedConventions
	}
	b.conv = conventionIndexed
	if len(b.indexed) == cap(b.indexed) {
		grown := make([]IndexedFunc, len(b.indexed), len(b.indexed)+chunkSize)
		copy(grown, b.indexed)
		b.indexed = grown
		b.growths++
	}
	b.indexed = append(b.indexed, fn)
	return nil
}

// Growths returns how many storage chunks the registry has allocated.
func (b *Battery) Growths() int { return b.growths }

// RunID returns the identifier stamped on the current run.
func (b *Battery) RunID() uuid.UUID { return b.runID }

// TotalErrors returns the errors accumulated across the whole run.
func (b *Battery) TotalErrors() int { return b.totalErrors }

// FirstFailedTest returns the cursor index of the first failing test, or -1
// when nothing has failed.
func (b *Battery) FirstFailedTest() int {
	if !b.firstFailure {
		return -1
	}
	return b.firstFailedTest
}

// FirstFailedGroup returns the group number of the first failure, 0 if none.
func (b *Battery) FirstFailedGroup() int { return b.firstFailedGroup }

// FirstFailedCase returns the case number of the first failure, 0 if none.
func (b *Battery) FirstFailedCase() int { return b.firstFailedCase }

// FirstFailedSubtest returns the subtest sequence number of the first
// failure, 0 if the failure was not tied to a specific subtest.
func (b *Battery) FirstFailedSubtest() int { return b.firstFailedSubtest }

// StartTime returns when the current run started.
func (b *Battery) StartTime() time.Time { return b.startTime }

// EndTime returns when the current run finished.
func (b *Battery) EndTime() time.Time { return b.endTime }

// DurationMS returns the wall-clock length of the run in milliseconds.
func (b *Battery) DurationMS() int64 {
	if b.startTime.IsZero() || b.endTime.IsZero() {
		return 0
	}
	return b.endTime.Sub(b.startTime).Milliseconds()
}

// RunInit resets every aggregate, stamps a fresh run ID, records the run's
// start time, and returns the number of registered tests. A zero return means
// there is nothing to run, which callers must treat as fatal.
func (b *Battery) RunInit() int {
	b.current = -1
	b.totalErrors = 0
	b.firstFailure = false
	b.firstFailedTest = 0
	b.firstFailedGroup = 0
	b.firstFailedCase = 0
	b.firstFailedSubtest = 0
	b.runID = uuid.New()
	b.startTime = time.Now()
	b.endTime = time.Time{}
	return b.Count()
}

// NextTest advances the cursor and returns the next candidate index, or -1
// once iteration is exhausted. The cursor advances even for tests that
// filters will skip; filtering is layered on top of this plain round-robin,
// not baked into it.
func (b *Battery) NextTest() int {
	if b.current < b.Count() {
		b.current++
	}
	if b.current >= b.Count() {
		return -1
	}
	return b.current
}

// CurrentTest returns the cursor position, -1 before the run starts.
func (b *Battery) CurrentTest() int { return b.current }

// RecordError counts a registry-level error that has no status to merge,
// such as a test returning nil or violating the require-sub-tests contract.
func (b *Battery) RecordError() { b.totalErrors++ }

// FinishRun records the wall-clock end of the run.
func (b *Battery) FinishRun() { b.endTime = time.Now() }

// DisposeOfTest merges a completed status into the run aggregates and
// reports whether the execution loop should stop: always for Quitted, and
// for Failed/Aborted when stop-on-error is configured. The first-failure
// coordinates are written exactly once per run; later failures never
// overwrite them.
func (b *Battery) DisposeOfTest(st *Status) bool {
	if st == nil {
		return false
	}

	b.totalErrors += st.ErrorCount()

	failed := st.ErrorCount() > 0 ||
		st.Disposition() == Failed || st.Disposition() == Aborted
	if failed && !b.firstFailure {
		b.firstFailure = true
		b.firstFailedTest = b.current
		b.firstFailedGroup = st.Group()
		b.firstFailedCase = st.Case()
		b.firstFailedSubtest = st.FailedSubtest()
	}

	switch st.Disposition() {
	case Quitted:
		return true
	case Failed, Aborted:
		return b.cfg != nil && b.cfg.StopOnError()
	default:
		return false
	}
}

// invoke runs the test at index i under the battery's calling convention.
func (b *Battery) invoke(i int) *Status {
	if b.conv == conventionIndexed {
		return b.indexed[i](b.cfg, i+1)
	}
	return b.plain[i](b.cfg)
}
