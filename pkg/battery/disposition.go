// Package battery implements a self-contained unit-test execution engine:
// tests register with a Battery, a Runner drives them in order, and each test
// reports back through a Status that tracks subtests, check failures, and the
// disposition deciding whether the run continues.
package battery

// Disposition classifies the outcome of a single test invocation.
//
// The order matters: later values take precedence when two outcomes are
// merged, so a run that both failed and aborted reports the abort.
type Disposition int

const (
	// Continue is the initial state: the test is running normally.
	Continue Disposition = iota
	// DidNotTest marks a test skipped by a filter or summarize mode.
	DidNotTest
	// Failed marks a test with at least one failing check.
	Failed
	// Quitted marks a cooperative early stop requested by the user; it is
	// not a failure.
	Quitted
	// Aborted marks a hard early stop; the test counts as failed.
	Aborted
)

// String renders the disposition for reports.
func (d Disposition) String() string {
	switch d {
	case Continue:
		return "continue"
	case DidNotTest:
		return "did not test"
	case Failed:
		return "failed"
	case Quitted:
		return "quitted"
	case Aborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Terminal reports whether the disposition ends the current test invocation
// early. Failed does not: a test may keep checking after a failure.
func (d Disposition) Terminal() bool {
	return d == Quitted || d == Aborted
}

// Merge returns the disposition that best represents the two together,
// keeping whichever takes precedence.
func (d Disposition) Merge(next Disposition) Disposition {
	if next > d {
		return next
	}
	return d
}
