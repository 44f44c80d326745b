package battery

import (
	"fmt"
	"io"
	"os"

	"github.com/google/go-cmp/cmp"

	"github.com/kamilpajak/battery/internal/prompt"
	"github.com/kamilpajak/battery/pkg/config"
)

// Status is the per-invocation record of one test: its group/case identity,
// the subtests it declared, the checks it failed, and the disposition that
// tells the execution loop what to do next. A test function creates one
// Status at the top, threads it through its body, and returns it; the loop
// reads it immutably afterwards.
type Status struct {
	cfg   *config.Config
	out   io.Writer
	valid bool

	group     int
	kase      int
	groupName string
	caseName  string

	seq         int
	subtests    int
	subtestName string

	errorCount    int
	failedSubtest int
	disposition   Disposition
	testResult    bool

	deliberate    int
	ignoreApplied bool
	ignoredAt     Disposition

	watch Stopwatch
}

// NewStatus builds the status for one test invocation and starts its timer.
// Group and case numbers must be positive and both names non-empty; anything
// else yields an invalid status that degrades to a forced skip instead of
// running.
func NewStatus(cfg *config.Config, group, kase int, groupName, caseName string) *Status {
	s := &Status{
		cfg:        cfg,
		out:        os.Stderr,
		group:      group,
		kase:       kase,
		groupName:  groupName,
		caseName:   caseName,
		testResult: true,
	}
	s.watch.Start()

	if group <= 0 || kase <= 0 || groupName == "" || caseName == "" {
		s.disposition = DidNotTest
		return s
	}
	s.valid = true
	return s
}

// IsValid reports whether the status was constructed with a usable identity.
func (s *Status) IsValid() bool { return s.valid }

// Config returns the configuration the status was built with.
func (s *Status) Config() *config.Config { return s.cfg }

// SetOutput redirects diagnostic lines. The default is stderr.
func (s *Status) SetOutput(w io.Writer) { s.out = w }

// Group returns the group number.
func (s *Status) Group() int { return s.group }

// Case returns the case number.
func (s *Status) Case() int { return s.kase }

// GroupName returns the group name.
func (s *Status) GroupName() string { return s.groupName }

// CaseName returns the case name.
func (s *Status) CaseName() string { return s.caseName }

// Subtests returns how many subtests were accepted so far.
func (s *Status) Subtests() int { return s.subtests }

// DeclaredSubtests returns how many subtests were declared, accepted or not.
// The require-sub-tests check reads this: a filtered-out subtest still counts
// as declared.
func (s *Status) DeclaredSubtests() int { return s.seq }

// SubtestName returns the name of the most recently accepted subtest.
func (s *Status) SubtestName() string { return s.subtestName }

// ErrorCount returns the number of failed checks in this test.
func (s *Status) ErrorCount() int { return s.errorCount }

// FailedSubtest returns the sequence number of the first failing subtest, or
// 0 when no check has failed.
func (s *Status) FailedSubtest() int { return s.failedSubtest }

// Disposition returns the current outcome classification.
func (s *Status) Disposition() Disposition { return s.disposition }

// Passed reports whether the most recent check passed.
func (s *Status) Passed() bool { return s.testResult }

// Elapsed returns the milliseconds since the status was created. When reset
// is true the timer restarts for the next interval.
func (s *Status) Elapsed(reset bool) int64 { return s.watch.Delta(reset) }

// Finish captures the test's end time. Called once by the test function (or
// the loop) when the body is done.
func (s *Status) Finish() { s.watch.Delta(false) }

// DurationMS returns the last captured elapsed time in milliseconds.
func (s *Status) DurationMS() int64 { return s.watch.DurationMS() }

// setDisposition moves the state machine, re-arming Ignore when the
// disposition actually changes.
func (s *Status) setDisposition(d Disposition) {
	merged := s.disposition.Merge(d)
	if merged != s.disposition {
		s.disposition = merged
		s.ignoreApplied = false
	}
}

// Pass records the outcome of one check. A false flag increments the error
// count, pins the first failing subtest, and moves the disposition to Failed.
// It returns the flag so checks compose: `if !st.Pass(got == want) { ... }`.
func (s *Status) Pass(flag bool) bool {
	s.testResult = flag
	if !flag {
		s.errorCount++
		if s.failedSubtest == 0 {
			s.failedSubtest = s.seq
		}
		s.setDisposition(Failed)
	}
	return flag
}

// Fail records a failing check.
func (s *Status) Fail() { s.Pass(false) }

// FailDeliberately records a failing check that the engine's own self-tests
// planted on purpose. The probe API can convert it back into a pass.
func (s *Status) FailDeliberately() {
	s.Pass(false)
	s.deliberate++
}

// CheckEqual compares got against want and records the result as a check.
// When show-values is configured a failing comparison prints the diff.
func (s *Status) CheckEqual(label string, got, want any) bool {
	ok := cmp.Equal(got, want)
	if !ok && s.cfg != nil && s.cfg.ShowValues() {
		fmt.Fprintf(s.out, "%s: mismatch (-want +got):\n%s", label, cmp.Diff(want, got))
	}
	if s.cfg != nil && s.cfg.Verbose() && ok {
		fmt.Fprintf(s.out, "%s: ok\n", label)
	}
	return s.Pass(ok)
}

// NextSubtest declares the next subtest and reports whether its body should
// run. The declaration is rejected — and the body skipped, with no error
// recorded — when summarize mode is on, when a group/case filter selects a
// different test, or when a subtest filter selects a different subtest.
// Subtests keep their sequence numbers either way, so a numeric subtest
// filter addresses the Nth declared subtest even when earlier ones were
// skipped.
func (s *Status) NextSubtest(name string) bool {
	if !s.valid || s.disposition.Terminal() {
		return false
	}
	s.seq++
	if s.cfg != nil {
		if s.cfg.Summarize() {
			s.markSkipped()
			return false
		}
		if !s.cfg.GroupSelector().Match(s.group, s.groupName) ||
			!s.cfg.CaseSelector().Match(s.kase, s.caseName) {
			s.markSkipped()
			return false
		}
		if !s.cfg.SubtestSelector().Match(s.seq, name) {
			return false
		}
		if s.cfg.ShowStepNumbers() {
			fmt.Fprintf(s.out, "  step %d: %s\n", s.seq, name)
		}
	}
	s.subtests++
	s.subtestName = name
	return true
}

// markSkipped classifies a test whose every subtest was filtered away.
func (s *Status) markSkipped() {
	if s.subtests == 0 && s.disposition == Continue {
		s.setDisposition(DidNotTest)
	}
}

// Quit requests a cooperative early stop of the whole run. Not a failure.
func (s *Status) Quit() { s.setDisposition(Quitted) }

// Abort ends the test — and, with stop-on-error, the run — as a failure.
func (s *Status) Abort() { s.setDisposition(Aborted) }

// CanProceed reports whether the test body may keep going: everything but
// Aborted and DidNotTest.
func (s *Status) CanProceed() bool {
	return s.disposition != Aborted && s.disposition != DidNotTest
}

// IsOkay reports whether the test is in a healthy state: Continue or
// DidNotTest only.
func (s *Status) IsOkay() bool {
	return s.disposition == Continue || s.disposition == DidNotTest
}

// Ignore reconciles the recorded result with the disposition's intent: a
// skipped or quitted test is forced to pass (stopping is not failing), an
// aborted test is forced to fail, and for Continue/Failed it is a no-op
// returning false. Calling it again with an unchanged disposition changes
// nothing further.
func (s *Status) Ignore() bool {
	applied := s.ignoreApplied && s.ignoredAt == s.disposition

	switch s.disposition {
	case DidNotTest, Quitted:
		s.testResult = true
	case Aborted:
		s.testResult = false
		if !applied {
			s.errorCount++
			if s.failedSubtest == 0 {
				s.failedSubtest = s.seq
			}
		}
	default:
		return false
	}

	s.ignoreApplied = true
	s.ignoredAt = s.disposition
	return true
}

// ApplyResponse maps a prompt answer onto the status and reports whether the
// guarded check should still be evaluated.
func (s *Status) ApplyResponse(r prompt.Response) bool {
	switch r {
	case prompt.Continue:
		return true
	case prompt.Skip:
		return false
	case prompt.Fail:
		s.Fail()
	case prompt.Quit:
		s.Quit()
	case prompt.Abort:
		s.Abort()
	}
	return false
}

// Pause blocks on the interactive prompt when one is configured and applies
// the answer. In batch mode (or when no asker is wired) the configured
// default response is used without touching the terminal. The return value
// follows ApplyResponse.
func (s *Status) Pause(a *prompt.Asker, question string, batchDefault rune) bool {
	if s.cfg == nil || !s.cfg.Interactive() {
		return true
	}
	if s.cfg.BatchMode() || a == nil {
		if resp, ok := prompt.Parse(batchDefault); ok {
			return s.ApplyResponse(resp)
		}
		return true
	}
	resp, err := a.Ask(question)
	if err != nil {
		s.Quit()
		return false
	}
	return s.ApplyResponse(resp)
}
