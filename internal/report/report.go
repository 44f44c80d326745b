// Package report renders run output: per-test result lines, an optional
// progress spinner, and the end-of-run summary. It deliberately knows nothing
// about the engine's types; the runner hands it plain values.
package report

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"golang.org/x/time/rate"
)

// Summary carries the run-wide aggregates printed at the end of a run.
type Summary struct {
	RunID              string
	Total              int
	TotalErrors        int
	FirstFailedTest    int // 1-based display index, 0 when nothing failed
	FirstFailedGroup   int
	FirstFailedCase    int
	FirstFailedSubtest int
	DurationMS         int64
}

// Printer writes human-readable run output. On a terminal it uses color and,
// when progress display is requested, a spinner; redirected output gets plain
// lines. Spinner suffix updates are rate limited so a fast battery does not
// spend its time redrawing.
type Printer struct {
	out      io.Writer
	verbose  bool
	progress bool
	tty      bool

	spin    *spinner.Spinner
	updates *rate.Limiter

	pass *color.Color
	fail *color.Color
	skip *color.Color
	dim  *color.Color
}

// NewPrinter builds a printer on the given stream. progress enables the
// spinner (tty only); verbose switches to one line per test instead.
func NewPrinter(out io.Writer, progress, verbose bool) *Printer {
	tty := false
	if f, ok := out.(*os.File); ok {
		tty = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Printer{
		out:      out,
		verbose:  verbose,
		progress: progress,
		tty:      tty,
		updates:  rate.NewLimiter(rate.Limit(20), 5),
		pass:     color.New(color.FgGreen),
		fail:     color.New(color.FgRed, color.Bold),
		skip:     color.New(color.FgYellow),
		dim:      color.New(color.FgHiBlack),
	}
}

// RunStart announces the run and, where appropriate, starts the spinner.
func (p *Printer) RunStart(total int, runID string) {
	_, _ = p.dim.Fprintf(p.out, "run %s: %d test(s)\n", runID, total)
	if p.progress && p.tty && !p.verbose {
		p.spin = spinner.New(spinner.CharSets[14], 100*time.Millisecond,
			spinner.WithWriter(p.out))
		p.spin.Start()
	}
}

// TestStart marks the next test as running.
func (p *Printer) TestStart(index, total int) {
	if p.spin != nil {
		if p.updates.Allow() {
			p.spin.Suffix = fmt.Sprintf(" test %d/%d", index, total)
		}
		return
	}
	if p.verbose {
		fmt.Fprintf(p.out, "test %d/%d:\n", index, total)
	}
}

// TestResult prints the outcome of one test.
func (p *Printer) TestResult(index int, group, kase string, disposition string, errs int, durMS int64) {
	if p.spin != nil && errs == 0 {
		return
	}
	p.pauseSpinner()

	label := fmt.Sprintf("test %d %s/%s", index, group, kase)
	switch {
	case errs > 0:
		_, _ = p.fail.Fprintf(p.out, "FAIL %s: %d error(s), %s (%dms)\n", label, errs, disposition, durMS)
	case disposition == "did not test":
		_, _ = p.skip.Fprintf(p.out, "SKIP %s\n", label)
	case p.verbose:
		_, _ = p.pass.Fprintf(p.out, "PASS %s (%dms)\n", label, durMS)
	}

	p.resumeSpinner()
}

// RegistryError reports a run-level problem that has no status to print,
// such as a nil status or a missing subtest declaration.
func (p *Printer) RegistryError(index int, msg string) {
	p.pauseSpinner()
	_, _ = p.fail.Fprintf(p.out, "ERROR test %d: %s\n", index, msg)
	p.resumeSpinner()
}

// Error reports a fatal run condition.
func (p *Printer) Error(msg string) {
	p.pauseSpinner()
	_, _ = p.fail.Fprintln(p.out, msg)
	p.resumeSpinner()
}

// RunEnd stops the spinner and prints the summary.
func (p *Printer) RunEnd(s Summary) {
	if p.spin != nil {
		p.spin.Stop()
		p.spin = nil
	}

	if s.TotalErrors == 0 {
		_, _ = p.pass.Fprintf(p.out, "PASS: %d test(s), 0 errors (%dms)\n", s.Total, s.DurationMS)
		return
	}
	_, _ = p.fail.Fprintf(p.out, "FAIL: %d error(s) across %d test(s) (%dms)\n",
		s.TotalErrors, s.Total, s.DurationMS)
	_, _ = p.dim.Fprintf(p.out, "first failure: test %d (group %d, case %d, subtest %d)\n",
		s.FirstFailedTest, s.FirstFailedGroup, s.FirstFailedCase, s.FirstFailedSubtest)
}

func (p *Printer) pauseSpinner() {
	if p.spin != nil {
		p.spin.Stop()
	}
}

func (p *Printer) resumeSpinner() {
	if p.spin != nil {
		p.spin.Start()
	}
}
