package battery

import (
	"fmt"
	"os"
	"time"

	"github.com/kamilpajak/battery/internal/prompt"
	"github.com/kamilpajak/battery/internal/report"
	"github.com/kamilpajak/battery/pkg/config"
)

// Runner drives a battery through one sequential pass: apply filters, invoke
// each test, merge its status, and honor the stop/abort policy. There is no
// parallel dispatch; the only suspension point is the interactive prompt.
type Runner struct {
	cfg     *config.Config
	battery *Battery
	printer *report.Printer
	asker   *prompt.Asker
}

// NewRunner wires a runner for the given battery. Output goes to stderr and
// prompts read stdin, matching the process contract that stdout stays free
// for the tests themselves.
func NewRunner(cfg *config.Config, b *Battery) *Runner {
	r := &Runner{
		cfg:     cfg,
		battery: b,
	}
	if cfg != nil {
		r.printer = report.NewPrinter(os.Stderr, cfg.ShowProgress(), cfg.Verbose())
		if cfg.Interactive() && !cfg.BatchMode() {
			r.asker = prompt.NewAsker(os.Stdin, os.Stderr, cfg.BeepOnPrompt())
		}
	}
	return r
}

// SetPrinter overrides the output printer. Used by tests to capture output.
func (r *Runner) SetPrinter(p *report.Printer) { r.printer = p }

// Asker returns the interactive asker, nil in batch or non-interactive runs.
func (r *Runner) Asker() *prompt.Asker { return r.asker }

// SetAsker overrides the interactive asker. Used by tests to script answers.
func (r *Runner) SetAsker(a *prompt.Asker) { r.asker = a }

// Run executes the whole battery and reports overall success: true exactly
// when the accumulated error count is zero. An early stop via Quitted with no
// errors on the books is still a pass.
func (r *Runner) Run() bool {
	if r.cfg == nil || !r.cfg.Valid() {
		if r.printer != nil {
			r.printer.Error("invalid configuration, nothing to run")
		}
		return false
	}

	total := r.battery.RunInit()
	if total == 0 {
		r.printer.Error("no tests registered, nothing to run")
		return false
	}
	r.printer.RunStart(total, r.battery.RunID().String())

	for idx := r.battery.NextTest(); idx != -1; idx = r.battery.NextTest() {
		if ms := r.cfg.SleepTime(); ms > 0 {
			time.Sleep(time.Duration(ms) * time.Millisecond)
		}

		display := idx + 1
		if display > 1 && r.cfg.CasePause() && r.asker != nil {
			resp, err := r.asker.Ask(fmt.Sprintf("run test %d/%d?", display, total))
			if err != nil || resp == prompt.Quit || resp == prompt.Abort {
				break
			}
			if resp == prompt.Skip {
				continue
			}
		}
		r.cfg.SetCurrentTest(display)
		r.printer.TestStart(display, total)

		st := r.battery.invoke(idx)
		if st == nil {
			r.battery.RecordError()
			r.printer.RegistryError(display, "test returned no status")
			if r.cfg.StopOnError() {
				break
			}
			continue
		}
		st.Finish()

		if r.cfg.NeedSubtests() && st.DeclaredSubtests() == 0 {
			// Not merged normally: a test that never declared a subtest
			// violated the registry contract, whatever its status says.
			r.battery.RecordError()
			r.printer.RegistryError(display, "test declared no subtests")
			if r.cfg.StopOnError() {
				break
			}
			continue
		}

		stop := r.battery.DisposeOfTest(st)
		r.printer.TestResult(display, st.GroupName(), st.CaseName(),
			st.Disposition().String(), st.ErrorCount(), st.DurationMS())
		if stop {
			break
		}
	}

	r.battery.FinishRun()
	ok := r.battery.TotalErrors() == 0

	firstFailed := 0
	if r.battery.FirstFailedTest() >= 0 {
		firstFailed = r.battery.FirstFailedTest() + 1
	}
	r.printer.RunEnd(report.Summary{
		RunID:              r.battery.RunID().String(),
		Total:              total,
		TotalErrors:        r.battery.TotalErrors(),
		FirstFailedTest:    firstFailed,
		FirstFailedGroup:   r.battery.FirstFailedGroup(),
		FirstFailedCase:    r.battery.FirstFailedCase(),
		FirstFailedSubtest: r.battery.FirstFailedSubtest(),
		DurationMS:         r.battery.DurationMS(),
	})
	return ok
}
