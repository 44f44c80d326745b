// Package selftest is the battery engine's built-in suite: a set of test
// functions that exercise the engine through its public API. The CLI runs it
// by default, which doubles as a smoke test of the whole execution loop.
package selftest

import (
	"time"

	"github.com/kamilpajak/battery/internal/prompt"
	"github.com/kamilpajak/battery/pkg/battery"
	"github.com/kamilpajak/battery/pkg/config"
)

// Register loads the built-in suite into a battery.
func Register(b *battery.Battery) error {
	tests := []battery.Func{
		testDispositions,
		testIgnore,
		testDeliberateFailure,
		testConfigCascades,
		testSelectors,
		testStopwatch,
		testPromptResponses,
		testForcedFailure,
	}
	for _, fn := range tests {
		if err := b.Register(fn); err != nil {
			return err
		}
	}
	return nil
}

// probeConfig returns a neutral configuration for statuses created inside a
// test body, so the run's own filters do not leak into the probes.
func probeConfig() *config.Config {
	return config.New("selftest-probe")
}

func testDispositions(cfg *config.Config) *battery.Status {
	st := battery.NewStatus(cfg, 1, 1, "status", "dispositions")

	if st.NextSubtest("fresh status") {
		probe := battery.NewStatus(probeConfig(), 1, 1, "probe", "fresh")
		st.Pass(probe.IsValid())
		st.CheckEqual("initial disposition", probe.Disposition(), battery.Continue)
		st.Pass(probe.IsOkay())
		st.Pass(probe.CanProceed())
		st.CheckEqual("initial errors", probe.ErrorCount(), 0)
	}

	if st.NextSubtest("invalid identity") {
		bad := battery.NewStatus(probeConfig(), 0, 1, "probe", "bad")
		st.Pass(!bad.IsValid())
		st.CheckEqual("invalid disposition", bad.Disposition(), battery.DidNotTest)
		st.Pass(!bad.NextSubtest("never runs"))
	}

	if st.NextSubtest("terminal states") {
		quit := battery.NewStatus(probeConfig(), 1, 2, "probe", "quit")
		quit.Quit()
		st.Pass(!quit.NextSubtest("after quit"))
		st.Pass(quit.CanProceed())
		st.Pass(!quit.IsOkay())

		abort := battery.NewStatus(probeConfig(), 1, 3, "probe", "abort")
		abort.Abort()
		st.Pass(!abort.CanProceed())
		st.Pass(!abort.IsOkay())
	}

	return st
}

func testIgnore(cfg *config.Config) *battery.Status {
	st := battery.NewStatus(cfg, 1, 2, "status", "ignore")

	if st.NextSubtest("quitted forces pass") {
		probe := battery.NewStatus(probeConfig(), 1, 1, "probe", "quit")
		probe.Quit()
		st.Pass(probe.Ignore())
		st.Pass(probe.Passed())
	}

	if st.NextSubtest("aborted forces fail, once") {
		probe := battery.NewStatus(probeConfig(), 1, 2, "probe", "abort")
		probe.Abort()
		st.Pass(probe.Ignore())
		st.Pass(!probe.Passed())
		st.CheckEqual("errors after ignore", probe.ErrorCount(), 1)

		// Second call with an unchanged disposition is a no-op.
		probe.Ignore()
		st.CheckEqual("errors after second ignore", probe.ErrorCount(), 1)
	}

	if st.NextSubtest("continue is a no-op") {
		probe := battery.NewStatus(probeConfig(), 1, 3, "probe", "cont")
		st.Pass(!probe.Ignore())
		st.CheckEqual("errors untouched", probe.ErrorCount(), 0)
	}

	return st
}

func testDeliberateFailure(cfg *config.Config) *battery.Status {
	st := battery.NewStatus(cfg, 1, 3, "status", "deliberate failure")

	if st.NextSubtest("round trip") {
		probe := battery.NewStatus(probeConfig(), 1, 1, "probe", "deliberate")
		probe.NextSubtest("planted")
		probe.FailDeliberately()
		st.CheckEqual("errors after plant", probe.ErrorCount(), 1)
		st.CheckEqual("failed subtest pinned", probe.FailedSubtest(), 1)
		st.CheckEqual("disposition", probe.Disposition(), battery.Failed)

		st.Pass(battery.UndoDeliberateFail(probe))
		st.CheckEqual("errors after undo", probe.ErrorCount(), 0)
		st.Pass(probe.Passed())
		st.CheckEqual("disposition rolled back", probe.Disposition(), battery.Continue)
		st.Pass(!battery.UndoDeliberateFail(probe))
	}

	return st
}

func testConfigCascades(cfg *config.Config) *battery.Status {
	st := battery.NewStatus(cfg, 2, 1, "config", "cascades")

	if st.NextSubtest("show-progress off cascades") {
		c := probeConfig()
		c.SetVerbose(true)
		c.SetShowValues(true)
		c.SetShowStepNumbers(true)
		c.SetShowProgress(false)
		st.Pass(!c.Verbose())
		st.Pass(!c.ShowValues())
		st.Pass(!c.ShowStepNumbers())

		// Turning it back on restores nothing.
		c.SetShowProgress(true)
		st.Pass(!c.Verbose())
		st.Pass(!c.ShowValues())
	}

	if st.NextSubtest("summarize on cascades") {
		c := probeConfig()
		c.SetInteractive(true)
		c.SetCasePause(true)
		c.SetSummarize(true)
		st.Pass(!c.Interactive())
		st.Pass(!c.CasePause())
	}

	return st
}

func testSelectors(cfg *config.Config) *battery.Status {
	st := battery.NewStatus(cfg, 2, 2, "config", "selectors")

	if st.NextSubtest("numeric and name selection") {
		byNumber := config.ParseSelector("3")
		st.Pass(byNumber.Match(3, "anything"))
		st.Pass(!byNumber.Match(4, "anything"))

		byName := config.ParseSelector("parse*")
		st.Pass(byName.Match(9, "parser"))
		st.Pass(!byName.Match(9, "lexer"))

		st.Pass(config.Selector{}.Match(1, "unfiltered"))
	}

	if st.NextSubtest("partial-test flag") {
		c := probeConfig()
		st.Pass(!c.PartialTest())
		c.SetGroup("io")
		st.Pass(c.PartialTest())
	}

	return st
}

func testStopwatch(cfg *config.Config) *battery.Status {
	st := battery.NewStatus(cfg, 3, 1, "timing", "stopwatch")

	// Timing bands are meaningless under a filtered run's summarize mode,
	// and the sleep is wasted work; declare the subtest so the registry
	// contract holds either way.
	if st.NextSubtest("delta band") {
		var sw battery.Stopwatch
		sw.Start()
		time.Sleep(50 * time.Millisecond)
		d := sw.Delta(false)
		st.Pass(d >= 40 && d <= 150)
		st.CheckEqual("last duration cached", sw.DurationMS(), d)
	}

	return st
}

func testPromptResponses(cfg *config.Config) *battery.Status {
	st := battery.NewStatus(cfg, 4, 1, "prompt", "responses")

	if st.NextSubtest("decoding") {
		for _, tc := range []struct {
			ch   rune
			want prompt.Response
		}{
			{'c', prompt.Continue},
			{'S', prompt.Skip},
			{'f', prompt.Fail},
			{'A', prompt.Abort},
			{'q', prompt.Quit},
		} {
			got, ok := prompt.Parse(tc.ch)
			st.Pass(ok)
			st.CheckEqual("response", got, tc.want)
		}
		_, ok := prompt.Parse('x')
		st.Pass(!ok)
	}

	if st.NextSubtest("responses drive the status") {
		probe := battery.NewStatus(probeConfig(), 1, 1, "probe", "responses")
		st.Pass(probe.ApplyResponse(prompt.Continue))
		st.Pass(!probe.ApplyResponse(prompt.Skip))
		st.CheckEqual("skip records nothing", probe.ErrorCount(), 0)

		st.Pass(!probe.ApplyResponse(prompt.Fail))
		st.CheckEqual("fail records an error", probe.ErrorCount(), 1)
		battery.UndoDeliberateFail(probe) // not deliberate; must refuse
		st.CheckEqual("undo refused", probe.ErrorCount(), 1)

		probe.ApplyResponse(prompt.Abort)
		st.CheckEqual("abort is terminal", probe.Disposition(), battery.Aborted)
	}

	return st
}

func testForcedFailure(cfg *config.Config) *battery.Status {
	st := battery.NewStatus(cfg, 5, 1, "engine", "forced failure")

	if st.NextSubtest("force-failure flag") {
		if st.Pause(nil, "run the deliberate failure?", cfg.PromptBefore()) {
			if cfg.ForceFailure() {
				st.Fail()
			} else {
				st.Pass(true)
			}
		}
	}

	return st
}
