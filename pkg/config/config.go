// Package config holds the runtime options of a test battery run: output
// verbosity, group/case/subtest filters, batch and interactive behavior, and
// the stop-on-error policy. A Config is built once at startup (from argv or
// programmatically) and read by the engine for the rest of the run.
package config

// Response codes used as batch-mode answers for the before/after prompts.
const (
	RespondContinue = 'c'
	RespondSkip     = 's'
	RespondFail     = 'f'
	RespondAbort    = 'a'
	RespondQuit     = 'q'
)

// Config is the read-only options view consumed by the engine. All fields are
// private; mutation happens only through the explicit setters below, so the
// cascade rules stay visible at call sites.
type Config struct {
	appName string
	valid   bool

	verbose         bool
	showValues      bool
	showStepNumbers bool
	showProgress    bool
	stopOnError     bool
	batchMode       bool
	interactive     bool
	beepOnPrompt    bool
	summarize       bool
	casePause       bool
	needSubtests    bool
	forceFailure    bool
	sleepTime       int
	currentTest     int

	group   Selector
	kase    Selector
	subtest Selector

	promptBefore rune
	promptAfter  rune

	versionRequested bool
	helpRequested    bool
	parseErr         error
}

// New returns a valid Config with default options: progress display on,
// everything else off, prompts defaulting to continue.
func New(appName string) *Config {
	if appName == "" {
		return &Config{}
	}
	return &Config{
		appName:      appName,
		valid:        true,
		showProgress: true,
		promptBefore: RespondContinue,
		promptAfter:  RespondContinue,
	}
}

// Valid reports whether the Config was constructed successfully. An invalid
// Config runs nothing.
func (c *Config) Valid() bool { return c.valid }

// AppName returns the application name the Config was built for.
func (c *Config) AppName() string { return c.appName }

// Err returns the argv parse error, if any.
func (c *Config) Err() error { return c.parseErr }

// VersionRequested reports whether --version was passed.
func (c *Config) VersionRequested() bool { return c.versionRequested }

// HelpRequested reports whether --help was passed.
func (c *Config) HelpRequested() bool { return c.helpRequested }

// Verbose reports whether per-check detail lines are printed.
func (c *Config) Verbose() bool { return c.verbose }

// ShowValues reports whether failing checks print the compared values.
func (c *Config) ShowValues() bool { return c.showValues }

// ShowStepNumbers reports whether subtest step numbers are printed.
func (c *Config) ShowStepNumbers() bool { return c.showStepNumbers }

// ShowProgress reports whether the run prints progress while executing.
func (c *Config) ShowProgress() bool { return c.showProgress }

// StopOnError reports whether the run halts after the first failing test.
func (c *Config) StopOnError() bool { return c.stopOnError }

// BatchMode reports whether prompts are answered from configured defaults
// instead of the terminal.
func (c *Config) BatchMode() bool { return c.batchMode }

// Interactive reports whether tests may pause for a prompt.
func (c *Config) Interactive() bool { return c.interactive }

// BeepOnPrompt reports whether prompts ring the terminal bell.
func (c *Config) BeepOnPrompt() bool { return c.beepOnPrompt }

// Summarize reports whether the run only summarizes, skipping subtest bodies.
func (c *Config) Summarize() bool { return c.summarize }

// CasePause reports whether the run pauses between cases.
func (c *Config) CasePause() bool { return c.casePause }

// NeedSubtests reports whether every test must declare at least one subtest.
func (c *Config) NeedSubtests() bool { return c.needSubtests }

// ForceFailure reports whether the built-in suite should fail on purpose.
func (c *Config) ForceFailure() bool { return c.forceFailure }

// SleepTime returns the cosmetic delay, in milliseconds, between tests.
func (c *Config) SleepTime() int { return c.sleepTime }

// CurrentTest returns the 1-based display index of the test being run.
func (c *Config) CurrentTest() int { return c.currentTest }

// SetCurrentTest records the display index of the test about to run. This is
// the one field the execution loop updates as it goes.
func (c *Config) SetCurrentTest(n int) { c.currentTest = n }

// GroupSelector returns the single-group filter.
func (c *Config) GroupSelector() Selector { return c.group }

// CaseSelector returns the single-case filter.
func (c *Config) CaseSelector() Selector { return c.kase }

// SubtestSelector returns the single-subtest filter.
func (c *Config) SubtestSelector() Selector { return c.subtest }

// SingleGroup returns the numeric group filter, or 0 when the filter is off
// or selects by name.
func (c *Config) SingleGroup() int { return c.group.Number() }

// SingleCase returns the numeric case filter, or 0 when the filter is off or
// selects by name.
func (c *Config) SingleCase() int { return c.kase.Number() }

// SingleSubtest returns the numeric subtest filter, or 0 when the filter is
// off or selects by name.
func (c *Config) SingleSubtest() int { return c.subtest.Number() }

// PartialTest reports whether any group/case/subtest filter is active. Tests
// whose correctness depends on a full run consult this and skip themselves.
func (c *Config) PartialTest() bool {
	return c.group.Active() || c.kase.Active() || c.subtest.Active()
}

// PromptBefore returns the batch-mode answer for the before-test prompt.
func (c *Config) PromptBefore() rune { return c.promptBefore }

// PromptAfter returns the batch-mode answer for the after-test prompt.
func (c *Config) PromptAfter() rune { return c.promptAfter }

// SetVerbose switches per-check detail lines on or off.
func (c *Config) SetVerbose(on bool) { c.verbose = on }

// SetShowValues switches value printing for failing checks on or off.
func (c *Config) SetShowValues(on bool) { c.showValues = on }

// SetShowStepNumbers switches step-number printing on or off.
func (c *Config) SetShowStepNumbers(on bool) { c.showStepNumbers = on }

// SetStopOnError switches the halt-on-first-failure policy on or off.
func (c *Config) SetStopOnError(on bool) { c.stopOnError = on }

// SetInteractive switches interactive prompting on or off.
func (c *Config) SetInteractive(on bool) { c.interactive = on }

// SetBeepOnPrompt switches the prompt bell on or off.
func (c *Config) SetBeepOnPrompt(on bool) { c.beepOnPrompt = on }

// SetCasePause switches pausing between cases on or off.
func (c *Config) SetCasePause(on bool) { c.casePause = on }

// SetNeedSubtests switches the at-least-one-subtest requirement on or off.
func (c *Config) SetNeedSubtests(on bool) { c.needSubtests = on }

// SetForceFailure switches the deliberate self-test failure on or off.
func (c *Config) SetForceFailure(on bool) { c.forceFailure = on }

// SetSleepTime sets the cosmetic inter-test delay in milliseconds. Negative
// values are clamped to zero.
func (c *Config) SetSleepTime(ms int) {
	if ms < 0 {
		ms = 0
	}
	c.sleepTime = ms
}

// SetShowProgress switches progress display on or off.
//
// Side-effect table: turning progress OFF also turns off show-step-numbers,
// show-values, and verbose. Turning it back ON restores none of them; each
// sub-flag must be re-enabled explicitly.
func (c *Config) SetShowProgress(on bool) {
	c.showProgress = on
	if !on {
		c.showStepNumbers = false
		c.showValues = false
		c.verbose = false
	}
}

// SetBatchMode switches batch mode on or off.
//
// Side-effect table: turning batch mode OFF cascades the same way as
// SetShowProgress(false) — show-step-numbers, show-values, and verbose are
// all cleared. Turning it ON restores nothing.
func (c *Config) SetBatchMode(on bool) {
	c.batchMode = on
	if !on {
		c.showStepNumbers = false
		c.showValues = false
		c.verbose = false
	}
}

// SetSummarize switches summarize mode on or off.
//
// Side-effect table: turning summarize ON also turns off interactive and
// case-pause (a summary run never blocks on the terminal). Turning it OFF
// restores neither.
func (c *Config) SetSummarize(on bool) {
	c.summarize = on
	if on {
		c.interactive = false
		c.casePause = false
	}
}

// SetGroup installs a single-group filter from a number-or-name value.
func (c *Config) SetGroup(value string) { c.group = ParseSelector(value) }

// SetCase installs a single-case filter from a number-or-name value.
func (c *Config) SetCase(value string) { c.kase = ParseSelector(value) }

// SetSubtest installs a single-subtest filter from a number-or-name value.
func (c *Config) SetSubtest(value string) { c.subtest = ParseSelector(value) }

// SetPromptBefore sets the batch-mode answer for the before-test prompt.
func (c *Config) SetPromptBefore(r rune) { c.promptBefore = r }

// SetPromptAfter sets the batch-mode answer for the after-test prompt.
func (c *Config) SetPromptAfter(r rune) { c.promptAfter = r }
