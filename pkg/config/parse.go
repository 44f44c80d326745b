package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"
)

// boolFlags are the flags that accept a --no-<flag> negation.
var boolFlags = map[string]bool{
	"verbose":           true,
	"show-values":       true,
	"show-step-numbers": true,
	"show-progress":     true,
	"stop-on-error":     true,
	"batch-mode":        true,
	"interactive":       true,
	"beep-on-prompt":    true,
	"summarize":         true,
	"case-pause":        true,
	"require-sub-tests": true,
	"force-failure":     true,
}

// Parse builds a Config from a command line. name is the application name
// (argv[0]); args is the remainder of the argument vector. A blank name or a
// nil args slice yields an invalid Config, per the engine's contract that a
// malformed command line runs nothing. An empty (but non-nil) args slice is a
// normal default run.
//
// --version and --help are recorded on the Config rather than acted on, so
// the caller decides whether to print and exit.
func Parse(name string, args []string) *Config {
	if strings.TrimSpace(name) == "" || args == nil {
		return &Config{}
	}

	cfg := New(name)

	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)

	group := fs.String("group", "", "run only this group (number or name glob)")
	kase := fs.String("case", "", "run only this case (number or name glob)")
	subtest := fs.String("sub-test", "", "run only this subtest (number or name glob)")
	sleepTime := fs.Int("sleep-time", 0, "delay between tests in milliseconds")
	configFile := fs.String("config", "", "YAML file with default options")

	verbose := fs.Bool("verbose", false, "print per-check detail")
	showValues := fs.Bool("show-values", false, "print compared values on failure")
	showStepNumbers := fs.Bool("show-step-numbers", false, "print subtest step numbers")
	showProgress := fs.Bool("show-progress", true, "print progress while running")
	stopOnError := fs.Bool("stop-on-error", false, "halt after the first failing test")
	batchMode := fs.Bool("batch-mode", false, "answer prompts from configured defaults")
	interactive := fs.Bool("interactive", false, "allow tests to pause for prompts")
	beepOnPrompt := fs.Bool("beep-on-prompt", false, "ring the bell when prompting")
	summarize := fs.Bool("summarize", false, "summarize only, skip subtest bodies")
	casePause := fs.Bool("case-pause", false, "pause between cases")
	requireSubtests := fs.Bool("require-sub-tests", false, "every test must declare a subtest")
	forceFailure := fs.Bool("force-failure", false, "make the built-in suite fail on purpose")

	version := fs.Bool("version", false, "print version and exit")
	help := fs.BoolP("help", "h", false, "print usage and exit")

	if err := fs.Parse(normalizeNegations(args)); err != nil {
		return &Config{appName: name, parseErr: err}
	}

	cfg.versionRequested = *version
	cfg.helpRequested = *help

	if *configFile != "" {
		if err := cfg.LoadFile(*configFile); err != nil {
			return &Config{appName: name, parseErr: fmt.Errorf("loading %s: %w", *configFile, err)}
		}
	}

	// Plain flags first, cascading setters after, so an explicit
	// --no-show-progress wins over --verbose on the same command line.
	if fs.Changed("verbose") {
		cfg.SetVerbose(*verbose)
	}
	if fs.Changed("show-values") {
		cfg.SetShowValues(*showValues)
	}
	if fs.Changed("show-step-numbers") {
		cfg.SetShowStepNumbers(*showStepNumbers)
	}
	if fs.Changed("stop-on-error") {
		cfg.SetStopOnError(*stopOnError)
	}
	if fs.Changed("interactive") {
		cfg.SetInteractive(*interactive)
	}
	if fs.Changed("beep-on-prompt") {
		cfg.SetBeepOnPrompt(*beepOnPrompt)
	}
	if fs.Changed("case-pause") {
		cfg.SetCasePause(*casePause)
	}
	if fs.Changed("require-sub-tests") {
		cfg.SetNeedSubtests(*requireSubtests)
	}
	if fs.Changed("force-failure") {
		cfg.SetForceFailure(*forceFailure)
	}
	if fs.Changed("sleep-time") {
		cfg.SetSleepTime(*sleepTime)
	}
	if *group != "" {
		cfg.SetGroup(*group)
	}
	if *kase != "" {
		cfg.SetCase(*kase)
	}
	if *subtest != "" {
		cfg.SetSubtest(*subtest)
	}
	if fs.Changed("show-progress") {
		cfg.SetShowProgress(*showProgress)
	}
	if fs.Changed("batch-mode") {
		cfg.SetBatchMode(*batchMode)
	}
	if fs.Changed("summarize") {
		cfg.SetSummarize(*summarize)
	}

	return cfg
}

// normalizeNegations rewrites --no-<flag> to --<flag>=false for the known
// boolean flags, so pflag sees a single canonical spelling.
func normalizeNegations(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		if name, ok := strings.CutPrefix(a, "--no-"); ok && boolFlags[name] {
			out = append(out, "--"+name+"=false")
			continue
		}
		out = append(out, a)
	}
	return out
}
