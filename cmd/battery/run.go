package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kamilpajak/battery/internal/selftest"
	"github.com/kamilpajak/battery/pkg/battery"
	"github.com/kamilpajak/battery/pkg/config"
)

// The run command hands its raw argument vector straight to config.Parse so
// the engine's own flag grammar (including --no-* negations) applies
// unchanged; cobra flag parsing is disabled for it.
var runCmd = &cobra.Command{
	Use:                "run [flags]",
	Short:              "Run the built-in test suite",
	Long:               runUsage,
	DisableFlagParsing: true,
	RunE:               runSuite,
}

const runUsage = `Run the engine's built-in test suite.

Flags (each boolean flag also accepts a --no-<flag> negation):
  --group N|glob       run only the matching group
  --case N|glob        run only the matching case
  --sub-test N|glob    run only the matching subtest
  --sleep-time MS      cosmetic delay between tests
  --config FILE        YAML file with default options
  --verbose            per-check detail lines
  --show-values        print compared values on failure
  --show-step-numbers  print subtest step numbers
  --show-progress      progress display (default on)
  --stop-on-error      halt after the first failing test
  --batch-mode         answer prompts from configured defaults
  --interactive        allow tests to pause for prompts
  --beep-on-prompt     ring the bell when prompting
  --summarize          summarize only, skip subtest bodies
  --case-pause         pause between cases
  --require-sub-tests  every test must declare a subtest
  --force-failure      make the suite fail on purpose
  --version            print version information
  --help               print this text

Exit status is 0 exactly when the run accumulates zero errors.`

func runSuite(cmd *cobra.Command, args []string) error {
	cfg := config.Parse("battery", args)

	if cfg.HelpRequested() {
		fmt.Println(runUsage)
		return nil
	}
	if cfg.VersionRequested() {
		fmt.Printf("battery %s\n", version)
		return nil
	}
	if !cfg.Valid() {
		if err := cfg.Err(); err != nil {
			return err
		}
		return fmt.Errorf("invalid configuration")
	}

	b := battery.New(cfg)
	if err := selftest.Register(b); err != nil {
		return err
	}

	if battery.NewRunner(cfg, b).Run() {
		return nil
	}
	if n := b.TotalErrors(); n > 0 {
		return fmt.Errorf("run failed with %d error(s)", n)
	}
	return fmt.Errorf("run failed")
}
