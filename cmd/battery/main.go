package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "battery",
	Short: "Self-contained unit-test execution engine",
	Long: `battery registers test functions, runs them in order subject to
group/case/subtest filters, and tracks pass/fail/skip outcomes per test.

The run command executes the engine's built-in suite, which exercises the
engine through its own public API.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if rootCmd.Execute() != nil {
		os.Exit(1)
	}
}
