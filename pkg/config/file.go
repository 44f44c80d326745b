package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileOptions mirrors the flag surface for YAML defaults files. Pointer
// fields distinguish "absent" from "explicitly false".
type fileOptions struct {
	Verbose         *bool  `yaml:"verbose"`
	ShowValues      *bool  `yaml:"show-values"`
	ShowStepNumbers *bool  `yaml:"show-step-numbers"`
	ShowProgress    *bool  `yaml:"show-progress"`
	StopOnError     *bool  `yaml:"stop-on-error"`
	BatchMode       *bool  `yaml:"batch-mode"`
	Interactive     *bool  `yaml:"interactive"`
	BeepOnPrompt    *bool  `yaml:"beep-on-prompt"`
	Summarize       *bool  `yaml:"summarize"`
	CasePause       *bool  `yaml:"case-pause"`
	RequireSubtests *bool  `yaml:"require-sub-tests"`
	ForceFailure    *bool  `yaml:"force-failure"`
	SleepTime       *int   `yaml:"sleep-time"`
	Group           string `yaml:"group"`
	Case            string `yaml:"case"`
	Subtest         string `yaml:"sub-test"`
}

// LoadFile applies defaults from a YAML file. Keys use the same names as the
// command-line flags; command-line flags parsed afterwards still override
// file values. Cascade rules apply the same way they do for flags.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var opts fileOptions
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return fmt.Errorf("parsing defaults file: %w", err)
	}

	if opts.Verbose != nil {
		c.SetVerbose(*opts.Verbose)
	}
	if opts.ShowValues != nil {
		c.SetShowValues(*opts.ShowValues)
	}
	if opts.ShowStepNumbers != nil {
		c.SetShowStepNumbers(*opts.ShowStepNumbers)
	}
	if opts.StopOnError != nil {
		c.SetStopOnError(*opts.StopOnError)
	}
	if opts.Interactive != nil {
		c.SetInteractive(*opts.Interactive)
	}
	if opts.BeepOnPrompt != nil {
		c.SetBeepOnPrompt(*opts.BeepOnPrompt)
	}
	if opts.CasePause != nil {
		c.SetCasePause(*opts.CasePause)
	}
	if opts.RequireSubtests != nil {
		c.SetNeedSubtests(*opts.RequireSubtests)
	}
	if opts.ForceFailure != nil {
		c.SetForceFailure(*opts.ForceFailure)
	}
	if opts.SleepTime != nil {
		c.SetSleepTime(*opts.SleepTime)
	}
	if opts.Group != "" {
		c.SetGroup(opts.Group)
	}
	if opts.Case != "" {
		c.SetCase(opts.Case)
	}
	if opts.Subtest != "" {
		c.SetSubtest(opts.Subtest)
	}
	if opts.ShowProgress != nil {
		c.SetShowProgress(*opts.ShowProgress)
	}
	if opts.BatchMode != nil {
		c.SetBatchMode(*opts.BatchMode)
	}
	if opts.Summarize != nil {
		c.SetSummarize(*opts.Summarize)
	}

	return nil
}
