package battery

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kamilpajak/battery/internal/prompt"
	"github.com/kamilpajak/battery/internal/report"
	"github.com/kamilpajak/battery/pkg/config"
)

func newQuietRunner(t *testing.T, cfg *config.Config, b *Battery) (*Runner, *bytes.Buffer) {
	t.Helper()
	color.NoColor = true
	var buf bytes.Buffer
	r := NewRunner(cfg, b)
	r.SetPrinter(report.NewPrinter(&buf, false, cfg.Verbose()))
	return r, &buf
}

func TestRunStopOnError(t *testing.T) {
	cfg := config.New("runner-test")
	cfg.SetStopOnError(true)
	b := New(cfg)

	var ran [3]bool
	require.NoError(t, b.Register(func(cfg *config.Config) *Status {
		ran[0] = true
		st := NewStatus(cfg, 1, 1, "grp", "one")
		st.NextSubtest("fine")
		st.Pass(true)
		return st
	}))
	require.NoError(t, b.Register(func(cfg *config.Config) *Status {
		ran[1] = true
		st := NewStatus(cfg, 1, 2, "grp", "two")
		st.NextSubtest("broken")
		st.Fail()
		return st
	}))
	require.NoError(t, b.Register(func(cfg *config.Config) *Status {
		ran[2] = true
		st := NewStatus(cfg, 1, 3, "grp", "three")
		st.NextSubtest("fine")
		st.Pass(true)
		return st
	}))

	r, _ := newQuietRunner(t, cfg, b)
	assert.False(t, r.Run())

	assert.True(t, ran[0])
	assert.True(t, ran[1])
	assert.False(t, ran[2], "stop-on-error halts before the third test")
	assert.Equal(t, 1, b.TotalErrors(), "only errors from the tests that ran")
	assert.Equal(t, 1, b.FirstFailedTest())
}

func TestRunContinuesWithoutStopOnError(t *testing.T) {
	cfg := config.New("runner-test")
	b := New(cfg)

	var count int
	failing := func(cfg *config.Config) *Status {
		count++
		st := NewStatus(cfg, 1, count, "grp", "case")
		st.NextSubtest("broken")
		st.Fail()
		return st
	}
	for i := 0; i < 3; i++ {
		require.NoError(t, b.Register(failing))
	}

	r, _ := newQuietRunner(t, cfg, b)
	assert.False(t, r.Run())
	assert.Equal(t, 3, count, "every test runs")
	assert.Equal(t, 3, b.TotalErrors())
}

func TestRunEmptyBatteryFails(t *testing.T) {
	cfg := config.New("runner-test")
	b := New(cfg)

	r, buf := newQuietRunner(t, cfg, b)
	assert.False(t, r.Run(), "nothing to run is a failed run")
	assert.Contains(t, buf.String(), "no tests registered")
}

func TestRunInvalidConfig(t *testing.T) {
	cfg := config.Parse("", nil)
	require.False(t, cfg.Valid())

	b := New(cfg)
	require.NoError(t, b.Register(passingTest(1, 1)))

	r, buf := newQuietRunner(t, cfg, b)
	assert.False(t, r.Run())
	assert.Contains(t, buf.String(), "invalid configuration")
}

func TestRunQuitWithZeroErrorsIsAPass(t *testing.T) {
	cfg := config.New("runner-test")
	b := New(cfg)

	var thirdRan bool
	require.NoError(t, b.Register(passingTest(1, 1)))
	require.NoError(t, b.Register(func(cfg *config.Config) *Status {
		st := NewStatus(cfg, 1, 2, "grp", "quitter")
		st.NextSubtest("quit here")
		st.Quit()
		st.Ignore()
		return st
	}))
	require.NoError(t, b.Register(func(cfg *config.Config) *Status {
		thirdRan = true
		return passingTest(1, 3)(cfg)
	}))

	r, _ := newQuietRunner(t, cfg, b)
	assert.True(t, r.Run(), "quitting with zero errors on the books is still a pass")
	assert.False(t, thirdRan, "quit ends the run early")
	assert.Equal(t, 0, b.TotalErrors())
}

func TestRunNeedSubtests(t *testing.T) {
	cfg := config.New("runner-test")
	cfg.SetNeedSubtests(true)
	b := New(cfg)

	require.NoError(t, b.Register(func(cfg *config.Config) *Status {
		// Declares nothing: violates the registry contract.
		return NewStatus(cfg, 1, 1, "grp", "bare")
	}))
	require.NoError(t, b.Register(passingTest(1, 2)))

	r, buf := newQuietRunner(t, cfg, b)
	assert.False(t, r.Run())
	assert.Equal(t, 1, b.TotalErrors())
	assert.Contains(t, buf.String(), "declared no subtests")
}

func TestRunNilStatusIsRegistryError(t *testing.T) {
	cfg := config.New("runner-test")
	b := New(cfg)

	require.NoError(t, b.Register(func(cfg *config.Config) *Status { return nil }))
	require.NoError(t, b.Register(passingTest(1, 2)))

	r, buf := newQuietRunner(t, cfg, b)
	assert.False(t, r.Run())
	assert.Equal(t, 1, b.TotalErrors())
	assert.Contains(t, buf.String(), "returned no status")
}

func TestRunFilteredToSkipsStillVisitsEveryTest(t *testing.T) {
	cfg := config.New("runner-test")
	cfg.SetGroup("99")
	b := New(cfg)

	var visits int
	for i := 0; i < 3; i++ {
		kase := i + 1
		require.NoError(t, b.Register(func(cfg *config.Config) *Status {
			visits++
			st := NewStatus(cfg, 1, kase, "grp", "case")
			if st.NextSubtest("body") {
				st.Pass(true)
			}
			st.Ignore()
			return st
		}))
	}

	r, _ := newQuietRunner(t, cfg, b)
	assert.True(t, r.Run(), "a fully filtered run passes trivially")
	assert.Equal(t, 3, visits, "the loop still invokes every registered test")
	assert.Equal(t, 0, b.TotalErrors())
}

func TestRunCasePause(t *testing.T) {
	cfg := config.New("runner-test")
	cfg.SetInteractive(true)
	cfg.SetCasePause(true)
	b := New(cfg)

	var ran [3]bool
	for i := 0; i < 3; i++ {
		i := i
		require.NoError(t, b.Register(func(cfg *config.Config) *Status {
			ran[i] = true
			return passingTest(1, i+1)(cfg)
		}))
	}

	r, _ := newQuietRunner(t, cfg, b)
	// Skip the second test at its pause, run the third.
	r.SetAsker(prompt.NewAsker(strings.NewReader("s\nc\n"), io.Discard, false))

	assert.True(t, r.Run())
	assert.True(t, ran[0], "the first test never pauses")
	assert.False(t, ran[1], "answering skip jumps over the test")
	assert.True(t, ran[2])
}

func TestRunCasePauseQuit(t *testing.T) {
	cfg := config.New("runner-test")
	cfg.SetInteractive(true)
	cfg.SetCasePause(true)
	b := New(cfg)

	var second bool
	require.NoError(t, b.Register(passingTest(1, 1)))
	require.NoError(t, b.Register(func(cfg *config.Config) *Status {
		second = true
		return passingTest(1, 2)(cfg)
	}))

	r, _ := newQuietRunner(t, cfg, b)
	r.SetAsker(prompt.NewAsker(strings.NewReader("q\n"), io.Discard, false))

	assert.True(t, r.Run(), "quitting at a pause with zero errors is a pass")
	assert.False(t, second)
}

func TestRunSetsCurrentTestDisplayIndex(t *testing.T) {
	cfg := config.New("runner-test")
	b := New(cfg)

	var seen []int
	require.NoError(t, b.RegisterIndexed(func(cfg *config.Config, n int) *Status {
		seen = append(seen, n)
		assert.Equal(t, n, cfg.CurrentTest())
		st := NewStatus(cfg, 1, n, "grp", "case")
		st.NextSubtest("fine")
		st.Pass(true)
		return st
	}))
	require.NoError(t, b.RegisterIndexed(func(cfg *config.Config, n int) *Status {
		seen = append(seen, n)
		st := NewStatus(cfg, 1, n, "grp", "case")
		st.NextSubtest("fine")
		st.Pass(true)
		return st
	}))

	r, _ := newQuietRunner(t, cfg, b)
	assert.True(t, r.Run())
	assert.Equal(t, []int{1, 2}, seen, "indexed convention receives 1-based display indexes")
}
