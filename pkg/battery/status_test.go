package battery

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kamilpajak/battery/internal/prompt"
	"github.com/kamilpajak/battery/pkg/config"
)

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.New("status-test")
	require.True(t, cfg.Valid())
	return cfg
}

func TestNewStatusValidity(t *testing.T) {
	cfg := newTestConfig(t)

	tests := []struct {
		name      string
		group     int
		kase      int
		groupName string
		caseName  string
		valid     bool
	}{
		{"both positive", 1, 1, "g", "c", true},
		{"large numbers", 500, 999, "g", "c", true},
		{"zero group", 0, 1, "g", "c", false},
		{"zero case", 1, 0, "g", "c", false},
		{"negative group", -3, 1, "g", "c", false},
		{"negative case", 1, -1, "g", "c", false},
		{"empty group name", 1, 1, "", "c", false},
		{"empty case name", 1, 1, "g", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := NewStatus(cfg, tt.group, tt.kase, tt.groupName, tt.caseName)
			assert.Equal(t, tt.valid, st.IsValid())
			if !tt.valid {
				// Invalid statuses degrade to a forced skip, never run.
				assert.Equal(t, DidNotTest, st.Disposition())
				assert.False(t, st.NextSubtest("never"))
			}
		})
	}
}

func TestNextSubtestCounts(t *testing.T) {
	st := NewStatus(newTestConfig(t), 1, 1, "grp", "case")

	for i := 1; i <= 5; i++ {
		require.True(t, st.NextSubtest("step"))
		assert.Equal(t, i, st.Subtests())
	}
	assert.Equal(t, 5, st.DeclaredSubtests())
	assert.Equal(t, "step", st.SubtestName())
}

func TestNextSubtestSummarizeSkips(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.SetSummarize(true)

	st := NewStatus(cfg, 1, 1, "grp", "case")
	assert.False(t, st.NextSubtest("skipped"))
	assert.Equal(t, 0, st.Subtests())
	assert.Equal(t, 1, st.DeclaredSubtests())
	assert.Equal(t, DidNotTest, st.Disposition())
	assert.Equal(t, 0, st.ErrorCount(), "skipping records no error")
}

func TestNextSubtestGroupFilter(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.SetGroup("2")

	other := NewStatus(cfg, 1, 1, "grp", "case")
	assert.False(t, other.NextSubtest("filtered out"))
	assert.Equal(t, DidNotTest, other.Disposition())

	selected := NewStatus(cfg, 2, 1, "grp", "case")
	assert.True(t, selected.NextSubtest("selected"))
	assert.Equal(t, Continue, selected.Disposition())
}

func TestNextSubtestSubtestFilterKeepsNumbering(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.SetSubtest("3")

	st := NewStatus(cfg, 1, 1, "grp", "case")
	assert.False(t, st.NextSubtest("first"))
	assert.False(t, st.NextSubtest("second"))
	assert.True(t, st.NextSubtest("third"), "numeric filter addresses the third declared subtest")
	assert.False(t, st.NextSubtest("fourth"))

	assert.Equal(t, 1, st.Subtests())
	assert.Equal(t, 4, st.DeclaredSubtests())
	// Same test stays selected, so skipping siblings is not a DNT.
	assert.Equal(t, Continue, st.Disposition())
}

func TestNextSubtestNameFilter(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.SetSubtest("encode*")

	st := NewStatus(cfg, 1, 1, "grp", "case")
	assert.False(t, st.NextSubtest("decode header"))
	assert.True(t, st.NextSubtest("encode-header"))
}

func TestPassFailAccounting(t *testing.T) {
	st := NewStatus(newTestConfig(t), 1, 1, "grp", "case")

	st.NextSubtest("one")
	assert.True(t, st.Pass(true))
	assert.True(t, st.Passed())
	assert.Equal(t, 0, st.ErrorCount())

	st.NextSubtest("two")
	assert.False(t, st.Pass(false))
	assert.False(t, st.Passed())
	assert.Equal(t, 1, st.ErrorCount())
	assert.Equal(t, 2, st.FailedSubtest())
	assert.Equal(t, Failed, st.Disposition())

	st.NextSubtest("three")
	st.Fail()
	assert.Equal(t, 2, st.ErrorCount())
	assert.Equal(t, 2, st.FailedSubtest(), "first failing subtest is pinned")
}

func TestFailedAllowsMoreSubtests(t *testing.T) {
	st := NewStatus(newTestConfig(t), 1, 1, "grp", "case")
	st.NextSubtest("one")
	st.Fail()
	assert.True(t, st.CanProceed())
	assert.True(t, st.NextSubtest("two"), "a failed test may keep checking")
}

func TestDeliberateFailureRoundTrip(t *testing.T) {
	st := NewStatus(newTestConfig(t), 1, 1, "grp", "case")
	st.NextSubtest("planted")

	st.FailDeliberately()
	assert.Equal(t, 1, st.ErrorCount())
	assert.Equal(t, 1, DeliberateFailures(st))

	require.True(t, UndoDeliberateFail(st))
	assert.Equal(t, 0, st.ErrorCount())
	assert.Equal(t, 0, st.FailedSubtest())
	assert.True(t, st.Passed())
	assert.Equal(t, Continue, st.Disposition())

	assert.False(t, UndoDeliberateFail(st), "nothing left to undo")
	assert.Equal(t, 0, st.ErrorCount())
}

func TestUndoDeliberateKeepsRealFailures(t *testing.T) {
	st := NewStatus(newTestConfig(t), 1, 1, "grp", "case")
	st.NextSubtest("real")
	st.Fail()
	st.NextSubtest("planted")
	st.FailDeliberately()

	require.True(t, UndoDeliberateFail(st))
	assert.Equal(t, 1, st.ErrorCount())
	assert.Equal(t, Failed, st.Disposition(), "a real failure survives the undo")
}

func TestIgnoreInvariants(t *testing.T) {
	tests := []struct {
		name       string
		arrange    func(*Status)
		applied    bool
		wantPassed bool
		wantErrs   int
	}{
		{"continue is a no-op", func(s *Status) {}, false, true, 0},
		{"failed is a no-op", func(s *Status) { s.Fail() }, false, false, 1},
		{"did not test forces pass", func(s *Status) { s.markSkipped() }, true, true, 0},
		{"quitted forces pass", func(s *Status) { s.Quit() }, true, true, 0},
		{"aborted forces fail", func(s *Status) { s.Abort() }, true, false, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := NewStatus(newTestConfig(t), 1, 1, "grp", "case")
			tt.arrange(st)
			assert.Equal(t, tt.applied, st.Ignore())
			assert.Equal(t, tt.wantPassed, st.Passed())
			assert.Equal(t, tt.wantErrs, st.ErrorCount())
		})
	}
}

func TestIgnoreIdempotent(t *testing.T) {
	st := NewStatus(newTestConfig(t), 1, 1, "grp", "case")
	st.Abort()

	st.Ignore()
	require.Equal(t, 1, st.ErrorCount())
	st.Ignore()
	assert.Equal(t, 1, st.ErrorCount(), "second ignore with unchanged disposition changes nothing")
}

func TestIsOkayAndCanProceed(t *testing.T) {
	tests := []struct {
		disp       Disposition
		okay       bool
		canProceed bool
	}{
		{Continue, true, true},
		{DidNotTest, true, false},
		{Failed, false, true},
		{Quitted, false, true},
		{Aborted, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.disp.String(), func(t *testing.T) {
			st := NewStatus(newTestConfig(t), 1, 1, "grp", "case")
			st.disposition = tt.disp
			assert.Equal(t, tt.okay, st.IsOkay())
			assert.Equal(t, tt.canProceed, st.CanProceed())
		})
	}
}

func TestCheckEqualShowsValues(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.SetShowValues(true)

	st := NewStatus(cfg, 1, 1, "grp", "case")
	var buf bytes.Buffer
	st.SetOutput(&buf)

	st.NextSubtest("compare")
	assert.True(t, st.CheckEqual("same", 7, 7))
	assert.Empty(t, buf.String())

	assert.False(t, st.CheckEqual("different", 7, 8))
	assert.Contains(t, buf.String(), "different: mismatch")
	assert.Equal(t, 1, st.ErrorCount())
}

func TestApplyResponse(t *testing.T) {
	tests := []struct {
		resp     prompt.Response
		proceed  bool
		wantDisp Disposition
		wantErrs int
	}{
		{prompt.Continue, true, Continue, 0},
		{prompt.Skip, false, Continue, 0},
		{prompt.Fail, false, Failed, 1},
		{prompt.Quit, false, Quitted, 0},
		{prompt.Abort, false, Aborted, 0},
	}
	for _, tt := range tests {
		t.Run(tt.resp.String(), func(t *testing.T) {
			st := NewStatus(newTestConfig(t), 1, 1, "grp", "case")
			assert.Equal(t, tt.proceed, st.ApplyResponse(tt.resp))
			assert.Equal(t, tt.wantDisp, st.Disposition())
			assert.Equal(t, tt.wantErrs, st.ErrorCount())
		})
	}
}

func TestPauseBatchDefaults(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.SetInteractive(true)
	cfg.SetBatchMode(true)

	st := NewStatus(cfg, 1, 1, "grp", "case")
	assert.True(t, st.Pause(nil, "go on?", config.RespondContinue))

	st2 := NewStatus(cfg, 1, 2, "grp", "case")
	assert.False(t, st2.Pause(nil, "go on?", config.RespondQuit))
	assert.Equal(t, Quitted, st2.Disposition())
}

func TestPauseNonInteractive(t *testing.T) {
	st := NewStatus(newTestConfig(t), 1, 1, "grp", "case")
	assert.True(t, st.Pause(nil, "never asked", config.RespondAbort))
	assert.Equal(t, Continue, st.Disposition())
}
