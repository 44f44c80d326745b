package battery

// Self-test hooks. These functions exist so the engine's own test suite can
// plant a deliberate failure and then verify the bookkeeping both ways. They
// are deliberately kept off the Status method set: ordinary tests have no
// business un-failing themselves.

// UndoDeliberateFail converts the most recent FailDeliberately back into a
// pass: the error count is decremented, the result flag restored, and — when
// no real failures remain — the failed-subtest marker and Failed disposition
// are rolled back. It reports whether there was a deliberate failure to undo.
func UndoDeliberateFail(s *Status) bool {
	if s == nil || s.deliberate == 0 {
		return false
	}
	s.deliberate--
	s.errorCount--
	s.testResult = true
	if s.errorCount == 0 {
		s.failedSubtest = 0
		if s.disposition == Failed {
			s.disposition = Continue
			s.ignoreApplied = false
		}
	}
	return true
}

// DeliberateFailures reports how many planted failures have not been undone.
func DeliberateFailures(s *Status) int {
	if s == nil {
		return 0
	}
	return s.deliberate
}
