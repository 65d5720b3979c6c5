// Package leaktest checks that background goroutines started by a test have
// exited by the time it finishes.
package leaktest

import (
	"runtime"
	"testing"
	"time"
)

// SettleTimeout is how long Check waits for goroutines to exit
const SettleTimeout = 2 * time.Second

const pollInterval = 10 * time.Millisecond

// GoroutineChecker compares the goroutine count against a baseline
type GoroutineChecker struct {
	t      testing.TB
	before int
}

// NewGoroutineChecker records the current goroutine count as the baseline
func NewGoroutineChecker(t testing.TB) *GoroutineChecker {
	t.Helper()
	runtime.Gosched()
	return &GoroutineChecker{t: t, before: runtime.NumGoroutine()}
}

// Check fails the test when more than tolerance goroutines are still running
// above the baseline after SettleTimeout
func (g *GoroutineChecker) Check(tolerance int) {
	g.t.Helper()

	after, ok := waitFor(g.before+tolerance, SettleTimeout)
	if !ok {
		g.t.Errorf("goroutine leak: before=%d after=%d leaked=%d tolerance=%d",
			g.before, after, after-g.before, tolerance)
	}
}

// CheckNoGoroutineLeak runs fn and requires every goroutine it started to exit
func CheckNoGoroutineLeak(t testing.TB, fn func()) {
	t.Helper()

	checker := NewGoroutineChecker(t)
	fn()
	checker.Check(0)
}

// waitFor polls until at most target goroutines run or timeout passes. It
// returns the last count seen.
func waitFor(target int, timeout time.Duration) (int, bool) {
	deadline := time.Now().Add(timeout)
	for {
		runtime.Gosched()
		n := runtime.NumGoroutine()
		if n <= target {
			return n, true
		}
		if time.Now().After(deadline) {
			return n, false
		}
		time.Sleep(pollInterval)
	}
}
