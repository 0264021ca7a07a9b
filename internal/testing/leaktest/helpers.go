// Package leaktest checks that background goroutines started by a test are
// gone once the component under test has been stopped.
package leaktest

import (
	"runtime"
	"testing"
	"time"
)

// DefaultTimeout is how long Check waits for goroutines to exit
const DefaultTimeout = 2 * time.Second

// GoroutineChecker records the goroutine count at creation
type GoroutineChecker struct {
	before int
	t      testing.TB
}

// NewGoroutineChecker records the current goroutine count
func NewGoroutineChecker(t testing.TB) *GoroutineChecker {
	t.Helper()
	runtime.Gosched()
	return &GoroutineChecker{before: runtime.NumGoroutine(), t: t}
}

// Check fails the test if more than tolerance goroutines are still running
// after DefaultTimeout
func (g *GoroutineChecker) Check(tolerance int) {
	g.t.Helper()
	g.CheckWithin(tolerance, DefaultTimeout)
}

// CheckWithin polls until the count is back within tolerance or timeout expires
func (g *GoroutineChecker) CheckWithin(tolerance int, timeout time.Duration) {
	g.t.Helper()

	target := g.before + tolerance
	if waitFor(target, timeout) {
		return
	}
	after := runtime.NumGoroutine()
	g.t.Errorf("goroutine leak: before=%d after=%d leaked=%d (tolerance=%d)",
		g.before, after, after-g.before, tolerance)
}

// CheckNoGoroutineLeak runs fn and requires every goroutine it started to exit
func CheckNoGoroutineLeak(t testing.TB, fn func()) {
	t.Helper()
	checker := NewGoroutineChecker(t)
	fn()
	checker.Check(0)
}

func waitFor(target int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		runtime.Gosched()
		if runtime.NumGoroutine() <= target {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(10 * time.Millisecond)
	}
}
