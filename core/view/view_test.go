package view

import (
	"sync"
	"testing"
	"time"

	"github.com/trezcool/alumnos/core/student"
)

type fakeTimer struct {
	clk     *fakeClock
	d       time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	t.clk.mu.Lock()
	defer t.clk.mu.Unlock()
	wasActive := !t.stopped && !t.fired
	t.stopped = true
	return wasActive
}

// fakeClock collects scheduled callbacks until the test fires them.
type fakeClock struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func useFakeClock(t *testing.T) *fakeClock {
	clk := new(fakeClock)
	orig := afterFunc
	afterFunc = clk.afterFunc
	t.Cleanup(func() { afterFunc = orig })
	return clk
}

func (clk *fakeClock) afterFunc(d time.Duration, f func()) timer {
	clk.mu.Lock()
	defer clk.mu.Unlock()
	tm := &fakeTimer{clk: clk, d: d, f: f}
	clk.timers = append(clk.timers, tm)
	return tm
}

// fire runs every pending callback.
func (clk *fakeClock) fire() {
	clk.mu.Lock()
	var due []*fakeTimer
	for _, tm := range clk.timers {
		if !tm.stopped && !tm.fired {
			tm.fired = true
			due = append(due, tm)
		}
	}
	clk.mu.Unlock()
	for _, tm := range due {
		tm.f()
	}
}

func (clk *fakeClock) pending() []*fakeTimer {
	clk.mu.Lock()
	defer clk.mu.Unlock()
	var tms []*fakeTimer
	for _, tm := range clk.timers {
		if !tm.stopped && !tm.fired {
			tms = append(tms, tm)
		}
	}
	return tms
}

func isClosed(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

func ids(students []student.Student) []int {
	res := make([]int, 0, len(students))
	for _, s := range students {
		res = append(res, s.ID)
	}
	return res
}
