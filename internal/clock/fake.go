package clock

import (
	"sync"
	"time"
)

// Fake is a manually advanced Clock for deterministic tests. Timers created
// with After fire during Advance calls, in deadline order.
type Fake struct {
	mu      sync.Mutex
	now     time.Time
	loc     *time.Location
	waiters []*fakeWaiter
}

type fakeWaiter struct {
	deadline time.Time
	ch       chan time.Time
}

// NewFake creates a Fake clock starting at the given instant.
func NewFake(start time.Time) *Fake {
	loc := start.Location()
	if loc == nil {
		loc = time.UTC
	}
	return &Fake{now: start, loc: loc}
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *Fake) Location() *time.Location {
	return f.loc
}

func (f *Fake) After(d time.Duration) <-chan time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()

	w := &fakeWaiter{
		deadline: f.now.Add(d),
		ch:       make(chan time.Time, 1),
	}
	if d <= 0 {
		w.ch <- f.now
		return w.ch
	}
	f.waiters = append(f.waiters, w)
	return w.ch
}

// Advance moves the clock forward and fires every timer whose deadline has
// been reached, in deadline order.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	now := f.now

	var due []*fakeWaiter
	remaining := f.waiters[:0]
	for _, w := range f.waiters {
		if !w.deadline.After(now) {
			due = append(due, w)
		} else {
			remaining = append(remaining, w)
		}
	}
	f.waiters = remaining
	f.mu.Unlock()

	for i := range due {
		for j := i + 1; j < len(due); j++ {
			if due[j].deadline.Before(due[i].deadline) {
				due[i], due[j] = due[j], due[i]
			}
		}
	}
	for _, w := range due {
		w.ch <- now
	}
}

// PendingTimers reports how many timers are armed but not yet fired.
func (f *Fake) PendingTimers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.waiters)
}
