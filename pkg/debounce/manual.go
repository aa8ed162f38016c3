package debounce

import (
	"sort"
	"sync"
	"time"
)

// ManualScheduler is a Scheduler driven by Advance instead of wall-clock time.
// Callbacks run synchronously on the goroutine calling Advance.
type ManualScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	nextID int
	timers map[int]*manualTimer
}

type manualTimer struct {
	s  *ManualScheduler
	id int
	at time.Duration
	fn func()
}

// NewManualScheduler returns a scheduler positioned at time zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{timers: make(map[int]*manualTimer)}
}

// AfterFunc registers fn to run once Advance moves past d from now.
func (s *ManualScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	t := &manualTimer{s: s, id: s.nextID, at: s.now + d, fn: fn}
	s.timers[t.id] = t
	return t
}

func (t *manualTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if _, ok := t.s.timers[t.id]; !ok {
		return false
	}
	delete(t.s.timers, t.id)
	return true
}

// Advance moves time forward by d, firing due timers in order.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	for {
		s.mu.Lock()
		due := make([]*manualTimer, 0)
		for _, t := range s.timers {
			if t.at <= target {
				due = append(due, t)
			}
		}
		if len(due) == 0 {
			s.now = target
			s.mu.Unlock()
			return
		}
		sort.Slice(due, func(i, j int) bool {
			if due[i].at == due[j].at {
				return due[i].id < due[j].id
			}
			return due[i].at < due[j].at
		})
		next := due[0]
		delete(s.timers, next.id)
		s.now = next.at
		s.mu.Unlock()

		next.fn()
	}
}

// Pending returns the number of scheduled timers.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Now returns the elapsed manual time.
func (s *ManualScheduler) Now() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}
