package player

import (
	"sort"
	"sync"
	"time"
)

// Timer is the cancel handle of a scheduled callback.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d. Callbacks may run on another goroutine.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

// RealScheduler schedules with time.AfterFunc.
func RealScheduler() Scheduler { return realScheduler{} }

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// ManualScheduler fires callbacks only when Advance moves its clock past their
// deadline. Callbacks run synchronously on the caller of Advance.
type ManualScheduler struct {
	mu      sync.Mutex
	now     time.Duration
	seq     int
	pending []*manualTimer
}

type manualTimer struct {
	s       *ManualScheduler
	at      time.Duration
	seq     int
	f       func()
	stopped bool
	fired   bool
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

func (s *ManualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	t := &manualTimer{s: s, at: s.now + d, seq: s.seq, f: f}
	s.pending = append(s.pending, t)
	return t
}

func (t *manualTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves the clock forward and runs every due callback in deadline order.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	s.now += d
	now := s.now
	s.mu.Unlock()

	for {
		t := s.nextDue(now)
		if t == nil {
			return
		}
		t.f()
	}
}

func (s *ManualScheduler) nextDue(now time.Duration) *manualTimer {
	s.mu.Lock()
	defer s.mu.Unlock()

	live := s.pending[:0]
	for _, t := range s.pending {
		if !t.stopped {
			live = append(live, t)
		}
	}
	s.pending = live

	sort.SliceStable(s.pending, func(i, j int) bool {
		if s.pending[i].at == s.pending[j].at {
			return s.pending[i].seq < s.pending[j].seq
		}
		return s.pending[i].at < s.pending[j].at
	})

	for i, t := range s.pending {
		if t.at > now {
			break
		}
		t.fired = true
		s.pending = append(s.pending[:i], s.pending[i+1:]...)
		return t
	}
	return nil
}

// Pending reports how many callbacks are scheduled and not stopped.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.pending {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}
