package debounce

import (
	"sort"
	"sync"
	"time"
)

// manualScheduler runs tasks only when Advance moves its clock past their
// deadline.
type manualScheduler struct {
	mu    sync.Mutex
	now   time.Duration
	tasks []*manualTask
}

type manualTask struct {
	s    *manualScheduler
	at   time.Duration
	f    func()
	done bool
}

func (t *manualTask) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	return true
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTask{s: s, at: s.now + d, f: f}
	s.tasks = append(s.tasks, t)
	return t
}

// AdvanceTo moves the clock to the absolute time at, running due tasks in
// deadline order.
func (s *manualScheduler) AdvanceTo(at time.Duration) {
	for {
		s.mu.Lock()
		sort.SliceStable(s.tasks, func(i, j int) bool { return s.tasks[i].at < s.tasks[j].at })
		var next *manualTask
		for _, t := range s.tasks {
			if !t.done && t.at <= at {
				next = t
				break
			}
		}
		if next == nil {
			s.now = at
			s.mu.Unlock()
			return
		}
		next.done = true
		s.now = next.at
		s.mu.Unlock()
		next.f()
	}
}
