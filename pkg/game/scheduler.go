package game

import "container/heap"

// TimerID identifies a scheduled action.
type TimerID uint64

type timer struct {
	id    TimerID
	dueAt float64
	seq   uint64
	fn    func()
	index int
}

type timerHeap []*timer

func (h timerHeap) Len() int { return len(h) }
func (h timerHeap) Less(i, j int) bool {
	if h[i].dueAt != h[j].dueAt {
		return h[i].dueAt < h[j].dueAt
	}
	return h[i].seq < h[j].seq
}
func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *timerHeap) Push(x any) {
	t := x.(*timer)
	t.index = len(*h)
	*h = append(*h, t)
}
func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}

// Scheduler runs deferred actions in (dueAt, insertion) order against a
// simulation clock that only moves when Advance is called. Pausing is simply
// not advancing it, and game speed is applied by scaling the delta.
type Scheduler struct {
	now    float64
	seq    uint64
	nextID TimerID
	timers timerHeap
	byID   map[TimerID]*timer
}

// NewScheduler creates a scheduler at time 0.
func NewScheduler() *Scheduler {
	return &Scheduler{byID: make(map[TimerID]*timer)}
}

// Now returns the simulation clock in ms.
func (s *Scheduler) Now() float64 { return s.now }

// Pending returns the number of scheduled actions.
func (s *Scheduler) Pending() int { return len(s.timers) }

// After schedules fn to run delayMs from now. A non-positive delay runs it on
// the next Advance.
func (s *Scheduler) After(delayMs float64, fn func()) TimerID {
	if delayMs < 0 {
		delayMs = 0
	}
	return s.At(s.now+delayMs, fn)
}

// At schedules fn at an absolute time.
func (s *Scheduler) At(dueAt float64, fn func()) TimerID {
	s.nextID++
	s.seq++
	t := &timer{id: s.nextID, dueAt: dueAt, seq: s.seq, fn: fn}
	heap.Push(&s.timers, t)
	s.byID[t.id] = t
	return t.id
}

// Cancel removes a scheduled action. It reports false if the action already
// ran or was never scheduled.
func (s *Scheduler) Cancel(id TimerID) bool {
	t, ok := s.byID[id]
	if !ok {
		return false
	}
	heap.Remove(&s.timers, t.index)
	delete(s.byID, id)
	return true
}

// Advance moves the clock forward and runs every action due by the new time.
// Actions scheduled while running that are already due run in the same call.
// Returns the number of actions run.
func (s *Scheduler) Advance(dtMs float64) int {
	if dtMs > 0 {
		s.now += dtMs
	}
	ran := 0
	for len(s.timers) > 0 && s.timers[0].dueAt <= s.now {
		t := heap.Pop(&s.timers).(*timer)
		delete(s.byID, t.id)
		t.fn()
		ran++
	}
	return ran
}

// Clear drops every pending action. Used on scene teardown.
func (s *Scheduler) Clear() {
	s.timers = nil
	s.byID = make(map[TimerID]*timer)
}
