package slider

import (
	"sort"
	"time"
)

// FrameID identifies a pending frame request. The zero value is never issued.
type FrameID uint64

// TimerID identifies a pending timer. The zero value is never issued.
type TimerID uint64

// FrameDriver delivers one callback per display refresh.
type FrameDriver interface {
	RequestFrame(fn func()) FrameID
	CancelFrame(id FrameID)
}

// TimerDriver runs a callback once after a delay.
type TimerDriver interface {
	AfterFunc(d time.Duration, fn func()) TimerID
	StopTimer(id TimerID)
}

// Driver is everything the engine needs from its host loop.
type Driver interface {
	FrameDriver
	TimerDriver
}

type timerReq struct {
	at time.Time
	fn func()
}

// Scheduler is a cooperative, single-goroutine Driver. The host calls Step
// once per game tick; frame callbacks requested before a Step run during it,
// callbacks requested while stepping wait for the next one. Timers fire on the
// first Step at or after their deadline.
//
// Scheduler is not safe for concurrent use. All calls belong on the game loop.
type Scheduler struct {
	now    time.Time
	nextID uint64

	frameOrder []FrameID
	frames     map[FrameID]func()
	timers     map[TimerID]timerReq
}

// NewScheduler returns a Scheduler whose clock starts at start.
func NewScheduler(start time.Time) *Scheduler {
	return &Scheduler{
		now:    start,
		frames: make(map[FrameID]func()),
		timers: make(map[TimerID]timerReq),
	}
}

func (s *Scheduler) RequestFrame(fn func()) FrameID {
	s.nextID++
	id := FrameID(s.nextID)
	s.frames[id] = fn
	s.frameOrder = append(s.frameOrder, id)
	return id
}

// CancelFrame drops a pending frame request. Unknown or already-run ids are
// ignored.
func (s *Scheduler) CancelFrame(id FrameID) {
	delete(s.frames, id)
}

func (s *Scheduler) AfterFunc(d time.Duration, fn func()) TimerID {
	s.nextID++
	id := TimerID(s.nextID)
	s.timers[id] = timerReq{at: s.now.Add(d), fn: fn}
	return id
}

// StopTimer cancels a pending timer. Unknown or already-fired ids are ignored.
func (s *Scheduler) StopTimer(id TimerID) {
	delete(s.timers, id)
}

// PendingFrames returns the number of outstanding frame requests.
func (s *Scheduler) PendingFrames() int { return len(s.frames) }

// PendingTimers returns the number of outstanding timers.
func (s *Scheduler) PendingTimers() int { return len(s.timers) }

// Step advances the clock to now, fires due timers in deadline order and then
// runs the frame callbacks that were pending when Step was entered.
func (s *Scheduler) Step(now time.Time) {
	if now.After(s.now) {
		s.now = now
	}

	var due []TimerID
	for id, t := range s.timers {
		if !t.at.After(s.now) {
			due = append(due, id)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		a, b := s.timers[due[i]], s.timers[due[j]]
		if a.at.Equal(b.at) {
			return due[i] < due[j]
		}
		return a.at.Before(b.at)
	})
	for _, id := range due {
		t, ok := s.timers[id]
		if !ok {
			continue // stopped by an earlier timer
		}
		delete(s.timers, id)
		t.fn()
	}

	batch := s.frameOrder
	s.frameOrder = nil
	for _, id := range batch {
		fn, ok := s.frames[id]
		if !ok {
			continue
		}
		delete(s.frames, id)
		fn()
	}
}

// Advance steps the scheduler d past its current time.
func (s *Scheduler) Advance(d time.Duration) {
	s.Step(s.now.Add(d))
}
