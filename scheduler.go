package electric

import "time"

// SchedulerState is the run state of a Scheduler.
type SchedulerState uint8

const (
	Stopped SchedulerState = iota
	Running
)

func (s SchedulerState) String() string {
	if s == Running {
		return "running"
	}
	return "stopped"
}

// Scheduler drives a frame function from a FrameSource. Each tick measures
// the time since the previous tick, clamps it to MaxDelta and hands it to
// the frame function in seconds.
type Scheduler struct {
	clock  Clock
	frames FrameSource
	frame  func(dt float64)

	// MaxDelta caps the delta passed to the frame function. Zero disables
	// the cap.
	MaxDelta time.Duration

	state   SchedulerState
	last    time.Time
	pending FrameID
	ticks   uint64
}

// NewScheduler returns a stopped scheduler.
func NewScheduler(clock Clock, frames FrameSource, frame func(dt float64)) *Scheduler {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Scheduler{clock: clock, frames: frames, frame: frame}
}

// State returns the current run state.
func (s *Scheduler) State() SchedulerState { return s.state }

// Running reports whether the scheduler is running.
func (s *Scheduler) Running() bool { return s.state == Running }

// Ticks returns the number of frames run so far.
func (s *Scheduler) Ticks() uint64 { return s.ticks }

// Start records the time baseline and requests the first frame. It is a
// no-op when already running, so repeated calls never start a second loop.
func (s *Scheduler) Start() bool {
	if s.state == Running {
		return false
	}
	s.state = Running
	s.last = s.clock.Now()
	s.schedule()
	return true
}

// Stop cancels the pending frame. The current frame, if any, completes.
func (s *Scheduler) Stop() bool {
	if s.state == Stopped {
		return false
	}
	s.state = Stopped
	if s.pending != 0 {
		s.frames.CancelFrame(s.pending)
		s.pending = 0
	}
	return true
}

func (s *Scheduler) schedule() {
	if s.pending != 0 {
		return
	}
	s.pending = s.frames.RequestFrame(s.tick)
}

func (s *Scheduler) tick() {
	s.pending = 0
	if s.state != Running {
		return
	}
	now := s.clock.Now()
	d := now.Sub(s.last)
	s.last = now
	if d < 0 {
		d = 0
	}
	if s.MaxDelta > 0 && d > s.MaxDelta {
		d = s.MaxDelta
	}
	s.ticks++
	s.frame(d.Seconds())
	// The frame may have stopped and restarted the loop, in which case a
	// request is already pending.
	if s.state == Running {
		s.schedule()
	}
}
