package electric

import (
	"testing"
	"time"
)

func newTestScheduler() (*Scheduler, *ManualClock, *ManualFrames, *[]float64) {
	clock := NewManualClock(time.Unix(1000, 0))
	frames := NewManualFrames()
	var deltas []float64
	s := NewScheduler(clock, frames, func(dt float64) { deltas = append(deltas, dt) })
	return s, clock, frames, &deltas
}

func TestSchedulerDelta(t *testing.T) {
	s, clock, frames, deltas := newTestScheduler()
	s.Start()
	clock.Advance(16 * time.Millisecond)
	frames.Step()
	clock.Advance(50 * time.Millisecond)
	frames.Step()

	want := []float64{0.016, 0.05}
	if len(*deltas) != 2 {
		t.Fatalf("deltas = %v", *deltas)
	}
	for i, w := range want {
		if (*deltas)[i] != w {
			t.Errorf("delta[%d] = %v, want %v", i, (*deltas)[i], w)
		}
	}
	if s.Ticks() != 2 {
		t.Errorf("Ticks = %d, want 2", s.Ticks())
	}
}

func TestSchedulerStartTwice(t *testing.T) {
	s, _, frames, deltas := newTestScheduler()
	if !s.Start() {
		t.Fatal("first Start should report true")
	}
	if s.Start() {
		t.Error("second Start should report false")
	}
	if frames.Pending() != 1 {
		t.Fatalf("pending = %d, want a single frame loop", frames.Pending())
	}
	frames.StepN(3)
	if len(*deltas) != 3 {
		t.Errorf("frames run = %d, want 3", len(*deltas))
	}
	if frames.Pending() != 1 {
		t.Errorf("pending after steps = %d, want 1", frames.Pending())
	}
}

func TestSchedulerStopStartFreshBaseline(t *testing.T) {
	s, clock, frames, deltas := newTestScheduler()
	s.Start()
	clock.Advance(10 * time.Millisecond)
	frames.Step()

	if !s.Stop() {
		t.Fatal("Stop should report true")
	}
	if s.Stop() {
		t.Error("second Stop should report false")
	}
	if frames.Pending() != 0 {
		t.Errorf("pending after Stop = %d, want 0", frames.Pending())
	}

	clock.Advance(10 * time.Second)
	s.Start()
	clock.Advance(20 * time.Millisecond)
	frames.Step()

	if got := (*deltas)[len(*deltas)-1]; got != 0.02 {
		t.Errorf("delta after restart = %v, want 0.02 (no spike)", got)
	}
}

func TestSchedulerMaxDelta(t *testing.T) {
	tests := []struct {
		name     string
		maxDelta time.Duration
		advance  time.Duration
		want     float64
	}{
		{"under cap", 250 * time.Millisecond, 100 * time.Millisecond, 0.1},
		{"clamped", 250 * time.Millisecond, 5 * time.Second, 0.25},
		{"disabled", 0, 5 * time.Second, 5},
		{"clock went back", 250 * time.Millisecond, -time.Second, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, clock, frames, deltas := newTestScheduler()
			s.MaxDelta = tt.maxDelta
			s.Start()
			clock.Advance(tt.advance)
			frames.Step()
			if (*deltas)[0] != tt.want {
				t.Errorf("delta = %v, want %v", (*deltas)[0], tt.want)
			}
		})
	}
}

func TestSchedulerStopInsideFrame(t *testing.T) {
	clock := NewManualClock(time.Unix(0, 0))
	frames := NewManualFrames()
	var s *Scheduler
	n := 0
	s = NewScheduler(clock, frames, func(float64) {
		n++
		s.Stop()
	})
	s.Start()
	frames.StepN(5)
	if n != 1 {
		t.Errorf("frames run = %d, want 1", n)
	}
	if s.State() != Stopped || s.State().String() != "stopped" {
		t.Errorf("state = %v", s.State())
	}
}

func TestSchedulerRestartInsideFrame(t *testing.T) {
	clock := NewManualClock(time.Unix(0, 0))
	frames := NewManualFrames()
	var s *Scheduler
	s = NewScheduler(clock, frames, func(float64) {
		s.Stop()
		s.Start()
	})
	s.Start()
	frames.Step()
	if frames.Pending() != 1 {
		t.Errorf("pending = %d, want exactly one loop", frames.Pending())
	}
	if !s.Running() {
		t.Error("scheduler should be running")
	}
}

func TestManualFramesCancel(t *testing.T) {
	frames := NewManualFrames()
	var ran []int
	frames.RequestFrame(func() { ran = append(ran, 1) })
	id := frames.RequestFrame(func() { ran = append(ran, 2) })
	frames.RequestFrame(func() { ran = append(ran, 3) })
	frames.CancelFrame(id)
	frames.CancelFrame(id)

	if n := frames.StepN(2); n != 2 {
		t.Errorf("StepN ran %d callbacks, want 2", n)
	}
	if len(ran) != 2 || ran[0] != 1 || ran[1] != 3 {
		t.Errorf("ran = %v, want [1 3]", ran)
	}
}

func TestManualFramesCancelWithinStep(t *testing.T) {
	frames := NewManualFrames()
	var later FrameID
	ran := 0
	first := frames.RequestFrame(func() { frames.CancelFrame(later) })
	later = frames.RequestFrame(func() { ran++ })
	frames.RequestFrame(func() { frames.CancelFrame(first) })

	if n := frames.Step(); n != 2 {
		t.Errorf("Step ran %d callbacks, want 2", n)
	}
	if ran != 0 {
		t.Errorf("cancelled callback ran %d times", ran)
	}
	if frames.Pending() != 0 {
		t.Errorf("pending = %d, want 0", frames.Pending())
	}
}

func TestSchedulersSharingFrames(t *testing.T) {
	clock := NewManualClock(time.Unix(0, 0))
	frames := NewManualFrames()
	bTicks := 0
	b := NewScheduler(clock, frames, func(float64) { bTicks++ })
	a := NewScheduler(clock, frames, func(float64) {
		b.Stop()
		b.Start()
	})
	a.Start()
	b.Start()

	frames.Step()
	if bTicks != 0 {
		t.Errorf("b ticked %d times in the frame it was restarted", bTicks)
	}
	if frames.Pending() != 2 {
		t.Errorf("pending = %d, want one loop per scheduler", frames.Pending())
	}
	frames.Step()
	if bTicks != 1 {
		t.Errorf("b ticks = %d, want 1", bTicks)
	}
	if frames.Pending() != 2 {
		t.Errorf("pending = %d after second step, want 2", frames.Pending())
	}
}

func TestManualClockSet(t *testing.T) {
	c := NewManualClock(time.Unix(100, 0))
	c.Advance(time.Second)
	if !c.Now().Equal(time.Unix(101, 0)) {
		t.Errorf("Now = %v", c.Now())
	}
	c.Set(time.Unix(50, 0))
	if !c.Now().Equal(time.Unix(50, 0)) {
		t.Errorf("Set backwards: Now = %v", c.Now())
	}
}

func TestSchedulerStateString(t *testing.T) {
	if Running.String() != "running" || Stopped.String() != "stopped" {
		t.Errorf("states = %q, %q", Running, Stopped)
	}
}
