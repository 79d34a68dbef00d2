package electric

import (
	"math"
	"testing"

	"github.com/tanema/gween/ease"
)

func TestTweenPositionReachesTarget(t *testing.T) {
	r := NewRectangle(10, 20, 5, 5, ColorWhite)

	g := TweenPosition(r, 100, 200, 1.0, ease.Linear)

	// Run for full duration using exact halves to avoid float32 accumulation drift.
	g.Update(0.5)
	g.Update(0.5)

	if !g.Done {
		t.Fatal("expected Done after full duration")
	}
	if math.Abs(r.X-100) > 0.5 {
		t.Errorf("X = %f, want ~100", r.X)
	}
	if math.Abs(r.Y-200) > 0.5 {
		t.Errorf("Y = %f, want ~200", r.Y)
	}
}

func TestTweenValueInterpolates(t *testing.T) {
	width := 10.0

	tw := TweenValue(&width, 30, 1.0, ease.Linear)

	// Halfway through.
	tw.Update(0.5)
	if tw.Done {
		t.Fatal("should not be done at halfway")
	}
	if math.Abs(width-20) > 0.05 {
		t.Errorf("width = %f, want ~20 at halfway", width)
	}

	// Finish.
	tw.Update(0.5)
	if !tw.Done {
		t.Fatal("should be done after full duration")
	}
	if math.Abs(width-30) > 0.01 {
		t.Errorf("width = %f, want ~30", width)
	}
}

func TestTweenColorAllComponents(t *testing.T) {
	c := Color{R: 1, G: 0, B: 0, A: 1}
	target := Color{R: 0, G: 1, B: 0.5, A: 0.5}

	g := TweenColor(&c, target, 1.0, ease.Linear)

	g.Update(0.5)
	g.Update(0.5)

	if !g.Done {
		t.Fatal("expected Done after full duration")
	}
	if math.Abs(c.R-target.R) > 0.01 {
		t.Errorf("R = %f, want %f", c.R, target.R)
	}
	if math.Abs(c.G-target.G) > 0.01 {
		t.Errorf("G = %f, want %f", c.G, target.G)
	}
	if math.Abs(c.B-target.B) > 0.01 {
		t.Errorf("B = %f, want %f", c.B, target.B)
	}
	if math.Abs(c.A-target.A) > 0.01 {
		t.Errorf("A = %f, want %f", c.A, target.A)
	}
}

func TestTweenGroupDoneFlagTransition(t *testing.T) {
	l := NewLabel("x", 0, 0, ColorWhite)
	g := TweenPosition(l, 50, 50, 0.5, ease.Linear)

	if g.Done {
		t.Fatal("should not be Done at start")
	}

	// Partway through, not done.
	g.Update(0.25)
	if g.Done {
		t.Fatal("should not be Done partway through")
	}

	g.Update(0.25)
	if !g.Done {
		t.Fatal("should be Done after full duration")
	}

	// Update after done is a no-op.
	l.X = 7
	g.Update(0.1)
	if !g.Done || l.X != 7 {
		t.Fatal("finished group should not write again")
	}
}

func TestTweenOnDoneRunsOnce(t *testing.T) {
	v := 0.0
	calls := 0
	g := TweenValue(&v, 1, 0.5, ease.Linear)
	g.OnDone = func() { calls++ }

	g.Update(0.25)
	g.Update(0.25)
	g.Update(0.25)
	if calls != 1 {
		t.Errorf("OnDone calls = %d, want 1", calls)
	}
}

func TestTweenCancel(t *testing.T) {
	v := 0.0
	fired := false
	g := TweenValue(&v, 10, 1, ease.Linear)
	g.OnDone = func() { fired = true }

	g.Update(0.5)
	g.Cancel()
	before := v
	g.Update(0.5)

	if v != before {
		t.Errorf("value moved after Cancel: %v -> %v", before, v)
	}
	if fired {
		t.Error("OnDone ran after Cancel")
	}
}

func TestRuntimeTweenUnregistersWhenDone(t *testing.T) {
	tr := newTestRuntime(t)
	r := NewRectangle(0, 0, 10, 10, ColorWhite)
	tr.Register(r, 0)
	done := false

	g := TweenPosition(r, 40, 0, 0.5, ease.Linear)
	g.OnDone = func() { done = true }
	tr.Tween(g)
	if !tr.Registry().Contains(g) {
		t.Fatal("tween not registered")
	}

	tr.Step(0.25)
	tr.Step(0.25)

	if !done {
		t.Error("OnDone set before Tween did not run")
	}
	if tr.Registry().Contains(g) {
		t.Error("finished tween still registered")
	}
	if math.Abs(r.X-40) > 0.5 {
		t.Errorf("X = %v, want ~40", r.X)
	}
	if !tr.Registry().Contains(r) {
		t.Error("tween target was unregistered")
	}
}
