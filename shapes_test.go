package electric

import (
	"math"
	"slices"
	"testing"
)

func TestRectangleUpdateWraps(t *testing.T) {
	r := NewRectangle(0, 10, 20, 20, ColorWhite)
	r.VX = 100
	r.WrapWidth = 100

	r.Update(0.5)
	if r.X != 50 {
		t.Fatalf("X = %v, want 50", r.X)
	}
	r.Update(0.4)
	if r.X != 0 {
		t.Errorf("X = %v after passing the wrap edge, want 0", r.X)
	}
	if r.Y != 10 {
		t.Errorf("Y = %v, want 10", r.Y)
	}
}

func TestRectangleDraw(t *testing.T) {
	tests := []struct {
		name   string
		sx, sy float64
		want   []float64
	}{
		{"unscaled", 1, 1, []float64{5, 5, 10, 20}},
		{"scaled", 2, 0.5, []float64{5, 5, 20, 10}},
		{"zero scale", 0, 0, []float64{5, 5, 10, 20}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRectangle(5, 5, 10, 20, ColorBlack)
			r.ScaleX, r.ScaleY = tt.sx, tt.sy
			s := NewRecordingSurface()
			r.Draw(s)
			ops := s.Filter("FillRect")
			if len(ops) != 1 || !slices.Equal(ops[0].Args, tt.want) {
				t.Errorf("FillRect = %v, want %v", ops, tt.want)
			}
		})
	}
}

func TestRectangleNilColorDrawsNothing(t *testing.T) {
	s := NewRecordingSurface()
	NewRectangle(0, 0, 1, 1, nil).Draw(s)
	if len(s.Ops()) != 0 {
		t.Errorf("ops = %v", s.Ops())
	}
}

func TestLabelDraw(t *testing.T) {
	l := NewLabel("hi", 3, 4, ColorWhite)
	l.Align = TextAlignCenter
	s := NewRecordingSurface()
	l.Draw(s)

	texts := s.Filter("FillText")
	if len(texts) != 1 {
		t.Fatalf("FillText ops = %d", len(texts))
	}
	op := texts[0]
	if op.Text != "hi" || op.Font != "16px Inter" || op.Fill != ColorWhite {
		t.Errorf("op = %+v", op)
	}
	if !slices.Equal(op.Args, []float64{3, 4, float64(TextAlignCenter), float64(TextBaselineAlphabetic)}) {
		t.Errorf("args = %v", op.Args)
	}

	s.Reset()
	l.Text = ""
	l.Draw(s)
	if len(s.Ops()) != 0 {
		t.Errorf("empty label recorded %d ops", len(s.Ops()))
	}
}

func TestButtonDraw(t *testing.T) {
	b := NewButton(10, 10, 100, 40, "Go", nil)
	s := NewRecordingSurface()
	b.Draw(s)

	rr := s.Filter("RoundRect")
	if len(rr) != 1 || !slices.Equal(rr[0].Args, []float64{10, 10, 100, 40, 8}) {
		t.Errorf("RoundRect = %v", rr)
	}
	texts := s.Filter("FillText")
	if len(texts) != 1 {
		t.Fatalf("FillText ops = %d", len(texts))
	}
	if texts[0].Font != "bold 16px Inter" {
		t.Errorf("font = %q, want bold 16px Inter", texts[0].Font)
	}
	if texts[0].Args[0] != 60 || texts[0].Args[1] != 30 {
		t.Errorf("caption at (%v, %v), want (60, 30)", texts[0].Args[0], texts[0].Args[1])
	}
}

func TestButtonSetPositionKeepsHitShape(t *testing.T) {
	b := NewButton(0, 0, 10, 10, "", nil)
	b.SetPosition(100, 100)
	if !b.ContainsPoint(105, 105) || b.ContainsPoint(5, 5) {
		t.Error("default hit area should follow the button")
	}
	b.HitShape = HitRect{0, 0, 10, 10}
	b.SetPosition(200, 200)
	if !b.ContainsPoint(5, 5) {
		t.Error("custom hit shape should stay put")
	}
}

func TestPanelDraw(t *testing.T) {
	p := &Panel{X: 0, Y: 0, Width: 100, Height: 50}
	s := NewRecordingSurface()
	p.Draw(s)

	fills := s.Filter("FillRect")
	if len(fills) != 2 {
		t.Fatalf("FillRect ops = %d, want 2", len(fills))
	}
	g, ok := fills[1].Fill.(*LinearGradient)
	if !ok {
		t.Fatalf("highlight fill = %T, want *LinearGradient", fills[1].Fill)
	}
	if len(g.Stops) != 5 {
		t.Errorf("stops = %d, want 5", len(g.Stops))
	}
	if s.Count("StrokeRect") != 1 {
		t.Errorf("border not stroked")
	}
}

func TestFPSCounter(t *testing.T) {
	f := NewFPSCounter(0, 0)
	for range 4 {
		f.Update(0.125)
	}
	if math.Abs(f.FPS()-8) > 1e-9 {
		t.Errorf("FPS = %v, want 8", f.FPS())
	}

	s := NewRecordingSurface()
	f.Draw(s)
	texts := s.Filter("FillText")
	if len(texts) != 1 || texts[0].Text != "FPS: 8.0" {
		t.Errorf("text = %v", texts)
	}
}

func TestFPSCounterInitialText(t *testing.T) {
	f := NewFPSCounter(0, 0)
	f.Update(0.1)
	s := NewRecordingSurface()
	f.Draw(s)
	if got := s.Filter("FillText")[0].Text; got != "FPS: --" {
		t.Errorf("text = %q before the first refresh", got)
	}
}
