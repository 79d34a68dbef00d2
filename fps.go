package electric

import "fmt"

// FPSCounter shows the measured frame rate, refreshed twice a second.
type FPSCounter struct {
	X, Y   float64
	frames int
	accum  float64
	fps    float64
	text   string
}

// NewFPSCounter returns a counter anchored at (x, y).
func NewFPSCounter(x, y float64) *FPSCounter {
	return &FPSCounter{X: x, Y: y, text: "FPS: --"}
}

// Update counts frames and refreshes the reading every 0.5 seconds.
func (f *FPSCounter) Update(dt float64) {
	f.frames++
	f.accum += dt
	if f.accum < 0.5 {
		return
	}
	f.fps = float64(f.frames) / f.accum
	f.text = fmt.Sprintf("FPS: %.1f", f.fps)
	f.frames = 0
	f.accum = 0
}

// FPS returns the last measured rate.
func (f *FPSCounter) FPS() float64 { return f.fps }

// Draw renders the reading over a semi-transparent backdrop.
func (f *FPSCounter) Draw(s Surface) {
	s.SetFill(Color{0, 0, 0, 0.5})
	s.FillRect(f.X, f.Y, 100, 20)
	s.SetFill(ColorWhite)
	s.SetFont("12px monospace")
	s.SetTextAlign(TextAlignLeft)
	s.SetTextBaseline(TextBaselineTop)
	s.FillText(f.text, f.X+4, f.Y+4)
}
