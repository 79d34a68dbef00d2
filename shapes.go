package electric

// Rectangle is a filled rectangle that can drift at a constant velocity.
// With WrapWidth set, it jumps back to x = 0 once its right edge passes
// WrapWidth.
type Rectangle struct {
	X, Y, Width, Height float64
	Color               Paint
	VX, VY              float64
	WrapWidth           float64
	ScaleX, ScaleY      float64
}

// NewRectangle returns a static rectangle.
func NewRectangle(x, y, w, h float64, c Paint) *Rectangle {
	return &Rectangle{X: x, Y: y, Width: w, Height: h, Color: c, ScaleX: 1, ScaleY: 1}
}

// Update moves the rectangle by its velocity.
func (r *Rectangle) Update(dt float64) {
	r.X += r.VX * dt
	r.Y += r.VY * dt
	if r.WrapWidth > 0 && r.X > r.WrapWidth-r.Width {
		r.X = 0
	}
}

// Draw fills the rectangle.
func (r *Rectangle) Draw(s Surface) {
	if r.Color == nil {
		return
	}
	s.SetFill(r.Color)
	s.FillRect(r.X, r.Y, r.Width*nonZero(r.ScaleX), r.Height*nonZero(r.ScaleY))
}

// Bounds returns the unscaled rectangle.
func (r *Rectangle) Bounds() Rect { return Rect{r.X, r.Y, r.Width, r.Height} }

// Scale returns the draw scale.
func (r *Rectangle) Scale() (float64, float64) { return r.ScaleX, r.ScaleY }

// Position returns the top-left corner.
func (r *Rectangle) Position() Vec2 { return Vec2{r.X, r.Y} }

// SetPosition moves the top-left corner.
func (r *Rectangle) SetPosition(x, y float64) { r.X, r.Y = x, y }

// Label draws a single line of text.
type Label struct {
	Text     string
	X, Y     float64
	Color    Paint
	Font     string
	Align    TextAlign
	Baseline TextBaseline
}

// NewLabel returns a left-aligned 16px label.
func NewLabel(text string, x, y float64, c Paint) *Label {
	return &Label{Text: text, X: x, Y: y, Color: c, Font: "16px Inter"}
}

// Draw fills the text.
func (l *Label) Draw(s Surface) {
	if l.Text == "" || l.Color == nil {
		return
	}
	s.SetFill(l.Color)
	s.SetFont(l.Font)
	s.SetTextAlign(l.Align)
	s.SetTextBaseline(l.Baseline)
	s.FillText(l.Text, l.X, l.Y)
}

// Position returns the anchor point.
func (l *Label) Position() Vec2 { return Vec2{l.X, l.Y} }

// SetPosition moves the anchor point.
func (l *Label) SetPosition(x, y float64) { l.X, l.Y = x, y }

// Panel is a translucent glass panel with a diagonal highlight.
type Panel struct {
	X, Y, Width, Height float64
}

var (
	panelBase   = Color{150.0 / 255, 200.0 / 255, 1, 0.2}
	panelBorder = Color{200.0 / 255, 220.0 / 255, 1, 0.3}
)

// Draw fills the panel, its highlight gradient and a thin border.
func (p *Panel) Draw(s Surface) {
	s.SetFill(panelBase)
	s.FillRect(p.X, p.Y, p.Width, p.Height)

	g := NewLinearGradient(p.X, p.Y, p.X+p.Width, p.Y+p.Height).
		AddColorStop(0, ColorWhite.WithAlpha(0)).
		AddColorStop(0.4, ColorWhite.WithAlpha(0.4)).
		AddColorStop(0.5, ColorWhite.WithAlpha(0.5)).
		AddColorStop(0.6, ColorWhite.WithAlpha(0.4)).
		AddColorStop(1, ColorWhite.WithAlpha(0))
	s.SetFill(g)
	s.FillRect(p.X, p.Y, p.Width, p.Height)

	s.SetStroke(panelBorder)
	s.SetLineWidth(1)
	s.StrokeRect(p.X, p.Y, p.Width, p.Height)
}

// Bounds returns the panel rectangle.
func (p *Panel) Bounds() Rect { return Rect{p.X, p.Y, p.Width, p.Height} }

func nonZero(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}
