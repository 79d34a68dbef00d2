package electric

import "fmt"

var (
	defaultButtonColor = MustParseColor("#63b3ed")
	defaultButtonText  = MustParseColor("#1a202c")
)

// Button is a clickable rounded rectangle with a centered caption. By
// default its hit area is its rectangle; set HitShape for anything else.
type Button struct {
	X, Y, Width, Height float64
	Label               string
	Color               Paint
	TextColor           Paint
	HitShape            HitShape
	OnClick             func()
	Disabled            bool
}

// NewButton returns a button with the default blue fill and dark caption.
func NewButton(x, y, w, h float64, label string, onClick func()) *Button {
	return &Button{
		X: x, Y: y, Width: w, Height: h,
		Label:     label,
		Color:     defaultButtonColor,
		TextColor: defaultButtonText,
		OnClick:   onClick,
	}
}

// Draw renders the background with 8px corners and the caption in a bold
// font sized to 40% of the button height.
func (b *Button) Draw(s Surface) {
	if b.Color != nil {
		s.SetFill(b.Color)
		s.RoundRect(b.X, b.Y, b.Width, b.Height, 8)
	}
	if b.Label == "" || b.TextColor == nil {
		return
	}
	s.SetFill(b.TextColor)
	s.SetFont(fmt.Sprintf("bold %gpx Inter", b.Height*0.4))
	s.SetTextAlign(TextAlignCenter)
	s.SetTextBaseline(TextBaselineMiddle)
	s.FillText(b.Label, b.X+b.Width/2, b.Y+b.Height/2)
}

// ContainsPoint reports whether (x, y) hits the button. Edges count.
func (b *Button) ContainsPoint(x, y float64) bool {
	if b.HitShape != nil {
		return b.HitShape.Contains(x, y)
	}
	return HitRect{b.X, b.Y, b.Width, b.Height}.Contains(x, y)
}

// Click runs OnClick unless the button is disabled.
func (b *Button) Click() {
	if b.Disabled || b.OnClick == nil {
		return
	}
	b.OnClick()
}

// Bounds returns the button rectangle.
func (b *Button) Bounds() Rect { return Rect{b.X, b.Y, b.Width, b.Height} }

// Position returns the top-left corner.
func (b *Button) Position() Vec2 { return Vec2{b.X, b.Y} }

// SetPosition moves the button. A custom HitShape does not move with it.
func (b *Button) SetPosition(x, y float64) { b.X, b.Y = x, y }
