package electric

import "image"

// Image is anything a Surface can blit. Concrete surfaces decide which image
// types they accept; ebitenhost accepts *ebiten.Image and any image.Image.
type Image interface {
	Bounds() image.Rectangle
}

// Surface is the 2D drawing target the runtime renders into. Its semantics
// follow the HTML canvas 2D context: a stack of style and transform state,
// path construction in user space, and immediate-mode fill/stroke.
//
// The runtime never draws directly; scene objects receive the Surface in
// Draw and the Renderer brackets every call with Save/Restore.
type Surface interface {
	Save()
	Restore()

	Translate(x, y float64)
	Scale(x, y float64)
	Rotate(angle float64)

	SetFill(p Paint)
	SetStroke(p Paint)
	SetLineWidth(w float64)
	SetGlobalAlpha(a float64)
	// SetFilter applies a CSS-style filter ("grayscale(1) brightness(0.8)")
	// to subsequent draws until it is replaced by "" or "none".
	SetFilter(filter string)

	BeginPath()
	ClosePath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	Arc(x, y, radius, startAngle, endAngle float64, counterClockwise bool)
	Ellipse(x, y, radiusX, radiusY, rotation, startAngle, endAngle float64, counterClockwise bool)
	Rect(x, y, w, h float64)
	Fill()
	Stroke()

	FillRect(x, y, w, h float64)
	StrokeRect(x, y, w, h float64)
	// RoundRect fills a rectangle with corner radius r using the fill paint.
	RoundRect(x, y, w, h, r float64)
	ClearRect(x, y, w, h float64)

	// DrawImage copies the src region of img into the dst rectangle.
	// A zero src selects the whole image.
	DrawImage(img Image, src, dst Rect)

	// SetFont takes a CSS font shorthand such as "bold 16px Inter".
	SetFont(font string)
	SetTextAlign(a TextAlign)
	SetTextBaseline(b TextBaseline)
	FillText(text string, x, y float64)
}
