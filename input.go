package electric

// --- Hit shapes ---

// HitShape is a hit area used by Button in place of its rectangle.
type HitShape interface {
	Contains(x, y float64) bool
}

// HitRect is an axis-aligned rectangular hit area in surface coordinates.
type HitRect struct {
	X, Y, Width, Height float64
}

// Contains reports whether (x, y) lies inside the rectangle.
func (r HitRect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// HitCircle is a circular hit area in surface coordinates.
type HitCircle struct {
	CenterX, CenterY, Radius float64
}

// Contains reports whether (x, y) lies inside or on the circle.
func (c HitCircle) Contains(x, y float64) bool {
	dx := x - c.CenterX
	dy := y - c.CenterY
	return dx*dx+dy*dy <= c.Radius*c.Radius
}

// HitPolygon is a convex polygon hit area in surface coordinates.
// Points must define a convex polygon in either winding order.
type HitPolygon struct {
	Points []Vec2
}

// Contains reports whether (x, y) lies inside a convex polygon using cross-product sign test.
func (p HitPolygon) Contains(x, y float64) bool {
	n := len(p.Points)
	if n < 3 {
		return false
	}
	var positive, negative bool
	for i := range n {
		a, b := p.Points[i], p.Points[(i+1)%n]
		cross := (b.X-a.X)*(y-a.Y) - (b.Y-a.Y)*(x-a.X)
		if cross > 0 {
			positive = true
		} else if cross < 0 {
			negative = true
		}
		if positive && negative {
			return false
		}
	}
	return true
}

// --- Input state ---

// InputState is the input snapshot read by updates. Keys are named as
// browsers name them ("ArrowLeft", "a", " "). Pointer coordinates are in
// surface space. Only the Runtime's input handlers write it.
type InputState struct {
	Keys        map[string]bool
	PointerDown bool
	PointerX    float64
	PointerY    float64
}

// KeyDown reports whether the named key is held.
func (in *InputState) KeyDown(name string) bool {
	return in.Keys[name]
}

// AnyKeyDown reports whether at least one of the named keys is held.
func (in *InputState) AnyKeyDown(names ...string) bool {
	for _, n := range names {
		if in.Keys[n] {
			return true
		}
	}
	return false
}

// Pointer returns the last known pointer position.
func (in *InputState) Pointer() Vec2 {
	return Vec2{in.PointerX, in.PointerY}
}

// --- Viewport ---

// Viewport describes how the surface appears on screen: its client-space
// rectangle, the backing buffer size in device pixels and the device pixel
// ratio.
type Viewport struct {
	Left, Top     float64
	Width, Height float64
	BufferWidth   float64
	BufferHeight  float64
	DPR           float64
}

// NewViewport returns the viewport of a surface shown at the origin with
// logical size w x h and a buffer scaled by dpr.
func NewViewport(w, h, dpr float64) Viewport {
	if dpr <= 0 {
		dpr = 1
	}
	return Viewport{Width: w, Height: h, BufferWidth: w * dpr, BufferHeight: h * dpr, DPR: dpr}
}

func (v Viewport) dpr() float64 {
	if v.DPR <= 0 {
		return 1
	}
	return v.DPR
}

// Logical returns the drawable area in logical units: the buffer size
// divided by the device pixel ratio.
func (v Viewport) Logical() Rect {
	d := v.dpr()
	return Rect{Width: v.BufferWidth / d, Height: v.BufferHeight / d}
}

// ToSurface maps client coordinates to surface coordinates. The mapping
// corrects both for CSS scaling of the surface element and for the device
// pixel ratio. A zero-sized viewport maps everything to the origin.
func (v Viewport) ToSurface(cx, cy float64) (float64, float64) {
	if v.Width == 0 || v.Height == 0 {
		return 0, 0
	}
	d := v.dpr()
	return (cx - v.Left) * (v.BufferWidth / v.Width / d),
		(cy - v.Top) * (v.BufferHeight / v.Height / d)
}

// TouchPoint is one active touch in client coordinates.
type TouchPoint struct {
	ID   int
	X, Y float64
}

// --- Runtime handlers ---

// KeyDown marks a key as held.
func (rt *Runtime) KeyDown(name string) {
	rt.input.Keys[name] = true
}

// KeyUp marks a key as released.
func (rt *Runtime) KeyUp(name string) {
	delete(rt.input.Keys, name)
}

// PointerDown records a press at client coordinates. It returns true to ask
// the host to suppress its default gesture handling.
func (rt *Runtime) PointerDown(cx, cy float64) bool {
	x, y := rt.viewport.ToSurface(cx, cy)
	rt.pointerDownAt(x, y)
	return true
}

// PointerUp releases the pointer.
func (rt *Runtime) PointerUp() {
	rt.input.PointerDown = false
}

// PointerMove tracks the pointer at client coordinates.
func (rt *Runtime) PointerMove(cx, cy float64) {
	rt.input.PointerX, rt.input.PointerY = rt.viewport.ToSurface(cx, cy)
}

// TouchStart presses at the first touch point. Additional touches are
// ignored. It returns true to ask the host to suppress scrolling.
func (rt *Runtime) TouchStart(points []TouchPoint) bool {
	if len(points) == 0 {
		return false
	}
	return rt.PointerDown(points[0].X, points[0].Y)
}

// TouchMove tracks the first touch point.
func (rt *Runtime) TouchMove(points []TouchPoint) bool {
	if len(points) == 0 {
		return false
	}
	rt.PointerMove(points[0].X, points[0].Y)
	return true
}

// TouchEnd releases the pointer once no touches remain.
func (rt *Runtime) TouchEnd(remaining []TouchPoint) {
	if len(remaining) == 0 {
		rt.input.PointerDown = false
	}
}

// Click dispatches a click at client coordinates to the topmost clickable
// that contains the point. It reports whether an object took the click.
func (rt *Runtime) Click(cx, cy float64) bool {
	x, y := rt.viewport.ToSurface(cx, cy)
	return rt.clickAt(x, y)
}

func (rt *Runtime) pointerDownAt(x, y float64) {
	rt.input.PointerDown = true
	rt.input.PointerX, rt.input.PointerY = x, y
}

// clickAt tests clickables newest first. The first hit ends the search even
// when its Click does nothing, so overlapping objects never both fire.
func (rt *Runtime) clickAt(x, y float64) bool {
	snap := rt.registry.clickSnapshot()
	for i := len(snap) - 1; i >= 0; i-- {
		e := snap[i]
		if e.removed {
			continue
		}
		c := e.obj.(Clickable)
		if !c.ContainsPoint(x, y) {
			continue
		}
		c.Click()
		rt.emit(Event{Type: EventClick, Object: e.obj, X: x, Y: y})
		return true
	}
	return false
}
