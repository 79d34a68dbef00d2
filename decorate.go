package electric

import "math"

// Decoration adds behavior to a Decorated object.
type Decoration func(*Decorated)

// Decorated wraps a scene object, layering extra update and draw behavior
// around it without touching the object itself. Decorations applied later
// run outside earlier ones.
//
// Decorated forwards Bounds, Scale, Position, ContainsPoint and Click to the
// base object when it has them. Register the Decorated value, not the base.
type Decorated struct {
	base    SceneObject
	updates []func(dt float64, next func(float64))
	draws   []func(s Surface, next func(Surface))
}

// Decorate wraps base with the given decorations.
func Decorate(base SceneObject, decorations ...Decoration) *Decorated {
	d := &Decorated{base: base}
	d.Apply(decorations...)
	return d
}

// Apply adds more decorations. Re-register the object afterwards if it
// gained a capability.
func (d *Decorated) Apply(decorations ...Decoration) {
	for _, dec := range decorations {
		dec(d)
	}
}

// Base returns the wrapped object.
func (d *Decorated) Base() SceneObject { return d.base }

// WrapUpdate runs fn around the update chain. fn must call next to run
// the wrapped update.
func WrapUpdate(fn func(dt float64, next func(float64))) Decoration {
	return func(d *Decorated) { d.updates = append(d.updates, fn) }
}

// WrapDraw runs fn around the draw chain. fn must call next to run the
// wrapped draw.
func WrapDraw(fn func(s Surface, next func(Surface))) Decoration {
	return func(d *Decorated) { d.draws = append(d.draws, fn) }
}

// Capabilities implements CapabilityReporter: the base capabilities plus
// update or draw when a decoration wraps them.
func (d *Decorated) Capabilities() Capability {
	c := CapabilitiesOf(d.base)
	if len(d.updates) > 0 {
		c |= CapUpdate
	}
	if len(d.draws) > 0 {
		c |= CapDraw
	}
	return c
}

// Update runs the update chain.
func (d *Decorated) Update(dt float64) {
	next := func(float64) {}
	if u, ok := d.base.(Updatable); ok {
		next = u.Update
	}
	for _, wrap := range d.updates {
		inner, w := next, wrap
		next = func(dt float64) { w(dt, inner) }
	}
	next(dt)
}

// Draw runs the draw chain.
func (d *Decorated) Draw(s Surface) {
	next := func(Surface) {}
	if r, ok := d.base.(Renderable); ok {
		next = r.Draw
	}
	for _, wrap := range d.draws {
		inner, w := next, wrap
		next = func(s Surface) { w(s, inner) }
	}
	next(s)
}

// Bounds forwards to the base object, or returns an empty Rect.
func (d *Decorated) Bounds() Rect {
	if b, ok := d.base.(Box); ok {
		return b.Bounds()
	}
	return Rect{}
}

// Scale forwards to the base object, or returns (1, 1).
func (d *Decorated) Scale() (float64, float64) {
	if s, ok := d.base.(Scaler); ok {
		return s.Scale()
	}
	return 1, 1
}

// Position forwards to the base object, or returns the origin.
func (d *Decorated) Position() Vec2 {
	if p, ok := d.base.(Positioner); ok {
		return p.Position()
	}
	return Vec2{}
}

// SetPosition moves the base object if it is Movable.
func (d *Decorated) SetPosition(x, y float64) {
	if m, ok := d.base.(Movable); ok {
		m.SetPosition(x, y)
	}
}

// ContainsPoint reports whether the base object is clickable and hit at (x, y).
func (d *Decorated) ContainsPoint(x, y float64) bool {
	c, ok := d.base.(Clickable)
	return ok && c.ContainsPoint(x, y)
}

// Click forwards to the base object if it is Clickable.
func (d *Decorated) Click() {
	if c, ok := d.base.(Clickable); ok {
		c.Click()
	}
}

// Pulse makes *target oscillate between 80% and 100% of base's brightness,
// at speed radians per second. The wrapped update runs first.
func Pulse(target *Color, base Color, speed float64) Decoration {
	phase := 0.0
	return WrapUpdate(func(dt float64, next func(float64)) {
		next(dt)
		phase += speed * dt
		f := (math.Sin(phase) + 1) / 2
		*target = base.Scale(0.8 + 0.2*f)
	})
}

type trailSegment struct {
	x, y  float64
	alpha float64
	size  float64
}

// Trail leaves a fading, shrinking trail of circles behind a moving
// object. Each frame the object moves a segment is added at its position;
// at most maxLen are kept and each loses fade alpha per frame. The trail
// clears as soon as the object stops. The base must be a Positioner.
func Trail(maxLen int, fade float64, c Color, size float64) Decoration {
	var (
		segs    []trailSegment
		last    Vec2
		hasLast bool
	)
	return func(d *Decorated) {
		p, ok := d.base.(Positioner)
		if !ok {
			return
		}
		WrapUpdate(func(dt float64, next func(float64)) {
			next(dt)
			pos := p.Position()
			moved := hasLast && pos != last
			last, hasLast = pos, true
			if !moved {
				segs = segs[:0]
				return
			}
			segs = append(segs, trailSegment{x: pos.X, y: pos.Y, alpha: 1, size: size})
			if over := len(segs) - maxLen; over > 0 {
				segs = segs[over:]
			}
			kept := segs[:0]
			for _, s := range segs {
				s.alpha -= fade
				s.size *= 0.95
				if s.alpha > 0 {
					kept = append(kept, s)
				}
			}
			segs = kept
		})(d)
		WrapDraw(func(s Surface, next func(Surface)) {
			for _, seg := range segs {
				s.SetFill(c.WithAlpha(c.A * seg.alpha))
				s.BeginPath()
				s.Arc(seg.x, seg.y, seg.size*0.5, 0, 2*math.Pi, false)
				s.Fill()
			}
			next(s)
		})(d)
	}
}
