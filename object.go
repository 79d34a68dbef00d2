package electric

// SceneObject is any value that can be registered with a Runtime. Objects
// must be comparable; pointer types are the norm.
type SceneObject = any

// Updatable objects advance their state once per frame. dt is in seconds.
type Updatable interface {
	Update(dt float64)
}

// Renderable objects draw themselves onto the surface. The surface state is
// saved before and restored after each call.
type Renderable interface {
	Draw(s Surface)
}

// Clickable objects take part in click dispatch. Coordinates are in surface
// space.
type Clickable interface {
	ContainsPoint(x, y float64) bool
	Click()
}

// Positioner reports the position of an object in surface space.
type Positioner interface {
	Position() Vec2
}

// Movable objects can be repositioned by scripts and tweens.
type Movable interface {
	Positioner
	SetPosition(x, y float64)
}

// Capability is the set of roles an object plays in the frame cycle.
type Capability uint8

const (
	CapUpdate Capability = 1 << iota
	CapDraw
	CapClick
)

// Has reports whether all bits of other are set in c.
func (c Capability) Has(other Capability) bool {
	return c&other == other
}

// String returns a compact representation such as "update|draw".
func (c Capability) String() string {
	if c == 0 {
		return "none"
	}
	s := ""
	add := func(name string) {
		if s != "" {
			s += "|"
		}
		s += name
	}
	if c.Has(CapUpdate) {
		add("update")
	}
	if c.Has(CapDraw) {
		add("draw")
	}
	if c.Has(CapClick) {
		add("click")
	}
	return s
}

// CapabilityReporter is implemented by objects whose capabilities are not
// fixed by their method set, such as Actor and Decorated. The report is
// read at registration time only.
type CapabilityReporter interface {
	Capabilities() Capability
}

// CapabilitiesOf resolves the capabilities of obj. An explicit report
// narrows the method set; it cannot add roles whose methods are missing.
func CapabilitiesOf(obj SceneObject) Capability {
	c := methodCapabilities(obj)
	if r, ok := obj.(CapabilityReporter); ok {
		c &= r.Capabilities()
	}
	return c
}

func methodCapabilities(obj SceneObject) Capability {
	var c Capability
	if _, ok := obj.(Updatable); ok {
		c |= CapUpdate
	}
	if _, ok := obj.(Renderable); ok {
		c |= CapDraw
	}
	if _, ok := obj.(Clickable); ok {
		c |= CapClick
	}
	return c
}

// Actor is a scene object assembled from callbacks. Nil callbacks are
// skipped, and the capabilities of an Actor follow which callbacks are set
// when it is registered.
//
//	a := &electric.Actor{}
//	a.UpdateFunc = func(dt float64) { x += 60 * dt }
//	a.DrawFunc = func(s electric.Surface) { s.FillRect(x, 10, 8, 8) }
//	rt.Register(a, 0)
type Actor struct {
	Name        string
	UpdateFunc  func(dt float64)
	DrawFunc    func(s Surface)
	ContainsFn  func(x, y float64) bool
	OnClickFunc func()
}

// Capabilities implements CapabilityReporter.
func (a *Actor) Capabilities() Capability {
	var c Capability
	if a.UpdateFunc != nil {
		c |= CapUpdate
	}
	if a.DrawFunc != nil {
		c |= CapDraw
	}
	if a.ContainsFn != nil {
		c |= CapClick
	}
	return c
}

// Update calls UpdateFunc if set.
func (a *Actor) Update(dt float64) {
	if a.UpdateFunc != nil {
		a.UpdateFunc(dt)
	}
}

// Draw calls DrawFunc if set.
func (a *Actor) Draw(s Surface) {
	if a.DrawFunc != nil {
		a.DrawFunc(s)
	}
}

// ContainsPoint calls ContainsFn if set.
func (a *Actor) ContainsPoint(x, y float64) bool {
	return a.ContainsFn != nil && a.ContainsFn(x, y)
}

// Click calls OnClickFunc if set.
func (a *Actor) Click() {
	if a.OnClickFunc != nil {
		a.OnClickFunc()
	}
}
