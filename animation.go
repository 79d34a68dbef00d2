package electric

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 float64 fields simultaneously. Create one via
// the convenience constructors (TweenPosition, TweenColor, TweenValue) and
// either call Update(dt) each frame or hand it to Runtime.Tween.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	fields [4]*float64
	apply  func()
	Done   bool
	// OnDone runs once, on the update that finishes the group.
	OnDone func()
}

// Update advances all tweens by dt seconds and writes values to the target
// fields.
func (g *TweenGroup) Update(dt float64) {
	if g.Done {
		return
	}
	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(float32(dt))
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	if g.apply != nil {
		g.apply()
	}
	g.Done = allDone
	if g.Done && g.OnDone != nil {
		g.OnDone()
	}
}

// Cancel stops the group where it is. OnDone does not run.
func (g *TweenGroup) Cancel() {
	g.Done = true
}

// TweenValue animates a single field to the target value.
func TweenValue(field *float64, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 1}
	g.tweens[0] = gween.New(float32(*field), float32(to), duration, fn)
	g.fields[0] = field
	return g
}

// TweenPosition moves m to (toX, toY). The position is written through
// SetPosition after every step.
func TweenPosition(m Movable, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	pos := m.Position()
	x, y := pos.X, pos.Y
	g := &TweenGroup{count: 2}
	g.tweens[0] = gween.New(float32(x), float32(toX), duration, fn)
	g.tweens[1] = gween.New(float32(y), float32(toY), duration, fn)
	g.fields[0] = &x
	g.fields[1] = &y
	g.apply = func() { m.SetPosition(x, y) }
	return g
}

// TweenColor animates all four components of *c to the target color.
func TweenColor(c *Color, to Color, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 4}
	g.tweens[0] = gween.New(float32(c.R), float32(to.R), duration, fn)
	g.tweens[1] = gween.New(float32(c.G), float32(to.G), duration, fn)
	g.tweens[2] = gween.New(float32(c.B), float32(to.B), duration, fn)
	g.tweens[3] = gween.New(float32(c.A), float32(to.A), duration, fn)
	g.fields[0] = &c.R
	g.fields[1] = &c.G
	g.fields[2] = &c.B
	g.fields[3] = &c.A
	return g
}

// Tween registers g as an updatable and unregisters it once it finishes.
// An OnDone set before the call still runs.
func (rt *Runtime) Tween(g *TweenGroup) *TweenGroup {
	done := g.OnDone
	g.OnDone = func() {
		rt.Unregister(g)
		if done != nil {
			done()
		}
	}
	rt.Register(g, 0)
	return g
}
