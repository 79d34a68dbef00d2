package electric

import "time"

// Renderer clears the surface and draws renderables. Each draw call is
// bracketed by Save/Restore so state changes made by one object never leak
// into the next.
type Renderer struct {
	// Background fills the logical area after clearing. Nil leaves the
	// surface transparent.
	Background Paint
}

// renderStats holds per-frame draw metrics. Only collected in debug mode.
type renderStats struct {
	updateTime time.Duration
	hookTime   time.Duration
	drawTime   time.Duration
	updated    int
	drawn      int
	particles  int
}

// Clear resets the surface to the background. The buffer is cleared in
// device pixels and the background is filled in logical units under a
// dpr scale, matching how objects will draw.
func (r *Renderer) Clear(s Surface, vp Viewport) {
	dpr := vp.dpr()
	s.Save()
	s.ClearRect(0, 0, vp.BufferWidth, vp.BufferHeight)
	s.Scale(dpr, dpr)
	if r.Background != nil {
		b := vp.Logical()
		s.SetFill(r.Background)
		s.FillRect(0, 0, b.Width, b.Height)
	}
	s.Restore()
}

// draw draws every live entry in order under a dpr scale.
func (r *Renderer) draw(s Surface, vp Viewport, entries []*entry, stats *renderStats) {
	dpr := vp.dpr()
	s.Save()
	s.Scale(dpr, dpr)
	for _, e := range entries {
		if e.removed {
			continue
		}
		obj := e.obj.(Renderable)
		s.Save()
		obj.Draw(s)
		s.Restore()
		if stats != nil {
			stats.drawn++
			if pe, ok := obj.(*ParticleEmitter); ok {
				stats.particles += pe.AliveCount()
			}
		}
	}
	s.Restore()
}

// Draw draws objs in the given order. Exposed for hosts that render
// objects outside a Runtime.
func (r *Renderer) Draw(s Surface, vp Viewport, objs ...Renderable) {
	entries := make([]*entry, len(objs))
	for i, o := range objs {
		entries[i] = &entry{obj: o, caps: CapDraw}
	}
	r.draw(s, vp, entries, nil)
}
