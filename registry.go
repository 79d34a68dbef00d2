package electric

import (
	"cmp"
	"slices"
)

// entry is the registry's record for one object.
type entry struct {
	obj     SceneObject
	caps    Capability
	layer   float64
	seq     uint64
	removed bool
}

// Registry holds the registered scene objects and three derived views:
// updatables in registration order, renderables in (layer, registration)
// order and clickables in registration order.
//
// Registry is not safe for concurrent use.
type Registry struct {
	entries     map[SceneObject]*entry
	updatables  []*entry
	renderables []*entry
	clickables  []*entry
	nextSeq     uint64
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[SceneObject]*entry)}
}

// Register adds obj at the given layer and returns its resolved
// capabilities. Registering an object that is already present re-resolves
// its capabilities and moves it to layer, keeping its original position
// among objects of equal layer. Panics if obj is nil.
func (r *Registry) Register(obj SceneObject, layer float64) Capability {
	if obj == nil {
		panic("electric: cannot register nil object")
	}
	caps := CapabilitiesOf(obj)
	if e, ok := r.entries[obj]; ok {
		r.detach(e)
		e.caps = caps
		e.layer = layer
		r.attach(e)
		return caps
	}
	r.nextSeq++
	e := &entry{obj: obj, caps: caps, layer: layer, seq: r.nextSeq}
	r.entries[obj] = e
	r.attach(e)
	return caps
}

// Unregister removes obj from every view. It is a no-op if obj is not
// registered. It reports whether anything was removed.
func (r *Registry) Unregister(obj SceneObject) bool {
	if obj == nil {
		return false
	}
	e, ok := r.entries[obj]
	if !ok {
		return false
	}
	delete(r.entries, obj)
	r.detach(e)
	e.removed = true
	return true
}

// SetLayer moves a registered object to a new layer and re-sorts the draw
// order. It reports false if obj is not registered.
func (r *Registry) SetLayer(obj SceneObject, layer float64) bool {
	e, ok := r.entries[obj]
	if !ok {
		return false
	}
	e.layer = layer
	if e.caps.Has(CapDraw) {
		r.sortRenderables()
	}
	return true
}

// Layer returns the layer of obj.
func (r *Registry) Layer(obj SceneObject) (float64, bool) {
	e, ok := r.entries[obj]
	if !ok {
		return 0, false
	}
	return e.layer, true
}

// Capabilities returns the capabilities resolved for obj at registration.
func (r *Registry) Capabilities(obj SceneObject) (Capability, bool) {
	e, ok := r.entries[obj]
	if !ok {
		return 0, false
	}
	return e.caps, true
}

// Contains reports whether obj is registered.
func (r *Registry) Contains(obj SceneObject) bool {
	_, ok := r.entries[obj]
	return ok
}

// Len returns the number of registered objects, including inert ones.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Updatables returns the updatable objects in registration order.
func (r *Registry) Updatables() []Updatable {
	out := make([]Updatable, 0, len(r.updatables))
	for _, e := range r.updatables {
		out = append(out, e.obj.(Updatable))
	}
	return out
}

// Renderables returns the renderable objects in draw order.
func (r *Registry) Renderables() []Renderable {
	out := make([]Renderable, 0, len(r.renderables))
	for _, e := range r.renderables {
		out = append(out, e.obj.(Renderable))
	}
	return out
}

// Clickables returns the clickable objects in registration order.
func (r *Registry) Clickables() []Clickable {
	out := make([]Clickable, 0, len(r.clickables))
	for _, e := range r.clickables {
		out = append(out, e.obj.(Clickable))
	}
	return out
}

// Objects returns every registered object in registration order.
func (r *Registry) Objects() []SceneObject {
	all := make([]*entry, 0, len(r.entries))
	for _, e := range r.entries {
		all = append(all, e)
	}
	slices.SortFunc(all, func(a, b *entry) int { return cmp.Compare(a.seq, b.seq) })
	out := make([]SceneObject, len(all))
	for i, e := range all {
		out[i] = e.obj
	}
	return out
}

// Clear removes every object.
func (r *Registry) Clear() {
	for _, e := range r.entries {
		e.removed = true
	}
	clear(r.entries)
	r.updatables = r.updatables[:0]
	r.renderables = r.renderables[:0]
	r.clickables = r.clickables[:0]
}

// updateSnapshot and drawSnapshot return the entries a frame iterates. The
// frame checks entry.removed so objects unregistered mid-frame are skipped.
func (r *Registry) updateSnapshot() []*entry {
	return slices.Clone(r.updatables)
}

func (r *Registry) drawSnapshot() []*entry {
	return slices.Clone(r.renderables)
}

func (r *Registry) clickSnapshot() []*entry {
	return slices.Clone(r.clickables)
}

func (r *Registry) attach(e *entry) {
	if e.caps.Has(CapUpdate) {
		r.updatables = insertBySeq(r.updatables, e)
	}
	if e.caps.Has(CapDraw) {
		r.renderables = append(r.renderables, e)
		r.sortRenderables()
	}
	if e.caps.Has(CapClick) {
		r.clickables = insertBySeq(r.clickables, e)
	}
}

func (r *Registry) detach(e *entry) {
	r.updatables = removeEntry(r.updatables, e)
	r.renderables = removeEntry(r.renderables, e)
	r.clickables = removeEntry(r.clickables, e)
}

func (r *Registry) sortRenderables() {
	slices.SortStableFunc(r.renderables, func(a, b *entry) int {
		if c := cmp.Compare(a.layer, b.layer); c != 0 {
			return c
		}
		return cmp.Compare(a.seq, b.seq)
	})
}

// insertBySeq keeps a registration-ordered view ordered when an existing
// object is re-registered.
func insertBySeq(list []*entry, e *entry) []*entry {
	i, _ := slices.BinarySearchFunc(list, e.seq, func(x *entry, seq uint64) int {
		return cmp.Compare(x.seq, seq)
	})
	return slices.Insert(list, i, e)
}

func removeEntry(list []*entry, e *entry) []*entry {
	if i := slices.Index(list, e); i >= 0 {
		return slices.Delete(list, i, i+1)
	}
	return list
}
