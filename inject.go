package electric

type syntheticKind uint8

const (
	synthPress syntheticKind = iota
	synthMove
	synthRelease
	synthKeyDown
	synthKeyUp
)

// syntheticEvent is a single injected input event. Pointer coordinates are
// in surface space, the same space objects draw in, so scripts can target
// what they see in a screenshot without knowing the viewport.
type syntheticEvent struct {
	kind syntheticKind
	x, y float64
	key  string
}

// InjectPress queues a pointer press at surface coordinates. The event is
// consumed at the start of the next frame.
func (rt *Runtime) InjectPress(x, y float64) {
	rt.injectQueue = append(rt.injectQueue, syntheticEvent{kind: synthPress, x: x, y: y})
}

// InjectMove queues a pointer move. Use it between InjectPress and
// InjectRelease to simulate a drag.
func (rt *Runtime) InjectMove(x, y float64) {
	rt.injectQueue = append(rt.injectQueue, syntheticEvent{kind: synthMove, x: x, y: y})
}

// InjectRelease queues a pointer release. A release dispatches a click at
// its position, as a browser does after a press and release.
func (rt *Runtime) InjectRelease(x, y float64) {
	rt.injectQueue = append(rt.injectQueue, syntheticEvent{kind: synthRelease, x: x, y: y})
}

// InjectClick queues a press followed by a release at the same point.
// Consumes two frames.
func (rt *Runtime) InjectClick(x, y float64) {
	rt.InjectPress(x, y)
	rt.InjectRelease(x, y)
}

// InjectDrag queues a full drag sequence: press at (fromX, fromY),
// linearly interpolated moves over frames-2 intermediate frames, and
// release at (toX, toY). Minimum frames is 2 (press + release).
func (rt *Runtime) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	rt.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		rt.InjectMove(lerp(fromX, toX, t), lerp(fromY, toY, t))
	}
	rt.InjectRelease(toX, toY)
}

// InjectKey queues a key press held for the given number of frames, then
// its release. frames < 1 is treated as 1.
func (rt *Runtime) InjectKey(name string, frames int) {
	rt.injectQueue = append(rt.injectQueue, syntheticEvent{kind: synthKeyDown, key: name})
	for i := 1; i < frames; i++ {
		// re-assert the key on each held frame
		rt.injectQueue = append(rt.injectQueue, syntheticEvent{kind: synthKeyDown, key: name})
	}
	rt.injectQueue = append(rt.injectQueue, syntheticEvent{kind: synthKeyUp, key: name})
}

// PendingInjections returns the number of queued synthetic events.
func (rt *Runtime) PendingInjections() int {
	return len(rt.injectQueue)
}

// processInjected pops one event from the queue and applies it. Returns
// true if an event was consumed.
func (rt *Runtime) processInjected() bool {
	if len(rt.injectQueue) == 0 {
		return false
	}
	evt := rt.injectQueue[0]
	copy(rt.injectQueue, rt.injectQueue[1:])
	rt.injectQueue = rt.injectQueue[:len(rt.injectQueue)-1]

	switch evt.kind {
	case synthPress:
		rt.pointerDownAt(evt.x, evt.y)
	case synthMove:
		rt.input.PointerX, rt.input.PointerY = evt.x, evt.y
	case synthRelease:
		rt.input.PointerX, rt.input.PointerY = evt.x, evt.y
		rt.input.PointerDown = false
		rt.clickAt(evt.x, evt.y)
	case synthKeyDown:
		rt.input.Keys[evt.key] = true
	case synthKeyUp:
		delete(rt.input.Keys, evt.key)
	}
	return true
}
