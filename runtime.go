package electric

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/phanxgames/electric/audio"
)

var (
	// ErrNoSurface is returned by New when no drawing surface is supplied.
	ErrNoSurface = errors.New("electric: no drawing surface")
	// ErrNoFrameSource is returned by New when no frame source is supplied.
	ErrNoFrameSource = errors.New("electric: no frame source")
)

// FrameHook runs once per frame after every update and before drawing.
type FrameHook func(dt float64, rt *Runtime)

// Option configures a Runtime.
type Option func(*Runtime)

// WithConfig replaces DefaultConfig. The background color, delta clamp and
// debug flag are applied immediately.
func WithConfig(cfg Config) Option {
	return func(rt *Runtime) { rt.cfg = cfg }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(rt *Runtime) {
		if log != nil {
			rt.log = log
		}
	}
}

// WithClock sets the frame clock. The default is SystemClock.
func WithClock(c Clock) Option {
	return func(rt *Runtime) { rt.clock = c }
}

// WithImageLoader sets the loader used by NewImage and NewSprite.
func WithImageLoader(l ImageLoader) Option {
	return func(rt *Runtime) { rt.loader = l }
}

// WithEventSink forwards runtime events to sink.
func WithEventSink(sink EventSink) Option {
	return func(rt *Runtime) { rt.sink = sink }
}

// WithMixer sets the audio mixer. The default is an empty mixer.
func WithMixer(m *audio.Mixer) Option {
	return func(rt *Runtime) { rt.mixer = m }
}

// WithViewport sets the initial viewport. The default is 300x150 at DPR 1,
// the size of an unstyled canvas.
func WithViewport(vp Viewport) Option {
	return func(rt *Runtime) { rt.viewport = vp }
}

// Runtime ties a registry of scene objects to a surface and a frame loop.
// All methods must be called from the frame goroutine.
type Runtime struct {
	surface  Surface
	frames   FrameSource
	clock    Clock
	cfg      Config
	log      *zap.Logger
	loader   ImageLoader
	sink     EventSink
	mixer    *audio.Mixer
	registry *Registry
	sched    *Scheduler
	renderer Renderer
	viewport Viewport
	input    InputState
	hook     FrameHook

	debug     bool
	destroyed bool

	injectQueue  []syntheticEvent
	testRunner   *TestRunner
	screenshots  Screenshotter
	lastStats    renderStats
	statsElapsed float64
	statsFrames  int
}

// New creates a stopped Runtime drawing on surface and scheduling through
// frames. Missing collaborators are fatal for the instance: New logs and
// returns ErrNoSurface or ErrNoFrameSource.
func New(surface Surface, frames FrameSource, opts ...Option) (*Runtime, error) {
	rt := &Runtime{
		cfg:      DefaultConfig(),
		log:      zap.NewNop(),
		clock:    SystemClock{},
		viewport: NewViewport(300, 150, 1),
		input:    InputState{Keys: make(map[string]bool)},
		registry: NewRegistry(),
	}
	for _, opt := range opts {
		opt(rt)
	}
	if surface == nil {
		rt.log.Error("runtime init failed", zap.Error(ErrNoSurface))
		return nil, ErrNoSurface
	}
	if frames == nil {
		rt.log.Error("runtime init failed", zap.Error(ErrNoFrameSource))
		return nil, ErrNoFrameSource
	}
	rt.surface = surface
	rt.frames = frames
	if rt.mixer == nil {
		rt.mixer = audio.NewMixer(rt.log.Named("audio"))
	}
	rt.sched = NewScheduler(rt.clock, frames, rt.frame)
	rt.applyConfig()
	return rt, nil
}

// Configure applies cfg to a live runtime.
func (rt *Runtime) Configure(cfg Config) {
	rt.cfg = cfg
	rt.applyConfig()
}

func (rt *Runtime) applyConfig() {
	rt.sched.MaxDelta = rt.cfg.MaxDelta()
	rt.renderer.Background = rt.cfg.Background()
	if rt.cfg.Runtime.BackgroundColor != "" && rt.renderer.Background == nil {
		rt.log.Warn("unknown background color", zap.String("color", rt.cfg.Runtime.BackgroundColor))
	}
	rt.debug = rt.cfg.Runtime.Debug
}

// Config returns the active configuration.
func (rt *Runtime) Config() Config { return rt.cfg }

// Register adds obj at layer. Re-registering refreshes its capabilities and
// layer without duplicating it.
func (rt *Runtime) Register(obj SceneObject, layer float64) {
	if rt.destroyed {
		rt.log.Warn("register after destroy ignored")
		return
	}
	caps := rt.registry.Register(obj, layer)
	if caps == 0 {
		rt.log.Debug("registered inert object", zap.Any("object", obj))
	}
}

// Unregister removes obj. Unknown objects are ignored.
func (rt *Runtime) Unregister(obj SceneObject) {
	rt.registry.Unregister(obj)
}

// SetLayer moves obj to another layer.
func (rt *Runtime) SetLayer(obj SceneObject, layer float64) {
	rt.registry.SetLayer(obj, layer)
}

// Registry exposes the object registry.
func (rt *Runtime) Registry() *Registry { return rt.registry }

// Start begins the frame loop. Repeated calls are no-ops.
func (rt *Runtime) Start() {
	if rt.destroyed {
		return
	}
	if rt.sched.Start() {
		rt.log.Info("runtime started", zap.Int("objects", rt.registry.Len()))
		rt.emit(Event{Type: EventStarted})
	}
}

// Stop halts the frame loop after the current frame.
func (rt *Runtime) Stop() {
	if rt.sched.Stop() {
		rt.log.Info("runtime stopped", zap.Uint64("frames", rt.sched.Ticks()))
		rt.emit(Event{Type: EventStopped})
	}
}

// Running reports whether the frame loop is active.
func (rt *Runtime) Running() bool { return rt.sched.Running() }

// Frames returns the number of frames run.
func (rt *Runtime) Frames() uint64 { return rt.sched.Ticks() }

// SetFrameHook installs fn as the per-frame hook. Nil removes it.
func (rt *Runtime) SetFrameHook(fn FrameHook) { rt.hook = fn }

// Resize records a new viewport and redraws at once so the surface never
// shows a stale or blank buffer between frames.
func (rt *Runtime) Resize(vp Viewport) {
	rt.viewport = vp
	b := rt.Bounds()
	rt.log.Info("runtime resized",
		zap.Float64("width", b.Width), zap.Float64("height", b.Height), zap.Float64("dpr", vp.dpr()))
	rt.emit(Event{Type: EventResized, X: b.Width, Y: b.Height})
	rt.Redraw()
}

// Viewport returns the current viewport.
func (rt *Runtime) Viewport() Viewport { return rt.viewport }

// Bounds returns the drawable area in logical units.
func (rt *Runtime) Bounds() Rect { return rt.viewport.Logical() }

// Input returns the live input state.
func (rt *Runtime) Input() *InputState { return &rt.input }

// SetBackground sets the paint used to fill the surface each frame. Nil
// leaves it transparent.
func (rt *Runtime) SetBackground(p Paint) { rt.renderer.Background = p }

// Background returns the background paint.
func (rt *Runtime) Background() Paint { return rt.renderer.Background }

// Surface returns the drawing surface.
func (rt *Runtime) Surface() Surface { return rt.surface }

// Audio returns the audio mixer.
func (rt *Runtime) Audio() *audio.Mixer { return rt.mixer }

// Logger returns the runtime logger.
func (rt *Runtime) Logger() *zap.Logger { return rt.log }

// Clock returns the frame clock.
func (rt *Runtime) Clock() Clock { return rt.clock }

// SetDebugMode enables per-second frame statistics at debug level.
func (rt *Runtime) SetDebugMode(on bool) { rt.debug = on }

// Redraw clears and draws the current scene without updating it.
func (rt *Runtime) Redraw() {
	if rt.destroyed {
		return
	}
	rt.renderer.Clear(rt.surface, rt.viewport)
	rt.renderer.draw(rt.surface, rt.viewport, rt.registry.drawSnapshot(), nil)
}

// Destroy stops the loop, drops every object and closes audio. It is safe
// to call more than once.
func (rt *Runtime) Destroy() {
	if rt.destroyed {
		return
	}
	rt.Stop()
	rt.mixer.Close()
	rt.registry.Clear()
	rt.hook = nil
	rt.injectQueue = nil
	rt.testRunner = nil
	clear(rt.input.Keys)
	rt.input.PointerDown = false
	rt.destroyed = true
	rt.log.Info("runtime destroyed")
	rt.emit(Event{Type: EventDestroyed})
}

// Destroyed reports whether Destroy has been called.
func (rt *Runtime) Destroyed() bool { return rt.destroyed }

// Step runs one frame with an explicit delta, bypassing the scheduler.
// Hosts that own their loop and tests use it.
func (rt *Runtime) Step(dt float64) {
	if rt.destroyed {
		return
	}
	rt.frame(dt)
}

// frame runs one frame: injected input, clear, update, hook, draw.
func (rt *Runtime) frame(dt float64) {
	if rt.testRunner != nil {
		rt.testRunner.step(rt)
	}
	rt.processInjected()

	var stats *renderStats
	if rt.debug {
		rt.lastStats = renderStats{}
		stats = &rt.lastStats
	}

	rt.renderer.Clear(rt.surface, rt.viewport)

	t0 := time.Now()
	rt.mixer.Update(dt)
	for _, e := range rt.registry.updateSnapshot() {
		if e.removed {
			continue
		}
		e.obj.(Updatable).Update(dt)
		if stats != nil {
			stats.updated++
		}
	}
	t1 := time.Now()

	if rt.hook != nil {
		rt.hook(dt, rt)
	}
	t2 := time.Now()

	if rt.destroyed {
		return
	}
	rt.renderer.draw(rt.surface, rt.viewport, rt.registry.drawSnapshot(), stats)

	if stats != nil {
		stats.updateTime = t1.Sub(t0)
		stats.hookTime = t2.Sub(t1)
		stats.drawTime = time.Since(t2)
		rt.debugLog(dt, *stats)
	}
}

func (rt *Runtime) emit(ev Event) {
	if rt.sink == nil {
		return
	}
	ev.Frame = rt.sched.Ticks()
	rt.sink.EmitEvent(ev)
}
