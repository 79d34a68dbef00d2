package ebitenhost

import (
	"errors"
	"fmt"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"go.uber.org/zap"

	"github.com/phanxgames/electric"
	"github.com/phanxgames/electric/audio"
)

// Options configures a Host. Zero fields get defaults: DefaultConfig, a
// no-op logger, bitmap fonts and images read from the working directory.
type Options struct {
	Config  *electric.Config
	Logger  *zap.Logger
	Fonts   *Fonts
	Source  Source
	ShowFPS bool
	// Runtime options applied after the host's own.
	Runtime []electric.Option
}

// Host runs an electric Runtime inside Ebitengine. The runtime paints an
// offscreen canvas during Update; Draw copies the canvas to the screen.
// It implements ebiten.Game.
type Host struct {
	rt      *electric.Runtime
	frames  *electric.ManualFrames
	surface *Surface
	canvas  *ebiten.Image
	loader  *Loader
	shots   *Screenshots
	decoder *Decoder
	input   poller
	cfg     electric.Config
	log     *zap.Logger
	showFPS bool

	outW, outH int
	dpr        float64
	resized    bool
}

// NewHost builds the runtime and its Ebitengine collaborators.
func NewHost(opts Options) (*Host, error) {
	cfg := electric.DefaultConfig()
	if opts.Config != nil {
		cfg = *opts.Config
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("ebitenhost: %w", err)
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	fonts := opts.Fonts
	if fonts == nil {
		var err error
		if fonts, err = LoadFontFile(cfg.Window.FontPath); err != nil {
			return nil, err
		}
	}
	source := opts.Source
	if source == nil {
		source = DirSource(".")
	}

	h := &Host{
		frames:  electric.NewManualFrames(),
		canvas:  ebiten.NewImage(cfg.Window.Width, cfg.Window.Height),
		loader:  NewLoader(source, log.Named("assets")),
		shots:   NewScreenshots(cfg.Window.ScreenshotDir, log.Named("screenshot")),
		cfg:     cfg,
		log:     log,
		showFPS: opts.ShowFPS || cfg.Runtime.Debug,
		dpr:     1,
	}
	h.surface = NewSurface(h.canvas, fonts, log.Named("surface"))

	rtOpts := append([]electric.Option{
		electric.WithConfig(cfg),
		electric.WithLogger(log),
		electric.WithImageLoader(h.loader),
		electric.WithViewport(electric.NewViewport(float64(cfg.Window.Width), float64(cfg.Window.Height), 1)),
	}, opts.Runtime...)
	rt, err := electric.New(h.surface, h.frames, rtOpts...)
	if err != nil {
		return nil, err
	}
	rt.SetScreenshotter(h.shots)
	h.rt = rt
	return h, nil
}

// Runtime returns the hosted runtime.
func (h *Host) Runtime() *electric.Runtime { return h.rt }

// Loader returns the image loader the runtime uses.
func (h *Host) Loader() *Loader { return h.loader }

// Screenshots returns the screenshot queue.
func (h *Host) Screenshots() *Screenshots { return h.shots }

// LoadSound decodes data and adds it to the runtime mixer. The audio
// context is created on first use at the configured sample rate.
func (h *Host) LoadSound(name string, data []byte, opts audio.SoundOptions) (*audio.Sound, error) {
	if h.decoder == nil {
		h.decoder = NewDecoder(h.cfg.Audio.SampleRate)
	}
	return h.decoder.Load(h.rt.Audio(), name, data, opts)
}

// Update implements ebiten.Game. It delivers finished image loads, feeds
// input to the runtime and runs the pending frame.
func (h *Host) Update() error {
	if h.rt.Destroyed() {
		return ebiten.Termination
	}
	if h.resized {
		h.resize()
	}
	h.loader.Drain()
	h.input.poll(h.rt, h.dpr)
	h.frames.Step()
	return nil
}

// Draw implements ebiten.Game.
func (h *Host) Draw(screen *ebiten.Image) {
	screen.DrawImage(h.canvas, nil)
	if h.showFPS {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f  TPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
	}
	h.shots.flush(screen)
}

// Layout implements ebiten.Game. The screen is sized in device pixels so
// the canvas stays sharp on high-density displays. The canvas itself is
// rebuilt at the start of the next Update.
func (h *Host) Layout(outsideWidth, outsideHeight int) (int, int) {
	dpr := h.cfg.Window.DPR
	if dpr <= 0 {
		dpr = ebiten.Monitor().DeviceScaleFactor()
	}
	if dpr <= 0 {
		dpr = 1
	}
	if outsideWidth != h.outW || outsideHeight != h.outH || dpr != h.dpr {
		h.outW, h.outH, h.dpr = outsideWidth, outsideHeight, dpr
		h.resized = true
	}
	return bufferSize(outsideWidth, dpr), bufferSize(outsideHeight, dpr)
}

func bufferSize(logical int, dpr float64) int {
	return max(1, int(math.Ceil(float64(logical)*dpr)))
}

func (h *Host) resize() {
	h.resized = false
	bw, bh := bufferSize(h.outW, h.dpr), bufferSize(h.outH, h.dpr)
	if b := h.canvas.Bounds(); b.Dx() != bw || b.Dy() != bh {
		h.canvas.Deallocate()
		h.canvas = ebiten.NewImage(bw, bh)
		h.surface.SetTarget(h.canvas)
	}
	h.rt.Resize(electric.Viewport{
		Width:        float64(h.outW),
		Height:       float64(h.outH),
		BufferWidth:  float64(bw),
		BufferHeight: float64(bh),
		DPR:          h.dpr,
	})
}

// Run opens a window sized from the host config, starts the runtime and
// blocks until the window closes or the runtime is destroyed.
func Run(h *Host) error {
	w := h.cfg.Window
	ebiten.SetWindowTitle(w.Title)
	ebiten.SetWindowSize(w.Width, w.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	h.rt.Start()
	defer h.rt.Destroy()
	h.log.Info("window opened", zap.String("title", w.Title), zap.Int("width", w.Width), zap.Int("height", w.Height))

	if err := ebiten.RunGame(h); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("ebitenhost: %w", err)
	}
	h.loader.Wait()
	return nil
}
