// elecplayer runs an electric app: a .elecplayer bundle or a bare scene
// document with an optional Lua script.
//
// Usage:
//
//	elecplayer game.elecplayer
//	elecplayer -script logic.lua scene.yaml
//	elecplayer -headless -frames 600 -test smoke.json game.elecplayer
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/phanxgames/electric"
	"github.com/phanxgames/electric/audio"
	"github.com/phanxgames/electric/bundle"
	"github.com/phanxgames/electric/ebitenhost"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	o, err := parseArgs(args, stderr)
	if err != nil {
		return err
	}
	app, err := loadApp(o)
	if err != nil {
		return err
	}
	cfg, err := appConfig(o, app)
	if err != nil {
		return err
	}
	log, err := electric.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer log.Sync()

	var runner *electric.TestRunner
	if o.TestPath != "" {
		data, err := os.ReadFile(o.TestPath)
		if err != nil {
			return fmt.Errorf("read test script: %w", err)
		}
		if runner, err = electric.LoadTestScript(data); err != nil {
			return err
		}
	}

	source := ebitenhost.FallbackSource(app.Asset, ebitenhost.DirSource(o.AssetDir))
	if o.Headless {
		rep, err := runHeadless(app, cfg, log, source, runner, o.Frames, o.Delta)
		if err != nil {
			return err
		}
		rep.print(stdout)
		return nil
	}
	return runWindow(app, cfg, log, source, runner, o.ShowFPS)
}

// loadApp opens a bundle, or wraps a scene document and script in an
// in-memory bundle so both paths mount the same way.
func loadApp(o *options) (*bundle.Bundle, error) {
	if o.isBundle() {
		return bundle.Open(o.Path)
	}
	scene, err := os.ReadFile(o.Path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	b := &bundle.Bundle{Scene: scene}
	if o.ScriptPath != "" {
		src, err := os.ReadFile(o.ScriptPath)
		if err != nil {
			return nil, fmt.Errorf("read script: %w", err)
		}
		b.Script = string(src)
	}
	return b, nil
}

// appConfig resolves the configuration: -config wins over the bundle's own
// electric.toml, which wins over the defaults. The chosen TOML is written
// back into the bundle so Mount applies the same settings.
func appConfig(o *options, b *bundle.Bundle) (electric.Config, error) {
	if o.ConfigPath != "" {
		data, err := os.ReadFile(o.ConfigPath)
		if err != nil {
			return electric.Config{}, fmt.Errorf("read config: %w", err)
		}
		b.Config = data
	}
	cfg := electric.DefaultConfig()
	if len(b.Config) > 0 {
		var err error
		if cfg, err = electric.ParseConfig(b.Config); err != nil {
			return electric.Config{}, fmt.Errorf("config: %w", err)
		}
	}
	if o.LogLevel != "" {
		cfg.Logging.Level = o.LogLevel
	}
	return cfg, nil
}

// report summarizes a headless run.
type report struct {
	Frames  uint64
	Objects int
	Ops     int
	Fills   int
	Texts   int
	Done    bool
	Elapsed time.Duration
}

func (r report) print(w io.Writer) {
	fmt.Fprintf(w, "frames:  %d\n", r.Frames)
	fmt.Fprintf(w, "objects: %d\n", r.Objects)
	fmt.Fprintf(w, "ops:     %d (fill %d, text %d) in last frame\n", r.Ops, r.Fills, r.Texts)
	if r.Done {
		fmt.Fprintln(w, "test:    done")
	}
	fmt.Fprintf(w, "elapsed: %v\n", r.Elapsed.Round(time.Millisecond))
}

// runHeadless mounts app on a recording surface and steps frames with a
// manual clock. It stops early once a test script finishes.
func runHeadless(app *bundle.Bundle, cfg electric.Config, log *zap.Logger, source ebitenhost.Source,
	runner *electric.TestRunner, frames int, dt time.Duration) (report, error) {
	clock := electric.NewManualClock(time.Unix(0, 0))
	fs := electric.NewManualFrames()
	surface := electric.NewRecordingSurface()
	loader := ebitenhost.NewLoader(source, log.Named("assets"))

	rt, err := electric.New(surface, fs,
		electric.WithConfig(cfg),
		electric.WithLogger(log),
		electric.WithClock(clock),
		electric.WithImageLoader(loader),
		electric.WithViewport(electric.NewViewport(float64(cfg.Window.Width), float64(cfg.Window.Height), 1)),
	)
	if err != nil {
		return report{}, err
	}
	defer rt.Destroy()

	m, err := app.Mount(rt)
	if err != nil {
		return report{}, err
	}
	defer m.Close()
	if runner != nil {
		rt.SetTestRunner(runner)
	}

	start := time.Now()
	rt.Start()
	for i := 0; i < frames && rt.Running(); i++ {
		loader.Wait()
		loader.Drain()
		surface.Reset()
		clock.Advance(dt)
		fs.Step()
		if runner != nil && runner.Done() {
			break
		}
	}
	if m.Engine != nil && m.Engine.Err() != nil {
		return report{}, fmt.Errorf("script: %w", m.Engine.Err())
	}
	return report{
		Frames:  rt.Frames(),
		Objects: rt.Registry().Len(),
		Ops:     len(surface.Ops()),
		Fills:   surface.Count("Fill") + surface.Count("FillRect"),
		Texts:   surface.Count("FillText"),
		Done:    runner != nil && runner.Done(),
		Elapsed: time.Since(start),
	}, nil
}

func runWindow(app *bundle.Bundle, cfg electric.Config, log *zap.Logger, source ebitenhost.Source,
	runner *electric.TestRunner, showFPS bool) error {
	h, err := ebitenhost.NewHost(ebitenhost.Options{
		Config:  &cfg,
		Logger:  log,
		Source:  source,
		ShowFPS: showFPS,
	})
	if err != nil {
		return err
	}
	loadSounds(h, app, log)

	m, err := app.Mount(h.Runtime())
	if err != nil {
		return err
	}
	defer m.Close()
	if runner != nil {
		h.Runtime().SetTestRunner(runner)
	}
	return ebitenhost.Run(h)
}

// loadSounds adds every audio file in the bundle to the mixer under its
// archive path. Files under music/ loop on the "music" channel.
func loadSounds(h *ebitenhost.Host, b *bundle.Bundle, log *zap.Logger) {
	for _, name := range b.Names() {
		switch strings.ToLower(filepath.Ext(name)) {
		case ".wav", ".ogg", ".oga", ".mp3":
		default:
			continue
		}
		opts := audio.DefaultSoundOptions()
		if strings.HasPrefix(name, "music/") {
			opts.Channel = "music"
			opts.Loop = true
		}
		if _, err := h.LoadSound(name, b.Extras[name], opts); err != nil {
			log.Warn("sound skipped", zap.String("name", name), zap.Error(err))
		}
	}
}
