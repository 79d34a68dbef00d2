package main

import (
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/phanxgames/electric/bundle"
)

// options holds the parsed command line.
type options struct {
	Path       string // bundle (.elecplayer) or scene document
	ConfigPath string
	ScriptPath string // Lua script for a bare scene
	TestPath   string // JSON test script
	AssetDir   string
	LogLevel   string
	Headless   bool
	Frames     int
	Delta      time.Duration
	ShowFPS    bool
}

func (o *options) isBundle() bool {
	return strings.EqualFold(filepath.Ext(o.Path), bundle.Ext)
}

func parseArgs(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("elecplayer", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: elecplayer [flags] <app.elecplayer | scene.yaml>")
		fs.PrintDefaults()
	}

	o := &options{}
	fs.StringVar(&o.ConfigPath, "config", "", "electric.toml overriding the bundle config")
	fs.StringVar(&o.ScriptPath, "script", "", "Lua script to run with a scene file")
	fs.StringVar(&o.TestPath, "test", "", "JSON test script to drive the run")
	fs.StringVar(&o.AssetDir, "assets", "", "directory for images and sounds (default: next to the input)")
	fs.StringVar(&o.LogLevel, "log-level", "", "debug, info, warn or error (overrides config)")
	fs.BoolVar(&o.Headless, "headless", false, "run without a window on a recording surface")
	fs.IntVar(&o.Frames, "frames", 60, "frames to run in headless mode")
	fs.DurationVar(&o.Delta, "dt", time.Second/60, "frame delta in headless mode")
	fs.BoolVar(&o.ShowFPS, "fps", false, "show the FPS overlay")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return nil, fmt.Errorf("expected one input file, got %d", fs.NArg())
	}
	o.Path = fs.Arg(0)
	if o.Frames < 0 {
		return nil, fmt.Errorf("frames must be non-negative, got %d", o.Frames)
	}
	if o.Delta <= 0 {
		return nil, fmt.Errorf("dt must be positive, got %v", o.Delta)
	}
	if o.isBundle() && o.ScriptPath != "" {
		return nil, fmt.Errorf("-script cannot be used with a bundle")
	}
	if o.AssetDir == "" {
		o.AssetDir = filepath.Dir(o.Path)
	}
	switch o.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", o.LogLevel)
	}
	return o, nil
}
