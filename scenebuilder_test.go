package electric

import (
	"math"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const demoScene = `
background: "#102030"
elements:
  - type: rectangle
    id: box
    x: 10
    y: 20
    width: 30
    height: 40
    color: tomato
    vx: 0
    wrap: false
  - type: button
    id: go
    x: 100
    y: 100
    text: Go
    action: start
  - type: label
    text: Score
    align: center
    baseline: middle
  - type: particleEmitter
    id: sparks
    x: 5
    y: 6
    count: 3
    direction: -1.5
    gravity: 200
    emissionRate: 20
    maxParticles: 8
  - type: panel
    layer: -5
    width: 300
  - type: fps
`

func TestBuildScene(t *testing.T) {
	tr := newTestRuntime(t)
	b := NewSceneBuilder(tr.Runtime)
	started := false
	b.OnAction("start", func() { started = true })

	objs, err := b.Build([]byte(demoScene))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(objs) != 6 || tr.Registry().Len() != 6 {
		t.Fatalf("objects = %d registered = %d, want 6", len(objs), tr.Registry().Len())
	}

	bg, ok := tr.Background().(Color)
	if !ok || !colorNear(bg, MustParseColor("#102030")) {
		t.Errorf("background = %v", tr.Background())
	}

	box := objs["box"].(*Rectangle)
	if box.Bounds() != (Rect{10, 20, 30, 40}) || box.VX != 0 || box.WrapWidth != 0 {
		t.Errorf("box = %+v", box)
	}
	if box.Color != MustParseColor("tomato") {
		t.Errorf("box color = %v", box.Color)
	}

	btn := objs["go"].(*Button)
	if btn.Width != 120 || btn.Height != 40 || btn.Label != "Go" {
		t.Errorf("button = %+v", btn)
	}
	if !tr.Click(110, 110) || !started {
		t.Error("button action not bound")
	}
	if layer, _ := tr.Registry().Layer(btn); layer != 100 {
		t.Errorf("button layer = %v, want default 100", layer)
	}

	lbl := objs["label"].(*Label)
	if lbl.Align != TextAlignCenter || lbl.Baseline != TextBaselineMiddle || lbl.Font != "16px Inter" {
		t.Errorf("label = %+v", lbl)
	}

	em := objs["sparks"].(*ParticleEmitter)
	cfg := em.Config()
	if cfg.Count != 3 || cfg.Direction != -1.5 || cfg.Gravity != 200 || cfg.EmissionRate != 20 || cfg.MaxParticles != 8 {
		t.Errorf("emitter config = %+v", *cfg)
	}
	if cfg.Speed != 100 || math.Abs(cfg.Spread-2*math.Pi) > 1e-12 {
		t.Errorf("emitter defaults lost: %+v", *cfg)
	}

	panel := objs["panel"].(*Panel)
	if panel.Width != 300 || panel.Height != 100 {
		t.Errorf("panel = %+v", panel)
	}
	if layer, _ := tr.Registry().Layer(panel); layer != -5 {
		t.Errorf("panel layer = %v, want -5", layer)
	}

	if fps := objs["fps"].(*FPSCounter); fps.X != 10 || fps.Y != 10 {
		t.Errorf("fps at (%v, %v)", fps.X, fps.Y)
	}
}

func TestBuildRectangleDefaults(t *testing.T) {
	tr := newTestRuntime(t, WithViewport(NewViewport(640, 480, 1)))
	objs, err := tr.BuildScene([]byte("elements:\n  - type: rectangle\n"))
	if err != nil {
		t.Fatal(err)
	}
	r := objs["rect"].(*Rectangle)
	if r.Width != 50 || r.VX != 50 || r.WrapWidth != 640 || r.Color != ColorWhite {
		t.Errorf("rectangle defaults = %+v", r)
	}
}

func TestBuildSkipsBadElements(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	tr := newTestRuntime(t, WithLogger(zap.New(core)))
	doc := `
background: nope
elements:
  - type: teleporter
  - type: image
  - type: rectangle
    width: [1, 2]
  - type: button
    action: missing
  - type: label
    text: ok
    color: not-a-color
`
	objs, err := tr.BuildScene([]byte(doc))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(objs) != 2 {
		t.Errorf("objects = %v, want button and label", objs)
	}
	if objs["button"].(*Button).OnClick != nil {
		t.Error("unknown action should leave OnClick nil")
	}
	if objs["label"].(*Label).Color != ColorWhite {
		t.Error("bad color should fall back to white")
	}
	for _, msg := range []string{
		"unknown scene background",
		"unknown scene element type",
		"skipping scene element",
		"unknown button action",
		"bad scene color",
	} {
		if logs.FilterMessage(msg).Len() == 0 {
			t.Errorf("missing %q warning", msg)
		}
	}
}

func TestBuildMalformedDocument(t *testing.T) {
	tr := newTestRuntime(t)
	if _, err := tr.BuildScene([]byte("elements: {")); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestBuildAcceptsJSON(t *testing.T) {
	tr := newTestRuntime(t)
	objs, err := tr.BuildScene([]byte(`{"elements": [{"type": "label", "id": "title", "text": "Hi", "x": 4}]}`))
	if err != nil {
		t.Fatal(err)
	}
	if l := objs["title"].(*Label); l.Text != "Hi" || l.X != 4 {
		t.Errorf("label = %+v", l)
	}
}

func TestResolveActionsFallback(t *testing.T) {
	tr := newTestRuntime(t)
	b := NewSceneBuilder(tr.Runtime)
	var got string
	b.OnAction("bound", func() { got = "bound" })
	b.ResolveActions(func(name string) (func(), bool) {
		if name == "dynamic" {
			return func() { got = "dynamic" }, true
		}
		return nil, false
	})

	objs, err := b.Build([]byte(`
elements:
  - {type: button, id: a, x: 0, y: 0, action: bound}
  - {type: button, id: b, x: 0, y: 50, action: dynamic}
`))
	if err != nil {
		t.Fatal(err)
	}
	objs["a"].(*Button).Click()
	if got != "bound" {
		t.Errorf("got %q, want bound (OnAction wins)", got)
	}
	objs["b"].(*Button).Click()
	if got != "dynamic" {
		t.Errorf("got %q, want dynamic", got)
	}
}

func TestCustomElementType(t *testing.T) {
	tr := newTestRuntime(t)
	b := NewSceneBuilder(tr.Runtime)
	b.Register("dot", "dot", 7, func(b *SceneBuilder, el Element) (SceneObject, error) {
		f := struct{ R float64 }{R: 1}
		if err := el.Decode(&f); err != nil {
			return nil, err
		}
		return NewRectangle(0, 0, f.R*2, f.R*2, ColorWhite), nil
	})
	objs, err := b.Build([]byte("elements:\n  - {type: dot, r: 3}\n"))
	if err != nil {
		t.Fatal(err)
	}
	if r := objs["dot"].(*Rectangle); r.Width != 6 {
		t.Errorf("width = %v, want 6", r.Width)
	}
	if layer, _ := tr.Registry().Layer(objs["dot"]); layer != 7 {
		t.Errorf("layer = %v, want 7", layer)
	}
}

func TestBuildImageAndSprite(t *testing.T) {
	loader := &deferredLoader{}
	tr := newTestRuntime(t, WithImageLoader(loader))
	objs, err := tr.BuildScene([]byte(`
elements:
  - {type: image, src: bg.png, source: {x: 1, y: 2, width: 3, height: 4}}
  - {type: sprite, src: hero.png, frameWidth: 16, frameHeight: 16, frameCount: 4, loop: false}
`))
	if err != nil {
		t.Fatal(err)
	}
	if len(loader.srcs) != 2 || loader.srcs[0] != "bg.png" || loader.srcs[1] != "hero.png" {
		t.Errorf("requested %v", loader.srcs)
	}
	if img := objs["image"].(*ImageObject); img.Source != (Rect{1, 2, 3, 4}) {
		t.Errorf("source = %v", img.Source)
	}
	sp := objs["sprite"].(*Sprite)
	if sp.FrameCount != 4 || sp.Loop || sp.FrameRate != 10 {
		t.Errorf("sprite = %+v", sp)
	}
}

func TestBuildVideo(t *testing.T) {
	loader := &deferredLoader{}
	tr := newTestRuntime(t, WithImageLoader(loader))
	objs, err := tr.BuildScene([]byte(`
elements:
  - {type: video, frames: [v0.png, v1.png], frameRate: 12, x: 5, y: 6, grayscale: true, blur: 2, autoplay: true}
  - {type: video, id: empty}
`))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := objs["empty"]; ok {
		t.Error("video without frames should be skipped")
	}
	v, ok := objs["video"].(*VideoDisplay)
	if !ok {
		t.Fatalf("video = %T", objs["video"])
	}
	if !slices.Equal(loader.srcs, []string{"v0.png", "v1.png"}) {
		t.Errorf("requested %v", loader.srcs)
	}
	if v.X != 5 || v.Y != 6 || v.Filter() != "grayscale(100%) blur(2px)" {
		t.Errorf("video = %+v, filter %q", v, v.Filter())
	}
	fs := v.Source().(*FrameSequence)
	if !fs.Playing() || fs.rate != 12 || !fs.loop {
		t.Errorf("sequence playing=%v rate=%v loop=%v", fs.Playing(), fs.rate, fs.loop)
	}
	if v.State() != AssetLoading {
		t.Errorf("state = %v before frames load", v.State())
	}
	loader.complete(0, sheet(4, 3), nil)
	loader.complete(1, sheet(4, 3), nil)
	if v.State() != AssetReady || v.Width != 4 || v.Height != 3 {
		t.Errorf("state = %v size = %vx%v, want ready 4x3", v.State(), v.Width, v.Height)
	}
}

func TestBuildFile(t *testing.T) {
	tr := newTestRuntime(t)
	path := filepath.Join(t.TempDir(), "scene.yaml")
	if err := os.WriteFile(path, []byte(demoScene), 0o644); err != nil {
		t.Fatal(err)
	}
	objs, err := NewSceneBuilder(tr.Runtime).BuildFile(path)
	if err != nil || len(objs) != 6 {
		t.Fatalf("BuildFile = %d objects, %v", len(objs), err)
	}
	if _, err := NewSceneBuilder(tr.Runtime).BuildFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for a missing file")
	}
}
