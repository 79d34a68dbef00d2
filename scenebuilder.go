package electric

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Element is one entry of a scene document's elements list.
type Element struct {
	Type  string
	ID    string
	Layer float64
	node  *yaml.Node
}

// Decode fills v from the element's fields. Fields absent from the document
// keep the values v already holds, so callers prefill defaults.
func (e Element) Decode(v any) error {
	return e.node.Decode(v)
}

// ElementFactory builds a scene object from an element.
type ElementFactory func(b *SceneBuilder, el Element) (SceneObject, error)

type elementType struct {
	defaultID    string
	defaultLayer float64
	build        ElementFactory
}

// SceneBuilder turns a YAML (or JSON) scene document into registered scene
// objects:
//
//	background: "#1a202c"
//	elements:
//	  - type: rectangle
//	    id: box
//	    x: 10
//	    y: 10
//	    width: 50
//	    height: 50
//	    color: tomato
//	  - type: button
//	    text: Go
//	    action: start
//
// Unknown element types and elements that fail to decode are logged and
// skipped; the rest of the scene is still built.
type SceneBuilder struct {
	rt      *Runtime
	types   map[string]elementType
	actions map[string]func()
	resolve func(name string) (func(), bool)
	log     *zap.Logger
}

// NewSceneBuilder returns a builder with the built-in element types.
func NewSceneBuilder(rt *Runtime) *SceneBuilder {
	b := &SceneBuilder{
		rt:      rt,
		types:   make(map[string]elementType),
		actions: make(map[string]func()),
		log:     rt.log.Named("scene"),
	}
	b.Register("rectangle", "rect", 0, buildRectangle)
	b.Register("particleEmitter", "emitter", 50, buildEmitter)
	b.Register("button", "button", 100, buildButton)
	b.Register("label", "label", 10, buildLabel)
	b.Register("panel", "panel", 1, buildPanel)
	b.Register("image", "image", 0, buildImage)
	b.Register("sprite", "sprite", 1, buildSprite)
	b.Register("video", "video", 0, buildVideo)
	b.Register("fps", "fps", 1000, buildFPS)
	return b
}

// Register adds or replaces an element type.
func (b *SceneBuilder) Register(typ, defaultID string, defaultLayer float64, factory ElementFactory) {
	b.types[typ] = elementType{defaultID: defaultID, defaultLayer: defaultLayer, build: factory}
}

// OnAction binds a name used by button elements' action field.
func (b *SceneBuilder) OnAction(name string, fn func()) {
	b.actions[name] = fn
}

// ResolveActions sets a fallback for action names not bound with OnAction.
func (b *SceneBuilder) ResolveActions(fn func(name string) (func(), bool)) {
	b.resolve = fn
}

// action looks up a button action by name.
func (b *SceneBuilder) action(name string) (func(), bool) {
	if fn, ok := b.actions[name]; ok {
		return fn, true
	}
	if b.resolve != nil {
		return b.resolve(name)
	}
	return nil, false
}

// Runtime returns the runtime objects are registered with.
func (b *SceneBuilder) Runtime() *Runtime { return b.rt }

type sceneDocument struct {
	Background string      `yaml:"background"`
	Elements   []yaml.Node `yaml:"elements"`
}

type elementHeader struct {
	Type  string   `yaml:"type"`
	ID    string   `yaml:"id"`
	Layer *float64 `yaml:"layer"`
}

// BuildFile reads and builds a scene document from path.
func (b *SceneBuilder) BuildFile(path string) (map[string]SceneObject, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene %s: %w", path, err)
	}
	objs, err := b.Build(data)
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", path, err)
	}
	return objs, nil
}

// Build registers the elements of a scene document and returns them keyed
// by id. A later element with the same id replaces the earlier one in the
// map; both stay registered. Only a malformed document is an error.
func (b *SceneBuilder) Build(data []byte) (map[string]SceneObject, error) {
	var doc sceneDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	if doc.Background != "" {
		if c, err := ParseColor(doc.Background); err == nil {
			b.rt.SetBackground(c)
		} else {
			b.log.Warn("unknown scene background", zap.String("background", doc.Background))
		}
	}

	objs := make(map[string]SceneObject, len(doc.Elements))
	for i := range doc.Elements {
		node := &doc.Elements[i]
		var h elementHeader
		if err := node.Decode(&h); err != nil {
			b.log.Warn("skipping malformed scene element", zap.Int("index", i), zap.Error(err))
			continue
		}
		t, ok := b.types[h.Type]
		if !ok {
			b.log.Warn("unknown scene element type", zap.Int("index", i), zap.String("type", h.Type))
			continue
		}
		el := Element{Type: h.Type, ID: h.ID, Layer: t.defaultLayer, node: node}
		if el.ID == "" {
			el.ID = t.defaultID
		}
		if h.Layer != nil {
			el.Layer = *h.Layer
		}
		obj, err := t.build(b, el)
		if err != nil {
			b.log.Warn("skipping scene element", zap.String("type", h.Type), zap.String("id", el.ID), zap.Error(err))
			continue
		}
		b.rt.Register(obj, el.Layer)
		objs[el.ID] = obj
	}
	b.log.Info("scene built", zap.Int("elements", len(doc.Elements)), zap.Int("objects", len(objs)))
	return objs, nil
}

// BuildScene builds a scene document with a default SceneBuilder.
func (rt *Runtime) BuildScene(data []byte) (map[string]SceneObject, error) {
	return NewSceneBuilder(rt).Build(data)
}

// Color parses a color field, logging and falling back to def when the
// value is empty or unknown.
func (b *SceneBuilder) Color(value string, def Color) Color {
	if value == "" {
		return def
	}
	c, err := ParseColor(value)
	if err != nil {
		b.log.Warn("bad scene color", zap.String("color", value), zap.Error(err))
		return def
	}
	return c
}

func parseTextAlign(s string) TextAlign {
	switch strings.ToLower(s) {
	case "center":
		return TextAlignCenter
	case "right", "end":
		return TextAlignRight
	}
	return TextAlignLeft
}

func parseTextBaseline(s string) TextBaseline {
	switch strings.ToLower(s) {
	case "top", "hanging":
		return TextBaselineTop
	case "middle":
		return TextBaselineMiddle
	case "bottom", "ideographic":
		return TextBaselineBottom
	}
	return TextBaselineAlphabetic
}

// --- built-in element types ---

func buildRectangle(b *SceneBuilder, el Element) (SceneObject, error) {
	f := struct {
		X, Y   float64
		Width  float64
		Height float64
		Color  string
		VX     float64 `yaml:"vx"`
		VY     float64 `yaml:"vy"`
		Wrap   bool
		ScaleX float64 `yaml:"scaleX"`
		ScaleY float64 `yaml:"scaleY"`
	}{Width: 50, Height: 50, VX: 50, Wrap: true, ScaleX: 1, ScaleY: 1}
	if err := el.Decode(&f); err != nil {
		return nil, err
	}
	r := NewRectangle(f.X, f.Y, f.Width, f.Height, b.Color(f.Color, ColorWhite))
	r.VX, r.VY = f.VX, f.VY
	r.ScaleX, r.ScaleY = f.ScaleX, f.ScaleY
	if f.Wrap {
		r.WrapWidth = b.rt.Bounds().Width
	}
	return r, nil
}

func buildEmitter(b *SceneBuilder, el Element) (SceneObject, error) {
	def := DefaultEmitterConfig()
	f := struct {
		X, Y         float64
		Color        string
		Count        int
		Speed        float64
		Lifetime     float64
		Size         float64
		Spread       float64
		Direction    float64
		Gravity      float64
		EmissionRate float64 `yaml:"emissionRate"`
		Duration     float64
		MaxParticles int `yaml:"maxParticles"`
	}{
		Count:    def.Count,
		Speed:    def.Speed,
		Lifetime: def.Lifetime,
		Size:     def.Size,
		Spread:   def.Spread,
	}
	if err := el.Decode(&f); err != nil {
		return nil, err
	}
	return NewParticleEmitter(EmitterConfig{
		X: f.X, Y: f.Y,
		Color:        b.Color(f.Color, ColorWhite),
		Count:        f.Count,
		Speed:        f.Speed,
		Lifetime:     f.Lifetime,
		Size:         f.Size,
		Spread:       f.Spread,
		Direction:    f.Direction,
		Gravity:      f.Gravity,
		EmissionRate: f.EmissionRate,
		Duration:     f.Duration,
		MaxParticles: f.MaxParticles,
	}), nil
}

func buildButton(b *SceneBuilder, el Element) (SceneObject, error) {
	f := struct {
		X, Y      float64
		Width     float64
		Height    float64
		Text      string
		Color     string
		TextColor string `yaml:"textColor"`
		Action    string
	}{Width: 120, Height: 40}
	if err := el.Decode(&f); err != nil {
		return nil, err
	}
	btn := NewButton(f.X, f.Y, f.Width, f.Height, f.Text, nil)
	btn.Color = b.Color(f.Color, defaultButtonColor)
	btn.TextColor = b.Color(f.TextColor, defaultButtonText)
	if f.Action != "" {
		fn, ok := b.action(f.Action)
		if !ok {
			b.log.Warn("unknown button action", zap.String("id", el.ID), zap.String("action", f.Action))
		}
		btn.OnClick = fn
	}
	return btn, nil
}

func buildLabel(b *SceneBuilder, el Element) (SceneObject, error) {
	f := struct {
		Text     string
		X, Y     float64
		Color    string
		Font     string
		Align    string
		Baseline string
	}{Font: "16px Inter"}
	if err := el.Decode(&f); err != nil {
		return nil, err
	}
	l := NewLabel(f.Text, f.X, f.Y, b.Color(f.Color, ColorWhite))
	l.Font = f.Font
	l.Align = parseTextAlign(f.Align)
	l.Baseline = parseTextBaseline(f.Baseline)
	return l, nil
}

func buildPanel(b *SceneBuilder, el Element) (SceneObject, error) {
	p := &Panel{Width: 200, Height: 100}
	if err := el.Decode(p); err != nil {
		return nil, err
	}
	return p, nil
}

type sourceRect struct {
	X, Y, Width, Height float64
}

func buildImage(b *SceneBuilder, el Element) (SceneObject, error) {
	f := struct {
		Src      string
		X, Y     float64
		Width    float64
		Height   float64
		Source   sourceRect
		Rotation float64
		ScaleX   float64 `yaml:"scaleX"`
		ScaleY   float64 `yaml:"scaleY"`
	}{ScaleX: 1, ScaleY: 1}
	if err := el.Decode(&f); err != nil {
		return nil, err
	}
	if f.Src == "" {
		return nil, fmt.Errorf("image: missing src")
	}
	return NewImage(b.rt, f.Src, ImageOptions{
		X: f.X, Y: f.Y,
		Width: f.Width, Height: f.Height,
		Source:   Rect(f.Source),
		Rotation: f.Rotation,
		ScaleX:   f.ScaleX,
		ScaleY:   f.ScaleY,
	}), nil
}

func buildSprite(b *SceneBuilder, el Element) (SceneObject, error) {
	opts := DefaultSpriteOptions()
	f := struct {
		Src         string
		X, Y        float64
		FrameWidth  float64 `yaml:"frameWidth"`
		FrameHeight float64 `yaml:"frameHeight"`
		FrameCount  int     `yaml:"frameCount"`
		FrameRate   float64 `yaml:"frameRate"`
		Loop        bool
		Rotation    float64
		ScaleX      float64 `yaml:"scaleX"`
		ScaleY      float64 `yaml:"scaleY"`
	}{
		FrameCount: opts.FrameCount,
		FrameRate:  opts.FrameRate,
		Loop:       opts.Loop,
		ScaleX:     opts.ScaleX,
		ScaleY:     opts.ScaleY,
	}
	if err := el.Decode(&f); err != nil {
		return nil, err
	}
	if f.Src == "" {
		return nil, fmt.Errorf("sprite: missing src")
	}
	return NewSprite(b.rt, f.Src, SpriteOptions{
		X: f.X, Y: f.Y,
		FrameWidth:  f.FrameWidth,
		FrameHeight: f.FrameHeight,
		FrameCount:  f.FrameCount,
		FrameRate:   f.FrameRate,
		Loop:        f.Loop,
		Rotation:    f.Rotation,
		ScaleX:      f.ScaleX,
		ScaleY:      f.ScaleY,
	}), nil
}

func buildVideo(b *SceneBuilder, el Element) (SceneObject, error) {
	f := struct {
		Frames     []string
		FrameRate  float64 `yaml:"frameRate"`
		Loop       bool
		Autoplay   bool
		Soundtrack string
		X, Y       float64
		Width      float64
		Height     float64
		Grayscale  bool
		Blur       float64
	}{Loop: true}
	if err := el.Decode(&f); err != nil {
		return nil, err
	}
	if len(f.Frames) == 0 {
		return nil, fmt.Errorf("video: missing frames")
	}
	opts := FrameSequenceOptions{FrameRate: f.FrameRate, Loop: f.Loop, Autoplay: f.Autoplay}
	if f.Soundtrack != "" {
		snd, ok := b.rt.Audio().Sound(f.Soundtrack)
		if !ok {
			b.log.Warn("unknown video soundtrack", zap.String("id", el.ID), zap.String("sound", f.Soundtrack))
		}
		opts.Soundtrack = snd
	}
	return NewVideoDisplay(b.rt, NewFrameSequence(b.rt, f.Frames, opts), VideoOptions{
		X: f.X, Y: f.Y,
		Width: f.Width, Height: f.Height,
		Grayscale: f.Grayscale,
		Blur:      f.Blur,
	}), nil
}

func buildFPS(b *SceneBuilder, el Element) (SceneObject, error) {
	f := struct{ X, Y float64 }{X: 10, Y: 10}
	if err := el.Decode(&f); err != nil {
		return nil, err
	}
	return NewFPSCounter(f.X, f.Y), nil
}
