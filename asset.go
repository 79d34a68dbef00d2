package electric

import (
	"errors"
	"math"

	"go.uber.org/zap"
)

// AssetState is the load state of an image-backed object.
type AssetState uint8

const (
	AssetLoading AssetState = iota
	AssetReady
	AssetFailed
)

func (s AssetState) String() string {
	switch s {
	case AssetReady:
		return "ready"
	case AssetFailed:
		return "failed"
	}
	return "loading"
}

// ErrNoImageLoader is reported to assets created on a runtime without one.
var ErrNoImageLoader = errors.New("electric: no image loader")

// ImageLoader fetches images by source path or URL. done must be called
// exactly once, on the frame goroutine. Hosts that decode asynchronously
// queue the completion and deliver it between frames.
type ImageLoader interface {
	LoadImage(src string, done func(Image, error))
}

// ImageLoaderFunc adapts a function to ImageLoader.
type ImageLoaderFunc func(src string, done func(Image, error))

// LoadImage calls f(src, done).
func (f ImageLoaderFunc) LoadImage(src string, done func(Image, error)) { f(src, done) }

var (
	placeholderFill = MustParseColor("#cccccc")
	placeholderText = MustParseColor("#333333")
)

// placeholderSize is used for images whose size is unknown until loaded.
const placeholderSize = 100

// Zero sizes fall back to placeholderSize so the box stays visible.
func drawPlaceholder(s Surface, r Rect, caption string) {
	if r.Width == 0 {
		r.Width = placeholderSize
	}
	if r.Height == 0 {
		r.Height = placeholderSize
	}
	s.SetFill(placeholderFill)
	s.FillRect(r.X, r.Y, r.Width, r.Height)
	s.SetFill(placeholderText)
	s.SetFont("12px Inter")
	s.SetTextAlign(TextAlignCenter)
	s.SetTextBaseline(TextBaselineMiddle)
	s.FillText(caption, r.X+r.Width/2, r.Y+r.Height/2)
}

// transformAbout translates to the center of r, rotates and scales, so that
// drawing at (-w/2, -h/2) lands on r.
func transformAbout(s Surface, r Rect, rotation, sx, sy float64) {
	s.Translate(r.X+r.Width/2, r.Y+r.Height/2)
	if rotation != 0 {
		s.Rotate(rotation)
	}
	if sx != 1 || sy != 1 {
		s.Scale(sx, sy)
	}
}

// ImageOptions configures NewImage. Zero sizes are filled from the image
// once it has loaded.
type ImageOptions struct {
	X, Y          float64
	Width, Height float64
	Source        Rect
	Rotation      float64
	ScaleX        float64
	ScaleY        float64
}

// ImageObject draws a region of a loaded image, rotated and scaled about
// its center. Until the image is ready it draws a grey placeholder.
type ImageObject struct {
	X, Y          float64
	Width, Height float64
	Source        Rect
	Rotation      float64
	ScaleX        float64
	ScaleY        float64

	src   string
	state AssetState
	img   Image
	err   error
}

// NewImage creates an image object and requests src from the runtime's
// loader. The object is not registered.
func NewImage(rt *Runtime, src string, opts ImageOptions) *ImageObject {
	o := &ImageObject{
		X: opts.X, Y: opts.Y,
		Width: opts.Width, Height: opts.Height,
		Source:   opts.Source,
		Rotation: opts.Rotation,
		ScaleX:   nonZero(opts.ScaleX),
		ScaleY:   nonZero(opts.ScaleY),
		src:      src,
	}
	rt.loadImage(src, "image", func(img Image, err error) {
		if err != nil {
			o.state, o.err = AssetFailed, err
			return
		}
		o.img = img
		b := img.Bounds()
		if o.Source.Width == 0 {
			o.Source.Width = float64(b.Dx())
		}
		if o.Source.Height == 0 {
			o.Source.Height = float64(b.Dy())
		}
		if o.Width == 0 {
			o.Width = o.Source.Width
		}
		if o.Height == 0 {
			o.Height = o.Source.Height
		}
		o.state = AssetReady
	})
	return o
}

// State returns the load state.
func (o *ImageObject) State() AssetState { return o.state }

// Err returns the load error of a failed image.
func (o *ImageObject) Err() error { return o.err }

// Src returns the requested source.
func (o *ImageObject) Src() string { return o.src }

// Draw renders the image or its placeholder.
func (o *ImageObject) Draw(s Surface) {
	if o.state != AssetReady {
		drawPlaceholder(s, o.Bounds(), "Loading...")
		return
	}
	transformAbout(s, o.Bounds(), o.Rotation, o.ScaleX, o.ScaleY)
	s.DrawImage(o.img, o.Source, Rect{-o.Width / 2, -o.Height / 2, o.Width, o.Height})
}

// Bounds returns the unscaled display rectangle.
func (o *ImageObject) Bounds() Rect { return Rect{o.X, o.Y, o.Width, o.Height} }

// Scale returns the display scale.
func (o *ImageObject) Scale() (float64, float64) { return o.ScaleX, o.ScaleY }

// Position returns the top-left corner.
func (o *ImageObject) Position() Vec2 { return Vec2{o.X, o.Y} }

// SetPosition moves the top-left corner.
func (o *ImageObject) SetPosition(x, y float64) { o.X, o.Y = x, y }

// SpriteOptions configures NewSprite.
type SpriteOptions struct {
	X, Y        float64
	FrameWidth  float64
	FrameHeight float64
	FrameCount  int
	FrameRate   float64 // frames per second; 0 means 10
	Loop        bool
	Rotation    float64
	ScaleX      float64
	ScaleY      float64
}

// DefaultSpriteOptions returns a looping single-frame sprite at 10 fps.
func DefaultSpriteOptions() SpriteOptions {
	return SpriteOptions{FrameCount: 1, FrameRate: 10, Loop: true, ScaleX: 1, ScaleY: 1}
}

// Sprite animates frames laid out left to right, top to bottom on a sheet.
type Sprite struct {
	X, Y        float64
	FrameWidth  float64
	FrameHeight float64
	FrameCount  int
	FrameRate   float64
	Loop        bool
	Rotation    float64
	ScaleX      float64
	ScaleY      float64

	src     string
	state   AssetState
	img     Image
	err     error
	frame   int
	timer   float64
	playing bool
}

// NewSprite creates a playing sprite and requests the sheet from the
// runtime's loader. The sprite is not registered.
func NewSprite(rt *Runtime, src string, opts SpriteOptions) *Sprite {
	if opts.FrameRate <= 0 {
		opts.FrameRate = 10
	}
	if opts.FrameCount <= 0 {
		opts.FrameCount = 1
	}
	sp := &Sprite{
		X: opts.X, Y: opts.Y,
		FrameWidth:  opts.FrameWidth,
		FrameHeight: opts.FrameHeight,
		FrameCount:  opts.FrameCount,
		FrameRate:   opts.FrameRate,
		Loop:        opts.Loop,
		Rotation:    opts.Rotation,
		ScaleX:      nonZero(opts.ScaleX),
		ScaleY:      nonZero(opts.ScaleY),
		src:         src,
		playing:     true,
	}
	rt.loadImage(src, "sprite sheet", func(img Image, err error) {
		if err != nil {
			sp.state, sp.err = AssetFailed, err
			return
		}
		sp.img = img
		sp.state = AssetReady
	})
	return sp
}

// State returns the load state.
func (sp *Sprite) State() AssetState { return sp.state }

// Err returns the load error of a failed sprite.
func (sp *Sprite) Err() error { return sp.err }

// Frame returns the current frame index.
func (sp *Sprite) Frame() int { return sp.frame }

// Playing reports whether the animation is advancing.
func (sp *Sprite) Playing() bool { return sp.playing }

// Play resumes the animation.
func (sp *Sprite) Play() { sp.playing = true }

// Pause freezes the animation on the current frame.
func (sp *Sprite) Pause() { sp.playing = false }

// GoToFrame jumps to frame n and restarts its timer. Out-of-range frames
// are ignored.
func (sp *Sprite) GoToFrame(n int) {
	if n < 0 || n >= sp.FrameCount {
		return
	}
	sp.frame = n
	sp.timer = 0
}

// Update advances at most one frame per call, and only once the sheet is
// ready. A non-looping sprite stops on its last frame.
func (sp *Sprite) Update(dt float64) {
	if !sp.playing || sp.state != AssetReady {
		return
	}
	frameDuration := 1 / sp.FrameRate
	sp.timer += dt
	if sp.timer < frameDuration {
		return
	}
	sp.frame++
	if sp.frame >= sp.FrameCount {
		if sp.Loop {
			sp.frame = 0
		} else {
			sp.playing = false
			sp.frame = sp.FrameCount - 1
		}
	}
	sp.timer -= frameDuration
}

// SourceRect returns the sheet region of the current frame.
func (sp *Sprite) SourceRect() Rect {
	cols := 1
	if sp.img != nil && sp.FrameWidth > 0 {
		cols = max(1, int(math.Floor(float64(sp.img.Bounds().Dx())/sp.FrameWidth)))
	}
	return Rect{
		X:      float64(sp.frame%cols) * sp.FrameWidth,
		Y:      float64(sp.frame/cols) * sp.FrameHeight,
		Width:  sp.FrameWidth,
		Height: sp.FrameHeight,
	}
}

// Draw renders the current frame or a placeholder.
func (sp *Sprite) Draw(s Surface) {
	if sp.state != AssetReady {
		drawPlaceholder(s, sp.Bounds(), "Loading Sprite...")
		return
	}
	transformAbout(s, sp.Bounds(), sp.Rotation, sp.ScaleX, sp.ScaleY)
	s.DrawImage(sp.img, sp.SourceRect(), Rect{-sp.FrameWidth / 2, -sp.FrameHeight / 2, sp.FrameWidth, sp.FrameHeight})
}

// Bounds returns the unscaled frame rectangle.
func (sp *Sprite) Bounds() Rect { return Rect{sp.X, sp.Y, sp.FrameWidth, sp.FrameHeight} }

// Scale returns the display scale.
func (sp *Sprite) Scale() (float64, float64) { return sp.ScaleX, sp.ScaleY }

// Position returns the top-left corner.
func (sp *Sprite) Position() Vec2 { return Vec2{sp.X, sp.Y} }

// SetPosition moves the top-left corner.
func (sp *Sprite) SetPosition(x, y float64) { sp.X, sp.Y = x, y }

// loadImage requests src and wraps done with logging and a redraw, so a
// finished load shows up even while the loop is stopped.
func (rt *Runtime) loadImage(src, kind string, done func(Image, error)) {
	finish := func(img Image, err error) {
		if err == nil && img == nil {
			err = errors.New("loader returned no image")
		}
		done(img, err)
		if err != nil {
			rt.log.Warn("asset load failed", zap.String("kind", kind), zap.String("src", src), zap.Error(err))
		} else {
			rt.log.Info("asset loaded", zap.String("kind", kind), zap.String("src", src))
		}
		if !rt.Running() {
			rt.Redraw()
		}
	}
	if rt.loader == nil {
		finish(nil, ErrNoImageLoader)
		return
	}
	rt.loader.LoadImage(src, finish)
}
