package electric

import (
	"errors"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/phanxgames/electric/audio"
)

var (
	// ErrNoVideoSource is reported by a VideoDisplay created without a source.
	ErrNoVideoSource = errors.New("electric: no video source")
	// ErrNoFrames is reported by a FrameSequence with no frame sources.
	ErrNoFrames = errors.New("electric: video has no frames")
)

// VideoSource is a playable video stream. Ready reports whether a frame can
// be shown now; it may turn false again while the stream buffers. Err
// reports a stream that cannot be played.
type VideoSource interface {
	Ready() bool
	Err() error
	Frame() Image
	Size() (w, h int)
	Play()
	Pause()
	SetVolume(v float64)
}

// VideoOptions configures NewVideoDisplay. Zero sizes are taken from the
// stream once it is ready.
type VideoOptions struct {
	X, Y          float64
	Width, Height float64
	Grayscale     bool
	Blur          float64 // px
}

// VideoDisplay draws a VideoSource with optional grayscale and blur
// filters. It starts Loading and becomes Ready the first time the source
// reports a frame, or Failed when the source reports an error.
type VideoDisplay struct {
	X, Y          float64
	Width, Height float64
	Grayscale     bool
	Blur          float64

	src    VideoSource
	state  AssetState
	err    error
	volume float64
	rt     *Runtime
}

// NewVideoDisplay wraps src. The display is not registered.
func NewVideoDisplay(rt *Runtime, src VideoSource, opts VideoOptions) *VideoDisplay {
	v := &VideoDisplay{
		X: opts.X, Y: opts.Y,
		Width: opts.Width, Height: opts.Height,
		Grayscale: opts.Grayscale,
		Blur:      max(0, opts.Blur),
		src:       src,
		volume:    1,
		rt:        rt,
	}
	v.poll()
	return v
}

func (v *VideoDisplay) poll() {
	if v.state != AssetLoading {
		return
	}
	var err error
	switch {
	case v.src == nil:
		err = ErrNoVideoSource
	default:
		err = v.src.Err()
	}
	if err != nil {
		v.state, v.err = AssetFailed, err
		v.rt.log.Warn("video failed", zap.Error(err))
		return
	}
	if !v.src.Ready() {
		return
	}
	w, h := v.src.Size()
	if v.Width == 0 {
		v.Width = float64(w)
	}
	if v.Height == 0 {
		v.Height = float64(h)
	}
	v.state = AssetReady
	v.rt.log.Info("video ready", zap.Int("width", w), zap.Int("height", h))
}

// State returns the load state.
func (v *VideoDisplay) State() AssetState {
	v.poll()
	return v.state
}

// Err returns the error of a failed display.
func (v *VideoDisplay) Err() error { return v.err }

// Source returns the wrapped stream.
func (v *VideoDisplay) Source() VideoSource { return v.src }

// Update advances sources that are driven by the frame clock.
func (v *VideoDisplay) Update(dt float64) {
	if u, ok := v.src.(Updatable); ok {
		u.Update(dt)
	}
	v.poll()
}

// Filter returns the CSS filter applied to the frames.
func (v *VideoDisplay) Filter() string {
	var parts []string
	if v.Grayscale {
		parts = append(parts, "grayscale(100%)")
	}
	if v.Blur > 0 {
		parts = append(parts, "blur("+strconv.FormatFloat(v.Blur, 'g', -1, 64)+"px)")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, " ")
}

// Draw shows the current frame. Nothing is drawn while loading or
// buffering; a failed display draws a placeholder.
func (v *VideoDisplay) Draw(s Surface) {
	switch v.State() {
	case AssetFailed:
		drawPlaceholder(s, v.Bounds(), "Video unavailable")
		return
	case AssetLoading:
		return
	}
	if !v.src.Ready() {
		return
	}
	frame := v.src.Frame()
	if frame == nil {
		return
	}
	w, h := v.src.Size()
	s.Save()
	s.SetFilter(v.Filter())
	s.DrawImage(frame, Rect{0, 0, float64(w), float64(h)}, v.Bounds())
	s.Restore()
}

// Play starts the stream.
func (v *VideoDisplay) Play() {
	if v.src != nil {
		v.src.Play()
	}
}

// Pause pauses the stream.
func (v *VideoDisplay) Pause() {
	if v.src != nil {
		v.src.Pause()
	}
}

// SetVolume sets the stream volume, clamped to [0, 1].
func (v *VideoDisplay) SetVolume(vol float64) {
	v.volume = min(1, max(0, vol))
	if v.src != nil {
		v.src.SetVolume(v.volume)
	}
}

// Volume returns the last volume set.
func (v *VideoDisplay) Volume() float64 { return v.volume }

// ToggleGrayscale flips the grayscale filter and redraws a stopped scene.
func (v *VideoDisplay) ToggleGrayscale() {
	v.Grayscale = !v.Grayscale
	v.redraw()
}

// SetBlur sets the blur radius in pixels and redraws a stopped scene.
func (v *VideoDisplay) SetBlur(px float64) {
	v.Blur = max(0, px)
	v.redraw()
}

func (v *VideoDisplay) redraw() {
	if !v.rt.Running() {
		v.rt.Redraw()
	}
}

// Bounds returns the display rectangle.
func (v *VideoDisplay) Bounds() Rect { return Rect{v.X, v.Y, v.Width, v.Height} }

// Position returns the top-left corner.
func (v *VideoDisplay) Position() Vec2 { return Vec2{v.X, v.Y} }

// SetPosition moves the top-left corner.
func (v *VideoDisplay) SetPosition(x, y float64) { v.X, v.Y = x, y }

// FrameSequenceOptions configures NewFrameSequence.
type FrameSequenceOptions struct {
	FrameRate  float64 // frames per second; 0 means 24
	Loop       bool
	Autoplay   bool
	Soundtrack *audio.Sound // optional; follows Play, Pause and SetVolume
}

// FrameSequence is a VideoSource that plays a list of images at a fixed
// rate. Frames load through the runtime's ImageLoader and the sequence is
// ready once every frame has loaded.
type FrameSequence struct {
	frames  []Image
	loaded  int
	err     error
	rate    float64
	loop    bool
	playing bool
	timer   float64
	index   int
	track   *audio.Sound
}

// NewFrameSequence requests every frame in srcs.
func NewFrameSequence(rt *Runtime, srcs []string, opts FrameSequenceOptions) *FrameSequence {
	if opts.FrameRate <= 0 {
		opts.FrameRate = 24
	}
	fs := &FrameSequence{
		frames: make([]Image, len(srcs)),
		rate:   opts.FrameRate,
		loop:   opts.Loop,
		track:  opts.Soundtrack,
	}
	if len(srcs) == 0 {
		fs.err = ErrNoFrames
		return fs
	}
	for i, src := range srcs {
		rt.loadImage(src, "video frame", func(img Image, err error) {
			if err != nil {
				if fs.err == nil {
					fs.err = err
				}
				return
			}
			fs.frames[i] = img
			fs.loaded++
		})
	}
	if opts.Autoplay {
		fs.Play()
	}
	return fs
}

// Ready reports whether every frame has loaded.
func (fs *FrameSequence) Ready() bool { return fs.err == nil && fs.loaded == len(fs.frames) }

// Err returns the first frame load error.
func (fs *FrameSequence) Err() error { return fs.err }

// Frame returns the current frame, or nil before the sequence is ready.
func (fs *FrameSequence) Frame() Image {
	if !fs.Ready() {
		return nil
	}
	return fs.frames[fs.index]
}

// Index returns the current frame index.
func (fs *FrameSequence) Index() int { return fs.index }

// Size returns the size of the first frame.
func (fs *FrameSequence) Size() (int, int) {
	if !fs.Ready() {
		return 0, 0
	}
	b := fs.frames[0].Bounds()
	return b.Dx(), b.Dy()
}

// Playing reports whether the sequence is advancing.
func (fs *FrameSequence) Playing() bool { return fs.playing }

// Play resumes playback. A finished, non-looping sequence restarts.
func (fs *FrameSequence) Play() {
	if !fs.loop && fs.index == len(fs.frames)-1 && fs.index > 0 {
		fs.index, fs.timer = 0, 0
	}
	fs.playing = true
	if fs.track != nil {
		fs.track.Play()
	}
}

// Pause stops advancing and pauses the soundtrack.
func (fs *FrameSequence) Pause() {
	fs.playing = false
	if fs.track != nil {
		fs.track.Pause()
	}
}

// SetVolume sets the soundtrack volume.
func (fs *FrameSequence) SetVolume(v float64) {
	if fs.track != nil {
		fs.track.SetVolume(v)
	}
}

// Update advances the current frame while playing and ready. A
// non-looping sequence pauses on its last frame.
func (fs *FrameSequence) Update(dt float64) {
	if !fs.playing || !fs.Ready() {
		return
	}
	frameDuration := 1 / fs.rate
	fs.timer += dt
	for fs.timer >= frameDuration {
		fs.timer -= frameDuration
		if fs.index+1 < len(fs.frames) {
			fs.index++
			continue
		}
		if fs.loop {
			fs.index = 0
			continue
		}
		fs.timer = 0
		fs.Pause()
		return
	}
}
