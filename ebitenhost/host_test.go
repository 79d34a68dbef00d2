package ebitenhost

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/electric"
)

func TestKeyName(t *testing.T) {
	tests := []struct {
		key  ebiten.Key
		want string
	}{
		{ebiten.KeyA, "a"},
		{ebiten.KeyZ, "z"},
		{ebiten.KeyDigit0, "0"},
		{ebiten.KeyDigit7, "7"},
		{ebiten.KeySpace, " "},
		{ebiten.KeyShiftLeft, "Shift"},
		{ebiten.KeyShiftRight, "Shift"},
		{ebiten.KeyControlLeft, "Control"},
		{ebiten.KeyAltRight, "Alt"},
		{ebiten.KeyMetaLeft, "Meta"},
		{ebiten.KeyArrowLeft, "ArrowLeft"},
		{ebiten.KeyEnter, "Enter"},
		{ebiten.KeyEscape, "Escape"},
	}
	for _, tt := range tests {
		if got := keyName(tt.key); got != tt.want {
			t.Errorf("keyName(%v) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestParseFont(t *testing.T) {
	tests := []struct {
		in     string
		size   float64
		bold   bool
		family string
	}{
		{"", defaultFontSize, false, ""},
		{"16px sans-serif", 16, false, "sans-serif"},
		{"bold 24px Arial", 24, true, "Arial"},
		{"italic 700 12px 'Fira Code'", 12, true, "Fira Code"},
		{"400 18px serif", 18, false, "serif"},
		{"garbage", defaultFontSize, false, ""},
	}
	for _, tt := range tests {
		got := parseFont(tt.in)
		if got.size != tt.size || got.bold != tt.bold || got.family != tt.family {
			t.Errorf("parseFont(%q) = %+v, want size=%v bold=%v family=%q",
				tt.in, got, tt.size, tt.bold, tt.family)
		}
	}
}

func TestBitmapFaceScale(t *testing.T) {
	_, spec := NewFonts().Face("26px sans-serif")
	if spec.scale != 2 {
		t.Errorf("scale = %v, want 2", spec.scale)
	}
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-3 }

func TestParseFilter(t *testing.T) {
	red := electric.Color{R: 1, A: 1}
	white := electric.Color{R: 1, G: 1, B: 1, A: 1}
	black := electric.Color{A: 1}

	tests := []struct {
		filter string
		in     electric.Color
		check  func(electric.Color) bool
	}{
		{"grayscale(1)", red, func(c electric.Color) bool {
			return near(c.R, c.G) && near(c.G, c.B) && c.R > 0 && c.R < 1
		}},
		{"grayscale(100%)", red, func(c electric.Color) bool { return near(c.R, c.B) }},
		{"brightness(50%)", white, func(c electric.Color) bool { return near(c.R, 0.5) && near(c.A, 1) }},
		{"opacity(0.25)", white, func(c electric.Color) bool { return near(c.A, 0.25) && near(c.R, 1) }},
		{"invert(1)", black, func(c electric.Color) bool { return near(c.R, 1) && near(c.G, 1) }},
		{"brightness(2) invert(1)", black, func(c electric.Color) bool { return near(c.R, 1) }},
	}
	for _, tt := range tests {
		f, err := parseFilter(tt.filter)
		if err != nil || !f.hasColor {
			t.Errorf("parseFilter(%q) = color %v, err %v", tt.filter, f.hasColor, err)
			continue
		}
		if got := filterColor(&f.color, tt.in); !tt.check(got) {
			t.Errorf("%s on %+v = %+v", tt.filter, tt.in, got)
		}
	}
}

func TestParseFilterNone(t *testing.T) {
	for _, s := range []string{"", "none", "  "} {
		if f, err := parseFilter(s); f.hasColor || f.blur != 0 || err != nil {
			t.Errorf("parseFilter(%q) = %+v, err %v", s, f, err)
		}
	}
}

func TestParseFilterErrors(t *testing.T) {
	for _, s := range []string{"sepia(1)", "grayscale(", "brightness(abc)", "(1)", "blur(-2px)", "blur(wide)"} {
		if _, err := parseFilter(s); err == nil {
			t.Errorf("parseFilter(%q): expected error", s)
		}
	}
}

func TestParseFilterBlur(t *testing.T) {
	tests := []struct {
		filter    string
		blur      float64
		withColor bool
	}{
		{"blur(4px)", 4, false},
		{"blur(2.5)", 2.5, false},
		{"blur(0px)", 0, false},
		{"grayscale(100%) blur(3px)", 3, true},
		{"blur(1px) invert(1)", 1, true},
	}
	for _, tt := range tests {
		f, err := parseFilter(tt.filter)
		if err != nil {
			t.Errorf("parseFilter(%q): %v", tt.filter, err)
			continue
		}
		if f.blur != tt.blur || f.hasColor != tt.withColor {
			t.Errorf("parseFilter(%q) = blur %v color %v, want %v %v", tt.filter, f.blur, f.hasColor, tt.blur, tt.withColor)
		}
	}
}

func TestBlurOffsets(t *testing.T) {
	if got := blurOffsets(0); len(got) != 1 || got[0] != (electric.Vec2{}) {
		t.Errorf("blurOffsets(0) = %v, want the origin only", got)
	}
	tests := []struct {
		radius   float64
		taps     int
		farthest float64
	}{
		{1, 9, 1},
		{2, 25, 2},
		{3, 49, 3},
		{12, 49, 12},
	}
	for _, tt := range tests {
		got := blurOffsets(tt.radius)
		if len(got) != tt.taps {
			t.Errorf("blurOffsets(%v) has %d taps, want %d", tt.radius, len(got), tt.taps)
			continue
		}
		first, last := got[0], got[len(got)-1]
		if !near(first.X, -tt.farthest) || !near(last.Y, tt.farthest) {
			t.Errorf("blurOffsets(%v) spans %v..%v, want ±%v", tt.radius, first, last, tt.farthest)
		}
	}
}

func TestFilterColorNil(t *testing.T) {
	c := electric.Color{R: 0.2, G: 0.4, B: 0.6, A: 0.8}
	if got := filterColor(nil, c); got != c {
		t.Errorf("filterColor(nil) = %+v", got)
	}
}

func TestArcSweep(t *testing.T) {
	const tau = 2 * math.Pi
	tests := []struct {
		start, end float64
		ccw        bool
		want       float64
	}{
		{0, math.Pi, false, math.Pi},
		{0, tau, false, tau},
		{0, 3 * tau, false, tau},
		{math.Pi, 0, false, math.Pi},
		{0, math.Pi / 2, true, -3 * math.Pi / 2},
		{math.Pi, 0, true, -math.Pi},
		{0, -tau, true, -tau},
		{1, 1, false, 0},
	}
	for _, tt := range tests {
		if got := arcSweep(tt.start, tt.end, tt.ccw); !near(got, tt.want) {
			t.Errorf("arcSweep(%v, %v, %v) = %v, want %v", tt.start, tt.end, tt.ccw, got, tt.want)
		}
	}
}

func TestArcSegments(t *testing.T) {
	if n := arcSegments(0.1, 0.01); n != 4 {
		t.Errorf("tiny arc segments = %d, want 4", n)
	}
	if n := arcSegments(1e6, 2*math.Pi); n != 256 {
		t.Errorf("huge arc segments = %d, want 256", n)
	}
	if small, big := arcSegments(10, math.Pi), arcSegments(100, math.Pi); big <= small {
		t.Errorf("segments should grow with radius: %d <= %d", big, small)
	}
}

func TestBufferSize(t *testing.T) {
	tests := []struct {
		logical int
		dpr     float64
		want    int
	}{
		{800, 1, 800},
		{800, 2, 1600},
		{101, 1.5, 152},
		{0, 2, 1},
	}
	for _, tt := range tests {
		if got := bufferSize(tt.logical, tt.dpr); got != tt.want {
			t.Errorf("bufferSize(%d, %v) = %d, want %d", tt.logical, tt.dpr, got, tt.want)
		}
	}
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestLoaderDrain(t *testing.T) {
	data := pngBytes(t, 2, 3)
	src := func(name string) ([]byte, error) {
		if name == "hero.png" {
			return data, nil
		}
		return nil, os.ErrNotExist
	}
	l := NewLoader(src, nil)

	var got electric.Image
	var gotErr error
	l.LoadImage("hero.png", func(img electric.Image, err error) { got = img })
	l.LoadImage("missing.png", func(img electric.Image, err error) { gotErr = err })

	l.Wait()
	if got != nil {
		t.Fatal("completion ran before Drain")
	}
	if n := l.Drain(); n != 2 {
		t.Fatalf("Drain() = %d, want 2", n)
	}
	if got == nil {
		t.Fatal("image not delivered")
	}
	if b := got.Bounds(); b.Dx() != 2 || b.Dy() != 3 {
		t.Errorf("bounds = %v, want 2x3", b)
	}
	if !errors.Is(gotErr, os.ErrNotExist) {
		t.Errorf("missing err = %v, want ErrNotExist", gotErr)
	}
	if n := l.Drain(); n != 0 {
		t.Errorf("second Drain() = %d, want 0", n)
	}
}

func TestLoaderDecodeError(t *testing.T) {
	l := NewLoader(func(string) ([]byte, error) { return []byte("not an image"), nil }, nil)
	var gotErr error
	l.LoadImage("bad.png", func(_ electric.Image, err error) { gotErr = err })
	l.Wait()
	l.Drain()
	if gotErr == nil {
		t.Error("expected decode error")
	}
}

func TestDirAndFallbackSource(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "img"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "img", "a.txt"), []byte("disk"), 0o644); err != nil {
		t.Fatal(err)
	}
	mem := func(name string) ([]byte, error) {
		if name == "b.txt" {
			return []byte("memory"), nil
		}
		return nil, os.ErrNotExist
	}
	src := FallbackSource(DirSource(dir), mem)

	if data, err := src("img/a.txt"); err != nil || string(data) != "disk" {
		t.Errorf("img/a.txt = %q, %v", data, err)
	}
	if data, err := src("b.txt"); err != nil || string(data) != "memory" {
		t.Errorf("b.txt = %q, %v", data, err)
	}
	if _, err := src("c.txt"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("c.txt err = %v, want ErrNotExist", err)
	}
	if _, err := FallbackSource()("x"); err == nil {
		t.Error("empty fallback should fail")
	}
}
