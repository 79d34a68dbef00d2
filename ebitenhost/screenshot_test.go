package ebitenhost

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"hello", "hello"},
		{"after-spawn", "after-spawn"},
		{"frame.01", "frame.01"},
		{"has spaces", "has_spaces"},
		{"path/to/thing", "path_to_thing"},
		{"back\\slash", "back_slash"},
		{"special!@#$%", "special_____"},
		{"", "unlabeled"},
		{"   ", "unlabeled"},
		{"MixedCase123", "MixedCase123"},
	}
	for _, tt := range tests {
		got := sanitizeLabel(tt.in)
		if got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestScreenshotQueue(t *testing.T) {
	s := NewScreenshots("", nil)
	if s.Dir != "screenshots" {
		t.Errorf("Dir = %q, want %q", s.Dir, "screenshots")
	}
	s.Screenshot("a")
	s.Screenshot("b")
	s.Screenshot("c")
	if s.Pending() != 3 {
		t.Fatalf("pending = %d, want 3", s.Pending())
	}
	if s.queue[0] != "a" || s.queue[1] != "b" || s.queue[2] != "c" {
		t.Errorf("queue = %v, want [a b c]", s.queue)
	}
}

func TestUnpremultiply(t *testing.T) {
	pixels := []byte{
		255, 0, 0, 255, // opaque red
		64, 0, 0, 128, // half-transparent red, premultiplied
		0, 0, 0, 0, // transparent
	}
	img := unpremultiply(pixels, 3, 1)
	tests := []struct {
		x          int
		r, g, b, a uint8
	}{
		{0, 255, 0, 0, 255},
		{1, 127, 0, 0, 128},
		{2, 0, 0, 0, 0},
	}
	for _, tt := range tests {
		c := img.NRGBAAt(tt.x, 0)
		if c.R != tt.r || c.G != tt.g || c.B != tt.b || c.A != tt.a {
			t.Errorf("pixel %d = %v, want {%d %d %d %d}", tt.x, c, tt.r, tt.g, tt.b, tt.a)
		}
	}
}

func TestWritePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shot.png")
	if err := writePNG(path, unpremultiply([]byte{1, 2, 3, 255}, 1, 1)); err != nil {
		t.Fatalf("writePNG: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 1 || img.Bounds().Dy() != 1 {
		t.Errorf("bounds = %v", img.Bounds())
	}
}
