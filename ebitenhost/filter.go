package ebitenhost

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/hajimehoshi/ebiten/v2/colorm"

	"github.com/phanxgames/electric"
)

// filterSpec is a parsed CSS filter list: a color matrix plus a blur radius
// in device pixels.
type filterSpec struct {
	color    colorm.ColorM
	hasColor bool
	blur     float64
}

// parseFilter turns a CSS filter list such as "grayscale(1) blur(4px)" into
// a filterSpec. It supports grayscale, brightness, opacity, invert and
// blur. "" and "none" give the zero spec.
func parseFilter(s string) (filterSpec, error) {
	var f filterSpec
	s = strings.TrimSpace(s)
	if s == "" || s == "none" {
		return f, nil
	}
	for s != "" {
		open := strings.IndexByte(s, '(')
		end := strings.IndexByte(s, ')')
		if open <= 0 || end < open {
			return filterSpec{}, fmt.Errorf("filter %q: malformed", s)
		}
		name := strings.TrimSpace(s[:open])
		arg := s[open+1 : end]
		s = strings.TrimSpace(s[end+1:])
		if name == "blur" {
			v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(arg), "px"), 64)
			if err != nil || v < 0 {
				return filterSpec{}, fmt.Errorf("filter blur: invalid length %q", arg)
			}
			f.blur = v
			continue
		}
		v, err := parseAmount(arg)
		if err != nil {
			return filterSpec{}, fmt.Errorf("filter %s: %w", name, err)
		}
		var step colorm.ColorM
		switch name {
		case "grayscale":
			step.ChangeHSV(0, 1-clamp01(v), 1)
		case "brightness":
			step.Scale(v, v, v, 1)
		case "opacity":
			step.Scale(1, 1, 1, clamp01(v))
		case "invert":
			v = clamp01(v)
			step.Scale(1-2*v, 1-2*v, 1-2*v, 1)
			step.Translate(v, v, v, 0)
		default:
			return filterSpec{}, fmt.Errorf("filter %s: unsupported", name)
		}
		f.color.Concat(step)
		f.hasColor = true
	}
	return f, nil
}

// maxBlurTaps bounds the samples per axis of the box blur.
const maxBlurTaps = 7

// blurOffsets returns the sample offsets of a box blur of the given radius:
// a square grid centered on the origin, at most maxBlurTaps per side.
func blurOffsets(radius float64) []electric.Vec2 {
	if radius <= 0 {
		return []electric.Vec2{{}}
	}
	half := min(int(math.Ceil(radius)), maxBlurTaps/2)
	step := radius / float64(half)
	out := make([]electric.Vec2, 0, (2*half+1)*(2*half+1))
	for j := -half; j <= half; j++ {
		for i := -half; i <= half; i++ {
			out = append(out, electric.Vec2{X: float64(i) * step, Y: float64(j) * step})
		}
	}
	return out
}

func parseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "%") {
		v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		return v / 100, err
	}
	return strconv.ParseFloat(s, 64)
}

// filterColor runs c through cm.
func filterColor(cm *colorm.ColorM, c electric.Color) electric.Color {
	if cm == nil {
		return c
	}
	in := color.NRGBA64{
		R: uint16(clamp01(c.R) * 0xffff),
		G: uint16(clamp01(c.G) * 0xffff),
		B: uint16(clamp01(c.B) * 0xffff),
		A: uint16(clamp01(c.A) * 0xffff),
	}
	r, g, b, a := cm.Apply(in).RGBA()
	if a == 0 {
		return electric.ColorTransparent
	}
	fa := float64(a)
	return electric.Color{R: float64(r) / fa, G: float64(g) / fa, B: float64(b) / fa, A: fa / 0xffff}
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
