package ebitenhost

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"
)

// bitmapFontSize is the pixel height of the built-in fallback face.
const bitmapFontSize = 13

// defaultFontSize matches the canvas default of "10px sans-serif".
const defaultFontSize = 10

// Fonts resolves CSS font shorthands to text/v2 faces. Without a loaded
// TrueType source every family maps to a scaled bitmap face.
type Fonts struct {
	source   *text.GoTextFaceSource
	faces    map[float64]*text.GoTextFace
	fallback text.Face
}

// NewFonts returns a resolver that only has the built-in bitmap face.
func NewFonts() *Fonts {
	return &Fonts{
		faces:    make(map[float64]*text.GoTextFace),
		fallback: text.NewGoXFace(basicfont.Face7x13),
	}
}

// LoadFonts parses TTF/OTF data. Every size is served from this source.
func LoadFonts(ttfData []byte) (*Fonts, error) {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(ttfData))
	if err != nil {
		return nil, fmt.Errorf("ebitenhost: failed to parse TTF data: %w", err)
	}
	f := NewFonts()
	f.source = source
	return f, nil
}

// LoadFontFile reads and parses a font file. An empty path yields the
// bitmap-only resolver.
func LoadFontFile(path string) (*Fonts, error) {
	if path == "" {
		return NewFonts(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ebitenhost: read font %s: %w", path, err)
	}
	return LoadFonts(data)
}

// Face returns the face for a font shorthand and the scale to draw it at.
func (f *Fonts) Face(font string) (text.Face, fontSpec) {
	spec := parseFont(font)
	if f.source == nil {
		spec.scale = spec.size / bitmapFontSize
		return f.fallback, spec
	}
	face, ok := f.faces[spec.size]
	if !ok {
		face = &text.GoTextFace{Source: f.source, Size: spec.size}
		f.faces[spec.size] = face
	}
	spec.scale = 1
	return face, spec
}

type fontSpec struct {
	size   float64
	bold   bool
	family string
	scale  float64
}

// parseFont reads the parts of a CSS font shorthand that matter here:
// "[style] [weight] <size>px <family>". Unknown tokens are ignored.
func parseFont(s string) fontSpec {
	spec := fontSpec{size: defaultFontSize}
	fields := strings.Fields(s)
	for i, tok := range fields {
		lower := strings.ToLower(tok)
		switch {
		case lower == "bold" || lower == "bolder":
			spec.bold = true
		case strings.HasSuffix(lower, "px"):
			if v, err := strconv.ParseFloat(strings.TrimSuffix(lower, "px"), 64); err == nil && v > 0 {
				spec.size = v
				spec.family = strings.Trim(strings.Join(fields[i+1:], " "), `"'`)
				return spec
			}
		default:
			if w, err := strconv.Atoi(lower); err == nil && w >= 600 {
				spec.bold = true
			}
		}
	}
	return spec
}
