package ebitenhost

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/colorm"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"go.uber.org/zap"

	"github.com/phanxgames/electric"
)

var (
	whiteImage    = ebiten.NewImage(3, 3)
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
)

func init() {
	whiteImage.Fill(color.White)
}

type drawState struct {
	transform electric.Affine
	fill      electric.Paint
	stroke    electric.Paint
	lineWidth float64
	alpha     float64
	filter    *colorm.ColorM
	blur      float64
	font      string
	align     electric.TextAlign
	baseline  electric.TextBaseline
}

type subpath struct {
	pts    []electric.Vec2 // device space
	closed bool
}

// Surface implements electric.Surface on an ebiten.Image. Paths are
// flattened to device space as they are built and tessellated with the
// vector package on Fill and Stroke.
type Surface struct {
	dst   *ebiten.Image
	fonts *Fonts
	log   *zap.Logger

	state drawState
	stack []drawState
	path  []subpath

	images map[image.Image]*ebiten.Image
	vs     []ebiten.Vertex
	is     []uint16
}

// NewSurface returns a surface drawing into dst. A nil fonts uses the
// built-in bitmap face.
func NewSurface(dst *ebiten.Image, fonts *Fonts, log *zap.Logger) *Surface {
	if fonts == nil {
		fonts = NewFonts()
	}
	if log == nil {
		log = zap.NewNop()
	}
	s := &Surface{dst: dst, fonts: fonts, log: log, images: make(map[image.Image]*ebiten.Image)}
	s.state = defaultDrawState()
	return s
}

func defaultDrawState() drawState {
	return drawState{
		transform: electric.Identity,
		fill:      electric.ColorBlack,
		stroke:    electric.ColorBlack,
		lineWidth: 1,
		alpha:     1,
		font:      "10px sans-serif",
	}
}

// Target returns the image drawn into.
func (s *Surface) Target() *ebiten.Image { return s.dst }

// SetTarget swaps the image drawn into and resets the state, as resizing a
// canvas does.
func (s *Surface) SetTarget(dst *ebiten.Image) {
	s.dst = dst
	s.state = defaultDrawState()
	s.stack = s.stack[:0]
	s.path = s.path[:0]
}

func (s *Surface) Save() { s.stack = append(s.stack, s.state) }

func (s *Surface) Restore() {
	if len(s.stack) == 0 {
		return
	}
	s.state = s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
}

func (s *Surface) Translate(x, y float64) { s.state.transform = s.state.transform.Translate(x, y) }
func (s *Surface) Scale(x, y float64)     { s.state.transform = s.state.transform.Scale(x, y) }
func (s *Surface) Rotate(angle float64)   { s.state.transform = s.state.transform.Rotate(angle) }

func (s *Surface) SetFill(p electric.Paint)   { s.state.fill = p }
func (s *Surface) SetStroke(p electric.Paint) { s.state.stroke = p }
func (s *Surface) SetLineWidth(w float64)     { s.state.lineWidth = w }
func (s *Surface) SetGlobalAlpha(a float64)   { s.state.alpha = clamp01(a) }

// SetFilter installs a CSS filter. Unsupported filters are logged and
// ignored, as a canvas ignores invalid assignments. Blur applies to images
// only.
func (s *Surface) SetFilter(filter string) {
	f, err := parseFilter(filter)
	if err != nil {
		s.log.Warn("ignoring filter", zap.String("filter", filter), zap.Error(err))
		return
	}
	s.state.filter = nil
	if f.hasColor {
		s.state.filter = &f.color
	}
	s.state.blur = f.blur
}

// --- paths ---

func (s *Surface) BeginPath() { s.path = s.path[:0] }

func (s *Surface) ClosePath() {
	if n := len(s.path); n > 0 {
		s.path[n-1].closed = true
		start := s.path[n-1].pts[0]
		s.path = append(s.path, subpath{pts: []electric.Vec2{start}})
	}
}

func (s *Surface) MoveTo(x, y float64) {
	dx, dy := s.state.transform.Apply(x, y)
	s.path = append(s.path, subpath{pts: []electric.Vec2{{X: dx, Y: dy}}})
}

func (s *Surface) LineTo(x, y float64) {
	dx, dy := s.state.transform.Apply(x, y)
	if len(s.path) == 0 {
		s.path = append(s.path, subpath{})
	}
	last := &s.path[len(s.path)-1]
	last.pts = append(last.pts, electric.Vec2{X: dx, Y: dy})
}

func (s *Surface) Rect(x, y, w, h float64) {
	s.MoveTo(x, y)
	s.LineTo(x+w, y)
	s.LineTo(x+w, y+h)
	s.LineTo(x, y+h)
	s.ClosePath()
}

func (s *Surface) Arc(x, y, radius, start, end float64, ccw bool) {
	s.Ellipse(x, y, radius, radius, 0, start, end, ccw)
}

func (s *Surface) Ellipse(x, y, rx, ry, rotation, start, end float64, ccw bool) {
	if rx < 0 || ry < 0 {
		return
	}
	sweep := arcSweep(start, end, ccw)
	n := arcSegments(math.Max(rx, ry)*s.state.transform.ScaleFactor(), sweep)
	sinR, cosR := math.Sincos(rotation)
	for i := 0; i <= n; i++ {
		a := start + sweep*float64(i)/float64(n)
		px, py := rx*math.Cos(a), ry*math.Sin(a)
		ux, uy := x+px*cosR-py*sinR, y+px*sinR+py*cosR
		if i == 0 && len(s.path) == 0 {
			s.MoveTo(ux, uy)
			continue
		}
		s.LineTo(ux, uy)
	}
}

// arcSweep returns the signed angle swept from start to end, following the
// canvas rules: a sweep of a full turn or more draws a full circle.
func arcSweep(start, end float64, ccw bool) float64 {
	const tau = 2 * math.Pi
	if !ccw {
		d := end - start
		if d >= tau {
			return tau
		}
		d = math.Mod(d, tau)
		if d < 0 {
			d += tau
		}
		return d
	}
	d := start - end
	if d >= tau {
		return -tau
	}
	d = math.Mod(d, tau)
	if d < 0 {
		d += tau
	}
	return -d
}

// arcSegments picks a tessellation that keeps chords under about two device
// pixels.
func arcSegments(deviceRadius, sweep float64) int {
	n := int(math.Ceil(math.Abs(sweep) * math.Sqrt(math.Max(deviceRadius, 1))))
	return min(max(n, 4), 256)
}

func (s *Surface) Fill() {
	s.fillSubpaths(s.path, s.state.fill, ebiten.BlendSourceOver)
}

func (s *Surface) Stroke() {
	s.strokeSubpaths(s.path)
}

// --- rectangles ---

func (s *Surface) rectPath(x, y, w, h float64) []subpath {
	m := s.state.transform
	pts := make([]electric.Vec2, 4)
	for i, p := range [4][2]float64{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}} {
		pts[i].X, pts[i].Y = m.Apply(p[0], p[1])
	}
	return []subpath{{pts: pts, closed: true}}
}

func (s *Surface) FillRect(x, y, w, h float64) {
	s.fillSubpaths(s.rectPath(x, y, w, h), s.state.fill, ebiten.BlendSourceOver)
}

func (s *Surface) StrokeRect(x, y, w, h float64) {
	s.strokeSubpaths(s.rectPath(x, y, w, h))
}

func (s *Surface) ClearRect(x, y, w, h float64) {
	s.fillSubpaths(s.rectPath(x, y, w, h), electric.ColorWhite, ebiten.BlendClear)
}

func (s *Surface) RoundRect(x, y, w, h, r float64) {
	r = math.Max(0, math.Min(r, math.Min(w, h)/2))
	saved := s.path
	s.path = nil
	s.MoveTo(x+r, y)
	s.LineTo(x+w-r, y)
	s.Arc(x+w-r, y+r, r, -math.Pi/2, 0, false)
	s.LineTo(x+w, y+h-r)
	s.Arc(x+w-r, y+h-r, r, 0, math.Pi/2, false)
	s.LineTo(x+r, y+h)
	s.Arc(x+r, y+h-r, r, math.Pi/2, math.Pi, false)
	s.LineTo(x, y+r)
	s.Arc(x+r, y+r, r, math.Pi, 3*math.Pi/2, false)
	s.path[len(s.path)-1].closed = true
	s.fillSubpaths(s.path, s.state.fill, ebiten.BlendSourceOver)
	s.path = saved
}

// --- tessellation ---

func buildPath(paths []subpath, closeAll bool) *vector.Path {
	var p vector.Path
	for _, sp := range paths {
		if len(sp.pts) == 0 {
			continue
		}
		p.MoveTo(float32(sp.pts[0].X), float32(sp.pts[0].Y))
		for _, pt := range sp.pts[1:] {
			p.LineTo(float32(pt.X), float32(pt.Y))
		}
		if sp.closed || closeAll {
			p.Close()
		}
	}
	return &p
}

func (s *Surface) fillSubpaths(paths []subpath, paint electric.Paint, blend ebiten.Blend) {
	if s.dst == nil || paint == nil {
		return
	}
	p := buildPath(paths, true)
	s.vs, s.is = p.AppendVerticesAndIndicesForFilling(s.vs[:0], s.is[:0])
	s.submit(paint, blend, ebiten.NonZero)
}

func (s *Surface) strokeSubpaths(paths []subpath) {
	if s.dst == nil || s.state.stroke == nil || s.state.lineWidth <= 0 {
		return
	}
	p := buildPath(paths, false)
	op := &vector.StrokeOptions{
		Width:      float32(s.state.lineWidth * s.state.transform.ScaleFactor()),
		LineJoin:   vector.LineJoinMiter,
		MiterLimit: 10,
	}
	s.vs, s.is = p.AppendVerticesAndIndicesForStroke(s.vs[:0], s.is[:0], op)
	s.submit(s.state.stroke, ebiten.BlendSourceOver, ebiten.FillAll)
}

// submit colors the pending vertices with paint and draws them.
func (s *Surface) submit(paint electric.Paint, blend ebiten.Blend, rule ebiten.FillRule) {
	if len(s.is) == 0 {
		return
	}
	var inv electric.Affine
	grad, isGrad := paint.(*electric.LinearGradient)
	if isGrad {
		inv = s.state.transform.Invert()
	}
	solid, _ := paint.(electric.Color)
	for i := range s.vs {
		v := &s.vs[i]
		c := solid
		if isGrad {
			c = grad.At(inv.Apply(float64(v.DstX), float64(v.DstY)))
		}
		if blend != ebiten.BlendClear {
			c = filterColor(s.state.filter, c)
		}
		v.SrcX, v.SrcY = 1, 1
		v.ColorR = float32(c.R)
		v.ColorG = float32(c.G)
		v.ColorB = float32(c.B)
		v.ColorA = float32(c.A * s.state.alpha)
	}
	s.dst.DrawTriangles(s.vs, s.is, whiteSubImage, &ebiten.DrawTrianglesOptions{
		Blend:     blend,
		FillRule:  rule,
		AntiAlias: true,
	})
}

// --- images ---

// DrawImage accepts *ebiten.Image and any image.Image. Other images are
// uploaded once and cached.
func (s *Surface) DrawImage(img electric.Image, src, dst electric.Rect) {
	if s.dst == nil {
		return
	}
	eimg := s.resolveImage(img)
	if eimg == nil {
		return
	}
	if src.Width == 0 || src.Height == 0 {
		b := eimg.Bounds()
		src = electric.Rect{X: 0, Y: 0, Width: float64(b.Dx()), Height: float64(b.Dy())}
	}
	sub := eimg.SubImage(image.Rect(
		int(src.X), int(src.Y),
		int(src.X+src.Width), int(src.Y+src.Height),
	)).(*ebiten.Image)

	var geo ebiten.GeoM
	geo.Scale(dst.Width/src.Width, dst.Height/src.Height)
	geo.Translate(dst.X, dst.Y)
	geo.Concat(toGeoM(s.state.transform))

	// Blur draws a running average of shifted copies: layer k is drawn at
	// 1/(k+1) opacity over the previous k.
	for k, off := range blurOffsets(s.state.blur) {
		g := geo
		g.Translate(off.X, off.Y)
		alpha := s.state.alpha / float64(k+1)
		if s.state.filter != nil {
			cm := *s.state.filter
			cm.Scale(1, 1, 1, alpha)
			op := &colorm.DrawImageOptions{Filter: ebiten.FilterLinear}
			op.GeoM = g
			colorm.DrawImage(s.dst, sub, cm, op)
			continue
		}
		op := &ebiten.DrawImageOptions{GeoM: g, Filter: ebiten.FilterLinear}
		op.ColorScale.ScaleAlpha(float32(alpha))
		s.dst.DrawImage(sub, op)
	}
}

func (s *Surface) resolveImage(img electric.Image) *ebiten.Image {
	switch v := img.(type) {
	case *ebiten.Image:
		return v
	case image.Image:
		if cached, ok := s.images[v]; ok {
			return cached
		}
		eimg := ebiten.NewImageFromImage(v)
		s.images[v] = eimg
		return eimg
	}
	s.log.Warn("unsupported image type", zap.String("type", fmt.Sprintf("%T", img)))
	return nil
}

// toGeoM converts an affine matrix to an ebiten.GeoM.
func toGeoM(m electric.Affine) ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, m[0])
	g.SetElement(0, 1, m[2])
	g.SetElement(0, 2, m[4])
	g.SetElement(1, 0, m[1])
	g.SetElement(1, 1, m[3])
	g.SetElement(1, 2, m[5])
	return g
}

// --- text ---

func (s *Surface) SetFont(font string)                     { s.state.font = font }
func (s *Surface) SetTextAlign(a electric.TextAlign)       { s.state.align = a }
func (s *Surface) SetTextBaseline(b electric.TextBaseline) { s.state.baseline = b }

func (s *Surface) FillText(str string, x, y float64) {
	if s.dst == nil || s.state.fill == nil || str == "" {
		return
	}
	face, spec := s.fonts.Face(s.state.font)

	op := &text.DrawOptions{}
	op.PrimaryAlign = primaryAlign(s.state.align)
	op.SecondaryAlign = secondaryAlign(s.state.baseline)
	if s.state.baseline == electric.TextBaselineAlphabetic {
		op.GeoM.Translate(0, -face.Metrics().HAscent)
	}
	op.GeoM.Scale(spec.scale, spec.scale)
	op.GeoM.Translate(x, y)
	op.GeoM.Concat(toGeoM(s.state.transform))

	var c electric.Color
	switch p := s.state.fill.(type) {
	case electric.Color:
		c = p
	case *electric.LinearGradient:
		c = p.At(x, y)
	}
	c = filterColor(s.state.filter, c)
	a := c.A * s.state.alpha
	op.ColorScale.Scale(float32(c.R*a), float32(c.G*a), float32(c.B*a), float32(a))
	op.Filter = ebiten.FilterLinear

	text.Draw(s.dst, str, face, op)
	if spec.bold {
		op.GeoM.Translate(math.Max(spec.size/24, 0.5), 0)
		text.Draw(s.dst, str, face, op)
	}
}

func primaryAlign(a electric.TextAlign) text.Align {
	switch a {
	case electric.TextAlignCenter:
		return text.AlignCenter
	case electric.TextAlignRight:
		return text.AlignEnd
	}
	return text.AlignStart
}

func secondaryAlign(b electric.TextBaseline) text.Align {
	switch b {
	case electric.TextBaselineMiddle:
		return text.AlignCenter
	case electric.TextBaselineBottom:
		return text.AlignEnd
	}
	return text.AlignStart
}
