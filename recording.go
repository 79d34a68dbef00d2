package electric

// Op is one recorded drawing call. State-changing calls record only their
// arguments; painting calls also capture the state they paint with.
type Op struct {
	Name string
	Args []float64
	Text string

	Transform Affine
	Fill      Paint
	Stroke    Paint
	Alpha     float64
	Font      string
	Filter    string
	Image     Image
}

type recState struct {
	transform Affine
	fill      Paint
	stroke    Paint
	lineWidth float64
	alpha     float64
	filter    string
	font      string
	align     TextAlign
	baseline  TextBaseline
}

// RecordingSurface is a Surface that records every call instead of drawing.
// It backs headless runs and tests, and tracks the canvas state stack so
// recorded ops carry the transform and paint in effect.
type RecordingSurface struct {
	ops   []Op
	state recState
	stack []recState
}

// NewRecordingSurface returns an empty recorder in the default state.
func NewRecordingSurface() *RecordingSurface {
	r := &RecordingSurface{}
	r.state = defaultRecState()
	return r
}

func defaultRecState() recState {
	return recState{
		transform: Identity,
		fill:      ColorBlack,
		stroke:    ColorBlack,
		lineWidth: 1,
		alpha:     1,
		font:      "10px sans-serif",
	}
}

// Ops returns the recorded ops.
func (r *RecordingSurface) Ops() []Op { return r.ops }

// Reset drops recorded ops and restores the default state.
func (r *RecordingSurface) Reset() {
	r.ops = r.ops[:0]
	r.stack = r.stack[:0]
	r.state = defaultRecState()
}

// Count returns the number of recorded ops with the given name.
func (r *RecordingSurface) Count(name string) int {
	n := 0
	for _, op := range r.ops {
		if op.Name == name {
			n++
		}
	}
	return n
}

// Filter returns the recorded ops with the given name.
func (r *RecordingSurface) Filter(name string) []Op {
	var out []Op
	for _, op := range r.ops {
		if op.Name == name {
			out = append(out, op)
		}
	}
	return out
}

// Depth returns the current Save depth. A balanced frame leaves it at 0.
func (r *RecordingSurface) Depth() int { return len(r.stack) }

// Transform returns the current transform.
func (r *RecordingSurface) Transform() Affine { return r.state.transform }

func (r *RecordingSurface) record(name string, args ...float64) {
	r.ops = append(r.ops, Op{Name: name, Args: args})
}

func (r *RecordingSurface) paint(name, text string, img Image, args ...float64) {
	r.ops = append(r.ops, Op{
		Name:      name,
		Args:      args,
		Text:      text,
		Transform: r.state.transform,
		Fill:      r.state.fill,
		Stroke:    r.state.stroke,
		Alpha:     r.state.alpha,
		Font:      r.state.font,
		Filter:    r.state.filter,
		Image:     img,
	})
}

func (r *RecordingSurface) Save() {
	r.stack = append(r.stack, r.state)
	r.record("Save")
}

// Restore pops the state stack. An unbalanced Restore is ignored, as on a
// canvas.
func (r *RecordingSurface) Restore() {
	r.record("Restore")
	if len(r.stack) == 0 {
		return
	}
	r.state = r.stack[len(r.stack)-1]
	r.stack = r.stack[:len(r.stack)-1]
}

func (r *RecordingSurface) Translate(x, y float64) {
	r.state.transform = r.state.transform.Translate(x, y)
	r.record("Translate", x, y)
}

func (r *RecordingSurface) Scale(x, y float64) {
	r.state.transform = r.state.transform.Scale(x, y)
	r.record("Scale", x, y)
}

func (r *RecordingSurface) Rotate(angle float64) {
	r.state.transform = r.state.transform.Rotate(angle)
	r.record("Rotate", angle)
}

func (r *RecordingSurface) SetFill(p Paint) {
	r.state.fill = p
	r.record("SetFill")
}

func (r *RecordingSurface) SetStroke(p Paint) {
	r.state.stroke = p
	r.record("SetStroke")
}

func (r *RecordingSurface) SetLineWidth(w float64) {
	r.state.lineWidth = w
	r.record("SetLineWidth", w)
}

func (r *RecordingSurface) SetGlobalAlpha(a float64) {
	r.state.alpha = clamp01(a)
	r.record("SetGlobalAlpha", a)
}

func (r *RecordingSurface) SetFilter(filter string) {
	if filter == "none" {
		filter = ""
	}
	r.state.filter = filter
	r.ops = append(r.ops, Op{Name: "SetFilter", Text: filter})
}

func (r *RecordingSurface) BeginPath()              { r.record("BeginPath") }
func (r *RecordingSurface) ClosePath()              { r.record("ClosePath") }
func (r *RecordingSurface) MoveTo(x, y float64)     { r.record("MoveTo", x, y) }
func (r *RecordingSurface) LineTo(x, y float64)     { r.record("LineTo", x, y) }
func (r *RecordingSurface) Rect(x, y, w, h float64) { r.record("Rect", x, y, w, h) }

func (r *RecordingSurface) Arc(x, y, radius, start, end float64, ccw bool) {
	r.record("Arc", x, y, radius, start, end, boolArg(ccw))
}

func (r *RecordingSurface) Ellipse(x, y, rx, ry, rotation, start, end float64, ccw bool) {
	r.record("Ellipse", x, y, rx, ry, rotation, start, end, boolArg(ccw))
}

func (r *RecordingSurface) Fill()   { r.paint("Fill", "", nil) }
func (r *RecordingSurface) Stroke() { r.paint("Stroke", "", nil) }

func (r *RecordingSurface) FillRect(x, y, w, h float64)   { r.paint("FillRect", "", nil, x, y, w, h) }
func (r *RecordingSurface) StrokeRect(x, y, w, h float64) { r.paint("StrokeRect", "", nil, x, y, w, h) }
func (r *RecordingSurface) ClearRect(x, y, w, h float64)  { r.paint("ClearRect", "", nil, x, y, w, h) }

func (r *RecordingSurface) RoundRect(x, y, w, h, radius float64) {
	r.paint("RoundRect", "", nil, x, y, w, h, radius)
}

func (r *RecordingSurface) DrawImage(img Image, src, dst Rect) {
	r.paint("DrawImage", "", img, src.X, src.Y, src.Width, src.Height, dst.X, dst.Y, dst.Width, dst.Height)
}

func (r *RecordingSurface) SetFont(font string) {
	r.state.font = font
	r.ops = append(r.ops, Op{Name: "SetFont", Text: font})
}

func (r *RecordingSurface) SetTextAlign(a TextAlign) {
	r.state.align = a
	r.record("SetTextAlign", float64(a))
}

func (r *RecordingSurface) SetTextBaseline(b TextBaseline) {
	r.state.baseline = b
	r.record("SetTextBaseline", float64(b))
}

func (r *RecordingSurface) FillText(text string, x, y float64) {
	r.paint("FillText", text, nil, x, y, float64(r.state.align), float64(r.state.baseline))
}

func boolArg(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
