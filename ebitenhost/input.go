package ebitenhost

import (
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/phanxgames/electric"
)

// keyName maps an Ebitengine key to the name scripts test for: letters
// and digits as typed, modifiers without their side, everything else by
// its Ebitengine name.
func keyName(k ebiten.Key) string {
	switch k {
	case ebiten.KeySpace:
		return " "
	case ebiten.KeyShiftLeft, ebiten.KeyShiftRight:
		return "Shift"
	case ebiten.KeyControlLeft, ebiten.KeyControlRight:
		return "Control"
	case ebiten.KeyAltLeft, ebiten.KeyAltRight:
		return "Alt"
	case ebiten.KeyMetaLeft, ebiten.KeyMetaRight:
		return "Meta"
	}
	name := k.String()
	switch {
	case len(name) == 1:
		return strings.ToLower(name)
	case strings.HasPrefix(name, "Digit"):
		return strings.TrimPrefix(name, "Digit")
	}
	return name
}

// poller turns Ebitengine input state into runtime events once per tick.
type poller struct {
	keys    []ebiten.Key
	touches []ebiten.TouchID
	points  []electric.TouchPoint

	cursorX, cursorY int
	lastTouch        electric.TouchPoint
	touching         bool
}

func (p *poller) poll(rt *electric.Runtime, dpr float64) {
	p.pollKeys(rt)
	p.pollMouse(rt, dpr)
	p.pollTouches(rt, dpr)
}

func (p *poller) pollKeys(rt *electric.Runtime) {
	p.keys = inpututil.AppendJustPressedKeys(p.keys[:0])
	for _, k := range p.keys {
		rt.KeyDown(keyName(k))
	}
	p.keys = inpututil.AppendJustReleasedKeys(p.keys[:0])
	for _, k := range p.keys {
		rt.KeyUp(keyName(k))
	}
}

func (p *poller) pollMouse(rt *electric.Runtime, dpr float64) {
	x, y := ebiten.CursorPosition()
	cx, cy := float64(x)/dpr, float64(y)/dpr
	if x != p.cursorX || y != p.cursorY {
		p.cursorX, p.cursorY = x, y
		rt.PointerMove(cx, cy)
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		rt.PointerDown(cx, cy)
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		rt.PointerUp()
		rt.Click(cx, cy)
	}
}

// pollTouches follows the first touch. A touch that lifts with no others
// left counts as a click at its last position.
func (p *poller) pollTouches(rt *electric.Runtime, dpr float64) {
	p.touches = ebiten.AppendTouchIDs(p.touches[:0])
	p.points = p.points[:0]
	for _, id := range p.touches {
		x, y := ebiten.TouchPosition(id)
		p.points = append(p.points, electric.TouchPoint{ID: int(id), X: float64(x) / dpr, Y: float64(y) / dpr})
	}
	started := len(inpututil.AppendJustPressedTouchIDs(nil)) > 0
	switch {
	case len(p.points) > 0 && (started || !p.touching):
		rt.TouchStart(p.points)
	case len(p.points) > 0:
		rt.TouchMove(p.points)
	case p.touching:
		rt.TouchEnd(nil)
		rt.Click(p.lastTouch.X, p.lastTouch.Y)
	}
	if len(p.points) > 0 {
		p.lastTouch = p.points[0]
	}
	p.touching = len(p.points) > 0
}
