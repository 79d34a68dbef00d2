// Package script runs Lua frame hooks against an electric runtime.
//
// Scripts see a global table named electric and may define on_frame(dt),
// which is called once per frame after every object has updated. Objects
// are addressed by the ids they were bound under, usually the element ids
// of a scene document.
package script

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/phanxgames/electric"
)

// APIVersion is exposed to scripts as electric.api_version.
const APIVersion = 1

// Engine wraps a single gopher-lua VM bound to one runtime.
// Single-goroutine access only (frame loop).
type Engine struct {
	vm      *lua.LState
	rt      *electric.Runtime
	log     *zap.Logger
	objects map[string]electric.SceneObject
	failed  error
}

// NewEngine creates a VM with the standard libraries and the electric table.
func NewEngine(rt *electric.Runtime) *Engine {
	vm := lua.NewState(lua.Options{SkipOpenLibs: false})
	e := &Engine{
		vm:      vm,
		rt:      rt,
		log:     rt.Logger().Named("script"),
		objects: make(map[string]electric.SceneObject),
	}
	api := vm.NewTable()
	vm.SetFuncs(api, e.api())
	api.RawSetString("api_version", lua.LNumber(APIVersion))
	vm.SetGlobal("electric", api)
	return e
}

// Close releases the VM.
func (e *Engine) Close() {
	e.vm.Close()
}

// Bind makes obj addressable from scripts as id.
func (e *Engine) Bind(id string, obj electric.SceneObject) {
	e.objects[id] = obj
}

// BindAll binds every object of a built scene under its element id.
func (e *Engine) BindAll(objs map[string]electric.SceneObject) {
	for id, obj := range objs {
		e.objects[id] = obj
	}
}

// Object returns the object bound as id.
func (e *Engine) Object(id string) (electric.SceneObject, bool) {
	obj, ok := e.objects[id]
	return obj, ok
}

// LoadString runs a chunk. name is used in error messages only.
func (e *Engine) LoadString(name, src string) error {
	fn, err := e.vm.LoadString(src)
	if err != nil {
		return fmt.Errorf("load %s: %w", name, err)
	}
	e.vm.Push(fn)
	if err := e.vm.PCall(0, lua.MultRet, nil); err != nil {
		return fmt.Errorf("run %s: %w", name, err)
	}
	e.log.Debug("loaded lua script", zap.String("name", name))
	return nil
}

// LoadFile runs the script at path.
func (e *Engine) LoadFile(path string) error {
	if err := e.vm.DoFile(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	e.log.Debug("loaded lua script", zap.String("file", path))
	return nil
}

// Install sets the engine as the runtime's frame hook.
func (e *Engine) Install() {
	e.rt.SetFrameHook(e.Hook())
}

// Hook returns a frame hook that calls on_frame.
func (e *Engine) Hook() electric.FrameHook {
	return func(dt float64, _ *electric.Runtime) { e.Frame(dt) }
}

// Frame calls the script's on_frame(dt), if defined. The first error is
// logged and disables the engine for good; the runtime keeps running.
func (e *Engine) Frame(dt float64) {
	if e.failed != nil {
		return
	}
	fn := e.vm.GetGlobal("on_frame")
	if fn.Type() != lua.LTFunction {
		return
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, lua.LNumber(dt)); err != nil {
		e.failed = err
		e.log.Error("lua on_frame error, script disabled", zap.Error(err))
	}
}

// Err returns the error that disabled the engine, if any.
func (e *Engine) Err() error { return e.failed }

// Call invokes a global Lua function with string arguments, as button
// actions do. Missing functions report an error.
func (e *Engine) Call(name string, args ...string) error {
	fn := e.vm.GetGlobal(name)
	if fn.Type() != lua.LTFunction {
		return fmt.Errorf("lua function %s not found", name)
	}
	largs := make([]lua.LValue, len(args))
	for i, a := range args {
		largs[i] = lua.LString(a)
	}
	return e.vm.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, largs...)
}

// Action returns a button callback that calls the global Lua function name.
// It reports false when no such function is defined. Errors are logged.
func (e *Engine) Action(name string) (func(), bool) {
	if e.vm.GetGlobal(name).Type() != lua.LTFunction {
		return nil, false
	}
	return func() {
		if err := e.Call(name); err != nil {
			e.log.Error("lua action error", zap.String("action", name), zap.Error(err))
		}
	}, true
}

func (e *Engine) object(L *lua.LState, n int) electric.SceneObject {
	id := L.CheckString(n)
	obj, ok := e.objects[id]
	if !ok {
		e.log.Debug("lua referenced unbound object", zap.String("id", id))
		return nil
	}
	return obj
}

func (e *Engine) api() map[string]lua.LGFunction {
	return map[string]lua.LGFunction{
		"key_down":   e.luaKeyDown,
		"pointer":    e.luaPointer,
		"bounds":     e.luaBounds,
		"get":        e.luaGet,
		"set":        e.luaSet,
		"move":       e.luaMove,
		"collide":    e.luaCollide,
		"burst":      e.luaBurst,
		"play":       e.luaPlay,
		"stop":       e.luaStop,
		"remove":     e.luaRemove,
		"add_rect":   e.luaAddRect,
		"set_color":  e.luaSetColor,
		"set_text":   e.luaSetText,
		"play_sound": e.luaPlaySound,
		"stop_sound": e.luaStopSound,
		"log":        e.luaLog,
	}
}

// key_down(name) -> bool
func (e *Engine) luaKeyDown(L *lua.LState) int {
	L.Push(lua.LBool(e.rt.Input().KeyDown(L.CheckString(1))))
	return 1
}

// pointer() -> x, y, down
func (e *Engine) luaPointer(L *lua.LState) int {
	in := e.rt.Input()
	L.Push(lua.LNumber(in.PointerX))
	L.Push(lua.LNumber(in.PointerY))
	L.Push(lua.LBool(in.PointerDown))
	return 3
}

// bounds() -> width, height
func (e *Engine) luaBounds(L *lua.LState) int {
	b := e.rt.Bounds()
	L.Push(lua.LNumber(b.Width))
	L.Push(lua.LNumber(b.Height))
	return 2
}

// get(id) -> x, y | nil
func (e *Engine) luaGet(L *lua.LState) int {
	p, ok := e.object(L, 1).(electric.Positioner)
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	pos := p.Position()
	L.Push(lua.LNumber(pos.X))
	L.Push(lua.LNumber(pos.Y))
	return 2
}

// set(id, x, y) -> bool
func (e *Engine) luaSet(L *lua.LState) int {
	m, ok := e.object(L, 1).(electric.Movable)
	if ok {
		m.SetPosition(float64(L.CheckNumber(2)), float64(L.CheckNumber(3)))
	}
	L.Push(lua.LBool(ok))
	return 1
}

// move(id, dx, dy) -> bool
func (e *Engine) luaMove(L *lua.LState) int {
	m, ok := e.object(L, 1).(electric.Movable)
	if ok {
		pos := m.Position()
		m.SetPosition(pos.X+float64(L.CheckNumber(2)), pos.Y+float64(L.CheckNumber(3)))
	}
	L.Push(lua.LBool(ok))
	return 1
}

// collide(a, b) -> bool
func (e *Engine) luaCollide(L *lua.LState) int {
	a, okA := e.object(L, 1).(electric.Box)
	b, okB := e.object(L, 2).(electric.Box)
	L.Push(lua.LBool(okA && okB && electric.Intersects(a, b)))
	return 1
}

// burst(id [, n]) -> bool
func (e *Engine) luaBurst(L *lua.LState) int {
	em, ok := e.object(L, 1).(*electric.ParticleEmitter)
	if ok {
		em.Burst(L.OptInt(2, 0))
	}
	L.Push(lua.LBool(ok))
	return 1
}

// play(id) -> bool, for emitters and sprites.
func (e *Engine) luaPlay(L *lua.LState) int {
	ok := true
	switch obj := e.object(L, 1).(type) {
	case *electric.ParticleEmitter:
		obj.Play()
	case *electric.Sprite:
		obj.Play()
	default:
		ok = false
	}
	L.Push(lua.LBool(ok))
	return 1
}

// stop(id) -> bool, for emitters and sprites.
func (e *Engine) luaStop(L *lua.LState) int {
	ok := true
	switch obj := e.object(L, 1).(type) {
	case *electric.ParticleEmitter:
		obj.Stop()
	case *electric.Sprite:
		obj.Pause()
	default:
		ok = false
	}
	L.Push(lua.LBool(ok))
	return 1
}

// remove(id) -> bool
func (e *Engine) luaRemove(L *lua.LState) int {
	id := L.CheckString(1)
	obj, ok := e.objects[id]
	if ok {
		e.rt.Unregister(obj)
		delete(e.objects, id)
	}
	L.Push(lua.LBool(ok))
	return 1
}

// add_rect(id, x, y, w, h [, color [, layer]])
func (e *Engine) luaAddRect(L *lua.LState) int {
	id := L.CheckString(1)
	c, err := electric.ParseColor(L.OptString(6, "white"))
	if err != nil {
		L.ArgError(6, err.Error())
		return 0
	}
	r := electric.NewRectangle(
		float64(L.CheckNumber(2)), float64(L.CheckNumber(3)),
		float64(L.CheckNumber(4)), float64(L.CheckNumber(5)), c)
	if old, ok := e.objects[id]; ok {
		e.rt.Unregister(old)
	}
	e.objects[id] = r
	e.rt.Register(r, float64(L.OptNumber(7, 0)))
	return 0
}

// set_color(id, color) -> bool, for rectangles and labels.
func (e *Engine) luaSetColor(L *lua.LState) int {
	obj := e.object(L, 1)
	c, err := electric.ParseColor(L.CheckString(2))
	if err != nil {
		L.ArgError(2, err.Error())
		return 0
	}
	ok := true
	switch o := obj.(type) {
	case *electric.Rectangle:
		o.Color = c
	case *electric.Label:
		o.Color = c
	default:
		ok = false
	}
	L.Push(lua.LBool(ok))
	return 1
}

// set_text(id, text) -> bool, for labels and buttons.
func (e *Engine) luaSetText(L *lua.LState) int {
	obj := e.object(L, 1)
	text := L.CheckString(2)
	ok := true
	switch o := obj.(type) {
	case *electric.Label:
		o.Text = text
	case *electric.Button:
		o.Label = text
	default:
		ok = false
	}
	L.Push(lua.LBool(ok))
	return 1
}

// play_sound(name) -> bool
func (e *Engine) luaPlaySound(L *lua.LState) int {
	s, ok := e.rt.Audio().Sound(L.CheckString(1))
	if ok {
		s.Play()
	}
	L.Push(lua.LBool(ok))
	return 1
}

// stop_sound(name) -> bool
func (e *Engine) luaStopSound(L *lua.LState) int {
	s, ok := e.rt.Audio().Sound(L.CheckString(1))
	if ok {
		s.Stop()
	}
	L.Push(lua.LBool(ok))
	return 1
}

// log(msg)
func (e *Engine) luaLog(L *lua.LState) int {
	e.log.Info(L.CheckString(1))
	return 0
}
