// Package electric is a retained-mode 2D scene and animation runtime.
//
// Electric keeps a registry of scene objects, drives a fixed per-frame cycle
// over them (clear, update, hook, draw), maps pointer input into surface
// coordinates under device-pixel-ratio scaling, and ships particle emitters,
// collision tests, tweens, asset objects and a declarative scene builder on
// top of that core.
//
// # Quick start
//
// A [Runtime] needs a [Surface] to draw on and a [FrameSource] that schedules
// frames. The ebitenhost package provides both for a desktop window:
//
//	cfg := electric.DefaultConfig()
//	cfg.Window.Title = "Demo"
//	host, err := ebitenhost.NewHost(ebitenhost.Options{Config: &cfg})
//	if err != nil {
//		log.Fatal(err)
//	}
//	host.Runtime().Register(electric.NewRectangle(20, 20, 80, 40, electric.ColorWhite), 0)
//	if err := ebitenhost.Run(host); err != nil {
//		log.Fatal(err)
//	}
//
// For headless use, pair a [RecordingSurface] with [ManualFrames]:
//
//	frames := electric.NewManualFrames()
//	rt, _ := electric.New(electric.NewRecordingSurface(), frames)
//	rt.Start()
//	frames.Step()
//
// # Scene objects
//
// Any comparable value can be registered. Its capabilities are resolved once,
// at registration: [Updatable] objects receive Update(dt) every frame in
// registration order, [Renderable] objects are drawn in ascending layer order
// (ties keep insertion order) and [Clickable] objects take part in click
// dispatch, topmost first.
//
//	rt.Register(obj, 10) // layer 10
//	rt.SetLayer(obj, -1) // move behind everything on layer 0
//	rt.Unregister(obj)
//
// Objects that only gain behavior later ([Actor], [Decorated]) report their
// capabilities explicitly; register them again to refresh the resolution.
//
// # Frame hook
//
// Game logic that spans objects goes into the frame hook, which runs after
// all updates and before drawing:
//
//	rt.SetFrameHook(func(dt float64, rt *electric.Runtime) {
//		if electric.Intersects(player, enemy) {
//			rt.Stop()
//		}
//	})
package electric
