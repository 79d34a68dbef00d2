// Package ecs bridges electric runtime events into a [Donburi] world.
//
// [NewDonburiSink] returns an [electric.EventSink] that publishes every
// runtime event (clicks, start/stop, resize, destroy) as a typed Donburi
// event. Subscribe to [RuntimeEventType] in your ECS systems and drain the
// queue from a system with ProcessEvents.
//
// Usage:
//
//	world := donburi.NewWorld()
//	rt, err := electric.New(surface, frames, electric.WithEventSink(ecs.NewDonburiSink(world)))
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
