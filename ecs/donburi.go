package ecs

import (
	"github.com/phanxgames/electric"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// RuntimeEventType is the Donburi event type for electric runtime events.
var RuntimeEventType = events.NewEventType[electric.Event]()

// ClickEventType carries only click events, for systems that care about
// nothing else.
var ClickEventType = events.NewEventType[electric.Event]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world. Events are
// queued on RuntimeEventType (and clicks also on ClickEventType) and
// delivered by ProcessEvents.
func NewDonburiSink(world donburi.World) electric.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(event electric.Event) {
	RuntimeEventType.Publish(s.world, event)
	if event.Type == electric.EventClick {
		ClickEventType.Publish(s.world, event)
	}
}

// ProcessEvents delivers every queued runtime and click event.
func ProcessEvents(world donburi.World) {
	RuntimeEventType.ProcessEvents(world)
	ClickEventType.ProcessEvents(world)
}
