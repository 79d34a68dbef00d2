package electric

// EventType identifies a runtime event.
type EventType uint8

const (
	EventClick EventType = iota
	EventStarted
	EventStopped
	EventResized
	EventDestroyed
)

var eventNames = [...]string{"click", "started", "stopped", "resized", "destroyed"}

func (t EventType) String() string {
	if int(t) < len(eventNames) {
		return eventNames[t]
	}
	return "unknown"
}

// Event is a notification sent to an EventSink. Object is set for click
// events; X and Y carry surface coordinates for clicks and the logical size
// for resizes.
type Event struct {
	Type   EventType
	Object SceneObject
	X, Y   float64
	Frame  uint64
}

// EventSink receives runtime events. The ecs package forwards them into a
// donburi world.
type EventSink interface {
	EmitEvent(event Event)
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(Event)

// EmitEvent calls f(event).
func (f EventSinkFunc) EmitEvent(event Event) { f(event) }
