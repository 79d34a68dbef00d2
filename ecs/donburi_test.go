package ecs

import (
	"testing"

	"github.com/phanxgames/electric"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

func TestNewDonburiSink(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)
	if sink == nil {
		t.Fatal("NewDonburiSink returned nil")
	}
}

func TestDonburiSink_EmitEvent(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	var received []electric.Event
	RuntimeEventType.Subscribe(world, func(w donburi.World, e electric.Event) {
		received = append(received, e)
	})

	sink.EmitEvent(electric.Event{Type: electric.EventClick, X: 100, Y: 200, Frame: 3})
	sink.EmitEvent(electric.Event{Type: electric.EventResized, X: 640, Y: 480})

	// Events are queued until processed.
	if len(received) != 0 {
		t.Fatalf("events delivered before ProcessEvents: %d", len(received))
	}
	ProcessEvents(world)

	if len(received) != 2 {
		t.Fatalf("expected 2 events, got %d", len(received))
	}
	if e := received[0]; e.Type != electric.EventClick || e.X != 100 || e.Y != 200 || e.Frame != 3 {
		t.Errorf("event 0: %+v", e)
	}
	if e := received[1]; e.Type != electric.EventResized || e.X != 640 {
		t.Errorf("event 1: %+v", e)
	}
}

func TestDonburiSink_ClickChannel(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	clicks := 0
	ClickEventType.Subscribe(world, func(w donburi.World, e electric.Event) {
		clicks++
	})

	sink.EmitEvent(electric.Event{Type: electric.EventStarted})
	sink.EmitEvent(electric.Event{Type: electric.EventClick})
	sink.EmitEvent(electric.Event{Type: electric.EventStopped})
	events.ProcessAllEvents(world)

	if clicks != 1 {
		t.Errorf("clicks = %d, want 1", clicks)
	}
}

func TestDonburiSink_FromRuntime(t *testing.T) {
	world := donburi.NewWorld()
	frames := electric.NewManualFrames()
	rt, err := electric.New(electric.NewRecordingSurface(), frames,
		electric.WithEventSink(NewDonburiSink(world)))
	if err != nil {
		t.Fatal(err)
	}

	var types []electric.EventType
	RuntimeEventType.Subscribe(world, func(w donburi.World, e electric.Event) {
		types = append(types, e.Type)
	})

	btn := electric.NewButton(0, 0, 50, 50, "ok", nil)
	rt.Register(btn, 0)
	rt.Start()
	rt.Click(10, 10)
	rt.Destroy()
	ProcessEvents(world)

	want := []electric.EventType{electric.EventStarted, electric.EventClick, electric.EventStopped, electric.EventDestroyed}
	if len(types) != len(want) {
		t.Fatalf("events = %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("event %d = %v, want %v", i, types[i], want[i])
		}
	}
}
