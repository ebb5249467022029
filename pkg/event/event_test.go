// pkg/event/event_test.go
package event

import (
	"sync"
	"testing"
)

func TestBaseEvent_GetType_ReturnsCorrectType(t *testing.T) {
	tests := []struct {
		name      string
		eventType Type
		source    any
	}{
		{name: "orbit captured", eventType: OrbitCaptured, source: "scene"},
		{name: "docked", eventType: ShipDocked, source: 123},
		{name: "nil source", eventType: SceneEntered, source: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &BaseEvent{EventType: tt.eventType, Source: tt.source}
			if e.GetType() != tt.eventType {
				t.Errorf("GetType() = %v, want %v", e.GetType(), tt.eventType)
			}
			if e.GetSource() != tt.source {
				t.Errorf("GetSource() = %v, want %v", e.GetSource(), tt.source)
			}
		})
	}
}

func TestBusPublish_WithSubscribers_CallsAllHandlers(t *testing.T) {
	bus := NewEventBus()
	var got []string

	bus.Subscribe(OrbitLocked, func(Event) { got = append(got, "first") })
	bus.Subscribe(OrbitLocked, func(Event) { got = append(got, "second") })
	bus.Subscribe(OrbitExited, func(Event) { got = append(got, "wrong type") })
	bus.Subscribe(All, func(Event) { got = append(got, "wildcard") })

	bus.Publish(NewOrbitEvent(OrbitLocked, nil, 1, true, 2, "Gaia"))

	want := []string{"first", "second", "wildcard"}
	if len(got) != len(want) {
		t.Fatalf("handlers called %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("call %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestBusPublish_NoSubscribers_NoError(t *testing.T) {
	NewEventBus().Publish(NewShipEvent(ShipUndocked, nil, 1))

	var nilBus *Bus
	nilBus.Publish(NewShipEvent(ShipUndocked, nil, 1))
}

func TestSubscriptionCancel_RemovesOnlyThatHandler(t *testing.T) {
	bus := NewEventBus()
	var a, b int
	subA := bus.Subscribe(ShipDocked, func(Event) { a++ })
	bus.Subscribe(ShipDocked, func(Event) { b++ })

	bus.Publish(NewDockEvent(nil, 1, 2, "Haven"))
	subA.Cancel()
	subA.Cancel()
	bus.Publish(NewDockEvent(nil, 1, 2, "Haven"))

	if a != 1 || b != 2 {
		t.Errorf("calls after cancel: a=%d b=%d, want 1 and 2", a, b)
	}
}

func TestBusSubscribe_ConcurrentAccess_ThreadSafe(t *testing.T) {
	bus := NewEventBus()
	var mu sync.Mutex
	count := 0

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sub := bus.Subscribe(WaypointReached, func(Event) {
				mu.Lock()
				count++
				mu.Unlock()
			})
			bus.Publish(NewWaypointEvent(nil, 1, "beacon"))
			sub.Cancel()
		}()
	}
	wg.Wait()

	if count == 0 {
		t.Error("no handler ran")
	}
	bus.mu.RLock()
	defer bus.mu.RUnlock()
	if n := len(bus.handlers[WaypointReached]); n != 0 {
		t.Errorf("%d handlers left after cancel", n)
	}
}

func TestEventConstructors(t *testing.T) {
	tests := []struct {
		name  string
		event Event
		want  Type
	}{
		{"ship", NewShipEvent(ShipUndocked, nil, 1), ShipUndocked},
		{"orbit", NewOrbitEvent(OrbitAborted, nil, 1, false, 2, "Gaia"), OrbitAborted},
		{"dock", NewDockEvent(nil, 1, 2, "Haven"), ShipDocked},
		{"handoff", NewHandoffEvent(nil, 1, 2), ControlHandoff},
		{"waypoint", NewWaypointEvent(nil, 1, "beacon"), WaypointReached},
		{"scene", NewSceneEvent(SceneExited, nil, 1, 4), SceneExited},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.event.GetType() != tt.want {
				t.Errorf("GetType() = %v, want %v", tt.event.GetType(), tt.want)
			}
		})
	}

	h := NewHandoffEvent("scene", 3, 4)
	if h.From != 3 || h.To != 4 || h.GetSource() != "scene" {
		t.Errorf("NewHandoffEvent() = %+v", h)
	}
}
