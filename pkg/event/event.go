// pkg/event/event.go
package event

import (
	"sync"
)

// Type represents the type of event
type Type string

// Scene event types
const (
	OrbitCaptured   Type = "orbit_captured"
	OrbitLocked     Type = "orbit_locked"
	OrbitExited     Type = "orbit_exited"
	OrbitAborted    Type = "orbit_aborted"
	ShipDocked      Type = "ship_docked"
	ShipUndocked    Type = "ship_undocked"
	ControlHandoff  Type = "control_handoff"
	WaypointReached Type = "waypoint_reached"
	SceneEntered    Type = "scene_entered"
	SceneExited     Type = "scene_exited"
)

// All matches every event type when subscribing.
const All Type = "*"

// Event is the base interface for all events
type Event interface {
	GetType() Type
	GetSource() any
}

// BaseEvent provides common functionality for all events
type BaseEvent struct {
	EventType Type
	Source    any
}

func (e *BaseEvent) GetType() Type {
	return e.EventType
}

func (e *BaseEvent) GetSource() any {
	return e.Source
}

// Handler is a function that handles events
type Handler func(Event)

type registration struct {
	id      uint64
	handler Handler
}

// Bus dispatches events synchronously on the publisher's goroutine.
type Bus struct {
	mu       sync.RWMutex
	handlers map[Type][]registration
	nextID   uint64
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]registration),
	}
}

// Subscription identifies one registered handler.
type Subscription struct {
	bus       *Bus
	eventType Type
	id        uint64
}

// Cancel removes the handler. Cancelling twice is harmless.
func (s *Subscription) Cancel() {
	if s == nil || s.bus == nil {
		return
	}
	s.bus.remove(s.eventType, s.id)
	s.bus = nil
}

// Subscribe registers a handler for an event type, or for every type when
// eventType is All.
func (b *Bus) Subscribe(eventType Type, handler Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	b.handlers[eventType] = append(b.handlers[eventType], registration{id: b.nextID, handler: handler})
	return &Subscription{bus: b, eventType: eventType, id: b.nextID}
}

func (b *Bus) remove(eventType Type, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	regs := b.handlers[eventType]
	for i, r := range regs {
		if r.id == id {
			b.handlers[eventType] = append(regs[:i:i], regs[i+1:]...)
			return
		}
	}
}

// Publish sends an event to its subscribers, then to All subscribers.
func (b *Bus) Publish(event Event) {
	if b == nil {
		return
	}
	b.mu.RLock()
	specific := b.handlers[event.GetType()]
	wildcard := b.handlers[All]
	b.mu.RUnlock()

	for _, r := range specific {
		r.handler(event)
	}
	for _, r := range wildcard {
		r.handler(event)
	}
}

// ShipEvent carries a ship id; used for undocking and scene-wide ship
// notifications.
type ShipEvent struct {
	BaseEvent
	ShipID uint64
}

func NewShipEvent(eventType Type, source any, shipID uint64) *ShipEvent {
	return &ShipEvent{
		BaseEvent: BaseEvent{EventType: eventType, Source: source},
		ShipID:    shipID,
	}
}

// OrbitEvent reports a ship's orbit transition around a planet.
type OrbitEvent struct {
	BaseEvent
	ShipID    uint64
	Active    bool
	PlanetID  uint64
	Planet    string
	Radius    float64
	Direction int
}

func NewOrbitEvent(eventType Type, source any, shipID uint64, active bool, planetID uint64, planet string) *OrbitEvent {
	return &OrbitEvent{
		BaseEvent: BaseEvent{EventType: eventType, Source: source},
		ShipID:    shipID,
		Active:    active,
		PlanetID:  planetID,
		Planet:    planet,
	}
}

// DockEvent reports the active ship docking.
type DockEvent struct {
	BaseEvent
	ShipID uint64
	DockID uint64
	Dock   string
}

func NewDockEvent(source any, shipID, dockID uint64, dock string) *DockEvent {
	return &DockEvent{
		BaseEvent: BaseEvent{EventType: ShipDocked, Source: source},
		ShipID:    shipID,
		DockID:    dockID,
		Dock:      dock,
	}
}

// HandoffEvent reports control moving from one ship to another.
type HandoffEvent struct {
	BaseEvent
	From uint64
	To   uint64
}

func NewHandoffEvent(source any, from, to uint64) *HandoffEvent {
	return &HandoffEvent{
		BaseEvent: BaseEvent{EventType: ControlHandoff, Source: source},
		From:      from,
		To:        to,
	}
}

// WaypointEvent reports the active ship arriving at a waypoint.
type WaypointEvent struct {
	BaseEvent
	ShipID   uint64
	Waypoint string
}

func NewWaypointEvent(source any, shipID uint64, waypoint string) *WaypointEvent {
	return &WaypointEvent{
		BaseEvent: BaseEvent{EventType: WaypointReached, Source: source},
		ShipID:    shipID,
		Waypoint:  waypoint,
	}
}

// SceneEvent reports the scene being entered or left.
type SceneEvent struct {
	BaseEvent
	ActiveShip uint64
	Ships      int
}

func NewSceneEvent(eventType Type, source any, activeShip uint64, ships int) *SceneEvent {
	return &SceneEvent{
		BaseEvent:  BaseEvent{EventType: eventType, Source: source},
		ActiveShip: activeShip,
		Ships:      ships,
	}
}
