package core

import "fmt"

// Listener receives notifications after each committed grid mutation.
// Callbacks get copies and cannot change simulation state through them.
type Listener interface {
	OnTilesRemoved(removed []Removal)
	OnTileSpawned(t Tile, at Coord)
	OnTileMoved(t Tile, from, to Coord)
	OnObjectiveChanged(k Kind, remaining int)
	OnSessionEnded(c Condition)
}

// NopListener ignores every notification. Embed it to implement a subset.
type NopListener struct{}

func (NopListener) OnTilesRemoved([]Removal)       {}
func (NopListener) OnTileSpawned(Tile, Coord)      {}
func (NopListener) OnTileMoved(Tile, Coord, Coord) {}
func (NopListener) OnObjectiveChanged(Kind, int)   {}
func (NopListener) OnSessionEnded(Condition)       {}

// MultiListener fans notifications out to several listeners in order.
type MultiListener []Listener

func (m MultiListener) OnTilesRemoved(removed []Removal) {
	for _, l := range m {
		l.OnTilesRemoved(removed)
	}
}

func (m MultiListener) OnTileSpawned(t Tile, at Coord) {
	for _, l := range m {
		l.OnTileSpawned(t, at)
	}
}

func (m MultiListener) OnTileMoved(t Tile, from, to Coord) {
	for _, l := range m {
		l.OnTileMoved(t, from, to)
	}
}

func (m MultiListener) OnObjectiveChanged(k Kind, remaining int) {
	for _, l := range m {
		l.OnObjectiveChanged(k, remaining)
	}
}

func (m MultiListener) OnSessionEnded(c Condition) {
	for _, l := range m {
		l.OnSessionEnded(c)
	}
}

// EventType identifies a queued presentation event.
type EventType uint8

const (
	EventRemoved EventType = iota
	EventSpawned
	EventMoved
	EventObjective
	EventSessionEnded
)

// String returns the event type name.
func (e EventType) String() string {
	switch e {
	case EventRemoved:
		return "removed"
	case EventSpawned:
		return "spawned"
	case EventMoved:
		return "moved"
	case EventObjective:
		return "objective"
	case EventSessionEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Event is one queued notification. Only the fields relevant to Type are set.
type Event struct {
	Type      EventType
	Removed   []Removal
	Tile      Tile
	From      Coord
	To        Coord
	Kind      Kind
	Remaining int
	Condition Condition
}

// String returns a compact description of the event.
func (e Event) String() string {
	switch e.Type {
	case EventRemoved:
		return fmt.Sprintf("removed %d", len(e.Removed))
	case EventSpawned:
		return fmt.Sprintf("spawned %s at %s", e.Tile, e.To)
	case EventMoved:
		return fmt.Sprintf("moved %s %s->%s", e.Tile, e.From, e.To)
	case EventObjective:
		return fmt.Sprintf("objective %s=%d", e.Kind, e.Remaining)
	case EventSessionEnded:
		return fmt.Sprintf("ended %s", e.Condition)
	default:
		return "unknown"
	}
}

// EventLog is a Listener that queues events for an animation driver.
type EventLog struct {
	events []Event
}

// NewEventLog creates an empty event queue.
func NewEventLog() *EventLog {
	return &EventLog{}
}

func (l *EventLog) OnTilesRemoved(removed []Removal) {
	cp := make([]Removal, len(removed))
	copy(cp, removed)
	l.events = append(l.events, Event{Type: EventRemoved, Removed: cp})
}

func (l *EventLog) OnTileSpawned(t Tile, at Coord) {
	l.events = append(l.events, Event{Type: EventSpawned, Tile: t, To: at})
}

func (l *EventLog) OnTileMoved(t Tile, from, to Coord) {
	l.events = append(l.events, Event{Type: EventMoved, Tile: t, From: from, To: to})
}

func (l *EventLog) OnObjectiveChanged(k Kind, remaining int) {
	l.events = append(l.events, Event{Type: EventObjective, Kind: k, Remaining: remaining})
}

func (l *EventLog) OnSessionEnded(c Condition) {
	l.events = append(l.events, Event{Type: EventSessionEnded, Condition: c})
}

// Len returns the number of queued events.
func (l *EventLog) Len() int {
	return len(l.events)
}

// Drain returns and clears the queued events.
func (l *EventLog) Drain() []Event {
	out := l.events
	l.events = nil
	return out
}

// Clear drops queued events.
func (l *EventLog) Clear() {
	l.events = nil
}

var (
	_ Listener = NopListener{}
	_ Listener = MultiListener(nil)
	_ Listener = (*EventLog)(nil)
)
