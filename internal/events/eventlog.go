// Package events provides the action event system for the game.
// Every engine operation, successful or rejected, leaves an immutable
// record here; the persistence layer and the presentation hub both feed
// off the same log.
package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType defines the category of a game event.
type EventType string

const (
	EventTypeTrain          EventType = "TRAIN"
	EventTypeMeditate       EventType = "MEDITATE"
	EventTypeImproveBlade   EventType = "IMPROVE_BLADE"
	EventTypeBuyMaterial    EventType = "BUY_MATERIAL"
	EventTypeChopWood       EventType = "CHOP_WOOD"
	EventTypePetToggled     EventType = "PET_TOGGLED"
	EventTypeActionRejected EventType = "ACTION_REJECTED"
	EventTypeGameSaved      EventType = "GAME_SAVED"
	EventTypeGameLoaded     EventType = "GAME_LOADED"
	EventTypeSaveFailed     EventType = "SAVE_FAILED"
)

// GameEvent represents an immutable record of an action outcome.
type GameEvent struct {
	ID        string      `json:"id"`
	Timestamp time.Time   `json:"timestamp"`
	Type      EventType   `json:"type"`
	Stat      string      `json:"stat,omitempty"` // attribute or slot the action targeted
	Message   string      `json:"message"`        // the human-readable log line
	Payload   interface{} `json:"payload,omitempty"`
}

// EventPersister defines how an event is durably stored.
type EventPersister interface {
	Append(event GameEvent) error
}

// EventLog is the in-memory append-only log of action events.
type EventLog struct {
	mu        sync.RWMutex
	events    []GameEvent
	persister EventPersister
}

// NewEventLog creates a new event log with an optional persister.
func NewEventLog(persister EventPersister) *EventLog {
	return &EventLog{
		events:    make([]GameEvent, 0),
		persister: persister,
	}
}

// Append adds a new event to the log. Events are immutable once appended.
func (el *EventLog) Append(event GameEvent) {
	el.mu.Lock()
	defer el.mu.Unlock()
	el.events = append(el.events, event)

	if el.persister != nil {
		// Write through to persistent storage off the action path.
		go func(e GameEvent) {
			_ = el.persister.Append(e)
		}(event)
	}
}

// Replay returns the full in-memory history of events.
func (el *EventLog) Replay() []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()
	return el.events
}

// GetByType returns all events of the given category.
func (el *EventLog) GetByType(t EventType) []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	var result []GameEvent
	for _, e := range el.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// GenerateEventID creates a unique event identifier.
func GenerateEventID() string {
	return uuid.NewString()
}
