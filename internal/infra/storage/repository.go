// Package storage provides the persistence layer for the game server.
// This package implements the repository pattern to keep the domain pure.
package storage

import (
	"context"
	"time"
)

// GameEvent mirrors the domain event structure for persistence.
// The domain package should NOT import this; use interfaces instead.
type GameEvent struct {
	ID        string                 `json:"id" db:"id"`
	Timestamp time.Time              `json:"timestamp" db:"timestamp"`
	EventType string                 `json:"event_type" db:"event_type"`
	Stat      string                 `json:"stat" db:"stat"`
	Message   string                 `json:"message" db:"message"`
	Payload   map[string]interface{} `json:"payload" db:"payload"`
}

// EventRepository defines the interface for event persistence.
type EventRepository interface {
	// Append adds a new event to the ledger.
	Append(ctx context.Context, event GameEvent) error

	// GetRecent retrieves the latest events, newest first.
	GetRecent(ctx context.Context, limit int) ([]GameEvent, error)

	// GetSince retrieves all events after a point in time, oldest first.
	GetSince(ctx context.Context, since time.Time) ([]GameEvent, error)

	// GetByEventType retrieves all events of a specific type, oldest first.
	GetByEventType(ctx context.Context, eventType string) ([]GameEvent, error)
}

// SaveRepository defines the interface for the keyed save slot.
// It mirrors the semantics of browser local storage: one opaque text
// payload under one fixed key.
type SaveRepository interface {
	// Put stores or replaces the payload under key.
	Put(ctx context.Context, key, payload string) error

	// Get retrieves the payload under key. Found is false when the slot
	// is empty; that is not an error.
	Get(ctx context.Context, key string) (payload string, found bool, err error)

	// Delete clears the slot. Deleting an empty slot is a no-op.
	Delete(ctx context.Context, key string) error
}
