// Session recap: summarizes what the persisted event trail recorded,
// for the "welcome back" screen and the recent-activity endpoint.
package storage

import (
	"context"
	"fmt"
	"time"
)

// Recapper builds human-readable summaries from the persisted event trail.
type Recapper struct {
	eventRepo EventRepository
}

// NewRecapper creates a recap builder over the event repository.
func NewRecapper(eventRepo EventRepository) *Recapper {
	return &Recapper{eventRepo: eventRepo}
}

// RecapEvent is a simplified event for presentation.
type RecapEvent struct {
	Timestamp string `json:"timestamp"`
	EventType string `json:"event_type"`
	Summary   string `json:"summary"`
	Impact    string `json:"impact"` // "POSITIVE", "NEGATIVE", "NEUTRAL"
}

// SinceLastSave returns the events recorded after the given save time,
// oldest first.
func (r *Recapper) SinceLastSave(ctx context.Context, lastSaveMillis int64) ([]RecapEvent, error) {
	since := time.UnixMilli(lastSaveMillis)
	events, err := r.eventRepo.GetSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get events since last save: %w", err)
	}
	return toRecap(events), nil
}

// Recent returns the latest recorded events, newest first.
func (r *Recapper) Recent(ctx context.Context, limit int) ([]RecapEvent, error) {
	events, err := r.eventRepo.GetRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent events: %w", err)
	}
	return toRecap(events), nil
}

func toRecap(events []GameEvent) []RecapEvent {
	out := make([]RecapEvent, 0, len(events))
	for _, e := range events {
		out = append(out, RecapEvent{
			Timestamp: e.Timestamp.Format(time.RFC3339),
			EventType: e.EventType,
			Summary:   e.Message,
			Impact:    impactOf(e.EventType),
		})
	}
	return out
}

func impactOf(eventType string) string {
	switch eventType {
	case "ACTION_REJECTED", "SAVE_FAILED":
		return "NEGATIVE"
	case "TRAIN", "MEDITATE", "IMPROVE_BLADE", "BUY_MATERIAL", "CHOP_WOOD":
		return "POSITIVE"
	default:
		return "NEUTRAL"
	}
}
