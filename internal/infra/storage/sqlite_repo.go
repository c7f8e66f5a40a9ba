package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// SQLiteEventRepository implements EventRepository for SQLite.
type SQLiteEventRepository struct {
	db *sql.DB
}

func NewSQLiteEventRepository(db *sql.DB) *SQLiteEventRepository {
	return &SQLiteEventRepository{db: db}
}

func (r *SQLiteEventRepository) Append(ctx context.Context, event GameEvent) error {
	payloadBytes, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	query := `
		INSERT INTO events (id, timestamp, event_type, stat, message, payload)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		event.ID, event.Timestamp, event.EventType, event.Stat, event.Message, string(payloadBytes),
	)
	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}

func (r *SQLiteEventRepository) getMany(ctx context.Context, query string, args ...interface{}) ([]GameEvent, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []GameEvent
	for rows.Next() {
		var e GameEvent
		var payloadStr string
		err := rows.Scan(&e.ID, &e.Timestamp, &e.EventType, &e.Stat, &e.Message, &payloadStr)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(payloadStr), &e.Payload); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *SQLiteEventRepository) GetRecent(ctx context.Context, limit int) ([]GameEvent, error) {
	query := `SELECT id, timestamp, event_type, stat, message, payload FROM events ORDER BY timestamp DESC LIMIT ?`
	return r.getMany(ctx, query, limit)
}

func (r *SQLiteEventRepository) GetSince(ctx context.Context, since time.Time) ([]GameEvent, error) {
	query := `SELECT id, timestamp, event_type, stat, message, payload FROM events WHERE timestamp > ? ORDER BY timestamp ASC`
	return r.getMany(ctx, query, since)
}

func (r *SQLiteEventRepository) GetByEventType(ctx context.Context, eventType string) ([]GameEvent, error) {
	query := `SELECT id, timestamp, event_type, stat, message, payload FROM events WHERE event_type = ? ORDER BY timestamp ASC`
	return r.getMany(ctx, query, eventType)
}

// ---------------------------------------------------------
// SQLiteSaveRepository
// ---------------------------------------------------------

// SQLiteSaveRepository implements SaveRepository over the saves table.
type SQLiteSaveRepository struct {
	db *sql.DB
}

func NewSQLiteSaveRepository(db *sql.DB) *SQLiteSaveRepository {
	return &SQLiteSaveRepository{db: db}
}

func (r *SQLiteSaveRepository) Put(ctx context.Context, key, payload string) error {
	query := `
		INSERT INTO saves (save_key, payload, saved_at)
		VALUES (?, ?, ?)
		ON CONFLICT(save_key) DO UPDATE SET
			payload=excluded.payload,
			saved_at=excluded.saved_at
	`
	_, err := r.db.ExecContext(ctx, query, key, payload, time.Now())
	if err != nil {
		return fmt.Errorf("failed to store save slot: %w", err)
	}
	return nil
}

func (r *SQLiteSaveRepository) Get(ctx context.Context, key string) (string, bool, error) {
	query := `SELECT payload FROM saves WHERE save_key = ?`
	var payload string
	err := r.db.QueryRowContext(ctx, query, key).Scan(&payload)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read save slot: %w", err)
	}
	return payload, true, nil
}

func (r *SQLiteSaveRepository) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM saves WHERE save_key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to clear save slot: %w", err)
	}
	return nil
}
