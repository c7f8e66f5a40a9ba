package storage

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MRamiBalles/HaizkolariIdle/server/internal/domain/pet"
	"github.com/MRamiBalles/HaizkolariIdle/server/internal/domain/stats"
	"github.com/MRamiBalles/HaizkolariIdle/server/internal/platform/logger"
	"github.com/MRamiBalles/HaizkolariIdle/server/internal/platform/metrics"
)

// SaveKey is the fixed slot the whole game state lives under.
const SaveKey = "haizkolariIdleGameState"

// Snapshot is the persisted form of the game: base stat values, pets
// without behavior, the bounded log, and the save timestamp.
// pet.Pet marshals its bonus function as nothing (json:"-"), so behavior
// never reaches storage.
type Snapshot struct {
	PlayerStats  stats.PlayerStats `json:"playerStats"`
	Pets         []pet.Pet         `json:"pets"`
	GameLog      []string          `json:"gameLog"`
	LastSaveTime int64             `json:"lastSaveTime"`
}

// snapshotDoc is the decode-side view. Raw sections let Load distinguish
// "section missing" from "section empty".
type snapshotDoc struct {
	PlayerStats  json.RawMessage `json:"playerStats"`
	Pets         json.RawMessage `json:"pets"`
	GameLog      json.RawMessage `json:"gameLog"`
	LastSaveTime int64           `json:"lastSaveTime"`
}

// LoadStatus classifies the outcome of a Load call.
type LoadStatus int

const (
	// LoadRestored means a stored snapshot was decoded and returned.
	LoadRestored LoadStatus = iota
	// LoadFirstRun means the slot was empty; defaults were returned.
	LoadFirstRun
	// LoadRecovered means the stored record was corrupt; it was cleared
	// and defaults were returned.
	LoadRecovered
	// LoadFailed means storage could not be read at all. The slot may
	// still hold an intact save, so the caller must not overwrite it.
	LoadFailed
)

// DefaultSnapshot returns the state of a brand new game.
func DefaultSnapshot() Snapshot {
	return Snapshot{
		PlayerStats: stats.Defaults(),
		Pets:        pet.DefaultRoster(),
		GameLog:     []string{},
	}
}

// SaveManager is the persistence adapter: it owns the encoding and the
// fallback rules, and never lets a storage problem take the game down.
type SaveManager struct {
	repo   SaveRepository
	logger *logger.Logger
}

// NewSaveManager creates a persistence adapter over the given slot store.
func NewSaveManager(repo SaveRepository, log *logger.Logger) *SaveManager {
	return &SaveManager{repo: repo, logger: log}
}

// Save serializes the snapshot and stores it under the fixed key. The
// current timestamp is attached before encoding. A failure is logged and
// returned; in-memory game state is unaffected either way.
func (m *SaveManager) Save(ctx context.Context, snap Snapshot) error {
	snap.LastSaveTime = time.Now().UnixMilli()

	raw, err := json.Marshal(snap)
	if err != nil {
		metrics.Get().RecordSave(err)
		m.logger.Error("Failed to serialize snapshot: " + err.Error())
		return fmt.Errorf("serialize snapshot: %w", err)
	}

	encoded := base64.StdEncoding.EncodeToString(raw)
	if err := m.repo.Put(ctx, SaveKey, encoded); err != nil {
		metrics.Get().RecordSave(err)
		m.logger.Error("Failed to store snapshot: " + err.Error())
		return fmt.Errorf("store snapshot: %w", err)
	}

	metrics.Get().RecordSave(nil)
	return nil
}

// Load reads the slot and returns a usable snapshot in every case:
//   - empty slot: defaults, LoadFirstRun
//   - valid record: decoded state merged over defaults, LoadRestored
//   - corrupt record: the slot is actively cleared so the same failure
//     cannot re-trigger on next start, then defaults, LoadRecovered
//   - storage read failure: LoadFailed with the error; the slot is left
//     untouched and the returned defaults must not be saved over it
func (m *SaveManager) Load(ctx context.Context) (Snapshot, LoadStatus, error) {
	encoded, found, err := m.repo.Get(ctx, SaveKey)
	if err != nil {
		m.logger.Error("Failed to read the save slot: " + err.Error())
		return DefaultSnapshot(), LoadFailed, err
	}
	if !found {
		m.logger.Info("No saved game found. Starting a new one.")
		return DefaultSnapshot(), LoadFirstRun, nil
	}

	snap, decodeErr := decodeSnapshot(encoded)
	if decodeErr != nil {
		m.logger.Warn("Discarding corrupt save: " + decodeErr.Error())
		if delErr := m.repo.Delete(ctx, SaveKey); delErr != nil {
			m.logger.Error("Failed to clear corrupt save: " + delErr.Error())
		}
		return DefaultSnapshot(), LoadRecovered, nil
	}

	metrics.Get().RecordLoad()
	return snap, LoadRestored, nil
}

// Clear wipes the save slot.
func (m *SaveManager) Clear(ctx context.Context) error {
	return m.repo.Delete(ctx, SaveKey)
}

// decodeSnapshot reverses the text encoding and validates that the three
// required sections are present. Stats are merged over defaults so that
// attributes introduced after an old save default correctly.
func decodeSnapshot(encoded string) (Snapshot, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return Snapshot{}, fmt.Errorf("decode base64: %w", err)
	}

	var doc snapshotDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Snapshot{}, fmt.Errorf("decode json: %w", err)
	}

	if missingSection(doc.PlayerStats) || missingSection(doc.Pets) || missingSection(doc.GameLog) {
		return Snapshot{}, fmt.Errorf("invalid snapshot structure: missing required section")
	}

	snap := Snapshot{
		PlayerStats:  stats.Defaults(),
		LastSaveTime: doc.LastSaveTime,
	}
	if err := json.Unmarshal(doc.PlayerStats, &snap.PlayerStats); err != nil {
		return Snapshot{}, fmt.Errorf("decode playerStats: %w", err)
	}
	if err := json.Unmarshal(doc.Pets, &snap.Pets); err != nil {
		return Snapshot{}, fmt.Errorf("decode pets: %w", err)
	}
	if err := json.Unmarshal(doc.GameLog, &snap.GameLog); err != nil {
		return Snapshot{}, fmt.Errorf("decode gameLog: %w", err)
	}

	return snap, nil
}

func missingSection(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}
