package engine

import (
	"sync"
	"time"

	"github.com/MRamiBalles/HaizkolariIdle/server/internal/domain/pet"
	"github.com/MRamiBalles/HaizkolariIdle/server/internal/domain/stats"
	"github.com/MRamiBalles/HaizkolariIdle/server/internal/events"
	"github.com/MRamiBalles/HaizkolariIdle/server/internal/platform/logger"
)

// Notice is the transient user-facing notification an action emits.
// Variant "destructive" marks failures, mirroring the client's toast styles.
type Notice struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Variant     string `json:"variant"`
}

// Notifier receives exactly one Notice per engine action.
type Notifier interface {
	Notify(n Notice)
}

// Result reports the outcome of an engine action. Game-logic rejections
// are expected outcomes, not errors: nothing here ever panics or fails.
type Result struct {
	OK        bool   `json:"ok"`
	Message   string `json:"message"`
	Shortfall int    `json:"shortfall,omitempty"` // oro missing on a rejected purchase
	OroGained int    `json:"oroGained,omitempty"`
	ExpGained int    `json:"expGained,omitempty"`
	Notice    Notice `json:"notice"`
}

// TrainPayload details a stat-raising event.
type TrainPayload struct {
	Stat     string `json:"stat"`
	Increase int    `json:"increase"`
	Cost     int    `json:"cost,omitempty"`
}

// ChopPayload details a productive chop.
type ChopPayload struct {
	Effective float64 `json:"effective"`
	OroGained int     `json:"oro_gained"`
	ExpGained int     `json:"exp_gained"`
}

// GameState is the read-only snapshot the engine exposes after every
// operation. PlayerStats carries DERIVED values (base + pet bonuses)
// unless the snapshot was produced by PersistentState.
type GameState struct {
	PlayerStats  stats.PlayerStats `json:"playerStats"`
	Pets         []pet.Pet         `json:"pets"`
	GameLog      []string          `json:"gameLog"`
	LastSaveTime int64             `json:"lastSaveTime,omitempty"`
}

// Engine is the authoritative owner of the game state. All mutations go
// through its operations; presentation collaborators only read snapshots.
type Engine struct {
	mu       sync.Mutex
	base     stats.PlayerStats // trained values, pet bonuses excluded
	view     stats.PlayerStats // derived values, recomposed after every mutation
	pets     []pet.Pet
	gameLog  *events.GameLog
	eventLog *events.EventLog
	logger   *logger.Logger
	notifier Notifier
	lastSave int64 // epoch millis of the last successful save
}

// NewEngine initializes a fresh game: default ledger, default roster,
// welcome line, passive bonuses composed once.
func NewEngine(eventLog *events.EventLog, log *logger.Logger, logCapacity int) *Engine {
	e := &Engine{
		base:     stats.Defaults(),
		pets:     pet.DefaultRoster(),
		gameLog:  events.NewGameLog(logCapacity),
		eventLog: eventLog,
		logger:   log,
	}
	e.gameLog.Append("Bienvenido a Haizkolari Idle!")
	e.recompose()
	return e
}

// SetNotifier wires the notification boundary. A nil notifier is fine.
func (e *Engine) SetNotifier(n Notifier) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.notifier = n
}

func (e *Engine) notify(n Notice) {
	if e.notifier != nil {
		e.notifier.Notify(n)
	}
}

func (e *Engine) makeEvent(t events.EventType, key stats.StatKey, message string, payload interface{}) events.GameEvent {
	return events.GameEvent{
		ID:        events.GenerateEventID(),
		Timestamp: time.Now(),
		Type:      t,
		Stat:      string(key),
		Message:   message,
		Payload:   payload,
	}
}

// recompose re-derives the displayed ledger from the base values and the
// active pets. It always starts from base, so running it any number of
// times yields the same view. Caller must hold e.mu.
func (e *Engine) recompose() {
	bonus := pet.ComposeBonus(e.base, e.pets)
	e.view = e.base.Plus(bonus)
}

// Snapshot returns a deep copy of the presentation-facing state: derived
// stats, pets with display fields, the bounded log and the last save time.
func (e *Engine) Snapshot() GameState {
	e.mu.Lock()
	defer e.mu.Unlock()

	return GameState{
		PlayerStats:  e.view,
		Pets:         e.copyPets(),
		GameLog:      e.gameLog.Lines(),
		LastSaveTime: e.lastSave,
	}
}

// PersistentState returns the state the persistence adapter must store:
// BASE stats, so that bonuses are re-derived (not double-counted) on load.
func (e *Engine) PersistentState() GameState {
	e.mu.Lock()
	defer e.mu.Unlock()

	return GameState{
		PlayerStats:  e.base,
		Pets:         e.copyPets(),
		GameLog:      e.gameLog.Lines(),
		LastSaveTime: e.lastSave,
	}
}

func (e *Engine) copyPets() []pet.Pet {
	out := make([]pet.Pet, len(e.pets))
	copy(out, e.pets)
	return out
}

// RestoreState installs a loaded snapshot: base stats are taken as stored,
// pet behavior is re-resolved from the catalog, and passive bonuses are
// composed once before the state becomes visible.
func (e *Engine) RestoreState(snap GameState) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.base = snap.PlayerStats
	e.pets = make([]pet.Pet, 0, len(snap.Pets))
	for _, p := range snap.Pets {
		e.pets = append(e.pets, pet.Resolve(p))
	}
	e.gameLog.Replace(snap.GameLog)
	e.lastSave = snap.LastSaveTime
	e.recompose()

	line := "Juego cargado!"
	e.gameLog.Append(line)
	e.eventLog.Append(e.makeEvent(events.EventTypeGameLoaded, "", line, nil))
	e.logger.Info("Game state restored from snapshot.")
	e.notify(Notice{Title: "Juego Cargado", Description: "Tu progreso ha sido restaurado.", Variant: "default"})
}

// MarkSaved records a successful save: timestamp, log line, notice.
func (e *Engine) MarkSaved(at time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.lastSave = at.UnixMilli()
	line := "Juego guardado!"
	e.gameLog.Append(line)
	e.eventLog.Append(e.makeEvent(events.EventTypeGameSaved, "", line, nil))
	e.notify(Notice{Title: "Juego Guardado", Description: "Tu progreso ha sido guardado.", Variant: "default"})
}

// MarkSaveFailed records a failed save. The in-memory state is untouched;
// the next auto-save cycle retries naturally.
func (e *Engine) MarkSaveFailed(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	line := "Error al guardar el juego."
	e.gameLog.Append(line)
	e.eventLog.Append(e.makeEvent(events.EventTypeSaveFailed, "", line, nil))
	e.logger.Error("Failed to persist game state: " + err.Error())
	e.notify(Notice{Title: "Error al Guardar", Description: "No se pudo guardar tu progreso.", Variant: "destructive"})
}

// GetEventLog exposes the append-only event log for presentation pollers.
func (e *Engine) GetEventLog() *events.EventLog {
	return e.eventLog
}
