// HTTP bridge for presentation collaborators that do not hold a
// websocket: read-only state, engine actions, manual save, activity recap.
// This layer performs no game-logic computation.
package network

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/MRamiBalles/HaizkolariIdle/server/internal/domain/pet"
	"github.com/MRamiBalles/HaizkolariIdle/server/internal/domain/stats"
	"github.com/MRamiBalles/HaizkolariIdle/server/internal/engine"
	"github.com/MRamiBalles/HaizkolariIdle/server/internal/infra/storage"
	"github.com/MRamiBalles/HaizkolariIdle/server/internal/platform/logger"
)

// SaveFunc persists the current game state. Wired by cmd so this layer
// stays ignorant of the persistence adapter's mechanics.
type SaveFunc func(ctx context.Context) error

// maxRecentEvents bounds how many persisted events one request may ask for.
const maxRecentEvents = 500

// APIBridge exposes the engine over plain HTTP.
type APIBridge struct {
	engine   *engine.Engine
	recapper *storage.Recapper
	save     SaveFunc
	logger   *logger.Logger
}

// NewAPIBridge creates the HTTP handler set.
func NewAPIBridge(eng *engine.Engine, recapper *storage.Recapper, save SaveFunc, log *logger.Logger) *APIBridge {
	return &APIBridge{
		engine:   eng,
		recapper: recapper,
		save:     save,
		logger:   log,
	}
}

// Register mounts all API routes on the mux.
func (b *APIBridge) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/state", b.handleState)
	mux.HandleFunc("/api/action", b.handleAction)
	mux.HandleFunc("/api/save", b.handleSave)
	mux.HandleFunc("/api/events/recent", b.handleRecentEvents)
}

func (b *APIBridge) jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// handleState returns the current read-only snapshot.
// GET /api/state
func (b *APIBridge) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		b.jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(b.engine.Snapshot())
}

// handleAction routes a command to the engine and returns its Result.
// POST /api/action {"type":"TRAIN","stat":"fuerza"}
func (b *APIBridge) handleAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		b.jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var action PlayerAction
	if err := json.NewDecoder(r.Body).Decode(&action); err != nil {
		b.jsonError(w, "Invalid payload", http.StatusBadRequest)
		return
	}

	var res engine.Result
	switch action.Type {
	case "TRAIN":
		res = b.engine.TrainStat(stats.StatKey(action.Stat), action.Amount)
	case "MEDITATE":
		res = b.engine.Meditate()
	case "IMPROVE_BLADE":
		res = b.engine.ImproveBlade()
	case "BUY_MATERIAL":
		res = b.engine.BuyMaterial(stats.StatKey(action.Stat))
	case "CHOP_WOOD":
		res = b.engine.ChopWood()
	case "PET_TOGGLE":
		res = b.engine.SetPetActive(pet.ID(action.PetID), action.Active)
	default:
		b.jsonError(w, "Unknown action type: "+action.Type, http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"result": res,
		"state":  b.engine.Snapshot(),
	})
}

// handleSave triggers a manual save cycle.
// POST /api/save
func (b *APIBridge) handleSave(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		b.jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ok"
	if err := b.save(ctx); err != nil {
		// Non-fatal: the engine already logged and notified.
		status = "error"
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": status})
}

// handleRecentEvents returns the latest persisted events, newest first.
// GET /api/events/recent?limit=N
func (b *APIBridge) handleRecentEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		b.jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > maxRecentEvents {
		limit = maxRecentEvents
	}

	events, err := b.recapper.Recent(r.Context(), limit)
	if err != nil {
		b.logger.Error("Failed to build event recap: " + err.Error())
		b.jsonError(w, "Failed to read events", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"total_events": len(events),
		"generated_at": time.Now().Format(time.RFC3339),
		"events":       events,
	})
}
