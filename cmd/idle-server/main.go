// Package main is the entry point for the Haizkolari Idle game server.
// It only handles dependency injection and server initialization.
// NO business logic belongs here.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	"github.com/MRamiBalles/HaizkolariIdle/server/internal/engine"
	"github.com/MRamiBalles/HaizkolariIdle/server/internal/events"
	"github.com/MRamiBalles/HaizkolariIdle/server/internal/infra/storage"
	"github.com/MRamiBalles/HaizkolariIdle/server/internal/network"
	"github.com/MRamiBalles/HaizkolariIdle/server/internal/platform/config"
	"github.com/MRamiBalles/HaizkolariIdle/server/internal/platform/logger"
	"github.com/MRamiBalles/HaizkolariIdle/server/internal/platform/metrics"
)

// SQLitePersisterAdapter translates domain events to storage events.
type SQLitePersisterAdapter struct {
	repo   *storage.SQLiteEventRepository
	logger *logger.Logger
}

// payloadToMap flattens an event payload into the storage DTO's map form.
// A nil payload stays nil; a payload that is not a JSON object is an error.
func payloadToMap(payload interface{}) (map[string]interface{}, error) {
	if payload == nil {
		return nil, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func (a *SQLitePersisterAdapter) Append(event events.GameEvent) error {
	payloadMap, err := payloadToMap(event.Payload)
	if err != nil {
		a.logger.Error("Failed to translate event payload for persistence: " + err.Error())
		return fmt.Errorf("translate event payload: %w", err)
	}

	storageEvent := storage.GameEvent{
		ID:        event.ID,
		Timestamp: event.Timestamp,
		EventType: string(event.Type),
		Stat:      event.Stat,
		Message:   event.Message,
		Payload:   payloadMap,
	}
	return a.repo.Append(context.Background(), storageEvent)
}

// toStorage converts the engine's persistent state to the snapshot DTO.
func toStorage(state engine.GameState) storage.Snapshot {
	return storage.Snapshot{
		PlayerStats:  state.PlayerStats,
		Pets:         state.Pets,
		GameLog:      state.GameLog,
		LastSaveTime: state.LastSaveTime,
	}
}

// toEngine converts a loaded snapshot back to engine state.
func toEngine(snap storage.Snapshot) engine.GameState {
	return engine.GameState{
		PlayerStats:  snap.PlayerStats,
		Pets:         snap.Pets,
		GameLog:      snap.GameLog,
		LastSaveTime: snap.LastSaveTime,
	}
}

func main() {
	log.Println("[IDLE-SERVER] Initializing 'Haizkolari Idle' Authoritative Server...")

	appLogger := logger.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		appLogger.Error("Failed to load configuration: " + err.Error())
		os.Exit(1)
	}

	appLogger.Info("Initializing SQLite database '" + cfg.DBPath + "'...")
	db, err := storage.InitSQLite(cfg.DBPath)
	if err != nil {
		appLogger.Error("Failed to initialize SQLite: " + err.Error())
		os.Exit(1)
	}
	eventRepo := storage.NewSQLiteEventRepository(db)
	eventPersister := &SQLitePersisterAdapter{repo: eventRepo, logger: appLogger}

	appLogger.Info("Bootstrapping EventLog...")
	eventLog := events.NewEventLog(eventPersister)

	appLogger.Info("Bootstrapping Engine...")
	gameEngine := engine.NewEngine(eventLog, appLogger, cfg.GameLogCapacity)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	saveRepo := storage.NewSQLiteSaveRepository(db)
	saveManager := storage.NewSaveManager(saveRepo, appLogger)

	// Recover the previous session, if any. A read failure may hide an
	// intact save; never start the auto-saver on top of it.
	snap, status, err := saveManager.Load(ctx)
	if status == storage.LoadFailed {
		appLogger.Error("Cannot read the save slot, refusing to start: " + err.Error())
		os.Exit(1)
	}
	switch status {
	case storage.LoadRestored:
		gameEngine.RestoreState(toEngine(snap))
		appLogger.Info("Restored saved game from SQLite.")
	case storage.LoadFirstRun:
		// SaveManager already logged the empty slot.
	case storage.LoadRecovered:
		appLogger.Warn("Corrupt save discarded. Starting a new adventure.")
	}

	// One save path shared by the auto-saver, the API and shutdown.
	persist := func(ctx context.Context) error {
		err := saveManager.Save(ctx, toStorage(gameEngine.PersistentState()))
		if err != nil {
			gameEngine.MarkSaveFailed(err)
			return err
		}
		gameEngine.MarkSaved(time.Now())
		return nil
	}

	// Auto-save routine: fixed period, no backoff. A failed cycle logs and
	// the next one retries naturally.
	go func() {
		saveTicker := time.NewTicker(cfg.AutoSaveInterval)
		defer saveTicker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-saveTicker.C:
				_ = persist(ctx)
			}
		}
	}()

	appLogger.Info("Bootstrapping WebSocket Hub...")
	hub := network.NewHub(gameEngine, appLogger, cfg.ClientActionWindow)
	gameEngine.SetNotifier(hub)
	go hub.Run(ctx)
	hub.StartEventPoller(ctx, eventLog)

	if cfg.AutoChop {
		chopper := engine.NewChopper(gameEngine, appLogger, hub.BroadcastState)
		go chopper.Start(ctx)
	}

	recapper := storage.NewRecapper(eventRepo)
	api := network.NewAPIBridge(gameEngine, recapper, persist, appLogger)

	mux := http.NewServeMux()
	api.Register(mux)
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWs(hub, w, r, appLogger)
	})
	mux.HandleFunc("/metrics", metrics.Handler())
	mux.HandleFunc("/metrics/prometheus", metrics.PrometheusHandler())

	go func() {
		log.Println("[IDLE-SERVER] HTTP API & WS Server listening on " + cfg.ListenAddr)
		if err := http.ListenAndServe(cfg.ListenAddr, mux); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	log.Println("[IDLE-SERVER] Server running. Press Ctrl+C to exit.")

	// Graceful shutdown: one final save before the process exits.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[IDLE-SERVER] Shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = persist(shutdownCtx)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow cross-origin requests for the Next.js dev server
	},
}

// serveWs handles websocket requests from the peer.
func serveWs(hub *network.Hub, w http.ResponseWriter, r *http.Request, log *logger.Logger) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("Failed to upgrade websocket connection")
		return
	}

	client := network.NewClient(hub, conn)
	client.Register()

	// Allow collection of memory referenced by the caller by doing all work in
	// new goroutines.
	go client.WritePump()
	go client.ReadPump()
}
