package network

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/MRamiBalles/HaizkolariIdle/server/internal/engine"
	"github.com/MRamiBalles/HaizkolariIdle/server/internal/events"
	"github.com/MRamiBalles/HaizkolariIdle/server/internal/platform/logger"
	"github.com/MRamiBalles/HaizkolariIdle/server/internal/platform/metrics"
)

// ServerMessage is the envelope every hub broadcast uses. Exactly one of
// the optional fields is set, matching Type.
type ServerMessage struct {
	Type   string            `json:"type"` // "event", "state", "notice"
	Event  *events.GameEvent `json:"event,omitempty"`
	State  *engine.GameState `json:"state,omitempty"`
	Notice *engine.Notice    `json:"notice,omitempty"`
}

// Hub maintains the set of active clients and broadcasts messages to them.
// It also implements engine.Notifier: transient notices reach every
// connected client.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mu         sync.Mutex
	logger     *logger.Logger
	engine     *engine.Engine

	// Minimum gap between actions from one client.
	actionWindow time.Duration
}

// NewHub initializes a new WebSocket Hub bound to the engine.
func NewHub(eng *engine.Engine, log *logger.Logger, actionWindow time.Duration) *Hub {
	return &Hub{
		broadcast:    make(chan []byte, 256),
		register:     make(chan *Client),
		unregister:   make(chan *Client),
		clients:      make(map[*Client]bool),
		logger:       log,
		engine:       eng,
		actionWindow: actionWindow,
	}
}

// Run starts the Hub's main loop to handle client connections and broadcasts.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.logger.Info("WebSocket Hub shutting down.")
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			metrics.Get().RecordWSConnection(1)
			h.logger.Info("New WebSocket client connected")

			// New clients get the current state immediately.
			client.sendState(h.engine.Snapshot())
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				metrics.Get().RecordWSConnection(-1)
				h.logger.Info("WebSocket client disconnected")
			}
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
					metrics.Get().RecordWSMessage(false)
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) broadcastMessage(msg ServerMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		metrics.Get().RecordWSError()
		h.logger.Error("Failed to serialize hub message: " + err.Error())
		return
	}
	// Never block the caller: the engine notifies while holding its lock,
	// so a full queue drops the message rather than stalling an action.
	select {
	case h.broadcast <- payload:
	default:
		metrics.Get().RecordWSError()
	}
}

// BroadcastEvent sends an action event to all connected clients.
func (h *Hub) BroadcastEvent(event events.GameEvent) {
	h.broadcastMessage(ServerMessage{Type: "event", Event: &event})
}

// BroadcastState sends a fresh read-only snapshot to all connected clients.
func (h *Hub) BroadcastState(state engine.GameState) {
	h.broadcastMessage(ServerMessage{Type: "state", State: &state})
}

// Notify implements engine.Notifier: one transient toast per engine action.
func (h *Hub) Notify(n engine.Notice) {
	h.broadcastMessage(ServerMessage{Type: "notice", Notice: &n})
}

// StartEventPoller spawns a goroutine to poll the EventLog and push new
// events to the Hub. The Hub runs independently from the engine's action
// path while picking up the same events.
func (h *Hub) StartEventPoller(ctx context.Context, eventLog *events.EventLog) {
	go func() {
		pollInterval := time.NewTicker(200 * time.Millisecond)
		defer pollInterval.Stop()

		lastProcessedEvent := 0

		for {
			select {
			case <-ctx.Done():
				return
			case <-pollInterval.C:
				allEvents := eventLog.Replay()
				newEventsCount := len(allEvents) - lastProcessedEvent

				if newEventsCount > 0 {
					newEvents := allEvents[lastProcessedEvent:]
					for _, event := range newEvents {
						h.BroadcastEvent(event)
					}
					lastProcessedEvent = len(allEvents)
				}
			}
		}
	}()
}
