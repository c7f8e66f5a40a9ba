package network

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"

	"github.com/MRamiBalles/HaizkolariIdle/server/internal/domain/pet"
	"github.com/MRamiBalles/HaizkolariIdle/server/internal/domain/stats"
	"github.com/MRamiBalles/HaizkolariIdle/server/internal/engine"
	"github.com/MRamiBalles/HaizkolariIdle/server/internal/platform/metrics"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

// PlayerAction represents an incoming command from the frontend. The engine
// owns all validation; this layer only routes.
type PlayerAction struct {
	Type   string `json:"type"`             // "TRAIN", "MEDITATE", "IMPROVE_BLADE", "BUY_MATERIAL", "CHOP_WOOD", "PET_TOGGLE"
	Stat   string `json:"stat,omitempty"`   // attribute for TRAIN, slot for BUY_MATERIAL
	Amount int    `json:"amount,omitempty"` // optional training amount
	PetID  string `json:"pet_id,omitempty"`
	Active bool   `json:"active,omitempty"`
}

// Client holds one active WebSocket connection.
type Client struct {
	hub            *Hub
	conn           *websocket.Conn
	send           chan []byte
	lastActionTime time.Time
}

// NewClient creates a new WebSocket client and returns it.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 256),
	}
}

// Register adds the client to the hub.
func (c *Client) Register() {
	c.hub.register <- c
}

// sendState queues a state snapshot for this client only.
func (c *Client) sendState(state engine.GameState) {
	payload, err := json.Marshal(ServerMessage{Type: "state", State: &state})
	if err != nil {
		return
	}
	select {
	case c.send <- payload:
	default:
	}
}

// ReadPump pumps messages from the websocket connection to the engine.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("error: %v", err)
			}
			break
		}
		metrics.Get().RecordWSMessage(true)

		var action PlayerAction
		if err := json.Unmarshal(message, &action); err != nil {
			c.hub.logger.Error("Failed to parse PlayerAction from WebSocket. err: " + err.Error())
			continue
		}

		c.handlePlayerAction(action)
	}
}

func (c *Client) handlePlayerAction(action PlayerAction) {
	// Rate limiting: one action per configured window.
	if time.Since(c.lastActionTime) < c.hub.actionWindow {
		c.hub.logger.Warn("Rate limit exceeded for client action " + action.Type)
		return
	}
	c.lastActionTime = time.Now()

	eng := c.hub.engine

	switch action.Type {
	case "TRAIN":
		eng.TrainStat(stats.StatKey(action.Stat), action.Amount)
	case "MEDITATE":
		eng.Meditate()
	case "IMPROVE_BLADE":
		eng.ImproveBlade()
	case "BUY_MATERIAL":
		eng.BuyMaterial(stats.StatKey(action.Stat))
	case "CHOP_WOOD":
		eng.ChopWood()
	case "PET_TOGGLE":
		eng.SetPetActive(pet.ID(action.PetID), action.Active)
	default:
		c.hub.logger.Warn("Unknown PlayerAction type: " + action.Type)
		return
	}

	// Every routed action refreshes the shared state view.
	c.hub.BroadcastState(eng.Snapshot())
}

// WritePump pumps messages from the hub to the websocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current websocket message.
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
