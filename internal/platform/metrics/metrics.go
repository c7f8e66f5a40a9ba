// Package metrics provides observability for the game server.
package metrics

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Collector gathers performance and gameplay counters.
type Collector struct {
	// Action metrics
	ActionsApplied  int64
	ActionsRejected int64

	// Persistence metrics
	Saves      int64
	SaveErrors int64
	Loads      int64

	// WebSocket metrics
	WSConnectionsActive int64
	WSMessagesIn        int64
	WSMessagesOut       int64
	WSErrors            int64

	// System
	StartTime   time.Time
	mu          sync.RWMutex
	perAction   map[string]int64
	lastActionT time.Time
}

// Global collector instance
var collector = &Collector{
	StartTime: time.Now(),
	perAction: make(map[string]int64),
}

// Get returns the global collector.
func Get() *Collector {
	return collector
}

// RecordAction records one engine action outcome by event type.
func (c *Collector) RecordAction(eventType string, rejected bool) {
	if rejected {
		atomic.AddInt64(&c.ActionsRejected, 1)
	} else {
		atomic.AddInt64(&c.ActionsApplied, 1)
	}

	c.mu.Lock()
	c.perAction[eventType]++
	c.lastActionT = time.Now()
	c.mu.Unlock()
}

// RecordSave records a persistence cycle.
func (c *Collector) RecordSave(err error) {
	atomic.AddInt64(&c.Saves, 1)
	if err != nil {
		atomic.AddInt64(&c.SaveErrors, 1)
	}
}

// RecordLoad records a snapshot load.
func (c *Collector) RecordLoad() {
	atomic.AddInt64(&c.Loads, 1)
}

// RecordWSConnection records WebSocket connection changes.
func (c *Collector) RecordWSConnection(delta int64) {
	atomic.AddInt64(&c.WSConnectionsActive, delta)
}

// RecordWSMessage records WebSocket messages.
func (c *Collector) RecordWSMessage(incoming bool) {
	if incoming {
		atomic.AddInt64(&c.WSMessagesIn, 1)
	} else {
		atomic.AddInt64(&c.WSMessagesOut, 1)
	}
}

// RecordWSError records a WebSocket error.
func (c *Collector) RecordWSError() {
	atomic.AddInt64(&c.WSErrors, 1)
}

// Snapshot returns current metrics as a map.
func (c *Collector) Snapshot() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	perAction := make(map[string]int64, len(c.perAction))
	for k, v := range c.perAction {
		perAction[k] = v
	}

	return map[string]interface{}{
		"uptime_seconds": time.Since(c.StartTime).Seconds(),

		"actions": map[string]interface{}{
			"applied":     atomic.LoadInt64(&c.ActionsApplied),
			"rejected":    atomic.LoadInt64(&c.ActionsRejected),
			"by_type":     perAction,
			"last_action": c.lastActionT.Format(time.RFC3339),
		},

		"persistence": map[string]interface{}{
			"saves":       atomic.LoadInt64(&c.Saves),
			"save_errors": atomic.LoadInt64(&c.SaveErrors),
			"loads":       atomic.LoadInt64(&c.Loads),
		},

		"websocket": map[string]interface{}{
			"active_connections": atomic.LoadInt64(&c.WSConnectionsActive),
			"messages_in":        atomic.LoadInt64(&c.WSMessagesIn),
			"messages_out":       atomic.LoadInt64(&c.WSMessagesOut),
			"errors":             atomic.LoadInt64(&c.WSErrors),
		},
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-cache")

		snapshot := collector.Snapshot()
		json.NewEncoder(w).Encode(snapshot)
	}
}

// PrometheusHandler returns metrics in Prometheus format.
func PrometheusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		c := collector

		fmt.Fprintf(w, "# HELP haizkolari_actions_applied Total applied engine actions\n")
		fmt.Fprintf(w, "# TYPE haizkolari_actions_applied counter\n")
		fmt.Fprintf(w, "haizkolari_actions_applied %d\n\n", atomic.LoadInt64(&c.ActionsApplied))

		fmt.Fprintf(w, "# HELP haizkolari_actions_rejected Total rejected engine actions\n")
		fmt.Fprintf(w, "# TYPE haizkolari_actions_rejected counter\n")
		fmt.Fprintf(w, "haizkolari_actions_rejected %d\n\n", atomic.LoadInt64(&c.ActionsRejected))

		fmt.Fprintf(w, "# HELP haizkolari_saves_total Total snapshot saves\n")
		fmt.Fprintf(w, "# TYPE haizkolari_saves_total counter\n")
		fmt.Fprintf(w, "haizkolari_saves_total %d\n\n", atomic.LoadInt64(&c.Saves))

		fmt.Fprintf(w, "# HELP haizkolari_save_errors_total Total failed snapshot saves\n")
		fmt.Fprintf(w, "# TYPE haizkolari_save_errors_total counter\n")
		fmt.Fprintf(w, "haizkolari_save_errors_total %d\n\n", atomic.LoadInt64(&c.SaveErrors))

		fmt.Fprintf(w, "# HELP haizkolari_ws_connections Active WebSocket connections\n")
		fmt.Fprintf(w, "# TYPE haizkolari_ws_connections gauge\n")
		fmt.Fprintf(w, "haizkolari_ws_connections %d\n\n", atomic.LoadInt64(&c.WSConnectionsActive))

		fmt.Fprintf(w, "# HELP haizkolari_ws_messages_total Total WebSocket messages\n")
		fmt.Fprintf(w, "# TYPE haizkolari_ws_messages_total counter\n")
		fmt.Fprintf(w, "haizkolari_ws_messages_total{direction=\"in\"} %d\n", atomic.LoadInt64(&c.WSMessagesIn))
		fmt.Fprintf(w, "haizkolari_ws_messages_total{direction=\"out\"} %d\n", atomic.LoadInt64(&c.WSMessagesOut))
	}
}
