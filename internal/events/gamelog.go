package events

import (
	"sync"
	"time"
)

// DefaultGameLogCapacity bounds the player-visible log to its last entries.
const DefaultGameLogCapacity = 10

// GameLog is the bounded, player-visible journal of timestamped lines.
// It is purely observational: nothing in the game rules reads it back.
type GameLog struct {
	mu       sync.Mutex
	capacity int
	lines    []string
	clock    func() time.Time
}

// NewGameLog creates an empty log holding at most capacity lines.
// A capacity below 1 falls back to the default.
func NewGameLog(capacity int) *GameLog {
	if capacity < 1 {
		capacity = DefaultGameLogCapacity
	}
	return &GameLog{
		capacity: capacity,
		lines:    make([]string, 0, capacity),
		clock:    time.Now,
	}
}

// Append adds a timestamped line, dropping the oldest entry once the
// bound is exceeded.
func (gl *GameLog) Append(message string) {
	gl.mu.Lock()
	defer gl.mu.Unlock()

	line := gl.clock().Format("15:04:05") + ": " + message
	gl.lines = append(gl.lines, line)
	if len(gl.lines) > gl.capacity {
		gl.lines = gl.lines[len(gl.lines)-gl.capacity:]
	}
}

// AppendRaw adds an already-formatted line, used when restoring a snapshot.
func (gl *GameLog) AppendRaw(line string) {
	gl.mu.Lock()
	defer gl.mu.Unlock()

	gl.lines = append(gl.lines, line)
	if len(gl.lines) > gl.capacity {
		gl.lines = gl.lines[len(gl.lines)-gl.capacity:]
	}
}

// Lines returns a copy of the current entries, oldest first.
func (gl *GameLog) Lines() []string {
	gl.mu.Lock()
	defer gl.mu.Unlock()

	out := make([]string, len(gl.lines))
	copy(out, gl.lines)
	return out
}

// Replace swaps the full contents, trimming to the bound. Used on load.
func (gl *GameLog) Replace(lines []string) {
	gl.mu.Lock()
	defer gl.mu.Unlock()

	if len(lines) > gl.capacity {
		lines = lines[len(lines)-gl.capacity:]
	}
	gl.lines = make([]string, len(lines))
	copy(gl.lines, lines)
}
