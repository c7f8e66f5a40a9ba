package events

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

func fixedClockLog(capacity int) *GameLog {
	gl := NewGameLog(capacity)
	gl.clock = func() time.Time {
		return time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)
	}
	return gl
}

func TestGameLogTimestampsLines(t *testing.T) {
	gl := fixedClockLog(10)
	gl.Append("Bienvenido a Haizkolari Idle!")

	lines := gl.Lines()
	if len(lines) != 1 {
		t.Fatalf("Expected 1 line, got %d", len(lines))
	}
	if lines[0] != "09:30:00: Bienvenido a Haizkolari Idle!" {
		t.Errorf("Expected timestamped line, got %q", lines[0])
	}
}

func TestGameLogEvictsOldestBeyondCapacity(t *testing.T) {
	gl := fixedClockLog(10)
	for i := 0; i < 25; i++ {
		gl.Append(fmt.Sprintf("entrada %d", i))
	}

	lines := gl.Lines()
	if len(lines) != 10 {
		t.Fatalf("Expected log bounded to 10 lines, got %d", len(lines))
	}
	if !strings.HasSuffix(lines[0], "entrada 15") {
		t.Errorf("Expected oldest surviving line to be entrada 15, got %q", lines[0])
	}
	if !strings.HasSuffix(lines[9], "entrada 24") {
		t.Errorf("Expected newest line to be entrada 24, got %q", lines[9])
	}
}

func TestGameLogReplaceTrimsToBound(t *testing.T) {
	gl := fixedClockLog(10)

	restored := make([]string, 15)
	for i := range restored {
		restored[i] = fmt.Sprintf("old %d", i)
	}
	gl.Replace(restored)

	lines := gl.Lines()
	if len(lines) != 10 {
		t.Fatalf("Expected restored log trimmed to 10 lines, got %d", len(lines))
	}
	if lines[0] != "old 5" {
		t.Errorf("Expected trimming to keep the newest lines, got %q first", lines[0])
	}
}

func TestGameLogLinesReturnsCopy(t *testing.T) {
	gl := fixedClockLog(10)
	gl.Append("una linea")

	lines := gl.Lines()
	lines[0] = "mutated"

	if gl.Lines()[0] == "mutated" {
		t.Error("Expected Lines to return a copy, internal state was mutated")
	}
}

func TestGameLogCapacityFallback(t *testing.T) {
	gl := NewGameLog(0)
	for i := 0; i < DefaultGameLogCapacity+5; i++ {
		gl.AppendRaw(fmt.Sprintf("linea %d", i))
	}
	if got := len(gl.Lines()); got != DefaultGameLogCapacity {
		t.Errorf("Expected fallback capacity %d, got %d lines", DefaultGameLogCapacity, got)
	}
}
