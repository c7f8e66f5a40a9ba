package engine

import (
	"context"
	"time"

	"github.com/MRamiBalles/HaizkolariIdle/server/internal/domain/stats"
	"github.com/MRamiBalles/HaizkolariIdle/server/internal/platform/logger"
)

// Chopper is the idle heartbeat: it swings the axe automatically, waiting
// Velocidad milliseconds between repetitions. Training velocidad shortens
// the wait on the very next swing.
type Chopper struct {
	engine   *Engine
	logger   *logger.Logger
	onSwing  func(GameState)
	stopChan chan struct{}
}

// NewChopper creates the automatic chopping loop. onSwing receives the
// fresh snapshot after every swing and may be nil.
func NewChopper(eng *Engine, log *logger.Logger, onSwing func(GameState)) *Chopper {
	return &Chopper{
		engine:   eng,
		logger:   log,
		onSwing:  onSwing,
		stopChan: make(chan struct{}),
	}
}

// Start begins the chopping loop. Call in a goroutine.
func (c *Chopper) Start(ctx context.Context) {
	c.logger.Info("Chopper started. The axe never rests.")

	for {
		delay := c.currentDelay()
		timer := time.NewTimer(delay)

		select {
		case <-ctx.Done():
			timer.Stop()
			c.logger.Info("Chopper stopped by context.")
			return
		case <-c.stopChan:
			timer.Stop()
			c.logger.Info("Chopper stopped manually.")
			return
		case <-timer.C:
			c.swing()
		}
	}
}

// Stop gracefully stops the chopper.
func (c *Chopper) Stop() {
	close(c.stopChan)
}

// swing performs one automatic repetition.
func (c *Chopper) swing() {
	c.engine.ChopWood()
	if c.onSwing != nil {
		c.onSwing(c.engine.Snapshot())
	}
}

// currentDelay reads the repetition delay from the derived view. The
// clamp in the rules keeps this at or above the floor, so the timer can
// never spin.
func (c *Chopper) currentDelay() time.Duration {
	vel := c.engine.Snapshot().PlayerStats.Velocidad
	if vel < stats.VelocidadFloor {
		vel = stats.VelocidadFloor
	}
	return time.Duration(vel) * time.Millisecond
}
