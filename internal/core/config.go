package core

import "time"

// RuntimeConfig contains settings passed to a front end at startup.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // UI ticks per second; each tick advances the game clock
	Seed     int64 // RNG seed for deterministic shuffles
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 30,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// TickInterval returns the duration of one tick.
func (c RuntimeConfig) TickInterval() time.Duration {
	rate := c.TickRate
	if rate <= 0 {
		rate = 30
	}
	return time.Second / time.Duration(rate)
}
