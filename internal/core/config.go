package core

import "time"

// RuntimeConfig carries host-level settings shared by every front end.
// The viewer adapts to the screen size; the seed makes scenario spawning
// reproducible.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	FrameFPS int   // Render frames per second requested from the host loop
	Seed     int64 // RNG seed for scenario spawning
}

// DefaultRuntimeConfig returns a RuntimeConfig with sensible defaults.
func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		FrameFPS: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// FrameInterval returns the wall time between render frames.
func (c RuntimeConfig) FrameInterval() time.Duration {
	if c.FrameFPS <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.FrameFPS)
}
