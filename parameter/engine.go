package parameter

import "time"

// Simulation Loop & Timing
const (
	// FrameUpdateInterval is the viewer redraw interval (~60 FPS)
	FrameUpdateInterval = 16 * time.Millisecond

	// TickInterval is the fixed logical simulation tick (~40 ticks per second)
	TickInterval = 25 * time.Millisecond

	// DefaultSeed seeds the single randomness stream when none is configured
	DefaultSeed = 0x1F2E3D4C
)

// Pool & Queue Limits
const (
	// VehiclePoolSize is the default arena capacity shared by all rides
	VehiclePoolSize = 4096

	// EventQueueSize is the fixed capacity of the presentation event ring buffer
	EventQueueSize = 2048

	// EventBufferMask is the bitmask for fast modulo operations (2048 - 1)
	EventBufferMask = 2047
)
