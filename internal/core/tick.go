package core

import "time"

// Tick describes one fixed simulation step. It is handed to the simulator and
// to tick observers.
type Tick struct {
	Index int64         // Zero-based index of this tick since start
	Time  time.Duration // Simulated time at the start of this tick
	Delta float64       // Fixed step length in seconds
}

// End returns the simulated time once this tick completes.
func (t Tick) End() time.Duration {
	return t.Time + time.Duration(t.Delta*float64(time.Second))
}
