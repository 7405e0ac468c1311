package printer

import (
	"fmt"
	"time"
)

const (
	// DefaultCadence matches one Tick per emulated video frame at 50Hz
	DefaultCadence = 20 * time.Millisecond

	// DefaultIdleTimeout is how long the stream may stay silent before the file is closed
	DefaultIdleTimeout = 4 * time.Second
)

// Option configures a Sink
type Option func(*Sink) error

// WithCadence sets how much emulated time passes between two Tick calls
func WithCadence(cadence time.Duration) Option {
	return func(s *Sink) error {
		if cadence <= 0 {
			return fmt.Errorf("cadence must be positive, got %s", cadence)
		}
		s.cadence = cadence
		return nil
	}
}

// WithIdleTimeout sets the silence after which the destination gets closed
func WithIdleTimeout(timeout time.Duration) Option {
	return func(s *Sink) error {
		if timeout <= 0 {
			return fmt.Errorf("idle timeout must be positive, got %s", timeout)
		}
		s.idleTimeout = timeout
		return nil
	}
}

// idleTicks converts the idle timeout into a number of Tick calls, rounding up
func idleTicks(timeout, cadence time.Duration) int {
	ticks := int((timeout + cadence - 1) / cadence)
	if ticks < 1 {
		return 1
	}
	return ticks
}
