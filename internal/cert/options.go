package cert

import (
	"github.com/spoke-d/filament/internal/clock"
)

// Option to be passed to NewCertGenerator to customize the resulting
// instance.
type Option func(*options)

type options struct {
	clock clock.Clock
	os    OS
	bits  int
}

// WithClock sets the clock on the option
func WithClock(clock clock.Clock) Option {
	return func(options *options) {
		options.clock = clock
	}
}

// WithOS sets the os on the option
func WithOS(os OS) Option {
	return func(options *options) {
		options.os = os
	}
}

// WithBits sets the key size on the option
func WithBits(bits int) Option {
	return func(options *options) {
		options.bits = bits
	}
}

// Create a options instance with default values.
func newOptions() *options {
	return &options{
		clock: clock.New(),
		os:    osShim{},
		bits:  4096,
	}
}
