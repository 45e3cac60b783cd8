package tracker

import (
	"os"

	"github.com/go-kit/kit/log"

	"github.com/spoke-d/filament/internal/clock"
)

// Option to be passed to New to customize the resulting instance.
type Option func(*options)

type options struct {
	logger log.Logger
	clock  clock.Clock

	// Source of the local process id, injectable so that registration can
	// be pinned in tests.
	pid func() int
}

// WithLogger sets the logger on the option
func WithLogger(logger log.Logger) Option {
	return func(options *options) {
		options.logger = logger
	}
}

// WithClock sets the clock on the option
func WithClock(clock clock.Clock) Option {
	return func(options *options) {
		options.clock = clock
	}
}

// WithPid sets the process id source on the option
func WithPid(pid func() int) Option {
	return func(options *options) {
		options.pid = pid
	}
}

// Create a options instance with default values.
func newOptions() *options {
	return &options{
		logger: log.NewNopLogger(),
		clock:  clock.New(),
		pid:    os.Getpid,
	}
}
