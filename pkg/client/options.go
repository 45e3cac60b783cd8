package client

import (
	"time"

	"github.com/go-kit/kit/log"

	"github.com/spoke-d/filament/internal/cert"
)

// Option to be passed to New to customize the resulting instance.
type Option func(*options)

type options struct {
	// Generator for the per-session client keypair.
	certGenerator *cert.CertGenerator

	// Timeout applied when dialing the daemon.
	dialTimeout time.Duration

	// Custom logger
	logger log.Logger
}

// WithCertGenerator sets the session keypair generator on the option
func WithCertGenerator(certGenerator *cert.CertGenerator) Option {
	return func(options *options) {
		options.certGenerator = certGenerator
	}
}

// WithDialTimeout sets the dial timeout on the option
func WithDialTimeout(dialTimeout time.Duration) Option {
	return func(options *options) {
		options.dialTimeout = dialTimeout
	}
}

// WithLogger sets the logger on the option
func WithLogger(logger log.Logger) Option {
	return func(options *options) {
		options.logger = logger
	}
}

// Create a options instance with default values.
func newOptions() *options {
	return &options{
		certGenerator: cert.NewCertGenerator([]string{"filament"}),
		dialTimeout:   10 * time.Second,
		logger:        log.NewNopLogger(),
	}
}
