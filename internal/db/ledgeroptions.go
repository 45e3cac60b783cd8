package db

import (
	"time"

	"github.com/go-kit/kit/log"
	"github.com/spoke-d/filament/internal/clock"
	"github.com/spoke-d/filament/internal/db/database"
)

const (
	defaultMaxConns       = 10
	defaultAcquireTimeout = 5 * time.Minute
)

// LedgerOption to be passed to NewLedger to customize the resulting
// instance.
type LedgerOption func(*ledgerOptions)

type ledgerOptions struct {
	database         database.DB
	databaseIO       DatabaseOpener
	ledgerTxProvider LedgerTxProvider
	transaction      Transaction
	maxConns         int
	acquireTimeout   time.Duration
	logger           log.Logger
	clock            clock.Clock
	sleeper          clock.Sleeper
}

// WithDatabase sets the database on the option
func WithDatabase(database database.DB) LedgerOption {
	return func(options *ledgerOptions) {
		options.database = database
	}
}

// WithDatabaseIO sets the databaseIO on the option
func WithDatabaseIO(databaseIO DatabaseOpener) LedgerOption {
	return func(options *ledgerOptions) {
		options.databaseIO = databaseIO
	}
}

// WithLedgerTxProvider sets the ledgerTxProvider on the option
func WithLedgerTxProvider(provider LedgerTxProvider) LedgerOption {
	return func(options *ledgerOptions) {
		options.ledgerTxProvider = provider
	}
}

// WithTransaction sets the transaction on the option
func WithTransaction(transaction Transaction) LedgerOption {
	return func(options *ledgerOptions) {
		options.transaction = transaction
	}
}

// WithMaxConns bounds the underlying connection pool on the option
func WithMaxConns(maxConns int) LedgerOption {
	return func(options *ledgerOptions) {
		options.maxConns = maxConns
	}
}

// WithAcquireTimeout sets the connection acquisition timeout on the option
func WithAcquireTimeout(timeout time.Duration) LedgerOption {
	return func(options *ledgerOptions) {
		options.acquireTimeout = timeout
	}
}

// WithLogger sets the logger on the option
func WithLogger(logger log.Logger) LedgerOption {
	return func(options *ledgerOptions) {
		options.logger = logger
	}
}

// WithClock sets the clock on the option
func WithClock(clock clock.Clock) LedgerOption {
	return func(options *ledgerOptions) {
		options.clock = clock
	}
}

// WithSleeper sets the sleeper used to back off between transaction
// retries on the option
func WithSleeper(sleeper clock.Sleeper) LedgerOption {
	return func(options *ledgerOptions) {
		options.sleeper = sleeper
	}
}

// Create a ledgerOptions instance with default values.
func newLedgerOptions() *ledgerOptions {
	return &ledgerOptions{
		ledgerTxProvider: ledgerTxProvider{},
		transaction:      transactionShim{},
		maxConns:         defaultMaxConns,
		acquireTimeout:   defaultAcquireTimeout,
		logger:           log.NewNopLogger(),
		clock:            clock.New(),
		sleeper:          clock.DefaultSleeper,
	}
}
