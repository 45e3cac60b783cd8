package db

import (
	"database/sql"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/pkg/errors"
	"github.com/spoke-d/filament/internal/clock"
	"github.com/spoke-d/filament/internal/db/database"
	"github.com/spoke-d/filament/internal/db/query"
)

// LedgerTransactioner represents a way to run transactions against the
// ledger database.
type LedgerTransactioner interface {

	// Transaction creates a new LedgerTx object and transactionally
	// executes the database interactions invoked by the given function. If
	// the function returns no error, all changes are committed, otherwise
	// they are rolled back.
	Transaction(f func(*LedgerTx) error) error
}

// DatabaseOpener represents a way to open a database source
type DatabaseOpener interface {
	// Open opens a database specified by its database driver name and a
	// driver-specific data source name.
	Open(driverName, dataSourceName string) (database.DB, error)
}

// LedgerTxProvider creates LedgerTx which can be used by the ledger
type LedgerTxProvider interface {

	// New creates a LedgerTx with sane defaults
	New(database.Tx) *LedgerTx
}

// Ledger mediates access to the disk lifecycle data stored in the
// database. Every read and write goes through here; nothing is cached in
// memory across calls.
type Ledger struct {
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

// NewLedger creates a new Ledger object with sane defaults.
func NewLedger(options ...LedgerOption) *Ledger {
	opts := newLedgerOptions()
	for _, option := range options {
		option(opts)
	}
	if opts.databaseIO == nil {
		opts.databaseIO = databaseIO{
			maxConns:       opts.maxConns,
			acquireTimeout: opts.acquireTimeout,
		}
	}

	return &Ledger{
		database:         opts.database,
		databaseIO:       opts.databaseIO,
		ledgerTxProvider: opts.ledgerTxProvider,
		transaction:      opts.transaction,
		maxConns:         opts.maxConns,
		acquireTimeout:   opts.acquireTimeout,
		logger:           opts.logger,
		clock:            opts.clock,
		sleeper:          opts.sleeper,
	}
}

// Open the ledger database object, bounding the underlying connection
// pool. The driver is expected to have registered itself with the sql
// package already (lib/pq and go-sqlite3 both do).
func (l *Ledger) Open(driverName, dataSourceName string) error {
	db, err := l.databaseIO.Open(driverName, dataSourceName)
	if err != nil {
		return errors.Wrap(err, "failed to open ledger database")
	}
	l.database = db

	if err := l.database.Ping(); err != nil {
		return errors.Wrap(err, "failed to ping ledger database")
	}

	level.Debug(l.logger).Log("msg", "opened ledger database", "driver", driverName)
	return nil
}

// Transaction creates a new LedgerTx object and transactionally executes
// the database interactions invoked by the given function. If the function
// returns no error, all changes are committed, otherwise they are rolled
// back. Transient driver errors, like serialization failures, cause the
// whole transaction to be retried.
func (l *Ledger) Transaction(f func(*LedgerTx) error) error {
	return query.Retry(l.sleeper, func() error {
		return l.transaction.Transaction(l.database, func(tx database.Tx) error {
			return f(l.ledgerTxProvider.New(tx))
		})
	})
}

// DB return the current database source.
func (l *Ledger) DB() database.DB {
	return l.database
}

// Close the database facilitating the closing of all underlying
// connections.
func (l *Ledger) Close() error {
	return l.database.Close()
}

type databaseIO struct {
	maxConns       int
	acquireTimeout time.Duration
}

func (d databaseIO) Open(driverName, dataSourceName string) (database.DB, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return database.NewPooledShimDB(db, d.maxConns, d.acquireTimeout), nil
}

type ledgerTxProvider struct{}

func (ledgerTxProvider) New(tx database.Tx) *LedgerTx {
	return NewLedgerTx(tx)
}
