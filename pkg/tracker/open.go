package tracker

import (
	"github.com/pkg/errors"

	"github.com/spoke-d/filament/internal/db"
	"github.com/spoke-d/filament/pkg/config"
)

// Open connects a Tracker to the ledger database described by the
// settings, ensuring the schema and reference rows are in place. The
// returned tracker owns the connection pool for the life of the process.
func Open(settings config.Settings, options ...Option) (*Tracker, error) {
	if err := settings.Validate(); err != nil {
		return nil, errors.WithStack(err)
	}

	ledger := db.NewLedger()
	if err := ledger.Open("postgres", settings.Database.ConnectionString()); err != nil {
		return nil, errors.WithStack(err)
	}
	if err := db.EnsureSchema(ledger.DB()); err != nil {
		ledger.Close()
		return nil, errors.WithStack(err)
	}
	return New(ledger, options...), nil
}
