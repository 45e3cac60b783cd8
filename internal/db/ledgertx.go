package db

import (
	"fmt"

	"github.com/spoke-d/filament/internal/db/database"
)

// LedgerTx models a single interaction with the ledger database.
//
// It wraps low-level database.Tx objects and offers a high-level API to
// fetch and update data.
type LedgerTx struct {
	tx    database.Tx // Handle to a transaction in the ledger database.
	query Query
}

// NewLedgerTx creates a new transaction with sane defaults
func NewLedgerTx(tx database.Tx) *LedgerTx {
	return NewLedgerTxWithQuery(tx, queryShim{})
}

// NewLedgerTxWithQuery creates a new transaction with the given query
// implementation
func NewLedgerTxWithQuery(tx database.Tx, query Query) *LedgerTx {
	return &LedgerTx{
		tx:    tx,
		query: query,
	}
}

// param renders the n-th positional placeholder, for statements assembled
// from optional fragments.
func param(n int) string {
	return fmt.Sprintf("$%d", n)
}
