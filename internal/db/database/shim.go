package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
)

// NewShimDB creates a wrapper around the underlying database from the sql
// package. This is required so that we can mock all the way down the type
// structure.
func NewShimDB(db *sql.DB) DB {
	return &databaseShim{
		db: db,
	}
}

// NewPooledShimDB wraps the underlying database, bounding the connection
// pool to maxConns and applying acquireTimeout to every transaction
// acquisition. Callers racing an exhausted pool block until a connection
// frees or the timeout elapses.
func NewPooledShimDB(db *sql.DB, maxConns int, acquireTimeout time.Duration) DB {
	db.SetMaxOpenConns(maxConns)
	return &databaseShim{
		db:             db,
		acquireTimeout: acquireTimeout,
	}
}

// ShimDB takes a db and err and returns a database shim
// See NewShimDB
func ShimDB(db *sql.DB, err error) (DB, error) {
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &databaseShim{
		db: db,
	}, nil
}

// ShimTx takes a tx and err and returns a Tx shim
func ShimTx(tx *sql.Tx, err error) (Tx, error) {
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &txShim{
		tx: tx,
	}, nil
}

func shimRows(rows *sql.Rows, err error) (Rows, error) {
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &rowsShim{
		rows: rows,
	}, nil
}

type databaseShim struct {
	db             *sql.DB
	acquireTimeout time.Duration
}

// Begin starts a transaction. The acquire timeout bounds only how long we
// wait for a free connection; once acquired the transaction itself is not
// deadlined, so long-running bodies are never rolled back under the caller.
func (w *databaseShim) Begin() (Tx, error) {
	if w.acquireTimeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), w.acquireTimeout)
		defer cancel()

		conn, err := w.db.Conn(ctx)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		tx, err := conn.BeginTx(context.Background(), nil)
		if err != nil {
			conn.Close()
			return nil, errors.WithStack(err)
		}
		return &txShim{tx: tx, conn: conn}, nil
	}
	return ShimTx(w.db.Begin())
}

func (w *databaseShim) Ping() error {
	return w.db.Ping()
}

func (w *databaseShim) Close() error {
	return w.db.Close()
}

func (w *databaseShim) Raw() *sql.DB {
	return w.db
}

type txShim struct {
	tx   *sql.Tx
	conn *sql.Conn
}

func (w *txShim) Query(query string, args ...interface{}) (Rows, error) {
	return shimRows(w.tx.Query(query, args...))
}

func (w *txShim) Exec(query string, args ...interface{}) (sql.Result, error) {
	return w.tx.Exec(query, args...)
}

func (w *txShim) Commit() error {
	err := w.tx.Commit()
	w.release()
	return err
}

func (w *txShim) Rollback() error {
	err := w.tx.Rollback()
	w.release()
	return err
}

// release hands a dedicated connection back to the pool. Without it a
// bounded pool leaks one connection per transaction.
func (w *txShim) release() {
	if w.conn != nil {
		w.conn.Close()
		w.conn = nil
	}
}

type rowsShim struct {
	rows *sql.Rows
}

func (w *rowsShim) Columns() ([]string, error) {
	return w.rows.Columns()
}

func (w *rowsShim) ColumnTypes() ([]ColumnType, error) {
	types, err := w.rows.ColumnTypes()
	if err != nil {
		return nil, err
	}
	res := make([]ColumnType, len(types))
	for k, v := range types {
		res[k] = v
	}
	return res, nil
}

func (w *rowsShim) Next() bool {
	return w.rows.Next()
}

func (w *rowsShim) Scan(dest ...interface{}) error {
	return w.rows.Scan(dest...)
}

func (w *rowsShim) Err() error {
	return w.rows.Err()
}

func (w *rowsShim) Close() error {
	return w.rows.Close()
}
