package db

import (
	"github.com/spoke-d/filament/internal/db/database"
	q "github.com/spoke-d/filament/internal/db/query"
)

// ObjectsQuery defines queries to the database for generic object queries
type ObjectsQuery interface {
	// SelectObjects executes a statement which must yield rows with a
	// specific columns schema. It invokes the given Dest hook for each
	// yielded row.
	SelectObjects(database.Tx, q.Dest, string, ...interface{}) error

	// InsertObject inserts a new row with the given column values into the
	// given table, returning the value of the id column named by idColumn.
	// For example:
	//
	// InsertObject(tx, "regions", "region_id", []string{"region_name"}, []interface{}{"eu-west"})
	//
	// The number of elements in 'columns' must match the one in 'values'.
	InsertObject(tx database.Tx, table, idColumn string, columns []string, values []interface{}) (int64, error)
}

// StringsQuery defines queries to the database for string queries
type StringsQuery interface {

	// SelectStrings executes a statement which must yield rows with a
	// single string column. It returns the list of column values.
	SelectStrings(database.Tx, string, ...interface{}) ([]string, error)

	// SelectIntegers executes a statement which must yield rows with a
	// single integer column. It returns the list of column values.
	SelectIntegers(database.Tx, string, ...interface{}) ([]int, error)
}

// CountQuery defines queries to the database for count queries
type CountQuery interface {

	// Count returns the number of rows in the given table.
	Count(database.Tx, string, string, ...interface{}) (int, error)
}

// Query defines different queries for accessing the database
type Query interface {
	ObjectsQuery
	StringsQuery
	CountQuery
}

// Transaction defines a method for executing transactions over the
// database
type Transaction interface {
	// Transaction executes the given function within a database
	// transaction.
	Transaction(database.DB, func(database.Tx) error) error
}

type queryShim struct{}

func (queryShim) SelectObjects(tx database.Tx, dest q.Dest, stmt string, args ...interface{}) error {
	return q.SelectObjects(tx, dest, stmt, args...)
}

func (queryShim) InsertObject(tx database.Tx, table, idColumn string, columns []string, values []interface{}) (int64, error) {
	return q.InsertObject(tx, table, idColumn, columns, values)
}

func (queryShim) SelectStrings(tx database.Tx, stmt string, args ...interface{}) ([]string, error) {
	return q.SelectStrings(tx, stmt, args...)
}

func (queryShim) SelectIntegers(tx database.Tx, stmt string, args ...interface{}) ([]int, error) {
	return q.SelectIntegers(tx, stmt, args...)
}

func (queryShim) Count(tx database.Tx, table, where string, args ...interface{}) (int, error) {
	return q.Count(tx, table, where, args...)
}

type transactionShim struct{}

func (transactionShim) Transaction(db database.DB, f func(database.Tx) error) error {
	return q.Transaction(db, f)
}
