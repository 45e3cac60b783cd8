package query

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spoke-d/filament/internal/db/database"
)

// Dest is a function that is expected to return the objects to pass to the
// stmt.Scan method, for each database row that is read.
//
// The i-th object will be passed to the i-th call of Scan, so the function
// can be used to build a slice of objects with one element per row.
type Dest func(i int) []interface{}

// SelectObjects executes a statement which must yield rows with a specific
// columns schema. It invokes the given Dest hook for each yielded row.
func SelectObjects(tx database.Tx, dest Dest, query string, args ...interface{}) error {
	rows, err := tx.Query(query, args...)
	if err != nil {
		return errors.WithStack(err)
	}
	defer rows.Close()

	for i := 0; rows.Next(); i++ {
		if err := rows.Scan(dest(i)...); err != nil {
			return errors.WithStack(err)
		}
	}

	return errors.WithStack(rows.Err())
}

// InsertObject inserts a new row with the given column values into the
// given table, and returns the value of the idColumn for the freshly
// inserted row. Optional columns are expressed by appending to the columns
// and values slices before the call, so a single parameterized statement is
// built regardless of which optional fields are present.
//
// The number of elements in 'columns' must match the one in 'values'.
func InsertObject(tx database.Tx, table, idColumn string, columns []string, values []interface{}) (int64, error) {
	n := len(columns)
	if n == 0 {
		return -1, errors.Errorf("columns length is zero")
	}
	if n != len(values) {
		return -1, errors.Errorf("columns length does not match values length")
	}

	stmt := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES %s RETURNING %s",
		table,
		strings.Join(columns, ", "),
		Params(n),
		idColumn,
	)
	rows, err := tx.Query(stmt, values...)
	if err != nil {
		return -1, errors.WithStack(err)
	}
	defer rows.Close()

	if !rows.Next() {
		return -1, errors.Errorf("no id returned for insert into %q", table)
	}
	var id int64
	if err := rows.Scan(&id); err != nil {
		return -1, errors.WithStack(err)
	}
	return id, errors.WithStack(rows.Err())
}

// Params returns a parenthesized, comma-separated list of positional
// placeholders for the given number of parameters, e.g.
// Params(3) == "($1, $2, $3)".
//
// The $N form is the PostgreSQL one; sqlite, used by the integration
// tests, binds $N parameters positionally as long as they appear in
// ascending order, which every statement in this module guarantees.
func Params(n int) string {
	tokens := make([]string, n)
	for i := 0; i < n; i++ {
		tokens[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf("(%s)", strings.Join(tokens, ", "))
}
