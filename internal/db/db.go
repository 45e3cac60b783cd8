package db

import (
	"github.com/pkg/errors"
)

var (
	// ErrNoSuchObject is in the case of joins (and probably other) queries,
	// we don't get back sql.ErrNoRows when no rows are returned, even
	// though we do on selects without joins. Instead, you can use this
	// error to propagate up and generate proper errors to the caller when
	// something isn't found.
	ErrNoSuchObject = errors.Errorf("no such object")
)
