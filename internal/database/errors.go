package database

import "errors"

// ErrNotFound is returned by the single-vehicle lookups of both repositories.
var ErrNotFound = errors.New("vehicle not found in database")
