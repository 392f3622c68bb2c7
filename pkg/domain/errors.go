package domain

import "errors"

// ErrRecordNotFound is returned when no record exists for an
// (identity, wave date) pair.
var ErrRecordNotFound = errors.New("record not found")
