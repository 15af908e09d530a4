package store

import "errors"

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicateID is returned when a create violates the ID uniqueness
// constraint.
var ErrDuplicateID = errors.New("id already exists")
