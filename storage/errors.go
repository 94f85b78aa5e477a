package storage

import (
	"errors"
)

var (
	// ErrNotFound is returned when a retrieved key does not exist in the
	// database. Note: there is another not-found error, badger.ErrKeyNotFound.
	// Modules in storage/badger return ErrNotFound for not-found errors.
	ErrNotFound = errors.New("key not found")

	// ErrAlreadyExists is returned when an insert attempts to overwrite an
	// existing key.
	ErrAlreadyExists = errors.New("key already exists")

	// ErrDataMismatch is returned when the data stored for a key differs from
	// the data being written.
	ErrDataMismatch = errors.New("data for key is different")
)
