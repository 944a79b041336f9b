package repository

import "errors"

// ErrDuplicateKey reports a uniqueness violation surfaced by the store.
var ErrDuplicateKey = errors.New("duplicate key")
