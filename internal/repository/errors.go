package repository

import "errors"

// ErrNotFound is returned by single-row getters when no row matches.
// Compared with errors.Is at the service layer.
var ErrNotFound = errors.New("not found")
