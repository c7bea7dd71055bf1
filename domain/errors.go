package domain

import "errors"

// ErrNotFound is returned by repositories when a lookup by key matches no row.
var ErrNotFound = errors.New("not found")
