package storage

import "errors"

// ErrNotFound is returned by stores and directories when a lookup has no result.
var ErrNotFound = errors.New("record not found")
