package ports

import "errors"

// ErrNotFound is returned by repositories when the requested row does
// not exist. Callers match it with errors.Is.
var ErrNotFound = errors.New("not found")
