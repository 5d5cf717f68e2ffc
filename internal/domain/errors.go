package domain

import "errors"

// ErrPersistenceUnavailable marks a storage failure that has switched a
// component to memory-only behavior.
var ErrPersistenceUnavailable = errors.New("persistence unavailable")
