package repository

import "errors"

// ErrStoreUnavailable is returned when the backing store was never configured.
var ErrStoreUnavailable = errors.New("repository: store not configured")
