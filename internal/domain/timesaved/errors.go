package timesaved

import "errors"

// ErrInvalidCount is returned for negative item counts
var ErrInvalidCount = errors.New("item count must not be negative")
