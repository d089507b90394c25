package feedback

import "errors"

// ErrInvalidType is returned when type is neither positive nor negative
var ErrInvalidType = errors.New("feedback type must be positive or negative")
