package activity

import "errors"

// ErrInvalidInput is returned when an entry has no type
var ErrInvalidInput = errors.New("invalid input")
