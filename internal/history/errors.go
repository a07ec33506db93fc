package history

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("history entry not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrCorrupt      = errors.New("history store unreadable")

	ErrInvalidStatus = fmt.Errorf("%w: unknown history status", ErrInvalidInput)
)
