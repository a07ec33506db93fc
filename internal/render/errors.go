package render

import "errors"

var (
	ErrUnknownKind = errors.New("unknown document kind")
	ErrEmptyText   = errors.New("text is required")
)
