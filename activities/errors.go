package activities

import "errors"

// Error kinds returned (wrapped) by this package. Use errors.Is to test.
var (
	ErrNotFound      = errors.New("not found")
	ErrRetrieval     = errors.New("retrieval failed")
	ErrParse         = errors.New("parse failed")
	ErrTypeMismatch  = errors.New("type mismatch")
	ErrNotADirectory = errors.New("not a directory")
	ErrSchema        = errors.New("schema violation")
	ErrUnsupported   = errors.New("unsupported script type")
)
