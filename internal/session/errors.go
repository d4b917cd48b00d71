package session

import "errors"

var (
	ErrUnsupportedFormat = errors.New("only 32-bit float input is supported")
)
