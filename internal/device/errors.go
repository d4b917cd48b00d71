package device

import "errors"

var (
	ErrEnumeration      = errors.New("device enumeration failed")
	ErrNoMatchingDevice = errors.New("no matching input device")
	ErrInputOverflow    = errors.New("input overflow")
	ErrInputUnderflow   = errors.New("input underflow")
)
