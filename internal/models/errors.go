package models

import "errors"

// Error kinds. Concrete errors wrap one of these together with the cause,
// so callers test with errors.Is.
var (
	// ErrInputFormat marks a malformed tabular source or selection
	ErrInputFormat = errors.New("input format error")
	// ErrTransport marks a call that could not be completed
	ErrTransport = errors.New("transport error")
	// ErrDecode marks a result that could not be parsed
	ErrDecode = errors.New("decode error")
	// ErrResponseShape marks a parsed result missing required sections or
	// reporting a service-level failure
	ErrResponseShape = errors.New("response shape error")
)
