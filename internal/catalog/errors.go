package catalog

import "errors"

var (
	// ErrCodeNotFound means no product row matches the requested code.
	ErrCodeNotFound = errors.New("product code not found")

	// ErrCodeSpaceFull means the two-digit suffix for a code prefix is
	// exhausted. The add is rejected; codes never widen or wrap.
	ErrCodeSpaceFull = errors.New("code suffix space exhausted for prefix")
)
