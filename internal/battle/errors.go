package battle

import "errors"

var (
	// ErrUnknownTemplate means a team setup referenced a unit id the content
	// tables do not know.
	ErrUnknownTemplate = errors.New("unknown unit template")

	// ErrUnitNotFound means a lookup by instance id missed. Optional lookups
	// treat it as a no-op; MustUnit panics wrapping it, since the engine only
	// asks for ids it produced.
	ErrUnitNotFound = errors.New("unit not found")
)
