package domain

import "errors"

// ErrMissingProperty is returned by ingestion when a required numeric
// property (magnitude, depth, population) is absent or not a number.
var ErrMissingProperty = errors.New("missing required property")
