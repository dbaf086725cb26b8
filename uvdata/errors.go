// Package uvdata models radio-interferometer visibility datasets: descriptive
// metadata, per-axis arrays, the phase-center catalog and the optional
// visibility, flag and sample-count cubes.
package uvdata

import "errors"

// Common errors
var (
	ErrParse        = errors.New("parse error")
	ErrInvalidEntry = errors.New("invalid catalog entry")
	ErrAntenna      = errors.New("antenna number out of range")
)

// Tolerance is the absolute difference below which two floating point values
// are considered equal by the Equal methods in this package.
const Tolerance = 1e-6
