// Package h5store provides the hierarchical group/dataset storage used by the
// UVH5 codec: an in-memory store and pure Go HDF5 file reader and writer, with
// an optional writer backed by the HDF5 C library.
package h5store

import "errors"

// Common errors
var (
	ErrNotFound    = errors.New("object not found")
	ErrNotDataset  = errors.New("object is not a dataset")
	ErrNotGroup    = errors.New("object is not a group")
	ErrExists      = errors.New("object already exists")
	ErrUnsupported = errors.New("unsupported feature")
	ErrInvalidPath = errors.New("invalid path")
	ErrType        = errors.New("incompatible data type")
	ErrShape       = errors.New("data does not match shape")
	ErrClosed      = errors.New("store is closed")
)
