package h5write

import "errors"

var (
	// ErrDatatype reports a datatype the writer cannot encode.
	ErrDatatype = errors.New("h5write: unsupported datatype")
	// ErrExists reports a second object created at the same path.
	ErrExists = errors.New("h5write: object exists")
	// ErrNoParent reports a path whose parent group was never created.
	ErrNoParent = errors.New("h5write: parent group does not exist")
	// ErrClosed reports use of a closed file.
	ErrClosed = errors.New("h5write: file closed")
	// ErrSize reports data whose length does not match type and shape.
	ErrSize = errors.New("h5write: data size mismatch")
)
