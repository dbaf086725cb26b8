package h5store

import "fmt"

// Backend names an HDF5 file writer implementation.
type Backend string

const (
	// BackendGo is the pure Go writer returned by Create.
	BackendGo Backend = "go"
	// BackendLibHDF5 is the HDF5 C library writer returned by CreateC. It
	// needs a build with the libhdf5 tag.
	BackendLibHDF5 Backend = "libhdf5"
)

// Backends lists the accepted backend names.
var Backends = []Backend{BackendGo, BackendLibHDF5}

// CreateWith creates a file at path with the named backend. An empty
// backend means BackendGo.
func CreateWith(b Backend, path string) (Writer, error) {
	switch b {
	case BackendGo, "":
		w, err := Create(path)
		if err != nil {
			return nil, err
		}
		return w, nil
	case BackendLibHDF5:
		w, err := CreateC(path)
		if err != nil {
			return nil, err
		}
		return w, nil
	}
	return nil, fmt.Errorf("%w: backend %q", ErrUnsupported, b)
}
