//go:build !libhdf5

package h5store

import "fmt"

// CFileWriter writes an HDF5 file through the HDF5 C library. This build
// has no C library; build with -tags libhdf5 to enable it.
type CFileWriter struct{}

// CreateC always fails with ErrUnsupported in this build.
func CreateC(path string) (*CFileWriter, error) {
	return nil, fmt.Errorf("%w: writing %s with libhdf5 requires building with -tags libhdf5", ErrUnsupported, path)
}

// CreateGroup implements Writer.
func (w *CFileWriter) CreateGroup(string) error { return ErrUnsupported }

// Write implements Writer.
func (w *CFileWriter) Write(string, []int, any, ...DatasetOption) error { return ErrUnsupported }

// Close implements Writer.
func (w *CFileWriter) Close() error { return nil }

var _ Writer = (*CFileWriter)(nil)
