// Package uvh5 reads and writes UVData in the UVH5 layout: a /Header group of
// scalar and array metadata, an optional phase center catalog, and a /Data
// group holding the visibility, flag and sample count cubes.
package uvh5

import "errors"

var (
	ErrFormat       = errors.New("uvh5: invalid file layout")
	ErrMetadataOnly = errors.New("uvh5: cannot write a metadata-only dataset")
	ErrCatalog      = errors.New("uvh5: phase center catalog does not match Nphases")
)
