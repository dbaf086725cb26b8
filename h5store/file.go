package h5store

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/robert-malhotra/go-hdf5/hdf5"
)

// File reads an HDF5 file with the pure Go go-hdf5 reader.
//
// Compound datasets with "r" and "i" members (the h5py complex layout) read
// as complex values; boolean enums written by h5py read as bool.
type File struct {
	f *hdf5.File
}

// Open opens an HDF5 file for reading.
func Open(path string) (*File, error) {
	f, err := hdf5.Open(path)
	if err != nil {
		return nil, err
	}
	return &File{f: f}, nil
}

func (f *File) group(path string) (*hdf5.Group, error) {
	if len(SplitPath(path)) == 0 {
		return f.f.Root(), nil
	}
	return f.f.OpenGroup(CleanPath(path))
}

// Members implements Reader.
func (f *File) Members(group string) ([]string, error) {
	g, err := f.group(group)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", CleanPath(group), mapErr(err))
	}
	names, err := g.Members()
	if err != nil {
		return nil, err
	}
	names = slices.Clone(names)
	slices.Sort(names)
	return names, nil
}

// Exists implements Reader. It checks the parent's member list, so an
// existing link to an unreadable object still counts.
func (f *File) Exists(path string) bool {
	parent, name, err := ParentPath(path)
	if err != nil {
		return true
	}
	names, err := f.Members(parent)
	if err != nil {
		return false
	}
	return slices.Contains(names, name)
}

// IsGroup implements Reader.
func (f *File) IsGroup(path string) bool {
	_, err := f.group(path)
	return err == nil
}

// Shape implements Reader.
func (f *File) Shape(path string) ([]int, error) {
	ds, err := f.f.OpenDataset(CleanPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", CleanPath(path), mapErr(err))
	}
	dims := ds.Shape()
	if dims == nil {
		return nil, nil
	}
	shape := make([]int, len(dims))
	for i, d := range dims {
		shape[i] = int(d)
	}
	return shape, nil
}

// Read implements Reader.
func (f *File) Read(path string, dest any) error {
	ds, err := f.f.OpenDataset(CleanPath(path))
	if err != nil {
		return fmt.Errorf("%s: %w", CleanPath(path), mapErr(err))
	}
	if err := readDataset(ds, dest); err != nil {
		return fmt.Errorf("%s: %w", CleanPath(path), err)
	}
	return nil
}

func readDataset(ds *hdf5.Dataset, dest any) error {
	switch dest.(type) {
	case *[]complex128, *[]complex64:
		var records []map[string]interface{}
		if err := ds.Read(&records); err != nil {
			return err
		}
		values := make([]complex128, len(records))
		for i, rec := range records {
			re, okR := toFloat64(rec["r"])
			im, okI := toFloat64(rec["i"])
			if !okR || !okI {
				return fmt.Errorf("%w: element %d is not an {r, i} record", ErrType, i)
			}
			values[i] = complex(re, im)
		}
		return assign(dest, values)

	case *[]bool:
		var raw []int8
		if err := ds.Read(&raw); err != nil {
			return err
		}
		return assign(dest, raw)
	}

	if err := ds.Read(dest); err != nil {
		return err
	}
	if s, ok := dest.(*[]string); ok {
		// fixed-length strings can carry trailing NULs past the terminator
		for i, v := range *s {
			if j := strings.IndexByte(v, 0); j >= 0 {
				(*s)[i] = v[:j]
			}
		}
	}
	return nil
}

func toFloat64(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int64:
		return float64(x), true
	case int32:
		return float64(x), true
	}
	return 0, false
}

func mapErr(err error) error {
	if errors.Is(err, hdf5.ErrNotFound) {
		return errors.Join(ErrNotFound, err)
	}
	if errors.Is(err, hdf5.ErrNotGroup) {
		return errors.Join(ErrNotGroup, err)
	}
	if errors.Is(err, hdf5.ErrNotDataset) {
		return errors.Join(ErrNotDataset, err)
	}
	return err
}

// Close implements Reader.
func (f *File) Close() error {
	return f.f.Close()
}

var _ Reader = (*File)(nil)
