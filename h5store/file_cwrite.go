//go:build libhdf5

package h5store

import (
	"fmt"

	"gonum.org/v1/hdf5"
)

// CFileWriter writes an HDF5 file through the HDF5 C library. It stores the
// same layout as FileWriter but splits compressed datasets into chunks of at
// most 64Ki elements.
type CFileWriter struct {
	f *hdf5.File
}

// CreateC creates an HDF5 file for writing with the C library, truncating
// any existing file.
func CreateC(path string) (*CFileWriter, error) {
	f, err := hdf5.CreateFile(path, hdf5.F_ACC_TRUNC)
	if err != nil {
		return nil, err
	}
	return &CFileWriter{f: f}, nil
}

// CreateGroup implements Writer.
func (w *CFileWriter) CreateGroup(path string) error {
	g, err := w.f.CreateGroup(CleanPath(path))
	if err != nil {
		return fmt.Errorf("%s: %w", CleanPath(path), err)
	}
	return g.Close()
}

// Write implements Writer.
func (w *CFileWriter) Write(path string, shape []int, data any, opts ...DatasetOption) error {
	path = CleanPath(path)
	v, err := checkSlice(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	n := numElements(shape)
	if v.Len() != n {
		return fmt.Errorf("%s: %w: %d values for shape %v", path, ErrShape, v.Len(), shape)
	}
	o := applyDatasetOptions(opts)

	space, err := dataspace(shape)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	defer space.Close()

	dtype, buf, err := encodeC(data, o)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	defer dtype.Close()

	var ds *hdf5.Dataset
	if o.compressionLvl > 0 && len(shape) > 0 && n > 0 {
		dcpl, err := hdf5.NewPropList(hdf5.P_DATASET_CREATE)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		defer dcpl.Close()
		if err := dcpl.SetChunk(chunkDims(shape)); err != nil {
			return fmt.Errorf("%s: setting chunks: %w", path, err)
		}
		if err := dcpl.SetDeflate(o.compressionLvl); err != nil {
			return fmt.Errorf("%s: setting deflate: %w", path, err)
		}
		ds, err = w.f.CreateDatasetWith(path, dtype, space, dcpl)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	} else {
		ds, err = w.f.CreateDataset(path, dtype, space)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	defer ds.Close()

	if n == 0 {
		return nil
	}
	if err := ds.Write(buf); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Close implements Writer.
func (w *CFileWriter) Close() error {
	return w.f.Close()
}

func dataspace(shape []int) (*hdf5.Dataspace, error) {
	if len(shape) == 0 {
		return hdf5.CreateDataspace(hdf5.S_SCALAR)
	}
	dims := make([]uint, len(shape))
	for i, d := range shape {
		dims[i] = uint(d)
	}
	return hdf5.CreateSimpleDataspace(dims, nil)
}

// chunkDims picks chunk dimensions of at most 64Ki elements, filling the
// fastest varying axes first.
func chunkDims(shape []int) []uint {
	chunk := make([]uint, len(shape))
	budget := 1 << 16
	for i := len(shape) - 1; i >= 0; i-- {
		c := min(shape[i], max(budget, 1))
		chunk[i] = uint(c)
		budget /= c
	}
	return chunk
}

type complexRecord struct {
	R, I float64
}

// encodeC returns the file datatype for data and a pointer to an in-memory
// buffer laid out for that datatype.
func encodeC(data any, o *datasetOptions) (*hdf5.Datatype, any, error) {
	switch d := data.(type) {
	case []float64:
		dt, err := hdf5.T_NATIVE_DOUBLE.Copy()
		return dt, &d, err
	case []float32:
		dt, err := hdf5.T_NATIVE_FLOAT.Copy()
		return dt, &d, err
	case []int64:
		dt, err := hdf5.T_NATIVE_INT64.Copy()
		return dt, &d, err
	case []int32:
		dt, err := hdf5.T_NATIVE_INT32.Copy()
		return dt, &d, err
	case []uint32:
		dt, err := hdf5.T_NATIVE_UINT32.Copy()
		return dt, &d, err
	case []int8:
		dt, err := hdf5.T_NATIVE_INT8.Copy()
		return dt, &d, err
	case []uint8:
		dt, err := hdf5.T_NATIVE_UINT8.Copy()
		return dt, &d, err

	case []bool:
		buf := make([]uint8, len(d))
		for i, b := range d {
			if b {
				buf[i] = 1
			}
		}
		dt, err := hdf5.T_NATIVE_UINT8.Copy()
		return dt, &buf, err

	case []complex128:
		buf := make([]complexRecord, len(d))
		for i, c := range d {
			buf[i] = complexRecord{real(c), imag(c)}
		}
		dt, err := compoundType()
		return dt, &buf, err

	case []complex64:
		// widened so both precisions share the float64 record layout
		buf := make([]complexRecord, len(d))
		for i, c := range d {
			buf[i] = complexRecord{float64(real(c)), float64(imag(c))}
		}
		dt, err := compoundType()
		return dt, &buf, err

	case []string:
		size := o.stringSize
		if size == 0 {
			size = 1
			for _, s := range d {
				size = max(size, len(s))
			}
		}
		buf := make([]byte, size*len(d))
		for i, s := range d {
			copy(buf[i*size:(i+1)*size], s)
		}
		dt, err := hdf5.T_C_S1.Copy()
		if err != nil {
			return nil, nil, err
		}
		if err := dt.SetSize(size); err != nil {
			dt.Close()
			return nil, nil, err
		}
		return dt, &buf, nil
	}
	return nil, nil, fmt.Errorf("%w: %T", ErrType, data)
}

func compoundType() (*hdf5.Datatype, error) {
	ct, err := hdf5.NewCompoundType(16)
	if err != nil {
		return nil, err
	}
	if err := ct.Insert("r", 0, hdf5.T_NATIVE_DOUBLE); err != nil {
		ct.Close()
		return nil, err
	}
	if err := ct.Insert("i", 8, hdf5.T_NATIVE_DOUBLE); err != nil {
		ct.Close()
		return nil, err
	}
	return &ct.Datatype, nil
}

var _ Writer = (*CFileWriter)(nil)
