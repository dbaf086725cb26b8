package h5store

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/robert-malhotra/go-uvh5/internal/h5write"
)

// FileWriter writes an HDF5 file in pure Go. The file is laid out and
// flushed on Close; until then datasets are held in memory.
//
// Complex slices are written as compound {r, i} float64 records, strings as
// fixed-length null-terminated ASCII and booleans as uint8. Compressed
// datasets are stored as a single deflated chunk.
type FileWriter struct {
	f *h5write.File
}

// Create creates an HDF5 file for writing, truncating any existing file.
func Create(path string) (*FileWriter, error) {
	f, err := h5write.Create(path)
	if err != nil {
		return nil, err
	}
	return &FileWriter{f: f}, nil
}

// CreateGroup implements Writer.
func (w *FileWriter) CreateGroup(path string) error {
	path = CleanPath(path)
	if err := w.f.CreateGroup(path); err != nil {
		return fmt.Errorf("%s: %w", path, mapWriteErr(err))
	}
	return nil
}

// Write implements Writer.
func (w *FileWriter) Write(path string, shape []int, data any, opts ...DatasetOption) error {
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

	dtype, buf, err := encodeRecords(data, o)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	ds := h5write.Dataset{Type: dtype, Data: buf}
	if len(shape) > 0 {
		ds.Dims = make([]uint64, len(shape))
		for i, d := range shape {
			ds.Dims[i] = uint64(d)
		}
		ds.Deflate = o.compressionLvl
	}
	if err := w.f.CreateDataset(path, ds); err != nil {
		return fmt.Errorf("%s: %w", path, mapWriteErr(err))
	}
	return nil
}

// Close implements Writer.
func (w *FileWriter) Close() error {
	return w.f.Close()
}

var complexType = h5write.Compound(16,
	h5write.Member{Name: "r", Offset: 0, Type: h5write.Float(8)},
	h5write.Member{Name: "i", Offset: 8, Type: h5write.Float(8)},
)

// encodeRecords returns the stored datatype for data and its little-endian
// bytes.
func encodeRecords(data any, o *datasetOptions) (h5write.Datatype, []byte, error) {
	var dtype h5write.Datatype
	switch d := data.(type) {
	case []float64:
		dtype = h5write.Float(8)
	case []float32:
		dtype = h5write.Float(4)
	case []int64:
		dtype = h5write.Integer(8, true)
	case []int32:
		dtype = h5write.Integer(4, true)
	case []uint32:
		dtype = h5write.Integer(4, false)
	case []int8:
		dtype = h5write.Integer(1, true)
	case []uint8, []bool:
		// binary encodes bool as a single 0 or 1 byte
		dtype = h5write.Integer(1, false)
	case []complex128:
		// complex128 encodes as its real then imaginary float64
		dtype = complexType
	case []complex64:
		wide := make([]complex128, len(d))
		for i, c := range d {
			wide[i] = complex128(c)
		}
		buf, err := binary.Append(nil, binary.LittleEndian, wide)
		return complexType, buf, err
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
		return h5write.String(uint32(size)), buf, nil
	default:
		return h5write.Datatype{}, nil, fmt.Errorf("%w: %T", ErrType, data)
	}
	buf, err := binary.Append(nil, binary.LittleEndian, data)
	return dtype, buf, err
}

func mapWriteErr(err error) error {
	switch {
	case errors.Is(err, h5write.ErrNoParent):
		return errors.Join(ErrNotFound, err)
	case errors.Is(err, h5write.ErrExists):
		return errors.Join(ErrExists, err)
	case errors.Is(err, h5write.ErrClosed):
		return errors.Join(ErrClosed, err)
	}
	return err
}

var _ Writer = (*FileWriter)(nil)
