package h5store

// Reader is read access to a hierarchical store. Paths are absolute and
// slash separated, e.g. "/Header/Nblts".
type Reader interface {
	// Members lists the names of the objects in a group, sorted.
	Members(group string) ([]string, error)
	// Exists reports whether a group or dataset exists at path.
	Exists(path string) bool
	// IsGroup reports whether path names a group.
	IsGroup(path string) bool
	// Shape returns the dataset dimensions; nil for a scalar.
	Shape(path string) ([]int, error)
	// Read reads the whole dataset into dest, a pointer to a slice of
	// float64, float32, int64, int32, uint32, int8, uint8, bool, string,
	// complex128 or complex64. Numeric values are converted as needed.
	Read(path string, dest any) error
	Close() error
}

// Writer creates groups and datasets in a fresh store.
type Writer interface {
	// CreateGroup creates a group; its parent must exist.
	CreateGroup(path string) error
	// Write creates a dataset of the given shape holding data, a slice of
	// one of the element types accepted by Reader.Read. A nil or empty shape
	// creates a scalar from a one element slice.
	Write(path string, shape []int, data any, opts ...DatasetOption) error
	Close() error
}

// DatasetOption configures dataset creation.
type DatasetOption func(*datasetOptions)

type datasetOptions struct {
	stringSize     int
	compressionLvl int
}

func defaultDatasetOptions() *datasetOptions {
	return &datasetOptions{}
}

func applyDatasetOptions(opts []DatasetOption) *datasetOptions {
	o := defaultDatasetOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithStringSize stores strings as fixed-length ASCII of n bytes, truncating
// longer values. Without it each string dataset is sized to its longest value.
func WithStringSize(n int) DatasetOption {
	return func(o *datasetOptions) {
		if n > 0 {
			o.stringSize = n
		}
	}
}

// WithCompression sets the deflate level (1-9, 0 = none).
func WithCompression(level int) DatasetOption {
	return func(o *datasetOptions) {
		if level >= 0 && level <= 9 {
			o.compressionLvl = level
		}
	}
}

// numElements returns the element count of shape; 1 for a scalar.
func numElements(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}
