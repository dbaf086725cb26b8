package uvh5

import (
	"io"
	"log/slog"

	"github.com/robert-malhotra/go-uvh5/h5store"
)

// ReadOption configures a read.
type ReadOption func(*readOptions)

type readOptions struct {
	readData bool
	logger   *slog.Logger
}

func defaultReadOptions() *readOptions {
	return &readOptions{
		readData: true,
		logger:   discardLogger,
	}
}

func applyReadOptions(opts []ReadOption) *readOptions {
	o := defaultReadOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithData controls whether the /Data cubes are read. With false the result
// is metadata only.
func WithData(read bool) ReadOption {
	return func(o *readOptions) {
		o.readData = read
	}
}

// WithLogger sets the logger for debug events during a read, such as legacy
// layouts being normalized.
func WithLogger(l *slog.Logger) ReadOption {
	return func(o *readOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WriteOption configures a write.
type WriteOption func(*writeOptions)

type writeOptions struct {
	compressionLvl int
	backend        h5store.Backend
	logger         *slog.Logger
}

// DefaultCompression is the deflate level used for the flag and sample count
// cubes.
const DefaultCompression = 4

func defaultWriteOptions() *writeOptions {
	return &writeOptions{
		compressionLvl: DefaultCompression,
		backend:        h5store.BackendGo,
		logger:         discardLogger,
	}
}

func applyWriteOptions(opts []WriteOption) *writeOptions {
	o := defaultWriteOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithCompression sets the deflate level (1-9, 0 = none) for the flag and
// sample count cubes.
func WithCompression(level int) WriteOption {
	return func(o *writeOptions) {
		if level >= 0 && level <= 9 {
			o.compressionLvl = level
		}
	}
}

// WithBackend selects the HDF5 writer used by WriteFile and WriteFileAs.
func WithBackend(b h5store.Backend) WriteOption {
	return func(o *writeOptions) {
		if b != "" {
			o.backend = b
		}
	}
}

// WithWriteLogger sets the logger for debug events during a write.
func WithWriteLogger(l *slog.Logger) WriteOption {
	return func(o *writeOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))
