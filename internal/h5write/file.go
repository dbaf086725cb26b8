package h5write

import (
	"bytes"
	"compress/zlib"
	"errors"
	"fmt"
	"math/bits"
	"os"
	"strings"
)

// File builds an HDF5 file in memory and writes it on Close. Objects are
// laid out children first, so every group header is written once with its
// final set of links.
type File struct {
	f      *os.File
	root   *node
	closed bool
}

// Dataset is the content of one dataset.
type Dataset struct {
	Type Datatype
	// Dims is the dataset shape; empty for a scalar.
	Dims []uint64
	// Data holds the elements in row-major order, Type.Size bytes each.
	Data []byte
	// Deflate is the zlib level, 1-9. Zero stores the data contiguously.
	Deflate int
}

type node struct {
	children []*node
	names    []string
	ds       *Dataset
}

func (n *node) child(name string) *node {
	for i, c := range n.names {
		if c == name {
			return n.children[i]
		}
	}
	return nil
}

// Create creates or truncates path. Nothing is written until Close.
func Create(path string) (*File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &File{f: f, root: &node{}}, nil
}

func splitPath(path string) []string {
	return strings.FieldsFunc(path, func(r rune) bool { return r == '/' })
}

// parent returns the group that will hold path and the new object's name.
func (f *File) parent(path string) (*node, string, error) {
	if f.closed {
		return nil, "", ErrClosed
	}
	parts := splitPath(path)
	if len(parts) == 0 {
		return nil, "", fmt.Errorf("%w: /", ErrExists)
	}
	g := f.root
	for _, p := range parts[:len(parts)-1] {
		g = g.child(p)
		if g == nil || g.ds != nil {
			return nil, "", fmt.Errorf("%w: %s", ErrNoParent, path)
		}
	}
	name := parts[len(parts)-1]
	if g.child(name) != nil {
		return nil, "", fmt.Errorf("%w: %s", ErrExists, path)
	}
	return g, name, nil
}

// CreateGroup adds an empty group at path.
func (f *File) CreateGroup(path string) error {
	g, name, err := f.parent(path)
	if err != nil {
		return err
	}
	g.names = append(g.names, name)
	g.children = append(g.children, &node{})
	return nil
}

// CreateDataset adds a dataset at path. Data is retained until Close.
func (f *File) CreateDataset(path string, ds Dataset) error {
	g, name, err := f.parent(path)
	if err != nil {
		return err
	}
	if err := ds.Type.validate(); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	n := uint64(1)
	for _, d := range ds.Dims {
		n *= d
	}
	if want := n * uint64(ds.Type.Size); uint64(len(ds.Data)) != want {
		return fmt.Errorf("%s: %w: %d bytes, want %d", path, ErrSize, len(ds.Data), want)
	}
	if ds.Deflate < 0 || ds.Deflate > 9 {
		return fmt.Errorf("%s: deflate level %d out of range", path, ds.Deflate)
	}
	g.names = append(g.names, name)
	g.children = append(g.children, &node{ds: &ds})
	return nil
}

// Close lays out the file, writes it and closes the underlying file.
func (f *File) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true

	img := buffer{b: make([]byte, superblockSize)}
	root, err := img.object(f.root)
	if err == nil {
		copy(img.b, superblock(uint64(img.size()), root))
		_, err = f.f.Write(img.b)
	}
	return errors.Join(err, f.f.Close())
}

// object appends n and everything below it, returning n's header address.
func (w *buffer) object(n *node) (uint64, error) {
	if n.ds != nil {
		return w.dataset(n.ds)
	}
	msgs := []message{linkInfoMessage(), groupInfoMessage()}
	for i, c := range n.children {
		addr, err := w.object(c)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", n.names[i], err)
		}
		msgs = append(msgs, linkMessage(n.names[i], addr))
	}
	return w.header(msgs, minGroupChunk)
}

func (w *buffer) header(msgs []message, minChunk int) (uint64, error) {
	hdr, err := objectHeader(msgs, minChunk)
	if err != nil {
		return 0, err
	}
	addr := uint64(w.size())
	w.bytes(hdr)
	return addr, nil
}

func (w *buffer) dataset(ds *Dataset) (uint64, error) {
	msgs := []message{dataspaceMessage(ds.Dims), datatypeMessage(ds.Type)}

	if ds.Deflate > 0 && len(ds.Dims) > 0 && len(ds.Data) > 0 {
		index, err := w.deflateChunk(ds)
		if err != nil {
			return 0, err
		}
		msgs = append(msgs, deflatePipeline(ds.Deflate), chunkedLayout(ds.Dims, ds.Type.Size, index))
		return w.header(msgs, 0)
	}

	addr := undefinedAddr
	if len(ds.Data) > 0 {
		addr = uint64(w.size())
		w.bytes(ds.Data)
	}
	msgs = append(msgs, contiguousLayout(addr, uint64(len(ds.Data))))
	return w.header(msgs, 0)
}

// deflateChunk stores the whole dataset as one compressed chunk behind a
// single entry fixed array index and returns the index header address.
func (w *buffer) deflateChunk(ds *Dataset) (uint64, error) {
	if uint64(len(ds.Data)) > 0xFFFFFFFF {
		return 0, fmt.Errorf("h5write: %d byte chunk exceeds 4 GiB", len(ds.Data))
	}
	var z bytes.Buffer
	zw, err := zlib.NewWriterLevel(&z, ds.Deflate)
	if err != nil {
		return 0, err
	}
	if _, err := zw.Write(ds.Data); err != nil {
		return 0, err
	}
	if err := zw.Close(); err != nil {
		return 0, err
	}

	chunkAddr := uint64(w.size())
	w.bytes(z.Bytes())

	// filtered entries size their length field from the raw chunk size
	sizeLen := min(1+(bits.Len64(uint64(len(ds.Data)))-1+8)/8, 8)
	entrySize := offsetSize + sizeLen + 4
	const headerSize = 4 + 4 + lengthSize + offsetSize + 4

	headerAddr := uint64(w.size())
	blockAddr := headerAddr + headerSize

	start := w.size()
	w.bytes([]byte("FAHD"))
	w.u8(0) // version
	w.u8(1) // filtered chunks
	w.u8(uint8(entrySize))
	w.u8(fixedArrayPageBits)
	w.length(1)
	w.offset(blockAddr)
	w.checksum(start)

	start = w.size()
	w.bytes([]byte("FADB"))
	w.u8(0)
	w.u8(1)
	w.offset(headerAddr)
	w.offset(chunkAddr)
	w.uintN(uint64(z.Len()), sizeLen)
	w.u32(0) // filter mask
	w.checksum(start)

	return headerAddr, nil
}
