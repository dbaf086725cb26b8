package h5store

import (
	"fmt"
	"reflect"
	"slices"
	"sync"
)

// Memory is an in-process store. It implements both Reader and Writer, so a
// dataset written through the codec can be read back without touching disk.
// Memory is safe for concurrent use; Close is a no-op that marks it closed.
type Memory struct {
	mu     sync.RWMutex
	root   *node
	closed bool
}

type node struct {
	children map[string]*node // nil for datasets

	shape []int
	value any
	opts  datasetOptions
}

func (n *node) isGroup() bool { return n.children != nil }

// DatasetInfo describes a stored dataset.
type DatasetInfo struct {
	Shape       []int
	Type        reflect.Type // element type of the stored slice
	StringSize  int          // fixed string length, 0 when not set
	Compression int          // deflate level, 0 when uncompressed
}

// NewMemory returns an empty store holding only the root group.
func NewMemory() *Memory {
	return &Memory{root: &node{children: map[string]*node{}}}
}

// Reopen returns a reader over the same contents, e.g. to read back after
// a writer has been closed.
func (m *Memory) Reopen() *Memory {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return &Memory{root: m.root}
}

func (m *Memory) lookup(path string) (*node, error) {
	if m.closed {
		return nil, ErrClosed
	}
	cur := m.root
	for _, name := range SplitPath(path) {
		if !cur.isGroup() {
			return nil, fmt.Errorf("%w: %s", ErrNotGroup, path)
		}
		next, ok := cur.children[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, CleanPath(path))
		}
		cur = next
	}
	return cur, nil
}

func (m *Memory) dataset(path string) (*node, error) {
	n, err := m.lookup(path)
	if err != nil {
		return nil, err
	}
	if n.isGroup() {
		return nil, fmt.Errorf("%w: %s", ErrNotDataset, CleanPath(path))
	}
	return n, nil
}

// Members implements Reader.
func (m *Memory) Members(group string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n, err := m.lookup(group)
	if err != nil {
		return nil, err
	}
	if !n.isGroup() {
		return nil, fmt.Errorf("%w: %s", ErrNotGroup, CleanPath(group))
	}
	names := make([]string, 0, len(n.children))
	for name := range n.children {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

// Exists implements Reader.
func (m *Memory) Exists(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, err := m.lookup(path)
	return err == nil
}

// IsGroup implements Reader.
func (m *Memory) IsGroup(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, err := m.lookup(path)
	return err == nil && n.isGroup()
}

// Shape implements Reader.
func (m *Memory) Shape(path string) ([]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, err := m.dataset(path)
	if err != nil {
		return nil, err
	}
	return slices.Clone(n.shape), nil
}

// Read implements Reader.
func (m *Memory) Read(path string, dest any) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, err := m.dataset(path)
	if err != nil {
		return err
	}
	if err := assign(dest, n.value); err != nil {
		return fmt.Errorf("%s: %w", CleanPath(path), err)
	}
	return nil
}

// Info returns the stored layout of a dataset.
func (m *Memory) Info(path string) (DatasetInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, err := m.dataset(path)
	if err != nil {
		return DatasetInfo{}, err
	}
	return DatasetInfo{
		Shape:       slices.Clone(n.shape),
		Type:        reflect.TypeOf(n.value).Elem(),
		StringSize:  n.opts.stringSize,
		Compression: n.opts.compressionLvl,
	}, nil
}

// CreateGroup implements Writer.
func (m *Memory) CreateGroup(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	parent, name, err := m.parentFor(path)
	if err != nil {
		return err
	}
	parent.children[name] = &node{children: map[string]*node{}}
	return nil
}

// Write implements Writer.
func (m *Memory) Write(path string, shape []int, data any, opts ...DatasetOption) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, err := checkSlice(data)
	if err != nil {
		return fmt.Errorf("%s: %w", CleanPath(path), err)
	}
	if want := numElements(shape); v.Len() != want {
		return fmt.Errorf("%s: %w: %d values for shape %v", CleanPath(path), ErrShape, v.Len(), shape)
	}

	parent, name, err := m.parentFor(path)
	if err != nil {
		return err
	}

	o := applyDatasetOptions(opts)
	value := copySlice(data)
	if s, ok := value.([]string); ok && o.stringSize > 0 {
		for i := range s {
			if len(s[i]) > o.stringSize {
				s[i] = s[i][:o.stringSize]
			}
		}
	}

	var dims []int
	if len(shape) > 0 {
		dims = slices.Clone(shape)
	}
	parent.children[name] = &node{shape: dims, value: value, opts: *o}
	return nil
}

func (m *Memory) parentFor(path string) (*node, string, error) {
	parentPath, name, err := ParentPath(path)
	if err != nil {
		return nil, "", err
	}
	parent, err := m.lookup(parentPath)
	if err != nil {
		return nil, "", err
	}
	if !parent.isGroup() {
		return nil, "", fmt.Errorf("%w: %s", ErrNotGroup, parentPath)
	}
	if _, ok := parent.children[name]; ok {
		return nil, "", fmt.Errorf("%w: %s", ErrExists, CleanPath(path))
	}
	return parent, name, nil
}

// Close implements Reader and Writer.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

var (
	_ Reader = (*Memory)(nil)
	_ Writer = (*Memory)(nil)
)
