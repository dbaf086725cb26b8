package uvdata

import (
	"fmt"
	"slices"
)

// Cube is a dense row-major three dimensional array.
type Cube[T any] struct {
	shape [3]int
	data  []T
}

// NewCube allocates a zero-filled cube.
func NewCube[T any](n0, n1, n2 int) *Cube[T] {
	return &Cube[T]{
		shape: [3]int{n0, n1, n2},
		data:  make([]T, n0*n1*n2),
	}
}

// CubeFromSlice wraps data, which must hold exactly n0*n1*n2 values.
func CubeFromSlice[T any](data []T, n0, n1, n2 int) (*Cube[T], error) {
	if len(data) != n0*n1*n2 {
		return nil, fmt.Errorf("cube of shape [%d %d %d] needs %d values, got %d",
			n0, n1, n2, n0*n1*n2, len(data))
	}
	return &Cube[T]{shape: [3]int{n0, n1, n2}, data: data}, nil
}

// Shape returns the cube dimensions.
func (c *Cube[T]) Shape() [3]int { return c.shape }

// Len returns the number of elements.
func (c *Cube[T]) Len() int { return len(c.data) }

// Data returns the backing slice in row-major order.
func (c *Cube[T]) Data() []T { return c.data }

func (c *Cube[T]) index(i, j, k int) int {
	if i < 0 || i >= c.shape[0] || j < 0 || j >= c.shape[1] || k < 0 || k >= c.shape[2] {
		panic(fmt.Sprintf("uvdata: index [%d %d %d] out of range for shape %v", i, j, k, c.shape))
	}
	return (i*c.shape[1]+j)*c.shape[2] + k
}

// At returns the element at [i, j, k].
func (c *Cube[T]) At(i, j, k int) T { return c.data[c.index(i, j, k)] }

// Set stores v at [i, j, k].
func (c *Cube[T]) Set(i, j, k int, v T) { c.data[c.index(i, j, k)] = v }

// Fill sets every element to v.
func (c *Cube[T]) Fill(v T) {
	for i := range c.data {
		c.data[i] = v
	}
}

// Clone returns a deep copy; a nil cube clones to nil.
func (c *Cube[T]) Clone() *Cube[T] {
	if c == nil {
		return nil
	}
	return &Cube[T]{shape: c.shape, data: slices.Clone(c.data)}
}

// MapCube applies fn to every element of c.
func MapCube[T, U any](c *Cube[T], fn func(T) U) *Cube[U] {
	if c == nil {
		return nil
	}
	out := &Cube[U]{shape: c.shape, data: make([]U, len(c.data))}
	for i, v := range c.data {
		out.data[i] = fn(v)
	}
	return out
}

// cubesEqual compares shape and elements with eq.
func cubesEqual[T any](a, b *Cube[T], eq func(T, T) bool) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.shape != b.shape {
		return false
	}
	for i := range a.data {
		if !eq(a.data[i], b.data[i]) {
			return false
		}
	}
	return true
}
