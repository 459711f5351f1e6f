package tensor

import "fmt"

// Vector is a rank-1 container that tracks its length directly.
type Vector[T Numeric] struct {
	data     []T
	released bool
}

// NewVector allocates a zero-filled vector of length n.
func NewVector[T Numeric](n int) (*Vector[T], error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative vector length %d", ErrInvalidDimensions, n)
	}
	return &Vector[T]{data: make([]T, n)}, nil
}

// FullVector allocates a vector of length n with every element set to value.
func FullVector[T Numeric](n int, value T) (*Vector[T], error) {
	v, err := NewVector[T](n)
	if err != nil {
		return nil, err
	}
	for i := range v.data {
		v.data[i] = value
	}
	return v, nil
}

// VectorFromSlice wraps a caller-supplied buffer, taking ownership of it.
func VectorFromSlice[T Numeric](data []T) *Vector[T] {
	return &Vector[T]{data: data}
}

// Kind returns KindVector.
func (v *Vector[T]) Kind() Kind { return KindVector }

// Dims returns the shape as {length}.
func (v *Vector[T]) Dims() Shape { return Shape{len(v.data)} }

// Len returns the vector length.
func (v *Vector[T]) Len() int { return len(v.data) }

// Data returns the element buffer.
// Modifications to the returned slice modify the vector.
func (v *Vector[T]) Data() []T { return v.data }

// DataType returns the runtime element type.
func (v *Vector[T]) DataType() DataType { return DataTypeOf[T]() }

// At returns the element at index i.
func (v *Vector[T]) At(i int) (T, error) {
	var zero T
	if i < 0 || i >= len(v.data) {
		return zero, fmt.Errorf("%w: index %d outside vector of length %d", ErrOutOfBounds, i, len(v.data))
	}
	return v.data[i], nil
}

// Set stores value at index i.
func (v *Vector[T]) Set(value T, i int) error {
	if i < 0 || i >= len(v.data) {
		return fmt.Errorf("%w: index %d outside vector of length %d", ErrOutOfBounds, i, len(v.data))
	}
	v.data[i] = value
	return nil
}

// NewLike allocates a zero-filled vector of the same length.
func (v *Vector[T]) NewLike() (*Vector[T], error) {
	return NewVector[T](len(v.data))
}

// Clone creates a deep copy of the vector.
func (v *Vector[T]) Clone() *Vector[T] {
	data := make([]T, len(v.data))
	copy(data, v.data)
	return &Vector[T]{data: data}
}

// Release frees the buffer. Calling Release twice is a programming error
// and panics.
func (v *Vector[T]) Release() {
	if v.released {
		panic("tensor: double release of Vector")
	}
	v.data = nil
	v.released = true
}

// String returns a human-readable representation of the vector.
func (v *Vector[T]) String() string {
	return fmt.Sprintf("Vector[%s](%d)", DataTypeOf[T](), len(v.data))
}
