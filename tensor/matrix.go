package tensor

import "fmt"

// Matrix is a rank-2 container that tracks its row and column counts
// directly, so dimension access never walks a shape sequence.
type Matrix[T Numeric] struct {
	rows, cols int
	data       []T
	released   bool
}

// NewMatrix allocates a zero-filled rows×cols matrix.
func NewMatrix[T Numeric](rows, cols int) (*Matrix[T], error) {
	if rows < 0 || cols < 0 {
		return nil, fmt.Errorf("%w: negative matrix dimensions %dx%d", ErrInvalidDimensions, rows, cols)
	}
	return &Matrix[T]{rows: rows, cols: cols, data: make([]T, rows*cols)}, nil
}

// FullMatrix allocates a rows×cols matrix with every element set to value.
func FullMatrix[T Numeric](rows, cols int, value T) (*Matrix[T], error) {
	m, err := NewMatrix[T](rows, cols)
	if err != nil {
		return nil, err
	}
	for i := range m.data {
		m.data[i] = value
	}
	return m, nil
}

// MatrixFromSlice wraps a caller-supplied row-major buffer, taking ownership
// of it. The buffer length must equal rows*cols.
func MatrixFromSlice[T Numeric](data []T, rows, cols int) (*Matrix[T], error) {
	if rows < 0 || cols < 0 {
		return nil, fmt.Errorf("%w: negative matrix dimensions %dx%d", ErrInvalidDimensions, rows, cols)
	}
	if rows*cols != len(data) {
		return nil, fmt.Errorf("%w: %dx%d matrix requires %d elements, got %d",
			ErrInvalidDimensions, rows, cols, rows*cols, len(data))
	}
	return &Matrix[T]{rows: rows, cols: cols, data: data}, nil
}

// Kind returns KindMatrix.
func (m *Matrix[T]) Kind() Kind { return KindMatrix }

// Dims returns the shape as {rows, cols}.
func (m *Matrix[T]) Dims() Shape { return Shape{m.rows, m.cols} }

// Rows returns the row count.
func (m *Matrix[T]) Rows() int { return m.rows }

// Cols returns the column count.
func (m *Matrix[T]) Cols() int { return m.cols }

// Data returns the flat row-major element buffer.
// Modifications to the returned slice modify the matrix.
func (m *Matrix[T]) Data() []T { return m.data }

// NumElements returns the total number of elements.
func (m *Matrix[T]) NumElements() int { return len(m.data) }

// DataType returns the runtime element type.
func (m *Matrix[T]) DataType() DataType { return DataTypeOf[T]() }

// At returns the element at row i, column j.
func (m *Matrix[T]) At(i, j int) (T, error) {
	var zero T
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		return zero, fmt.Errorf("%w: (%d,%d) outside %dx%d matrix", ErrOutOfBounds, i, j, m.rows, m.cols)
	}
	return m.data[i*m.cols+j], nil
}

// Set stores value at row i, column j.
func (m *Matrix[T]) Set(value T, i, j int) error {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		return fmt.Errorf("%w: (%d,%d) outside %dx%d matrix", ErrOutOfBounds, i, j, m.rows, m.cols)
	}
	m.data[i*m.cols+j] = value
	return nil
}

// NewLike allocates a zero-filled matrix with the same dimensions.
func (m *Matrix[T]) NewLike() (*Matrix[T], error) {
	return NewMatrix[T](m.rows, m.cols)
}

// Clone creates a deep copy of the matrix.
func (m *Matrix[T]) Clone() *Matrix[T] {
	data := make([]T, len(m.data))
	copy(data, m.data)
	return &Matrix[T]{rows: m.rows, cols: m.cols, data: data}
}

// Release frees the buffer. Calling Release twice is a programming error
// and panics.
func (m *Matrix[T]) Release() {
	if m.released {
		panic("tensor: double release of Matrix")
	}
	m.data = nil
	m.rows, m.cols = 0, 0
	m.released = true
}

// String returns a human-readable representation of the matrix.
func (m *Matrix[T]) String() string {
	return fmt.Sprintf("Matrix[%s](%dx%d)", DataTypeOf[T](), m.rows, m.cols)
}
