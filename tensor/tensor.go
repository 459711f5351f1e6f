package tensor

import "fmt"

// Tensor is a rank-N container over a single owned contiguous buffer.
// Elements are stored flat in row-major order; product(shape) == len(data)
// is an invariant maintained by every constructor.
type Tensor[T Numeric] struct {
	shape    Shape
	data     []T
	released bool
}

// NewTensor allocates a zero-filled tensor of the given shape.
func NewTensor[T Numeric](shape Shape) (*Tensor[T], error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	return &Tensor[T]{
		shape: shape.Clone(),
		data:  make([]T, shape.NumElements()),
	}, nil
}

// FullTensor allocates a tensor with every element set to value.
func FullTensor[T Numeric](shape Shape, value T) (*Tensor[T], error) {
	t, err := NewTensor[T](shape)
	if err != nil {
		return nil, err
	}
	for i := range t.data {
		t.data[i] = value
	}
	return t, nil
}

// TensorFromSlice wraps a caller-supplied buffer, taking ownership of it.
// The buffer length must already match the declared shape.
func TensorFromSlice[T Numeric](data []T, shape Shape) (*Tensor[T], error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("%w: shape %v requires %d elements, got %d",
			ErrInvalidDimensions, shape, shape.NumElements(), len(data))
	}
	return &Tensor[T]{shape: shape.Clone(), data: data}, nil
}

// Kind returns KindTensor.
func (t *Tensor[T]) Kind() Kind { return KindTensor }

// Dims returns the tensor's shape.
func (t *Tensor[T]) Dims() Shape { return t.shape }

// Shape returns the tensor's shape.
func (t *Tensor[T]) Shape() Shape { return t.shape }

// Data returns the flat row-major element buffer.
// Modifications to the returned slice modify the tensor.
func (t *Tensor[T]) Data() []T { return t.data }

// NumElements returns the total number of elements.
func (t *Tensor[T]) NumElements() int { return len(t.data) }

// DataType returns the runtime element type.
func (t *Tensor[T]) DataType() DataType { return DataTypeOf[T]() }

// At returns the element at the given indices.
func (t *Tensor[T]) At(indices ...int) (T, error) {
	var zero T
	offset, err := t.offsetOf(indices)
	if err != nil {
		return zero, err
	}
	return t.data[offset], nil
}

// Set stores value at the given indices.
func (t *Tensor[T]) Set(value T, indices ...int) error {
	offset, err := t.offsetOf(indices)
	if err != nil {
		return err
	}
	t.data[offset] = value
	return nil
}

func (t *Tensor[T]) offsetOf(indices []int) (int, error) {
	if len(indices) != len(t.shape) {
		return 0, fmt.Errorf("%w: expected %d indices, got %d", ErrOutOfBounds, len(t.shape), len(indices))
	}
	offset := 0
	strides := t.shape.ComputeStrides()
	for i, idx := range indices {
		if idx < 0 || idx >= t.shape[i] {
			return 0, fmt.Errorf("%w: index %d out of range for dimension %d (extent %d)",
				ErrOutOfBounds, idx, i, t.shape[i])
		}
		offset += idx * strides[i]
	}
	return offset, nil
}

// NewLike allocates a zero-filled tensor with the same shape.
func (t *Tensor[T]) NewLike() (*Tensor[T], error) {
	return NewTensor[T](t.shape)
}

// Clone creates a deep copy of the tensor.
func (t *Tensor[T]) Clone() *Tensor[T] {
	data := make([]T, len(t.data))
	copy(data, t.data)
	return &Tensor[T]{shape: t.shape.Clone(), data: data}
}

// Release frees the buffer and the shape descriptor. Calling Release twice
// is a programming error and panics.
func (t *Tensor[T]) Release() {
	if t.released {
		panic("tensor: double release of Tensor")
	}
	t.data = nil
	t.shape = nil
	t.released = true
}

// String returns a human-readable representation of the tensor.
func (t *Tensor[T]) String() string {
	return fmt.Sprintf("Tensor[%s]%v", DataTypeOf[T](), t.shape)
}
