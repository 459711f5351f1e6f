package tensor

import "fmt"

// Kind discriminates the three container families.
type Kind int

// Container kinds.
const (
	KindTensor Kind = iota
	KindMatrix
	KindVector
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindTensor:
		return "tensor"
	case KindMatrix:
		return "matrix"
	case KindVector:
		return "vector"
	default:
		return "unknown"
	}
}

// Shaped is the view of a container used by shape compatibility checks.
type Shaped interface {
	Kind() Kind
	Dims() Shape
}

// EnsureEqualShape verifies that a and b are compatible operands for an
// element-wise or output-writing operation. It is the single
// invariant-enforcement point and must run before any data is touched, so a
// failed check never leaves a partially written output.
//
// It returns ErrInvalidType when a and b are different container kinds,
// ErrLengthMismatch for vectors of different lengths, and ErrShapeMismatch
// for tensors or matrices with disagreeing shapes.
func EnsureEqualShape(a, b Shaped) error {
	if a.Kind() != b.Kind() {
		return fmt.Errorf("%w: %s vs %s", ErrInvalidType, a.Kind(), b.Kind())
	}
	if a.Kind() == KindVector {
		if a.Dims()[0] != b.Dims()[0] {
			return fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, a.Dims()[0], b.Dims()[0])
		}
		return nil
	}
	if !a.Dims().Equal(b.Dims()) {
		return fmt.Errorf("%w: %v vs %v", ErrShapeMismatch, a.Dims(), b.Dims())
	}
	return nil
}

// Dense is the constraint element-wise operations are generic over. The
// self-referential parameter C lets an operation allocate a result of the
// operand's own kind (NewLike) and hand it back with its concrete type.
type Dense[T Numeric, C any] interface {
	Shaped
	Data() []T
	NewLike() (C, error)
	Release()
}
