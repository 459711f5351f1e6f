package tensor

import "fmt"

// Context binds a compute backend at construction time and exposes the
// operation surface of the engine. Backend selection is a construction-time
// decision: the backend type parameter gives static dispatch, and the same
// Context code drives the CPU, SIMD and GPU implementations.
//
// Every Into variant writes strictly into the caller-supplied output and
// never allocates. Every allocating variant creates a matching-shape result,
// delegates to the Into form, and releases the allocation if the delegated
// call fails.
type Context[T Numeric, B Backend[T]] struct {
	backend B
}

// NewContext creates a Context bound to the given backend.
func NewContext[T Numeric, B Backend[T]](b B) *Context[T, B] {
	return &Context[T, B]{backend: b}
}

// Backend returns the bound compute backend.
func (c *Context[T, B]) Backend() B { return c.backend }

// OpInto applies fn element-wise over a and b into out.
// All three containers must have equal shapes.
func OpInto[T Numeric, B Backend[T], C Dense[T, C]](c *Context[T, B], a, b, out C, fn BinaryFunc[T]) error {
	if err := EnsureEqualShape(a, b); err != nil {
		return err
	}
	if err := EnsureEqualShape(a, out); err != nil {
		return err
	}
	return c.backend.Op(out.Data(), a.Data(), b.Data(), fn)
}

// Op applies fn element-wise over a and b, allocating the result.
func Op[T Numeric, B Backend[T], C Dense[T, C]](c *Context[T, B], a, b C, fn BinaryFunc[T]) (C, error) {
	var zero C
	if err := EnsureEqualShape(a, b); err != nil {
		return zero, err
	}
	out, err := a.NewLike()
	if err != nil {
		return zero, err
	}
	if err := OpInto(c, a, b, out, fn); err != nil {
		out.Release()
		return zero, err
	}
	return out, nil
}

// MapInto applies fn element-wise over a into out.
func MapInto[T Numeric, B Backend[T], C Dense[T, C]](c *Context[T, B], a, out C, fn UnaryFunc[T]) error {
	if err := EnsureEqualShape(a, out); err != nil {
		return err
	}
	return c.backend.Map(out.Data(), a.Data(), fn)
}

// Map applies fn element-wise over a, allocating the result.
func Map[T Numeric, B Backend[T], C Dense[T, C]](c *Context[T, B], a C, fn UnaryFunc[T]) (C, error) {
	var zero C
	out, err := a.NewLike()
	if err != nil {
		return zero, err
	}
	if err := MapInto(c, a, out, fn); err != nil {
		out.Release()
		return zero, err
	}
	return out, nil
}

// ScalarMulInto multiplies every element of a by scalar into out. The scalar
// shares the container's element type, so a mismatched scalar type is a
// compile-time error.
func ScalarMulInto[T Numeric, B Backend[T], C Dense[T, C]](c *Context[T, B], a, out C, scalar T) error {
	if err := EnsureEqualShape(a, out); err != nil {
		return err
	}
	return c.backend.ScalarMul(out.Data(), a.Data(), scalar)
}

// ScalarMul multiplies every element of a by scalar, allocating the result.
func ScalarMul[T Numeric, B Backend[T], C Dense[T, C]](c *Context[T, B], a C, scalar T) (C, error) {
	var zero C
	out, err := a.NewLike()
	if err != nil {
		return zero, err
	}
	if err := ScalarMulInto(c, a, out, scalar); err != nil {
		out.Release()
		return zero, err
	}
	return out, nil
}

// VectorDot returns the sum of element-wise products of a and b.
// Zero for empty vectors.
func (c *Context[T, B]) VectorDot(a, b *Vector[T]) (T, error) {
	var zero T
	if a.Len() != b.Len() {
		return zero, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, a.Len(), b.Len())
	}
	return c.backend.Dot(a.Data(), b.Data())
}

// VectorNorm returns the Euclidean norm of v. Zero for an empty vector.
func (c *Context[T, B]) VectorNorm(v *Vector[T]) (T, error) {
	return c.backend.Norm(v.Data())
}

// MatVecMulInto computes out = m·v.
func (c *Context[T, B]) MatVecMulInto(m *Matrix[T], v, out *Vector[T]) error {
	if m.Cols() != v.Len() {
		return fmt.Errorf("%w: %dx%d matrix with vector of length %d",
			ErrShapeMismatch, m.Rows(), m.Cols(), v.Len())
	}
	if out.Len() != m.Rows() {
		return fmt.Errorf("%w: output length %d, want %d",
			ErrShapeMismatch, out.Len(), m.Rows())
	}
	return c.backend.MatVecMul(out.Data(), m.Data(), v.Data(), m.Rows(), m.Cols())
}

// MatVecMul computes m·v, allocating the result vector.
func (c *Context[T, B]) MatVecMul(m *Matrix[T], v *Vector[T]) (*Vector[T], error) {
	if m.Cols() != v.Len() {
		return nil, fmt.Errorf("%w: %dx%d matrix with vector of length %d",
			ErrShapeMismatch, m.Rows(), m.Cols(), v.Len())
	}
	out, err := NewVector[T](m.Rows())
	if err != nil {
		return nil, err
	}
	if err := c.MatVecMulInto(m, v, out); err != nil {
		out.Release()
		return nil, err
	}
	return out, nil
}

// MatMulInto computes out = a·b.
func (c *Context[T, B]) MatMulInto(a, b, out *Matrix[T]) error {
	if a.Cols() != b.Rows() {
		return fmt.Errorf("%w: %dx%d · %dx%d", ErrShapeMismatch, a.Rows(), a.Cols(), b.Rows(), b.Cols())
	}
	if out.Rows() != a.Rows() || out.Cols() != b.Cols() {
		return fmt.Errorf("%w: output is %dx%d, want %dx%d",
			ErrShapeMismatch, out.Rows(), out.Cols(), a.Rows(), b.Cols())
	}
	return c.backend.MatMul(out.Data(), a.Data(), b.Data(), a.Rows(), a.Cols(), b.Cols())
}

// MatMul computes a·b, allocating the result matrix.
func (c *Context[T, B]) MatMul(a, b *Matrix[T]) (*Matrix[T], error) {
	if a.Cols() != b.Rows() {
		return nil, fmt.Errorf("%w: %dx%d · %dx%d", ErrShapeMismatch, a.Rows(), a.Cols(), b.Rows(), b.Cols())
	}
	out, err := NewMatrix[T](a.Rows(), b.Cols())
	if err != nil {
		return nil, err
	}
	if err := c.MatMulInto(a, b, out); err != nil {
		out.Release()
		return nil, err
	}
	return out, nil
}

// TransposeInto writes the transpose of m into out.
func (c *Context[T, B]) TransposeInto(m, out *Matrix[T]) error {
	if out.Rows() != m.Cols() || out.Cols() != m.Rows() {
		return fmt.Errorf("%w: output is %dx%d, want %dx%d",
			ErrShapeMismatch, out.Rows(), out.Cols(), m.Cols(), m.Rows())
	}
	return c.backend.Transpose(out.Data(), m.Data(), m.Rows(), m.Cols())
}

// Transpose computes the transpose of m, allocating the result matrix.
func (c *Context[T, B]) Transpose(m *Matrix[T]) (*Matrix[T], error) {
	out, err := NewMatrix[T](m.Cols(), m.Rows())
	if err != nil {
		return nil, err
	}
	if err := c.TransposeInto(m, out); err != nil {
		out.Release()
		return nil, err
	}
	return out, nil
}
