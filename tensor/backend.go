package tensor

// Backend defines the capability set every compute backend implements.
// Backends are pure kernels over flat row-major slices: all shape and length
// validation happens in the Context before dispatch, so every backend sees
// the same pre-checked operands and mismatch behavior cannot diverge between
// implementations.
//
// Implementations:
//   - backend/cpu: straightforward loops, the semantic oracle
//   - backend/simd: chunked lane-width kernels with scalar remainders
//   - backend/webgpu: WGSL compute kernels with transparent scalar fallback
//
// CPU and SIMD kernels never fail; only device-path failures surface as
// errors, wrapped in ErrBackend.
type Backend[T Numeric] interface {
	// Op applies fn element-wise: dst[i] = fn(a[i], b[i]).
	Op(dst, a, b []T, fn BinaryFunc[T]) error

	// Map applies fn element-wise: dst[i] = fn(a[i]).
	Map(dst, a []T, fn UnaryFunc[T]) error

	// ScalarMul multiplies every element by scalar: dst[i] = a[i] * scalar.
	ScalarMul(dst, a []T, scalar T) error

	// Dot returns the sum of element-wise products. Zero for empty slices.
	Dot(a, b []T) (T, error)

	// Norm returns the Euclidean norm. Zero for an empty slice.
	Norm(v []T) (T, error)

	// MatVecMul computes dst = m·v for a rows×cols matrix.
	MatVecMul(dst, m, v []T, rows, cols int) error

	// MatMul computes dst = a·b for an m×k matrix a and a k×n matrix b.
	MatMul(dst, a, b []T, m, k, n int) error

	// Transpose writes the transposed rows×cols matrix src into dst.
	Transpose(dst, src []T, rows, cols int) error

	// Name identifies the backend.
	Name() string
}
