// Package cpu implements the reference compute backend: straightforward
// loops over flat row-major data. It carries no algorithmic shortcuts and is
// the semantic oracle the SIMD and GPU backends are checked against.
package cpu

import (
	"math"

	"github.com/tensile-compute/tensile/tensor"
)

// Backend is the naive CPU implementation of tensor.Backend. It is stateless
// and zero-sized; the zero value is ready to use.
type Backend[T tensor.Numeric] struct{}

// New creates a CPU backend.
func New[T tensor.Numeric]() Backend[T] { return Backend[T]{} }

// Name returns the backend name.
func (Backend[T]) Name() string { return "cpu" }

// Op applies fn element-wise: dst[i] = fn(a[i], b[i]).
func (Backend[T]) Op(dst, a, b []T, fn tensor.BinaryFunc[T]) error {
	for i := range a {
		dst[i] = fn.Apply(a[i], b[i])
	}
	return nil
}

// Map applies fn element-wise: dst[i] = fn(a[i]).
func (Backend[T]) Map(dst, a []T, fn tensor.UnaryFunc[T]) error {
	for i := range a {
		dst[i] = fn.Apply(a[i])
	}
	return nil
}

// ScalarMul multiplies every element by scalar.
func (Backend[T]) ScalarMul(dst, a []T, scalar T) error {
	for i := range a {
		dst[i] = a[i] * scalar
	}
	return nil
}

// Dot returns the sum of element-wise products by linear accumulation.
func (Backend[T]) Dot(a, b []T) (T, error) {
	var sum T
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum, nil
}

// Norm returns the Euclidean norm. The sum of squares accumulates in float64
// regardless of element type and converts back after the square root.
func (Backend[T]) Norm(v []T) (T, error) {
	sum := 0.0
	for _, x := range v {
		f := float64(x)
		sum += f * f
	}
	return T(math.Sqrt(sum)), nil
}

// MatVecMul computes dst = m·v with one accumulation pass per output row.
func (Backend[T]) MatVecMul(dst, m, v []T, rows, cols int) error {
	for i := 0; i < rows; i++ {
		row := m[i*cols : (i+1)*cols]
		var sum T
		for k := 0; k < cols; k++ {
			sum += row[k] * v[k]
		}
		dst[i] = sum
	}
	return nil
}

// MatMul computes dst = a·b with the triple loop over flat row-major
// indices: dst[i*n+j] = sum_k a[i*k+kk] * b[kk*n+j].
func (Backend[T]) MatMul(dst, a, b []T, m, k, n int) error {
	for i := range dst {
		dst[i] = 0
	}
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			var sum T
			for kk := 0; kk < k; kk++ {
				sum += a[i*k+kk] * b[kk*n+j]
			}
			dst[i*n+j] = sum
		}
	}
	return nil
}

// Transpose writes the transposed rows×cols matrix src into dst with a
// swapped-index copy.
func (Backend[T]) Transpose(dst, src []T, rows, cols int) error {
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			dst[j*rows+i] = src[i*cols+j]
		}
	}
	return nil
}
