// Package simd implements the compute backend restructured for lane-width
// parallelism: element data is processed in fixed-width chunks with scalar
// handling of any remainder, reductions keep a lane-width accumulator, and
// large transposes run cache-blocked. Results match the cpu backend within
// floating-point rounding.
package simd

import (
	"math"

	"github.com/tensile-compute/tensile/internal/parallel"
	"github.com/tensile-compute/tensile/tensor"
)

// parCfg governs the goroutine fan-out of row-independent kernels. Matrices
// below the chunk threshold run sequentially.
var parCfg = parallel.DefaultConfig()

// Backend is the SIMD-oriented implementation of tensor.Backend. It is
// stateless and zero-sized; the zero value is ready to use.
type Backend[T tensor.Numeric] struct{}

// New creates a SIMD backend.
func New[T tensor.Numeric]() Backend[T] { return Backend[T]{} }

// Name returns the backend name.
func (Backend[T]) Name() string { return "simd" }

// Op applies fn element-wise. Named functions dispatch to specialized block
// kernels; custom functions run the generic chunked loop.
func (Backend[T]) Op(dst, a, b []T, fn tensor.BinaryFunc[T]) error {
	switch fn.Name {
	case tensor.OpAdd:
		addBlocks(dst, a, b)
	case tensor.OpSub:
		subBlocks(dst, a, b)
	case tensor.OpMul:
		mulBlocks(dst, a, b)
	case tensor.OpDiv:
		divBlocks(dst, a, b)
	default:
		opBlocks(dst, a, b, fn.Apply)
	}
	return nil
}

// Map applies fn element-wise. Named functions dispatch to specialized block
// kernels; custom functions run the generic chunked loop.
func (Backend[T]) Map(dst, a []T, fn tensor.UnaryFunc[T]) error {
	switch fn.Name {
	case tensor.OpNeg:
		negBlocks(dst, a)
	case tensor.OpAbs:
		absBlocks(dst, a)
	case tensor.OpSqrt:
		sqrtBlocks(dst, a)
	case tensor.OpExp:
		expBlocks(dst, a)
	default:
		mapBlocks(dst, a, fn.Apply)
	}
	return nil
}

// ScalarMul multiplies every element by scalar in chunks.
func (Backend[T]) ScalarMul(dst, a []T, scalar T) error {
	scaleBlocks(dst, a, scalar)
	return nil
}

// Dot accumulates partial products into a lane-width accumulator across full
// chunks, horizontally reduces it, then processes the remainder scalarly.
// Below one chunk it falls back entirely to linear accumulation.
func (Backend[T]) Dot(a, b []T) (T, error) {
	n := len(a)
	if n < chunk {
		var sum T
		for i := 0; i < n; i++ {
			sum += a[i] * b[i]
		}
		return sum, nil
	}

	var acc [chunk]T
	i := 0
	for ; i+chunk <= n; i += chunk {
		x := a[i : i+chunk : i+chunk]
		y := b[i : i+chunk : i+chunk]
		for j := 0; j < chunk; j++ {
			acc[j] += x[j] * y[j]
		}
	}

	var sum T
	for j := 0; j < chunk; j++ {
		sum += acc[j]
	}
	for ; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum, nil
}

// Norm accumulates squares into a lane-width accumulator and takes the
// square root of the horizontal reduction. Zero for an empty slice.
func (Backend[T]) Norm(v []T) (T, error) {
	n := len(v)
	if n < chunk {
		sum := 0.0
		for i := 0; i < n; i++ {
			f := float64(v[i])
			sum += f * f
		}
		return T(math.Sqrt(sum)), nil
	}

	var acc [chunk]float64
	i := 0
	for ; i+chunk <= n; i += chunk {
		x := v[i : i+chunk : i+chunk]
		for j := 0; j < chunk; j++ {
			f := float64(x[j])
			acc[j] += f * f
		}
	}

	sum := 0.0
	for j := 0; j < chunk; j++ {
		sum += acc[j]
	}
	for ; i < n; i++ {
		f := float64(v[i])
		sum += f * f
	}
	return T(math.Sqrt(sum)), nil
}

// MatVecMul multiply-accumulates each row against v in chunks with a
// lane-width accumulator, then handles remainder columns scalarly. Rows
// narrower than one chunk use the scalar nested loop.
func (Backend[T]) MatVecMul(dst, m, v []T, rows, cols int) error {
	if cols < chunk {
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

	for i := 0; i < rows; i++ {
		row := m[i*cols : (i+1)*cols]
		var acc [chunk]T
		k := 0
		for ; k+chunk <= cols; k += chunk {
			x := row[k : k+chunk : k+chunk]
			y := v[k : k+chunk : k+chunk]
			for j := 0; j < chunk; j++ {
				acc[j] += x[j] * y[j]
			}
		}
		var sum T
		for j := 0; j < chunk; j++ {
			sum += acc[j]
		}
		for ; k < cols; k++ {
			sum += row[k] * v[k]
		}
		dst[i] = sum
	}
	return nil
}

// MatMul broadcasts a[i,k] against chunk-width slices of b's row k and
// accumulates into dst's row i in place, with remainder columns handled
// scalarly. Output rows are independent and fan out across goroutines for
// tall results.
func (Backend[T]) MatMul(dst, a, b []T, m, k, n int) error {
	for i := range dst {
		dst[i] = 0
	}
	parallel.For(m, func(i int) {
		drow := dst[i*n : (i+1)*n]
		arow := a[i*k : (i+1)*k]
		for kk := 0; kk < k; kk++ {
			s := arow[kk]
			brow := b[kk*n : (kk+1)*n]
			j := 0
			for ; j+chunk <= n; j += chunk {
				d := drow[j : j+chunk : j+chunk]
				x := brow[j : j+chunk : j+chunk]
				for l := 0; l < chunk; l++ {
					d[l] += s * x[l]
				}
			}
			for ; j < n; j++ {
				drow[j] += s * brow[j]
			}
		}
	}, parCfg)
	return nil
}
