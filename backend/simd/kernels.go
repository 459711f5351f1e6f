package simd

import (
	"math"

	"github.com/tensile-compute/tensile/tensor"
)

// chunk is the lane width: the number of elements processed together in one
// block. The fixed-size inner loops over full-chunk slices carry no bounds
// checks, which is what lets the compiler emit vector code for them.
const chunk = 16

// addBlocks computes dst[i] = a[i] + b[i] in full chunks with a scalar tail.
func addBlocks[T tensor.Numeric](dst, a, b []T) {
	n := len(a)
	i := 0
	for ; i+chunk <= n; i += chunk {
		d := dst[i : i+chunk : i+chunk]
		x := a[i : i+chunk : i+chunk]
		y := b[i : i+chunk : i+chunk]
		for j := 0; j < chunk; j++ {
			d[j] = x[j] + y[j]
		}
	}
	for ; i < n; i++ {
		dst[i] = a[i] + b[i]
	}
}

// subBlocks computes dst[i] = a[i] - b[i] in full chunks with a scalar tail.
func subBlocks[T tensor.Numeric](dst, a, b []T) {
	n := len(a)
	i := 0
	for ; i+chunk <= n; i += chunk {
		d := dst[i : i+chunk : i+chunk]
		x := a[i : i+chunk : i+chunk]
		y := b[i : i+chunk : i+chunk]
		for j := 0; j < chunk; j++ {
			d[j] = x[j] - y[j]
		}
	}
	for ; i < n; i++ {
		dst[i] = a[i] - b[i]
	}
}

// mulBlocks computes dst[i] = a[i] * b[i] in full chunks with a scalar tail.
func mulBlocks[T tensor.Numeric](dst, a, b []T) {
	n := len(a)
	i := 0
	for ; i+chunk <= n; i += chunk {
		d := dst[i : i+chunk : i+chunk]
		x := a[i : i+chunk : i+chunk]
		y := b[i : i+chunk : i+chunk]
		for j := 0; j < chunk; j++ {
			d[j] = x[j] * y[j]
		}
	}
	for ; i < n; i++ {
		dst[i] = a[i] * b[i]
	}
}

// divBlocks computes dst[i] = a[i] / b[i] in full chunks with a scalar tail.
func divBlocks[T tensor.Numeric](dst, a, b []T) {
	n := len(a)
	i := 0
	for ; i+chunk <= n; i += chunk {
		d := dst[i : i+chunk : i+chunk]
		x := a[i : i+chunk : i+chunk]
		y := b[i : i+chunk : i+chunk]
		for j := 0; j < chunk; j++ {
			d[j] = x[j] / y[j]
		}
	}
	for ; i < n; i++ {
		dst[i] = a[i] / b[i]
	}
}

// opBlocks runs an arbitrary binary scalar function over chunks. The
// indirect call defeats vectorization but keeps the chunked memory access
// pattern; the tail starts at the first unprocessed index and the chunked
// range is never re-executed.
func opBlocks[T tensor.Numeric](dst, a, b []T, fn func(T, T) T) {
	n := len(a)
	i := 0
	for ; i+chunk <= n; i += chunk {
		d := dst[i : i+chunk : i+chunk]
		x := a[i : i+chunk : i+chunk]
		y := b[i : i+chunk : i+chunk]
		for j := 0; j < chunk; j++ {
			d[j] = fn(x[j], y[j])
		}
	}
	for ; i < n; i++ {
		dst[i] = fn(a[i], b[i])
	}
}

// negBlocks computes dst[i] = -a[i] in full chunks with a scalar tail.
func negBlocks[T tensor.Numeric](dst, a []T) {
	n := len(a)
	i := 0
	for ; i+chunk <= n; i += chunk {
		d := dst[i : i+chunk : i+chunk]
		x := a[i : i+chunk : i+chunk]
		for j := 0; j < chunk; j++ {
			d[j] = -x[j]
		}
	}
	for ; i < n; i++ {
		dst[i] = -a[i]
	}
}

// absBlocks computes dst[i] = |a[i]| in full chunks with a scalar tail.
func absBlocks[T tensor.Numeric](dst, a []T) {
	n := len(a)
	i := 0
	for ; i+chunk <= n; i += chunk {
		d := dst[i : i+chunk : i+chunk]
		x := a[i : i+chunk : i+chunk]
		for j := 0; j < chunk; j++ {
			v := x[j]
			if v < 0 {
				v = -v
			}
			d[j] = v
		}
	}
	for ; i < n; i++ {
		v := a[i]
		if v < 0 {
			v = -v
		}
		dst[i] = v
	}
}

// sqrtBlocks computes dst[i] = sqrt(a[i]) in full chunks with a scalar tail.
func sqrtBlocks[T tensor.Numeric](dst, a []T) {
	n := len(a)
	i := 0
	for ; i+chunk <= n; i += chunk {
		d := dst[i : i+chunk : i+chunk]
		x := a[i : i+chunk : i+chunk]
		for j := 0; j < chunk; j++ {
			d[j] = T(math.Sqrt(float64(x[j])))
		}
	}
	for ; i < n; i++ {
		dst[i] = T(math.Sqrt(float64(a[i])))
	}
}

// expBlocks computes dst[i] = exp(a[i]) in full chunks with a scalar tail.
func expBlocks[T tensor.Numeric](dst, a []T) {
	n := len(a)
	i := 0
	for ; i+chunk <= n; i += chunk {
		d := dst[i : i+chunk : i+chunk]
		x := a[i : i+chunk : i+chunk]
		for j := 0; j < chunk; j++ {
			d[j] = T(math.Exp(float64(x[j])))
		}
	}
	for ; i < n; i++ {
		dst[i] = T(math.Exp(float64(a[i])))
	}
}

// mapBlocks runs an arbitrary unary scalar function over chunks.
func mapBlocks[T tensor.Numeric](dst, a []T, fn func(T) T) {
	n := len(a)
	i := 0
	for ; i+chunk <= n; i += chunk {
		d := dst[i : i+chunk : i+chunk]
		x := a[i : i+chunk : i+chunk]
		for j := 0; j < chunk; j++ {
			d[j] = fn(x[j])
		}
	}
	for ; i < n; i++ {
		dst[i] = fn(a[i])
	}
}

// scaleBlocks computes dst[i] = a[i] * scalar in full chunks with a scalar
// tail.
func scaleBlocks[T tensor.Numeric](dst, a []T, scalar T) {
	n := len(a)
	i := 0
	for ; i+chunk <= n; i += chunk {
		d := dst[i : i+chunk : i+chunk]
		x := a[i : i+chunk : i+chunk]
		for j := 0; j < chunk; j++ {
			d[j] = x[j] * scalar
		}
	}
	for ; i < n; i++ {
		dst[i] = a[i] * scalar
	}
}
