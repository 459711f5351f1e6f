package webgpu

import (
	"math"

	"github.com/tensile-compute/tensile/backend/cpu"
	"github.com/tensile-compute/tensile/tensor"
)

// Backend dispatches operations to the GPU when it can and to the scalar CPU
// backend when it cannot. The device path covers float32 data and named
// kernels; custom functions, other element types, empty inputs, and a nil or
// released Device all take the fallback. Both paths compute the same results,
// so callers cannot observe which one ran except through timing.
type Backend[T tensor.Numeric] struct {
	dev      *Device
	fallback cpu.Backend[T]
}

// New creates a GPU backend bound to dev. A nil dev is valid and makes every
// operation run on the CPU fallback.
func New[T tensor.Numeric](dev *Device) Backend[T] {
	return Backend[T]{dev: dev, fallback: cpu.New[T]()}
}

// Device returns the bound device, which may be nil.
func (b Backend[T]) Device() *Device { return b.dev }

// asF32 reports whether s is a plain float32 slice, the only element type
// the WGSL kernels operate on.
func asF32[T tensor.Numeric](s []T) ([]float32, bool) {
	f, ok := any(s).([]float32)
	return f, ok
}

// Op applies fn element-wise. Named kernels with float32 operands run on the
// device; everything else falls back.
func (b Backend[T]) Op(dst, a, bb []T, fn tensor.BinaryFunc[T]) error {
	if !b.dev.ok() || len(a) == 0 {
		return b.fallback.Op(dst, a, bb, fn)
	}
	if _, known := binaryShaders[fn.Name]; !known {
		return b.fallback.Op(dst, a, bb, fn)
	}
	af, aok := asF32(a)
	bf, bok := asF32(bb)
	df, dok := asF32(dst)
	if !aok || !bok || !dok {
		return b.fallback.Op(dst, a, bb, fn)
	}

	out, err := b.dev.runBinary(fn.Name, af, bf)
	if err != nil {
		return err
	}
	copy(df, out)
	return nil
}

// Map applies fn element-wise to a single operand.
func (b Backend[T]) Map(dst, a []T, fn tensor.UnaryFunc[T]) error {
	if !b.dev.ok() || len(a) == 0 {
		return b.fallback.Map(dst, a, fn)
	}
	if _, known := unaryShaders[fn.Name]; !known {
		return b.fallback.Map(dst, a, fn)
	}
	af, aok := asF32(a)
	df, dok := asF32(dst)
	if !aok || !dok {
		return b.fallback.Map(dst, a, fn)
	}

	out, err := b.dev.runUnary(fn.Name, af)
	if err != nil {
		return err
	}
	copy(df, out)
	return nil
}

// ScalarMul multiplies every element by scalar.
func (b Backend[T]) ScalarMul(dst, a []T, scalar T) error {
	if !b.dev.ok() || len(a) == 0 {
		return b.fallback.ScalarMul(dst, a, scalar)
	}
	af, aok := asF32(a)
	df, dok := asF32(dst)
	if !aok || !dok {
		return b.fallback.ScalarMul(dst, a, scalar)
	}

	out, err := b.dev.runScalarMul(af, float32(scalar))
	if err != nil {
		return err
	}
	copy(df, out)
	return nil
}

// Dot computes the inner product of a and bb.
func (b Backend[T]) Dot(a, bb []T) (T, error) {
	if !b.dev.ok() || len(a) == 0 {
		return b.fallback.Dot(a, bb)
	}
	af, aok := asF32(a)
	bf, bok := asF32(bb)
	if !aok || !bok {
		return b.fallback.Dot(a, bb)
	}

	sum, err := b.dev.runDot(af, bf)
	if err != nil {
		var zero T
		return zero, err
	}
	return T(sum), nil
}

// Norm computes the Euclidean norm of v.
func (b Backend[T]) Norm(v []T) (T, error) {
	if !b.dev.ok() || len(v) == 0 {
		return b.fallback.Norm(v)
	}
	vf, ok := asF32(v)
	if !ok {
		return b.fallback.Norm(v)
	}

	sum, err := b.dev.runNormSquared(vf)
	if err != nil {
		var zero T
		return zero, err
	}
	return T(math.Sqrt(float64(sum))), nil
}

// MatVecMul computes dst = m·v for a rows x cols matrix.
func (b Backend[T]) MatVecMul(dst, m, v []T, rows, cols int) error {
	if !b.dev.ok() || rows == 0 || cols == 0 {
		return b.fallback.MatVecMul(dst, m, v, rows, cols)
	}
	mf, mok := asF32(m)
	vf, vok := asF32(v)
	df, dok := asF32(dst)
	if !mok || !vok || !dok {
		return b.fallback.MatVecMul(dst, m, v, rows, cols)
	}

	out, err := b.dev.runMatVecMul(mf, vf, rows, cols)
	if err != nil {
		return err
	}
	copy(df, out)
	return nil
}

// MatMul computes dst = a·bb where a is m x k and bb is k x n.
func (b Backend[T]) MatMul(dst, a, bb []T, m, k, n int) error {
	if !b.dev.ok() || m == 0 || k == 0 || n == 0 {
		return b.fallback.MatMul(dst, a, bb, m, k, n)
	}
	af, aok := asF32(a)
	bf, bok := asF32(bb)
	df, dok := asF32(dst)
	if !aok || !bok || !dok {
		return b.fallback.MatMul(dst, a, bb, m, k, n)
	}

	out, err := b.dev.runMatMul(af, bf, m, k, n)
	if err != nil {
		return err
	}
	copy(df, out)
	return nil
}

// Transpose writes the transpose of a rows x cols matrix into dst.
func (b Backend[T]) Transpose(dst, src []T, rows, cols int) error {
	if !b.dev.ok() || rows == 0 || cols == 0 {
		return b.fallback.Transpose(dst, src, rows, cols)
	}
	sf, sok := asF32(src)
	df, dok := asF32(dst)
	if !sok || !dok {
		return b.fallback.Transpose(dst, src, rows, cols)
	}

	out, err := b.dev.runTranspose(sf, rows, cols)
	if err != nil {
		return err
	}
	copy(df, out)
	return nil
}

// Name identifies the backend.
func (b Backend[T]) Name() string { return "webgpu" }
