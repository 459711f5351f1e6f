package tensor_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tensile-compute/tensile/backend/cpu"
	"github.com/tensile-compute/tensile/tensor"
)

func newCPUContext[T tensor.Numeric]() *tensor.Context[T, cpu.Backend[T]] {
	return tensor.NewContext[T](cpu.New[T]())
}

func TestContextOp(t *testing.T) {
	ctx := newCPUContext[float32]()

	t.Run("TensorAdd", func(t *testing.T) {
		a, _ := tensor.TensorFromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2})
		b, _ := tensor.TensorFromSlice([]float32{10, 20, 30, 40}, tensor.Shape{2, 2})

		out, err := tensor.Op(ctx, a, b, tensor.Add[float32]())
		require.NoError(t, err)
		assert.Equal(t, []float32{11, 22, 33, 44}, out.Data())
	})

	t.Run("MatrixSubInto", func(t *testing.T) {
		a, _ := tensor.MatrixFromSlice([]float32{5, 5, 5, 5}, 2, 2)
		b, _ := tensor.MatrixFromSlice([]float32{1, 2, 3, 4}, 2, 2)
		out, _ := tensor.NewMatrix[float32](2, 2)

		require.NoError(t, tensor.OpInto(ctx, a, b, out, tensor.Sub[float32]()))
		assert.Equal(t, []float32{4, 3, 2, 1}, out.Data())
	})

	t.Run("VectorMul", func(t *testing.T) {
		a := tensor.VectorFromSlice([]float32{1, 2, 3})
		b := tensor.VectorFromSlice([]float32{4, 5, 6})

		out, err := tensor.Op(ctx, a, b, tensor.Mul[float32]())
		require.NoError(t, err)
		assert.Equal(t, []float32{4, 10, 18}, out.Data())
	})

	t.Run("CustomFunc", func(t *testing.T) {
		a := tensor.VectorFromSlice([]float32{1, 5, 2})
		b := tensor.VectorFromSlice([]float32{3, 4, 2})
		maxFn := tensor.BinaryOf(func(x, y float32) float32 {
			if x > y {
				return x
			}
			return y
		})

		out, err := tensor.Op(ctx, a, b, maxFn)
		require.NoError(t, err)
		assert.Equal(t, []float32{3, 5, 2}, out.Data())
	})

	t.Run("ShapeMismatch", func(t *testing.T) {
		a, _ := tensor.NewTensor[float32](tensor.Shape{2, 3})
		b, _ := tensor.NewTensor[float32](tensor.Shape{3, 2})
		_, err := tensor.Op(ctx, a, b, tensor.Add[float32]())
		assert.ErrorIs(t, err, tensor.ErrShapeMismatch)
	})

	t.Run("MismatchLeavesOutputUntouched", func(t *testing.T) {
		a, _ := tensor.NewTensor[float32](tensor.Shape{2, 3})
		b, _ := tensor.NewTensor[float32](tensor.Shape{3, 2})
		out, _ := tensor.FullTensor(tensor.Shape{2, 3}, float32(7))

		err := tensor.OpInto(ctx, a, b, out, tensor.Add[float32]())
		require.ErrorIs(t, err, tensor.ErrShapeMismatch)
		assert.Equal(t, []float32{7, 7, 7, 7, 7, 7}, out.Data(),
			"validation runs before any element is written")
	})

	t.Run("EmptyOperands", func(t *testing.T) {
		a, _ := tensor.NewVector[float32](0)
		b, _ := tensor.NewVector[float32](0)
		out, err := tensor.Op(ctx, a, b, tensor.Add[float32]())
		require.NoError(t, err)
		assert.Equal(t, 0, out.Len())
	})
}

func TestContextMap(t *testing.T) {
	ctx := newCPUContext[float64]()

	t.Run("Neg", func(t *testing.T) {
		a := tensor.VectorFromSlice([]float64{1, -2, 3})
		out, err := tensor.Map(ctx, a, tensor.Neg[float64]())
		require.NoError(t, err)
		assert.Equal(t, []float64{-1, 2, -3}, out.Data())
	})

	t.Run("SqrtInto", func(t *testing.T) {
		a := tensor.VectorFromSlice([]float64{4, 9, 16})
		out, _ := tensor.NewVector[float64](3)
		require.NoError(t, tensor.MapInto(ctx, a, out, tensor.Sqrt[float64]()))
		assert.Equal(t, []float64{2, 3, 4}, out.Data())
	})

	t.Run("CustomFunc", func(t *testing.T) {
		a := tensor.VectorFromSlice([]float64{1, 2, 3})
		out, err := tensor.Map(ctx, a, tensor.UnaryOf(func(v float64) float64 { return v * v }))
		require.NoError(t, err)
		assert.Equal(t, []float64{1, 4, 9}, out.Data())
	})
}

func TestContextScalarMul(t *testing.T) {
	ctx := newCPUContext[float32]()

	t.Run("Basic", func(t *testing.T) {
		a, _ := tensor.MatrixFromSlice([]float32{1, 2, 3, 4}, 2, 2)
		out, err := tensor.ScalarMul(ctx, a, float32(2.5))
		require.NoError(t, err)
		assert.Equal(t, []float32{2.5, 5, 7.5, 10}, out.Data())
	})

	t.Run("ZeroScalarPropagatesNaN", func(t *testing.T) {
		nan := float32(math.NaN())
		a := tensor.VectorFromSlice([]float32{1, nan, 3})

		out, err := tensor.ScalarMul(ctx, a, 0)
		require.NoError(t, err)
		assert.Equal(t, float32(0), out.Data()[0])
		assert.True(t, math.IsNaN(float64(out.Data()[1])), "NaN*0 stays NaN per IEEE 754")
		assert.Equal(t, float32(0), out.Data()[2])
	})
}

func TestContextVectorDot(t *testing.T) {
	ctx := newCPUContext[float32]()

	t.Run("Basic", func(t *testing.T) {
		a := tensor.VectorFromSlice([]float32{1, 2, 3})
		b := tensor.VectorFromSlice([]float32{4, 5, 6})
		got, err := ctx.VectorDot(a, b)
		require.NoError(t, err)
		assert.Equal(t, float32(32), got)
	})

	t.Run("Empty", func(t *testing.T) {
		a, _ := tensor.NewVector[float32](0)
		b, _ := tensor.NewVector[float32](0)
		got, err := ctx.VectorDot(a, b)
		require.NoError(t, err)
		assert.Equal(t, float32(0), got)
	})

	t.Run("LengthMismatch", func(t *testing.T) {
		a, _ := tensor.NewVector[float32](3)
		b, _ := tensor.NewVector[float32](4)
		_, err := ctx.VectorDot(a, b)
		assert.ErrorIs(t, err, tensor.ErrLengthMismatch)
	})
}

func TestContextVectorNorm(t *testing.T) {
	ctx := newCPUContext[float32]()

	v := tensor.VectorFromSlice([]float32{3, 4})
	got, err := ctx.VectorNorm(v)
	require.NoError(t, err)
	assert.Equal(t, float32(5), got)

	empty, _ := tensor.NewVector[float32](0)
	got, err = ctx.VectorNorm(empty)
	require.NoError(t, err)
	assert.Equal(t, float32(0), got)
}

func TestContextMatVecMul(t *testing.T) {
	ctx := newCPUContext[float32]()

	t.Run("Basic", func(t *testing.T) {
		m, _ := tensor.MatrixFromSlice([]float32{1, 2, 3, 4, 5, 6}, 2, 3)
		v := tensor.VectorFromSlice([]float32{7, 8, 9})

		out, err := ctx.MatVecMul(m, v)
		require.NoError(t, err)
		assert.Equal(t, []float32{50, 122}, out.Data())
	})

	t.Run("DimensionMismatch", func(t *testing.T) {
		m, _ := tensor.NewMatrix[float32](2, 3)
		v, _ := tensor.NewVector[float32](4)
		_, err := ctx.MatVecMul(m, v)
		assert.ErrorIs(t, err, tensor.ErrShapeMismatch)
	})

	t.Run("BadOutputLength", func(t *testing.T) {
		m, _ := tensor.NewMatrix[float32](2, 3)
		v, _ := tensor.NewVector[float32](3)
		out, _ := tensor.NewVector[float32](5)
		assert.ErrorIs(t, ctx.MatVecMulInto(m, v, out), tensor.ErrShapeMismatch)
	})
}

func TestContextMatMul(t *testing.T) {
	ctx := newCPUContext[float32]()

	t.Run("Basic", func(t *testing.T) {
		a, _ := tensor.MatrixFromSlice([]float32{1, 2, 3, 4, 5, 6}, 2, 3)
		b, _ := tensor.MatrixFromSlice([]float32{7, 8, 9, 10, 11, 12}, 3, 2)

		out, err := ctx.MatMul(a, b)
		require.NoError(t, err)
		assert.Equal(t, 2, out.Rows())
		assert.Equal(t, 2, out.Cols())
		assert.Equal(t, []float32{58, 64, 139, 154}, out.Data())
	})

	t.Run("InnerDimensionMismatch", func(t *testing.T) {
		a, _ := tensor.NewMatrix[float32](2, 3)
		b, _ := tensor.NewMatrix[float32](2, 3)
		_, err := ctx.MatMul(a, b)
		assert.ErrorIs(t, err, tensor.ErrShapeMismatch)
	})

	t.Run("BadOutputShape", func(t *testing.T) {
		a, _ := tensor.NewMatrix[float32](2, 3)
		b, _ := tensor.NewMatrix[float32](3, 4)
		out, _ := tensor.NewMatrix[float32](2, 3)
		assert.ErrorIs(t, ctx.MatMulInto(a, b, out), tensor.ErrShapeMismatch)
	})

	t.Run("ZeroInnerDimension", func(t *testing.T) {
		a, _ := tensor.NewMatrix[float32](2, 0)
		b, _ := tensor.NewMatrix[float32](0, 3)
		out, err := ctx.MatMul(a, b)
		require.NoError(t, err)
		assert.Equal(t, []float32{0, 0, 0, 0, 0, 0}, out.Data(),
			"an empty sum is zero")
	})
}

func TestContextTranspose(t *testing.T) {
	ctx := newCPUContext[float32]()

	t.Run("Basic", func(t *testing.T) {
		m, _ := tensor.MatrixFromSlice([]float32{1, 2, 3, 4, 5, 6}, 2, 3)
		out, err := ctx.Transpose(m)
		require.NoError(t, err)
		assert.Equal(t, 3, out.Rows())
		assert.Equal(t, 2, out.Cols())
		assert.Equal(t, []float32{1, 4, 2, 5, 3, 6}, out.Data())
	})

	t.Run("Involution", func(t *testing.T) {
		m, _ := tensor.MatrixFromSlice([]float32{1, 2, 3, 4, 5, 6, 7, 8}, 2, 4)
		once, err := ctx.Transpose(m)
		require.NoError(t, err)
		twice, err := ctx.Transpose(once)
		require.NoError(t, err)
		assert.Equal(t, m.Data(), twice.Data())
	})

	t.Run("SingleElement", func(t *testing.T) {
		m, _ := tensor.MatrixFromSlice([]float32{42}, 1, 1)
		out, err := ctx.Transpose(m)
		require.NoError(t, err)
		assert.Equal(t, []float32{42}, out.Data())
	})

	t.Run("Empty", func(t *testing.T) {
		m, _ := tensor.NewMatrix[float32](0, 3)
		out, err := ctx.Transpose(m)
		require.NoError(t, err)
		assert.Equal(t, 3, out.Rows())
		assert.Equal(t, 0, out.Cols())
	})

	t.Run("BadOutputShape", func(t *testing.T) {
		m, _ := tensor.NewMatrix[float32](2, 3)
		out, _ := tensor.NewMatrix[float32](2, 3)
		assert.ErrorIs(t, ctx.TransposeInto(m, out), tensor.ErrShapeMismatch)
	})
}

func TestContextIntegerElements(t *testing.T) {
	ctx := newCPUContext[int32]()

	a := tensor.VectorFromSlice([]int32{1, 2, 3})
	b := tensor.VectorFromSlice([]int32{10, 20, 30})

	out, err := tensor.Op(ctx, a, b, tensor.Add[int32]())
	require.NoError(t, err)
	assert.Equal(t, []int32{11, 22, 33}, out.Data())

	dot, err := ctx.VectorDot(a, b)
	require.NoError(t, err)
	assert.Equal(t, int32(140), dot)
}
