package webgpu

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tensile-compute/tensile/backend/cpu"
	"github.com/tensile-compute/tensile/tensor"
)

var _ tensor.Backend[float32] = Backend[float32]{}

func randomSlice(n int, rng *rand.Rand) []float32 {
	s := make([]float32, n)
	for i := range s {
		s[i] = rng.Float32()*20 - 10
	}
	return s
}

// With a nil device every operation must run the CPU fallback and produce
// identical results.
func TestNilDeviceFallback(t *testing.T) {
	gpu := New[float32](nil)
	ref := cpu.New[float32]()
	rng := rand.New(rand.NewSource(1))

	t.Run("Op", func(t *testing.T) {
		a := randomSlice(100, rng)
		b := randomSlice(100, rng)
		got := make([]float32, 100)
		want := make([]float32, 100)

		require.NoError(t, gpu.Op(got, a, b, tensor.Add[float32]()))
		require.NoError(t, ref.Op(want, a, b, tensor.Add[float32]()))
		assert.Equal(t, want, got)
	})

	t.Run("Dot", func(t *testing.T) {
		a := randomSlice(64, rng)
		b := randomSlice(64, rng)

		got, err := gpu.Dot(a, b)
		require.NoError(t, err)
		want, err := ref.Dot(a, b)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("MatMul", func(t *testing.T) {
		a := randomSlice(6, rng)
		b := randomSlice(6, rng)
		got := make([]float32, 4)
		want := make([]float32, 4)

		require.NoError(t, gpu.MatMul(got, a, b, 2, 3, 2))
		require.NoError(t, ref.MatMul(want, a, b, 2, 3, 2))
		assert.Equal(t, want, got)
	})
}

// Non-float32 element types always take the fallback, device or not.
func TestUnsupportedElementTypeFallback(t *testing.T) {
	gpu := New[int32](nil)

	a := []int32{1, 2, 3}
	b := []int32{10, 20, 30}
	got := make([]int32, 3)
	require.NoError(t, gpu.Op(got, a, b, tensor.Add[int32]()))
	assert.Equal(t, []int32{11, 22, 33}, got)
}

func TestBackendName(t *testing.T) {
	assert.Equal(t, "webgpu", New[float32](nil).Name())
}

func newTestDevice(t *testing.T) *Device {
	t.Helper()
	if !IsAvailable() {
		t.Skip("WebGPU not available on this system")
	}
	dev, err := NewDevice()
	require.NoError(t, err)
	t.Cleanup(dev.Release)
	return dev
}

func TestDeviceOpMatchesCPU(t *testing.T) {
	dev := newTestDevice(t)
	gpu := New[float32](dev)
	ref := cpu.New[float32]()
	rng := rand.New(rand.NewSource(2))

	fns := []tensor.BinaryFunc[float32]{
		tensor.Add[float32](),
		tensor.Sub[float32](),
		tensor.Mul[float32](),
	}
	sizes := []int{1, 17, 256, 1000}

	for _, fn := range fns {
		for _, n := range sizes {
			a := randomSlice(n, rng)
			b := randomSlice(n, rng)
			got := make([]float32, n)
			want := make([]float32, n)

			require.NoError(t, gpu.Op(got, a, b, fn))
			require.NoError(t, ref.Op(want, a, b, fn))
			for i := range want {
				assert.InDelta(t, want[i], got[i], 1e-5, "%s size %d index %d", fn.Name, n, i)
			}
		}
	}
}

func TestDeviceMapMatchesCPU(t *testing.T) {
	dev := newTestDevice(t)
	gpu := New[float32](dev)
	ref := cpu.New[float32]()
	rng := rand.New(rand.NewSource(3))

	a := randomSlice(500, rng)
	got := make([]float32, 500)
	want := make([]float32, 500)

	require.NoError(t, gpu.Map(got, a, tensor.Neg[float32]()))
	require.NoError(t, ref.Map(want, a, tensor.Neg[float32]()))
	assert.Equal(t, want, got)
}

func TestDeviceScalarMulMatchesCPU(t *testing.T) {
	dev := newTestDevice(t)
	gpu := New[float32](dev)
	ref := cpu.New[float32]()
	rng := rand.New(rand.NewSource(4))

	a := randomSlice(300, rng)
	got := make([]float32, 300)
	want := make([]float32, 300)

	require.NoError(t, gpu.ScalarMul(got, a, 2.5))
	require.NoError(t, ref.ScalarMul(want, a, 2.5))
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-5)
	}
}

func TestDeviceDotMatchesCPU(t *testing.T) {
	dev := newTestDevice(t)
	gpu := New[float32](dev)
	ref := cpu.New[float32]()
	rng := rand.New(rand.NewSource(5))

	// Sizes below, at, and across the workgroup width.
	for _, n := range []int{1, 255, 256, 257, 1000} {
		a := randomSlice(n, rng)
		b := randomSlice(n, rng)

		got, err := gpu.Dot(a, b)
		require.NoError(t, err)
		want, err := ref.Dot(a, b)
		require.NoError(t, err)
		assert.InDelta(t, want, got, 1e-2, "size %d", n)
	}
}

func TestDeviceNormMatchesCPU(t *testing.T) {
	dev := newTestDevice(t)
	gpu := New[float32](dev)

	got, err := gpu.Norm([]float32{3, 4})
	require.NoError(t, err)
	assert.InDelta(t, 5, got, 1e-5)
}

func TestDeviceMatVecMulMatchesCPU(t *testing.T) {
	dev := newTestDevice(t)
	gpu := New[float32](dev)
	ref := cpu.New[float32]()
	rng := rand.New(rand.NewSource(6))

	rows, cols := 33, 65
	m := randomSlice(rows*cols, rng)
	v := randomSlice(cols, rng)
	got := make([]float32, rows)
	want := make([]float32, rows)

	require.NoError(t, gpu.MatVecMul(got, m, v, rows, cols))
	require.NoError(t, ref.MatVecMul(want, m, v, rows, cols))
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-2, "row %d", i)
	}
}

func TestDeviceMatMulMatchesCPU(t *testing.T) {
	dev := newTestDevice(t)
	gpu := New[float32](dev)
	ref := cpu.New[float32]()
	rng := rand.New(rand.NewSource(7))

	shapes := [][3]int{{2, 3, 2}, {16, 16, 16}, {17, 33, 9}}
	for _, s := range shapes {
		m, k, n := s[0], s[1], s[2]
		a := randomSlice(m*k, rng)
		b := randomSlice(k*n, rng)
		got := make([]float32, m*n)
		want := make([]float32, m*n)

		require.NoError(t, gpu.MatMul(got, a, b, m, k, n))
		require.NoError(t, ref.MatMul(want, a, b, m, k, n))
		for i := range want {
			assert.InDelta(t, want[i], got[i], 1e-2, "%dx%dx%d index %d", m, k, n, i)
		}
	}
}

func TestDeviceTransposeMatchesCPU(t *testing.T) {
	dev := newTestDevice(t)
	gpu := New[float32](dev)
	ref := cpu.New[float32]()
	rng := rand.New(rand.NewSource(8))

	rows, cols := 33, 17
	src := randomSlice(rows*cols, rng)
	got := make([]float32, rows*cols)
	want := make([]float32, rows*cols)

	require.NoError(t, gpu.Transpose(got, src, rows, cols))
	require.NoError(t, ref.Transpose(want, src, rows, cols))
	assert.Equal(t, want, got)
}

func TestReleasedDeviceFallsBack(t *testing.T) {
	dev := newTestDevice(t)
	gpu := New[float32](dev)

	dev.Release()

	got := make([]float32, 3)
	require.NoError(t, gpu.Op(got, []float32{1, 2, 3}, []float32{4, 5, 6}, tensor.Add[float32]()))
	assert.Equal(t, []float32{5, 7, 9}, got)
}
