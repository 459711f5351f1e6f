package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShapeNumElements(t *testing.T) {
	assert.Equal(t, 1, Shape{}.NumElements(), "rank-0 shape is a scalar")
	assert.Equal(t, 6, Shape{2, 3}.NumElements())
	assert.Equal(t, 24, Shape{2, 3, 4}.NumElements())
	assert.Equal(t, 0, Shape{2, 0, 4}.NumElements(), "zero extent empties the shape")
}

func TestShapeValidate(t *testing.T) {
	require.NoError(t, Shape{2, 3}.Validate())
	require.NoError(t, Shape{}.Validate())
	require.NoError(t, Shape{0}.Validate(), "zero extents are valid")

	err := Shape{2, -1}.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidDimensions)
}

func TestShapeEqual(t *testing.T) {
	assert.True(t, Shape{2, 3}.Equal(Shape{2, 3}))
	assert.False(t, Shape{2, 3}.Equal(Shape{3, 2}))
	assert.False(t, Shape{2, 3}.Equal(Shape{2, 3, 1}))
	assert.True(t, Shape{}.Equal(Shape{}))
}

func TestShapeClone(t *testing.T) {
	s := Shape{2, 3}
	c := s.Clone()
	c[0] = 99
	assert.Equal(t, 2, s[0], "clone must not alias the original")
}

func TestShapeComputeStrides(t *testing.T) {
	assert.Equal(t, []int{12, 4, 1}, Shape{2, 3, 4}.ComputeStrides())
	assert.Equal(t, []int{1}, Shape{5}.ComputeStrides())
	assert.Empty(t, Shape{}.ComputeStrides())
}
