// Package tensor provides the shape-typed numeric containers and the compute
// backend contract of the Tensile engine.
package tensor

// Numeric is the constraint for supported element types.
// Instantiating a container over any other type fails at compile time.
type Numeric interface {
	~float32 | ~float64 | ~int32 | ~int64
}

// DataType represents runtime type information for container elements.
type DataType int

// Supported element types.
const (
	Float32 DataType = iota
	Float64
	Int32
	Int64
)

// Size returns the byte size of the data type.
func (dt DataType) Size() int {
	switch dt {
	case Float32, Int32:
		return 4
	case Float64, Int64:
		return 8
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	default:
		return "unknown"
	}
}

// DataTypeOf reports the DataType corresponding to the type parameter T.
func DataTypeOf[T Numeric]() DataType {
	var zero T
	switch any(zero).(type) {
	case float32:
		return Float32
	case float64:
		return Float64
	case int32:
		return Int32
	case int64:
		return Int64
	default:
		panic("unsupported type")
	}
}
