package tensor

import "math"

// Kernel names understood by backends that carry specialized code paths.
const (
	OpAdd  = "add"
	OpSub  = "sub"
	OpMul  = "mul"
	OpDiv  = "div"
	OpNeg  = "neg"
	OpAbs  = "abs"
	OpSqrt = "sqrt"
	OpExp  = "exp"
)

// BinaryFunc is an element-wise binary scalar function. Name selects a
// specialized kernel on backends that carry one (SIMD block kernels, GPU
// compute pipelines); an empty Name runs the generic scalar path on every
// backend. Apply must be total over the element type.
type BinaryFunc[T Numeric] struct {
	Name  string
	Apply func(a, b T) T
}

// Add returns the element-wise addition function.
func Add[T Numeric]() BinaryFunc[T] {
	return BinaryFunc[T]{Name: OpAdd, Apply: func(a, b T) T { return a + b }}
}

// Sub returns the element-wise subtraction function.
func Sub[T Numeric]() BinaryFunc[T] {
	return BinaryFunc[T]{Name: OpSub, Apply: func(a, b T) T { return a - b }}
}

// Mul returns the element-wise multiplication function.
func Mul[T Numeric]() BinaryFunc[T] {
	return BinaryFunc[T]{Name: OpMul, Apply: func(a, b T) T { return a * b }}
}

// Div returns the element-wise division function.
func Div[T Numeric]() BinaryFunc[T] {
	return BinaryFunc[T]{Name: OpDiv, Apply: func(a, b T) T { return a / b }}
}

// BinaryOf wraps a custom scalar function. Custom functions always run the
// generic scalar path.
func BinaryOf[T Numeric](fn func(a, b T) T) BinaryFunc[T] {
	return BinaryFunc[T]{Apply: fn}
}

// UnaryFunc is an element-wise unary scalar function; see BinaryFunc for the
// Name contract.
type UnaryFunc[T Numeric] struct {
	Name  string
	Apply func(v T) T
}

// Neg returns the element-wise negation function.
func Neg[T Numeric]() UnaryFunc[T] {
	return UnaryFunc[T]{Name: OpNeg, Apply: func(v T) T { return -v }}
}

// Abs returns the element-wise absolute value function.
func Abs[T Numeric]() UnaryFunc[T] {
	return UnaryFunc[T]{Name: OpAbs, Apply: func(v T) T {
		if v < 0 {
			return -v
		}
		return v
	}}
}

// Sqrt returns the element-wise square root function. For integer element
// types the result is truncated back to the element type.
func Sqrt[T Numeric]() UnaryFunc[T] {
	return UnaryFunc[T]{Name: OpSqrt, Apply: func(v T) T { return T(math.Sqrt(float64(v))) }}
}

// Exp returns the element-wise exponential function. For integer element
// types the result is truncated back to the element type.
func Exp[T Numeric]() UnaryFunc[T] {
	return UnaryFunc[T]{Name: OpExp, Apply: func(v T) T { return T(math.Exp(float64(v))) }}
}

// UnaryOf wraps a custom scalar function. Custom functions always run the
// generic scalar path.
func UnaryOf[T Numeric](fn func(v T) T) UnaryFunc[T] {
	return UnaryFunc[T]{Apply: fn}
}
