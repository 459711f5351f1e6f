package tensor

import "errors"

// Error taxonomy for container construction, shape checking and backend
// dispatch. All of these are recoverable and returned to the caller; none
// are swallowed internally. Double release and unsupported element types in
// internal switches are programming errors and panic instead.
var (
	// ErrShapeMismatch reports disagreeing tensor or matrix shapes.
	ErrShapeMismatch = errors.New("tensor: shape mismatch")

	// ErrLengthMismatch reports disagreeing vector lengths.
	ErrLengthMismatch = errors.New("tensor: length mismatch")

	// ErrInvalidDimensions reports a shape whose element count does not
	// match the supplied buffer length.
	ErrInvalidDimensions = errors.New("tensor: invalid dimensions")

	// ErrOutOfBounds reports an indexed access outside the shape extents.
	ErrOutOfBounds = errors.New("tensor: index out of bounds")

	// ErrInvalidType reports a shape comparison across container kinds.
	ErrInvalidType = errors.New("tensor: incompatible container kinds")

	// ErrBackend reports a device-level failure on the GPU path.
	ErrBackend = errors.New("tensor: backend failure")

	// ErrOutOfMemory reports an allocation failure.
	ErrOutOfMemory = errors.New("tensor: out of memory")
)
