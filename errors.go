package poseval

import "errors"

// Error kinds shared by the decoding and scoring packages.  Functions wrap
// these sentinels with context so callers can test for the kind with
// errors.Is.
var (
	// ErrShapeMismatch indicates prediction and ground truth containers, or
	// tensor dimensions, that do not agree in size
	ErrShapeMismatch = errors.New("shape mismatch")
	// ErrInvalidArgument indicates a parameter outside its valid range, such
	// as a top-k count larger than the number of spatial positions
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotImplemented indicates a declared but unsupported feature, such
	// as symmetric keypoint evaluation
	ErrNotImplemented = errors.New("not implemented")
)
