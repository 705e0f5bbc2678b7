package poseval

import (
	"fmt"

	"github.com/x448/float16"
)

var f16LookupTable [65536]float32

func init() {
	// precompute float16 lookup table for faster conversion to float32
	for i := range f16LookupTable {
		f16 := float16.Frombits(uint16(i))
		f16LookupTable[i] = f16.Float32()
	}
}

// ConvertFloat16Buffer converts a raw float16 buffer to float32 as Go does
// not have a native float16 type
func ConvertFloat16Buffer(buf []uint16) []float32 {

	out := make([]float32, len(buf))

	for i, val := range buf {
		out[i] = f16LookupTable[val]
	}

	return out
}

// TensorFromFloat16 converts a raw half precision model buffer into a
// Tensor with the given dimensions
func TensorFromFloat16(buf []uint16, batch, height, width, channels int) (*Tensor, error) {

	elems := batch * height * width * channels

	if len(buf) != elems {
		return nil, fmt.Errorf("float16 buffer has %d values, dimensions "+
			"(%d, %d, %d, %d) require %d: %w", len(buf), batch, height,
			width, channels, elems, ErrShapeMismatch)
	}

	return TensorFromData(ConvertFloat16Buffer(buf), batch, height, width,
		channels)
}
