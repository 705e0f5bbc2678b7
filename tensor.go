package poseval

import (
	"fmt"
)

// Tensor is a dense float32 tensor in NHWC layout (batch, height, width,
// channels), the memory format model heads produce heatmap and location
// refinement outputs in
type Tensor struct {
	// Data holds the tensor values in row major NHWC order
	Data []float32
	// Batch is the number of images in the tensor
	Batch int
	// Height is the number of grid rows
	Height int
	// Width is the number of grid columns
	Width int
	// Channels is the number of values per grid cell
	Channels int
}

// NewTensor creates a zero filled Tensor with the given dimensions
func NewTensor(batch, height, width, channels int) (*Tensor, error) {

	if batch < 1 || height < 1 || width < 1 || channels < 1 {
		return nil, fmt.Errorf("tensor dimensions must be positive, got "+
			"(%d, %d, %d, %d): %w", batch, height, width, channels,
			ErrInvalidArgument)
	}

	return &Tensor{
		Data:     make([]float32, batch*height*width*channels),
		Batch:    batch,
		Height:   height,
		Width:    width,
		Channels: channels,
	}, nil
}

// TensorFromData wraps an existing float32 buffer as a Tensor.  The buffer
// is not copied and must contain exactly batch*height*width*channels values
func TensorFromData(data []float32, batch, height, width, channels int) (*Tensor, error) {

	t, err := NewTensor(batch, height, width, channels)

	if err != nil {
		return nil, err
	}

	if len(data) != len(t.Data) {
		return nil, fmt.Errorf("buffer has %d values, dimensions "+
			"(%d, %d, %d, %d) require %d: %w", len(data), batch, height,
			width, channels, len(t.Data), ErrShapeMismatch)
	}

	t.Data = data

	return t, nil
}

// Elems returns the total number of values in the tensor
func (t *Tensor) Elems() int {
	return t.Batch * t.Height * t.Width * t.Channels
}

// At returns the value at the given batch, row, column, and channel
func (t *Tensor) At(b, y, x, c int) float32 {
	return t.Data[((b*t.Height+y)*t.Width+x)*t.Channels+c]
}

// Set writes the value at the given batch, row, column, and channel
func (t *Tensor) Set(b, y, x, c int, val float32) {
	t.Data[((b*t.Height+y)*t.Width+x)*t.Channels+c] = val
}

// ModelOutput is the raw output of a pose estimation model head for one
// inference call
type ModelOutput struct {
	// Heatmap is the per joint confidence map with channels equal to the
	// number of joints
	Heatmap *Tensor
	// Locref is the optional location refinement field with channels equal
	// to twice the number of joints, holding an interleaved (dx, dy) offset
	// pair per joint.  Nil for models without location refinement
	Locref *Tensor
}

// Joints returns the number of joints in the model output
func (o *ModelOutput) Joints() int {
	return o.Heatmap.Channels
}

// OffsetAt returns the location refinement offset pair for the given batch,
// row, column, and joint
func (o *ModelOutput) OffsetAt(b, y, x, j int) (dx, dy float32) {
	return o.Locref.At(b, y, x, j*2), o.Locref.At(b, y, x, j*2+1)
}

// Validate checks the heatmap is present and that the locref field, when
// supplied, matches the heatmap's spatial dimensions with two channels
// per joint
func (o *ModelOutput) Validate() error {

	if o.Heatmap == nil {
		return fmt.Errorf("model output has no heatmap: %w", ErrInvalidArgument)
	}

	if o.Locref == nil {
		return nil
	}

	h := o.Heatmap
	l := o.Locref

	if l.Batch != h.Batch || l.Height != h.Height || l.Width != h.Width {
		return fmt.Errorf("locref dimensions (%d, %d, %d) do not match "+
			"heatmap (%d, %d, %d): %w", l.Batch, l.Height, l.Width,
			h.Batch, h.Height, h.Width, ErrShapeMismatch)
	}

	if l.Channels != h.Channels*2 {
		return fmt.Errorf("locref has %d channels, heatmap with %d joints "+
			"requires %d: %w", l.Channels, h.Channels, h.Channels*2,
			ErrShapeMismatch)
	}

	return nil
}

// Stride is the per axis downsampling ratio between the input image
// resolution and the confidence map resolution
type Stride struct {
	// Y is the vertical stride
	Y float32
	// X is the horizontal stride
	X float32
}

// UniformStride returns a Stride with the same value on both axes
func UniformStride(s float32) Stride {
	return Stride{Y: s, X: s}
}

// PoseTensor holds decoded pose candidates with shape (batch, candidates,
// joints, 3) where the last axis is x, y, score
type PoseTensor struct {
	// Data holds the values in row major order
	Data []float32
	// Batch is the number of images
	Batch int
	// Candidates is the number of pose candidates per image
	Candidates int
	// Joints is the number of joints per candidate
	Joints int
}

// NewPoseTensor creates a zero filled PoseTensor with the given dimensions
func NewPoseTensor(batch, candidates, joints int) (*PoseTensor, error) {

	if batch < 1 || candidates < 1 || joints < 1 {
		return nil, fmt.Errorf("pose dimensions must be positive, got "+
			"(%d, %d, %d): %w", batch, candidates, joints, ErrInvalidArgument)
	}

	return &PoseTensor{
		Data:       make([]float32, batch*candidates*joints*3),
		Batch:      batch,
		Candidates: candidates,
		Joints:     joints,
	}, nil
}

// At returns the coordinates and score of the given batch, candidate,
// and joint
func (p *PoseTensor) At(b, n, j int) (x, y, score float32) {
	i := ((b*p.Candidates+n)*p.Joints + j) * 3
	return p.Data[i], p.Data[i+1], p.Data[i+2]
}

// Set writes the coordinates and score of the given batch, candidate,
// and joint
func (p *PoseTensor) Set(b, n, j int, x, y, score float32) {
	i := ((b*p.Candidates+n)*p.Joints + j) * 3
	p.Data[i] = x
	p.Data[i+1] = y
	p.Data[i+2] = score
}

// Keypoints returns the first n candidates of the given batch item as a
// Keypoints array for scoring, treating each candidate as one individual
func (p *PoseTensor) Keypoints(b, n int) Keypoints {

	if n < 0 {
		n = 0
	}

	if n > p.Candidates {
		n = p.Candidates
	}

	kpts := make(Keypoints, n)

	for i := 0; i < n; i++ {
		kpts[i] = make([][]float64, p.Joints)

		for j := 0; j < p.Joints; j++ {
			x, y, score := p.At(b, i, j)
			kpts[i][j] = []float64{float64(x), float64(y), float64(score)}
		}
	}

	return kpts
}

// Keypoints holds one image's keypoints as (individuals, joints, values)
// where values are x, y, and optionally a score or visibility flag
type Keypoints [][][]float64

// Copy returns a deep copy of the keypoint array
func (k Keypoints) Copy() Keypoints {

	out := make(Keypoints, len(k))

	for i, individual := range k {
		out[i] = make([][]float64, len(individual))

		for j, joint := range individual {
			row := make([]float64, len(joint))
			copy(row, joint)
			out[i][j] = row
		}
	}

	return out
}
