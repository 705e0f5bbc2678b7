package poseval

import (
	"errors"
	"math"
	"testing"
)

// almostEqual checks if two float32 values are approximately equal
func almostEqual(a, b, tolerance float32) bool {
	return float32(math.Abs(float64(a)-float64(b))) <= tolerance
}

func TestTensorIndexing(t *testing.T) {

	tensor, err := NewTensor(2, 3, 4, 5)

	if err != nil {
		t.Fatalf("NewTensor returned an error: %v", err)
	}

	if tensor.Elems() != 2*3*4*5 {
		t.Errorf("Expected %d elements, but got %d", 2*3*4*5, tensor.Elems())
	}

	// write a distinct value to every position and read them all back
	val := float32(0)

	for b := 0; b < 2; b++ {
		for y := 0; y < 3; y++ {
			for x := 0; x < 4; x++ {
				for c := 0; c < 5; c++ {
					tensor.Set(b, y, x, c, val)
					val++
				}
			}
		}
	}

	val = 0

	for b := 0; b < 2; b++ {
		for y := 0; y < 3; y++ {
			for x := 0; x < 4; x++ {
				for c := 0; c < 5; c++ {
					if got := tensor.At(b, y, x, c); got != val {
						t.Fatalf("Expected At(%d,%d,%d,%d) = %f, but got %f",
							b, y, x, c, val, got)
					}
					val++
				}
			}
		}
	}
}

func TestNewTensorInvalidDims(t *testing.T) {

	_, err := NewTensor(0, 3, 4, 5)

	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument, but got %v", err)
	}
}

func TestTensorFromData(t *testing.T) {

	t.Run("valid buffer", func(t *testing.T) {
		data := make([]float32, 24)
		data[23] = 7

		tensor, err := TensorFromData(data, 1, 2, 3, 4)

		if err != nil {
			t.Fatalf("TensorFromData returned an error: %v", err)
		}

		if got := tensor.At(0, 1, 2, 3); got != 7 {
			t.Errorf("Expected last element 7, but got %f", got)
		}
	})

	t.Run("wrong buffer size", func(t *testing.T) {
		_, err := TensorFromData(make([]float32, 23), 1, 2, 3, 4)

		if !errors.Is(err, ErrShapeMismatch) {
			t.Errorf("Expected ErrShapeMismatch, but got %v", err)
		}
	})
}

func TestTensorFromFloat16(t *testing.T) {

	// known float16 bit patterns: 1.0, -2.0, 0.5, 0.0
	buf := []uint16{0x3C00, 0xC000, 0x3800, 0x0000}

	tensor, err := TensorFromFloat16(buf, 1, 1, 2, 2)

	if err != nil {
		t.Fatalf("TensorFromFloat16 returned an error: %v", err)
	}

	expected := []float32{1.0, -2.0, 0.5, 0.0}

	for i, want := range expected {
		if !almostEqual(tensor.Data[i], want, 1e-6) {
			t.Errorf("Expected Data[%d] = %f, but got %f", i, want,
				tensor.Data[i])
		}
	}

	_, err = TensorFromFloat16(buf, 1, 1, 2, 3)

	if !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("Expected ErrShapeMismatch, but got %v", err)
	}
}

func TestModelOutputValidate(t *testing.T) {

	heatmap, _ := NewTensor(1, 4, 4, 3)

	t.Run("heatmap only", func(t *testing.T) {
		out := &ModelOutput{Heatmap: heatmap}

		if err := out.Validate(); err != nil {
			t.Errorf("Expected no error, but got %v", err)
		}

		if out.Joints() != 3 {
			t.Errorf("Expected 3 joints, but got %d", out.Joints())
		}
	})

	t.Run("matching locref", func(t *testing.T) {
		locref, _ := NewTensor(1, 4, 4, 6)
		out := &ModelOutput{Heatmap: heatmap, Locref: locref}

		if err := out.Validate(); err != nil {
			t.Errorf("Expected no error, but got %v", err)
		}
	})

	t.Run("wrong locref channels", func(t *testing.T) {
		locref, _ := NewTensor(1, 4, 4, 5)
		out := &ModelOutput{Heatmap: heatmap, Locref: locref}

		if !errors.Is(out.Validate(), ErrShapeMismatch) {
			t.Errorf("Expected ErrShapeMismatch, but got %v", out.Validate())
		}
	})

	t.Run("wrong locref spatial dims", func(t *testing.T) {
		locref, _ := NewTensor(1, 5, 4, 6)
		out := &ModelOutput{Heatmap: heatmap, Locref: locref}

		if !errors.Is(out.Validate(), ErrShapeMismatch) {
			t.Errorf("Expected ErrShapeMismatch, but got %v", out.Validate())
		}
	})

	t.Run("missing heatmap", func(t *testing.T) {
		out := &ModelOutput{}

		if !errors.Is(out.Validate(), ErrInvalidArgument) {
			t.Errorf("Expected ErrInvalidArgument, but got %v", out.Validate())
		}
	})
}

func TestPoseTensorKeypoints(t *testing.T) {

	pose, err := NewPoseTensor(2, 3, 2)

	if err != nil {
		t.Fatalf("NewPoseTensor returned an error: %v", err)
	}

	// scores exactly representable in float32 so the float64 widening in
	// Keypoints compares exactly
	pose.Set(1, 0, 0, 10, 20, 0.75)
	pose.Set(1, 0, 1, 30, 40, 0.5)
	pose.Set(1, 1, 0, 50, 60, 0.25)
	pose.Set(1, 1, 1, 70, 80, 0.125)

	kpts := pose.Keypoints(1, 2)

	if len(kpts) != 2 {
		t.Fatalf("Expected 2 individuals, but got %d", len(kpts))
	}

	expected := [][]float64{
		{10, 20, 0.75}, {30, 40, 0.5},
		{50, 60, 0.25}, {70, 80, 0.125},
	}

	i := 0

	for _, individual := range kpts {
		for _, joint := range individual {
			for v := range joint {
				if joint[v] != expected[i][v] {
					t.Errorf("Expected joint %v, but got %v", expected[i], joint)
				}
			}
			i++
		}
	}

	// requesting more candidates than exist clamps to the available count
	if got := len(pose.Keypoints(0, 10)); got != 3 {
		t.Errorf("Expected 3 individuals, but got %d", got)
	}

	// a negative count clamps to empty
	if got := len(pose.Keypoints(0, -1)); got != 0 {
		t.Errorf("Expected 0 individuals, but got %d", got)
	}
}

func TestKeypointsCopy(t *testing.T) {

	kpts := Keypoints{{{1, 2, 3}, {4, 5, 6}}}
	dup := kpts.Copy()

	dup[0][0][0] = 99

	if kpts[0][0][0] != 1 {
		t.Errorf("Copy aliases the source array")
	}
}
