package postprocess

import (
	"fmt"
	"sort"

	poseval "github.com/poseval/go-poseval"
)

// Heatmap defines the struct for decoding keypoint poses from model heatmap
// and location refinement outputs
type Heatmap struct {
	// Params are the decoder configuration parameters
	Params HeatmapParams
}

// HeatmapParams defines the struct containing the parameters to use for
// heatmap decoding operations
type HeatmapParams struct {
	// ApplySigmoid applies a sigmoid activation to raw heatmap logits before
	// scores are read
	ApplySigmoid bool
	// ClipScores clips candidate scores to the range [0, 1].  Only applied
	// when no sigmoid activation was requested, as sigmoid output is
	// already in range
	ClipScores bool
	// LocationRefinement enables sub pixel refinement of candidate
	// coordinates using the model's location refinement field
	LocationRefinement bool
	// LocrefStd is the standard deviation the location refinement field was
	// trained with.  Offsets are multiplied by this value before use
	LocrefStd float32
	// NumOutputs is the number of pose candidates to extract per joint
	NumOutputs int
}

// HeatmapDefaultParams returns an instance of HeatmapParams configured with
// the default values used by baseline heatmap models featuring:
// - Apply Sigmoid: true
// - Location Refinement: true
// - Locref Std: 7.2801
// - Number of Outputs: 20
func HeatmapDefaultParams() HeatmapParams {
	return HeatmapParams{
		ApplySigmoid:       true,
		ClipScores:         false,
		LocationRefinement: true,
		LocrefStd:          7.2801,
		NumOutputs:         20,
	}
}

// NewHeatmap returns an instance of the Heatmap decoder
func NewHeatmap(p HeatmapParams) *Heatmap {
	return &Heatmap{
		Params: p,
	}
}

// TopK finds the k highest scoring grid locations for each joint,
// independently per batch item and joint channel.  It returns the Y and X
// grid indices of the top values with shape [batch][k][joints], ordered by
// descending score with ties broken by the lower flattened spatial index.
// A k larger than the number of spatial positions is an error
func (h *Heatmap) TopK(heatmap *poseval.Tensor, k int) (ys, xs [][][]int, err error) {

	spatial := heatmap.Height * heatmap.Width

	if k < 1 || k > spatial {
		return nil, nil, fmt.Errorf("top-k count %d outside range 1 to %d: %w",
			k, spatial, poseval.ErrInvalidArgument)
	}

	ys = make([][][]int, heatmap.Batch)
	xs = make([][][]int, heatmap.Batch)

	// scratch buffers reused across (batch, joint) slices
	scores := make([]float32, spatial)
	order := make([]int, spatial)

	for b := 0; b < heatmap.Batch; b++ {

		ys[b] = make([][]int, k)
		xs[b] = make([][]int, k)

		for n := 0; n < k; n++ {
			ys[b][n] = make([]int, heatmap.Channels)
			xs[b][n] = make([]int, heatmap.Channels)
		}

		for j := 0; j < heatmap.Channels; j++ {

			// flatten the spatial dimensions for this (batch, joint) slice
			for y := 0; y < heatmap.Height; y++ {
				for x := 0; x < heatmap.Width; x++ {
					scores[y*heatmap.Width+x] = heatmap.At(b, y, x, j)
				}
			}

			for i := range order {
				order[i] = i
			}

			sort.Slice(order, func(a, c int) bool {
				if scores[order[a]] != scores[order[c]] {
					return scores[order[a]] > scores[order[c]]
				}
				return order[a] < order[c]
			})

			// recover 2D grid indices from the flattened positions
			for n := 0; n < k; n++ {
				ys[b][n][j] = order[n] / heatmap.Width
				xs[b][n][j] = order[n] % heatmap.Width
			}
		}
	}

	return ys, xs, nil
}

// PredictPose decodes the model output into a pose candidate tensor of
// shape (batch, NumOutputs, joints, 3).  For every candidate the grid
// location is rescaled to image space using the stride, centered within its
// grid cell, and refined by the location refinement offset when enabled:
//
//	x = X*stride.X + 0.5*stride.X + dx
//	y = Y*stride.Y + 0.5*stride.Y + dy
func (h *Heatmap) PredictPose(output *poseval.ModelOutput,
	stride poseval.Stride) (*poseval.PoseTensor, error) {

	if err := output.Validate(); err != nil {
		return nil, err
	}

	if stride.X <= 0 || stride.Y <= 0 {
		return nil, fmt.Errorf("stride must be positive, got (%g, %g): %w",
			stride.Y, stride.X, poseval.ErrInvalidArgument)
	}

	if h.Params.LocationRefinement && output.Locref == nil {
		return nil, fmt.Errorf("location refinement enabled but model "+
			"output has no locref field: %w", poseval.ErrInvalidArgument)
	}

	heatmap := output.Heatmap

	ys, xs, err := h.TopK(heatmap, h.Params.NumOutputs)

	if err != nil {
		return nil, err
	}

	pose, err := poseval.NewPoseTensor(heatmap.Batch, h.Params.NumOutputs,
		heatmap.Channels)

	if err != nil {
		return nil, err
	}

	for b := 0; b < heatmap.Batch; b++ {
		for n := 0; n < h.Params.NumOutputs; n++ {
			for j := 0; j < heatmap.Channels; j++ {

				gy := ys[b][n][j]
				gx := xs[b][n][j]

				score := heatmap.At(b, gy, gx, j)

				if h.Params.ApplySigmoid {
					score = sigmoid(score)
				} else if h.Params.ClipScores {
					score = clipScore(score, 0, 1)
				}

				var dx, dy float32

				if h.Params.LocationRefinement {
					dx, dy = output.OffsetAt(b, gy, gx, j)
					dx *= h.Params.LocrefStd
					dy *= h.Params.LocrefStd
				}

				x := float32(gx)*stride.X + 0.5*stride.X + dx
				y := float32(gy)*stride.Y + 0.5*stride.Y + dy

				pose.Set(b, n, j, x, y, score)
			}
		}
	}

	return pose, nil
}
