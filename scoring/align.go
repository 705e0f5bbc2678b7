package scoring

import (
	"fmt"
	"math"

	poseval "github.com/poseval/go-poseval"
	"github.com/poseval/go-poseval/match"
)

// MaskInvisible returns a 2 column copy of a keypoint array with the
// coordinates of keypoints whose visibility flag (third value) is zero
// replaced by the mask value.  Keypoints with a non zero flag, or without a
// flag at all, keep their coordinates unchanged
func MaskInvisible(kpts poseval.Keypoints, maskValue float64) poseval.Keypoints {

	out := make(poseval.Keypoints, len(kpts))

	for i, individual := range kpts {
		out[i] = make([][]float64, len(individual))

		for j, joint := range individual {

			row := make([]float64, 2)

			if len(joint) >= 2 {
				row[0], row[1] = joint[0], joint[1]
			}

			if len(joint) > 2 && joint[2] == 0 {
				row[0], row[1] = maskValue, maskValue
			}

			out[i][j] = row
		}
	}

	return out
}

// AlignToGroundTruth matches predicted individuals to ground truth
// individuals per image using RMSE based assignment and returns a new map
// whose prediction arrays are reordered so that individual i matches
// ground truth individual i.  RMSE is preferred over OKS here as OKS needs
// at least two annotated keypoints per animal to compute an object scale.
//
// Invisible ground truth keypoints are masked to -1 on both coordinates
// before matching, as are any remaining NaN values.  Each image must carry
// the same number of individuals in prediction and ground truth.  Input
// arrays are never modified
func AlignToGroundTruth(predictions,
	groundTruth map[string]poseval.Keypoints) (map[string]poseval.Keypoints, error) {

	aligned := make(map[string]poseval.Keypoints, len(predictions))

	for image, pose := range predictions {

		gtPose, ok := groundTruth[image]

		if !ok {
			return nil, fmt.Errorf("image %q has no ground truth: %w", image,
				poseval.ErrShapeMismatch)
		}

		if len(pose) != len(gtPose) {
			return nil, fmt.Errorf("image %q has %d predicted individuals "+
				"but %d annotated: %w", image, len(pose), len(gtPose),
				poseval.ErrShapeMismatch)
		}

		gtMasked := replaceNaN(MaskInvisible(gtPose, -1), -1)

		perm, err := match.RMSE(pose, gtMasked)

		if err != nil {
			return nil, fmt.Errorf("matching individuals for image %q: %w",
				image, err)
		}

		poseCopy := pose.Copy()
		reordered := make(poseval.Keypoints, len(pose))

		for i, predIdx := range perm {
			reordered[i] = poseCopy[predIdx]
		}

		aligned[image] = reordered
	}

	return aligned, nil
}

// replaceNaN returns the keypoint array with NaN values substituted by the
// given value.  The array is modified and returned for chaining, callers
// pass copies
func replaceNaN(kpts poseval.Keypoints, value float64) poseval.Keypoints {

	for _, individual := range kpts {
		for _, joint := range individual {
			for v := range joint {
				if math.IsNaN(joint[v]) {
					joint[v] = value
				}
			}
		}
	}

	return kpts
}
