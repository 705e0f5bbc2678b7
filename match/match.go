// Package match assigns predicted individuals to ground truth individuals
// by solving a linear assignment problem over keypoint distances.
package match

import (
	"fmt"
	"math"

	poseval "github.com/poseval/go-poseval"
	"gonum.org/v1/gonum/mat"
)

// missingDistance is the per joint cost used when a distance cannot be
// computed, so joints without data never drive the assignment
const missingDistance = 1e6

// RMSE matches predicted individuals to ground truth individuals by solving
// a linear assignment over summed per joint Euclidean distances.  It
// returns a permutation p of the predicted individual indices such that
// pred[p[i]] is the prediction assigned to ground truth individual i.
// Prediction and ground truth must contain the same number of individuals
func RMSE(pred, gt poseval.Keypoints) ([]int, error) {

	n := len(gt)

	if len(pred) != n {
		return nil, fmt.Errorf("prediction has %d individuals, ground truth "+
			"has %d: %w", len(pred), n, poseval.ErrShapeMismatch)
	}

	if n == 0 {
		return []int{}, nil
	}

	cost := mat.NewDense(n, n, nil)

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			cost.Set(i, j, poseDistance(pred[i], gt[j]))
		}
	}

	rows := make([]int, n)
	cols := make([]int, n)

	// the solver reads the cost matrix but never writes it, so it can work
	// directly on the Dense backing rows
	costMat := make([][]float64, n)

	for i := range costMat {
		costMat[i] = cost.RawRowView(i)
	}

	ret, err := solveDense(n, costMat, rows, cols)

	if err != nil {
		return nil, fmt.Errorf("linear assignment failed: %w", err)
	}

	if ret != 0 {
		return nil, fmt.Errorf("linear assignment left %d rows unassigned", ret)
	}

	// cols[j] is the predicted individual assigned to ground truth j
	perm := make([]int, n)
	copy(perm, cols)

	return perm, nil
}

// poseDistance sums the per joint Euclidean distances between two
// individuals.  Joints missing from either side, or with non finite
// coordinates, contribute a fixed large cost
func poseDistance(a, b [][]float64) float64 {

	joints := len(a)

	if len(b) < joints {
		joints = len(b)
	}

	total := 0.0

	for j := 0; j < joints; j++ {

		if len(a[j]) < 2 || len(b[j]) < 2 {
			total += missingDistance
			continue
		}

		dx := a[j][0] - b[j][0]
		dy := a[j][1] - b[j][1]
		d := math.Sqrt(dx*dx + dy*dy)

		if math.IsNaN(d) || math.IsInf(d, 0) {
			total += missingDistance
			continue
		}

		total += d
	}

	return total
}
