// Package assembly holds the complete keypoint set belonging to one
// individual in one image and evaluates predicted assemblies against
// ground truth using Object Keypoint Similarity (OKS).
package assembly

import (
	"math"
)

// Joint is a single keypoint within an assembly
type Joint struct {
	// Label is the joint's index within the model's full keypoint set
	Label int
	// X is the horizontal image coordinate
	X float64
	// Y is the vertical image coordinate
	Y float64
	// Score is the keypoint confidence, 1 when the source array carried no
	// score column
	Score float64
}

// Assembly is one individual's set of keypoints with finite coordinates,
// the unit of OKS matching
type Assembly struct {
	// Joints holds the retained joints in label order
	Joints []Joint
	// Affinity is the mean score of the retained joints, used to rank
	// predicted assemblies during matching
	Affinity float64
}

// FromArray builds an Assembly from one individual's keypoint rows of
// (x, y) or (x, y, score) values.  Rows with fewer than two values or with
// non finite coordinates are dropped.  The row index becomes the joint label
func FromArray(rows [][]float64) Assembly {

	var a Assembly
	scoreSum := 0.0

	for label, row := range rows {

		if len(row) < 2 {
			continue
		}

		x, y := row[0], row[1]

		if !isFinite(x) || !isFinite(y) {
			continue
		}

		score := 1.0

		if len(row) > 2 {
			score = row[2]
		}

		a.Joints = append(a.Joints, Joint{Label: label, X: x, Y: y, Score: score})
		scoreSum += score
	}

	if len(a.Joints) > 0 {
		a.Affinity = scoreSum / float64(len(a.Joints))
	}

	return a
}

// Len returns the number of retained joints
func (a Assembly) Len() int {
	return len(a.Joints)
}

// bounds returns the axis aligned bounding box of the assembly's joints
func (a Assembly) bounds() (minX, minY, maxX, maxY float64) {

	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)

	for _, j := range a.Joints {
		minX = math.Min(minX, j.X)
		minY = math.Min(minY, j.Y)
		maxX = math.Max(maxX, j.X)
		maxY = math.Max(maxY, j.Y)
	}

	return minX, minY, maxX, maxY
}

// CalcOKS computes the Object Keypoint Similarity between a predicted and a
// ground truth assembly.  The similarity of each ground truth joint is
// exp(-d^2 / (2*s^2*sigma^2)) where d is the distance to the prediction's
// joint with the same label and the object scale s^2 is the area of the
// ground truth bounding box padded by the margin.  The result is the mean
// over the ground truth joints the prediction also carries, so joints
// missing from the prediction are excluded rather than scored as zero.
// Returns NaN when no joint label is shared between the two assemblies
func CalcOKS(pred, gt Assembly, sigma, margin float64) float64 {

	if gt.Len() == 0 {
		return 0
	}

	minX, minY, maxX, maxY := gt.bounds()
	area := (maxX - minX + 2*margin) * (maxY - minY + 2*margin)

	// floor the scale so single joint or colinear objects do not collapse
	// the similarity to zero width
	if area < 1 {
		area = 1
	}

	byLabel := make(map[int]Joint, pred.Len())

	for _, j := range pred.Joints {
		byLabel[j.Label] = j
	}

	sum := 0.0
	shared := 0

	for _, g := range gt.Joints {

		p, ok := byLabel[g.Label]

		if !ok {
			continue
		}

		dx := p.X - g.X
		dy := p.Y - g.Y
		sum += math.Exp(-(dx*dx + dy*dy) / (2 * area * sigma * sigma))
		shared++
	}

	if shared == 0 {
		return math.NaN()
	}

	return sum / float64(shared)
}

// isFinite reports whether the value is neither NaN nor infinite
func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
