package assembly

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// oksThresholds are the similarity thresholds mAP and mAR are aggregated
// over, matching the COCO keypoint protocol range 0.50:0.05:0.95
var oksThresholds = []float64{
	0.50, 0.55, 0.60, 0.65, 0.70, 0.75, 0.80, 0.85, 0.90, 0.95,
}

// Evaluator is the default OKS based assembly evaluator.  It satisfies the
// scoring package's AssemblyEvaluator interface
type Evaluator struct{}

// detection is one predicted assembly's outcome within an image, carrying
// the OKS of each ground truth candidate it may match against
type detection struct {
	affinity float64
	oks      []float64
	gtBase   int
}

// Evaluate computes OKS based mAP and mAR for per image assembly lists.
// Within each image predicted assemblies are matched greedily to ground
// truth in descending affinity order, each taking the unmatched ground
// truth with the highest similarity.  Precision and recall are aggregated
// over the standard threshold range and returned as a mapping with "mAP"
// and "mAR" keys holding values in [0, 1].  With no ground truth and no
// predictions there is nothing to measure and both metrics are NaN
func (Evaluator) Evaluate(pred, gt map[string][]Assembly, sigma,
	margin float64) (map[string]float64, error) {

	var detections []detection
	totalGT := 0

	for _, image := range imageKeys(pred, gt) {

		gtAssemblies := gt[image]
		base := totalGT
		totalGT += len(gtAssemblies)

		for _, p := range pred[image] {

			det := detection{
				affinity: p.Affinity,
				oks:      make([]float64, len(gtAssemblies)),
				gtBase:   base,
			}

			for gi, g := range gtAssemblies {
				det.oks[gi] = CalcOKS(p, g, sigma, margin)
			}

			detections = append(detections, det)
		}
	}

	if totalGT == 0 && len(detections) == 0 {
		return map[string]float64{
			"mAP": math.NaN(),
			"mAR": math.NaN(),
		}, nil
	}

	// matching runs over predictions in descending affinity, stable so
	// input order breaks ties
	sort.SliceStable(detections, func(i, j int) bool {
		return detections[i].affinity > detections[j].affinity
	})

	aps := make([]float64, len(oksThresholds))
	ars := make([]float64, len(oksThresholds))

	for ti, thresh := range oksThresholds {
		aps[ti], ars[ti] = scoreAtThreshold(detections, totalGT, thresh)
	}

	return map[string]float64{
		"mAP": floats.Sum(aps) / float64(len(oksThresholds)),
		"mAR": floats.Sum(ars) / float64(len(oksThresholds)),
	}, nil
}

// scoreAtThreshold matches detections greedily at one OKS threshold and
// returns the average precision and recall
func scoreAtThreshold(detections []detection, totalGT int,
	thresh float64) (ap, ar float64) {

	if totalGT == 0 {
		return 0, 0
	}

	matched := make(map[int]bool)

	tp := 0
	fp := 0
	precisionSum := 0.0

	for _, det := range detections {

		// pick the unmatched ground truth with the highest similarity at
		// or above the threshold
		bestGT := -1
		bestOKS := -1.0

		for gi, oks := range det.oks {
			if oks >= thresh && oks > bestOKS && !matched[det.gtBase+gi] {
				bestGT = gi
				bestOKS = oks
			}
		}

		if bestGT >= 0 {
			matched[det.gtBase+bestGT] = true
			tp++
			precisionSum += float64(tp) / float64(tp+fp)
		} else {
			fp++
		}
	}

	return precisionSum / float64(totalGT), float64(tp) / float64(totalGT)
}

// imageKeys returns the sorted union of the image identifiers present in
// either assembly map
func imageKeys(pred, gt map[string][]Assembly) []string {

	seen := make(map[string]bool, len(gt))
	var keys []string

	for image := range gt {
		seen[image] = true
		keys = append(keys, image)
	}

	for image := range pred {
		if !seen[image] {
			keys = append(keys, image)
		}
	}

	sort.Strings(keys)

	return keys
}
