// Package scoring computes evaluation metrics for predicted keypoints
// against ground truth annotations: RMSE with and without a confidence
// cutoff, and OKS based mAP/mAR following the COCO keypoint protocol.
package scoring

import (
	"fmt"
	"math"
	"sort"

	poseval "github.com/poseval/go-poseval"
	"github.com/poseval/go-poseval/assembly"
)

// AssemblyEvaluator computes OKS based aggregate metrics from per image
// assembly lists.  Implementations must return a mapping holding at least
// "mAP" and "mAR" keys with values in [0, 1]
type AssemblyEvaluator interface {
	Evaluate(pred, gt map[string][]assembly.Assembly, sigma,
		margin float64) (map[string]float64, error)
}

// ScorerParams defines the struct containing the parameters to use for
// scoring operations
type ScorerParams struct {
	// PCutoff is the confidence threshold below which a predicted keypoint
	// is excluded from the cutoff variants of the metrics.  The default of
	// -1 excludes nothing
	PCutoff float64
	// OKSSigma is the per joint sensitivity used in OKS computation
	OKSSigma float64
	// Margin is the bounding box padding used to estimate object scale for
	// OKS normalization
	Margin float64
	// Evaluator produces the OKS aggregate metrics.  Nil selects the
	// built in assembly evaluator
	Evaluator AssemblyEvaluator
}

// ScorerDefaultParams returns an instance of ScorerParams configured with
// default values featuring:
// - PCutoff: -1
// - OKS Sigma: 0.1
// - Margin: 0
func ScorerDefaultParams() ScorerParams {
	return ScorerParams{
		PCutoff:  -1,
		OKSSigma: 0.1,
		Margin:   0,
	}
}

// Scorer computes the evaluation score set for predicted poses
type Scorer struct {
	// Params are the scoring configuration parameters
	Params ScorerParams
}

// NewScorer returns an instance of the Scorer
func NewScorer(p ScorerParams) *Scorer {

	if p.Evaluator == nil {
		p.Evaluator = assembly.Evaluator{}
	}

	return &Scorer{
		Params: p,
	}
}

// Scores computes the score set for predicted poses against ground truth.
// Poses and ground truth map image identifiers to keypoint arrays of shape
// (individuals, joints, values) and must carry identical key sets.
// Predictions are assumed to already be aligned to the ground truth, with
// individual i in the prediction matching individual i in the annotations.
//
// The returned mapping holds the keys rmse, rmse_pcutoff, mAP, mAR,
// mAP_pcutoff and mAR_pcutoff, with mAP/mAR reported as percentages
func (s *Scorer) Scores(poses,
	groundTruth map[string]poseval.Keypoints) (map[string]float64, error) {
	return s.ScoresWithUnique(poses, groundTruth, nil, nil)
}

// ScoresWithUnique computes the same score set as Scores with additional
// unique bodypart predictions appended to the RMSE computation.  The unique
// maps may both be nil
func (s *Scorer) ScoresWithUnique(poses, groundTruth, uniquePoses,
	uniqueGroundTruth map[string]poseval.Keypoints) (map[string]float64, error) {

	keys, err := matchedKeys(poses, groundTruth)

	if err != nil {
		return nil, err
	}

	predRows, err := BuildKeypointArray(poses, keys)

	if err != nil {
		return nil, err
	}

	gtRows, err := BuildKeypointArray(groundTruth, keys)

	if err != nil {
		return nil, err
	}

	if uniquePoses != nil {
		uniqueRows, err := BuildKeypointArray(uniquePoses, keys)

		if err != nil {
			return nil, err
		}

		predRows = append(predRows, uniqueRows...)

		uniqueGTRows, err := BuildKeypointArray(uniqueGroundTruth, keys)

		if err != nil {
			return nil, err
		}

		gtRows = append(gtRows, uniqueGTRows...)
	}

	rmse, rmsePCutoff, err := ComputeRMSE(predRows, gtRows, s.Params.PCutoff)

	if err != nil {
		return nil, err
	}

	oks, err := s.computeOKS(poses, groundTruth, false)

	if err != nil {
		return nil, err
	}

	oksPCutoff, err := s.computeOKS(poses, groundTruth, true)

	if err != nil {
		return nil, err
	}

	return map[string]float64{
		"rmse":         rmse,
		"rmse_pcutoff": rmsePCutoff,
		"mAP":          100 * oks["mAP"],
		"mAR":          100 * oks["mAR"],
		"mAP_pcutoff":  100 * oksPCutoff["mAP"],
		"mAR_pcutoff":  100 * oksPCutoff["mAR"],
	}, nil
}

// computeOKS runs the configured evaluator with or without confidence
// masking applied to the predictions
func (s *Scorer) computeOKS(poses,
	groundTruth map[string]poseval.Keypoints,
	usePCutoff bool) (map[string]float64, error) {

	params := OKSParams{
		Sigma:  s.Params.OKSSigma,
		Margin: s.Params.Margin,
	}

	if usePCutoff {
		params.PCutoff = s.Params.PCutoff
		params.UsePCutoff = true
	}

	return ComputeOKS(poses, groundTruth, params, s.Params.Evaluator)
}

// matchedKeys verifies the two keypoint maps carry identical key sets and
// returns the keys in sorted order
func matchedKeys(poses,
	groundTruth map[string]poseval.Keypoints) ([]string, error) {

	if len(poses) != len(groundTruth) {
		return nil, fmt.Errorf("prediction and ground truth must contain "+
			"the same number of images (poses=%d, gt=%d): %w", len(poses),
			len(groundTruth), poseval.ErrShapeMismatch)
	}

	keys := make([]string, 0, len(poses))

	for image := range poses {
		if _, ok := groundTruth[image]; !ok {
			return nil, fmt.Errorf("image %q present in predictions but "+
				"not in ground truth: %w", image, poseval.ErrShapeMismatch)
		}

		keys = append(keys, image)
	}

	sort.Strings(keys)

	return keys, nil
}

// BuildKeypointArray stacks the keypoint arrays for the given keys into a
// single flat list of keypoint rows, ordered by key, then individual, then
// joint.  Rows are copied so the result never aliases the input
func BuildKeypointArray(keypoints map[string]poseval.Keypoints,
	keys []string) ([][]float64, error) {

	var rows [][]float64

	for _, image := range keys {

		kpts, ok := keypoints[image]

		if !ok {
			return nil, fmt.Errorf("no keypoints for image %q: %w", image,
				poseval.ErrShapeMismatch)
		}

		for _, individual := range kpts {
			for _, joint := range individual {
				row := make([]float64, len(joint))
				copy(row, joint)
				rows = append(rows, row)
			}
		}
	}

	return rows, nil
}

// ComputeRMSE computes the root mean square error between predicted
// keypoint rows of (x, y, score) and ground truth rows of (x, y).  It
// assumes row i of the prediction corresponds to row i of the ground truth.
//
// The first result averages over all rows, the second only over rows whose
// prediction score is at or above pcutoff.  Rows with NaN distances are
// excluded from the means rather than treated as zero; an empty or fully
// NaN selection yields NaN
func ComputeRMSE(pred, groundTruth [][]float64,
	pcutoff float64) (rmse, rmsePCutoff float64, err error) {

	if len(pred) != len(groundTruth) {
		return 0, 0, fmt.Errorf("prediction and target arrays must have "+
			"the same number of rows (pred=%d, gt=%d): %w", len(pred),
			len(groundTruth), poseval.ErrShapeMismatch)
	}

	dists := make([]float64, len(pred))
	var cutoffDists []float64

	for i := range pred {

		if len(pred[i]) < 3 || len(groundTruth[i]) < 2 {
			return 0, 0, fmt.Errorf("prediction rows require (x, y, score) "+
				"and ground truth rows (x, y): %w", poseval.ErrShapeMismatch)
		}

		dx := pred[i][0] - groundTruth[i][0]
		dy := pred[i][1] - groundTruth[i][1]
		dists[i] = math.Sqrt(dx*dx + dy*dy)

		if pred[i][2] >= pcutoff {
			cutoffDists = append(cutoffDists, dists[i])
		}
	}

	return nanMean(dists), nanMean(cutoffDists), nil
}

// OKSParams defines the struct containing the parameters to use for OKS
// computation
type OKSParams struct {
	// Sigma is the per joint sensitivity
	Sigma float64
	// Margin is the bounding box padding used for object scale estimation
	Margin float64
	// PCutoff masks predicted keypoints below the threshold when UsePCutoff
	// is set
	PCutoff float64
	// UsePCutoff enables confidence masking of predictions
	UsePCutoff bool
	// SymmetricKeypoints is declared for interface compatibility but is not
	// supported.  Supplying it is an error
	SymmetricKeypoints [][2]int
}

// ComputeOKS builds assemblies from the predicted and ground truth
// keypoint arrays and delegates to the evaluator for OKS based mAP/mAR.
// When confidence masking is enabled, predicted keypoints scoring below the
// cutoff have their coordinates replaced with NaN before assembly
// construction, dropping them from the evaluation.  Ground truth is never
// masked
func ComputeOKS(pred, groundTruth map[string]poseval.Keypoints,
	params OKSParams, evaluator AssemblyEvaluator) (map[string]float64, error) {

	if params.SymmetricKeypoints != nil {
		return nil, fmt.Errorf("symmetric keypoint evaluation: %w",
			poseval.ErrNotImplemented)
	}

	if evaluator == nil {
		evaluator = assembly.Evaluator{}
	}

	masked := make(map[string]poseval.Keypoints, len(pred))

	for image, kpts := range pred {
		masked[image] = maskBelowCutoff(kpts, params.PCutoff, params.UsePCutoff)
	}

	return evaluator.Evaluate(BuildAssemblies(masked),
		BuildAssemblies(groundTruth), params.Sigma, params.Margin)
}

// BuildAssemblies builds the per image assembly lists from keypoint arrays.
// Assemblies left without a single valid joint are dropped from their
// image's list
func BuildAssemblies(poses map[string]poseval.Keypoints) map[string][]assembly.Assembly {

	assemblies := make(map[string][]assembly.Assembly, len(poses))

	for image, kpts := range poses {

		imageAssemblies := make([]assembly.Assembly, 0, len(kpts))

		for _, individual := range kpts {
			a := assembly.FromArray(individual)

			if a.Len() > 0 {
				imageAssemblies = append(imageAssemblies, a)
			}
		}

		assemblies[image] = imageAssemblies
	}

	return assemblies
}

// maskBelowCutoff returns a 2 column copy of the keypoint array with the
// coordinates of predictions scoring below the cutoff replaced by NaN.
// Rows without a score column are kept unmasked
func maskBelowCutoff(kpts poseval.Keypoints, pcutoff float64,
	usePCutoff bool) poseval.Keypoints {

	out := make(poseval.Keypoints, len(kpts))

	for i, individual := range kpts {
		out[i] = make([][]float64, len(individual))

		for j, joint := range individual {

			row := make([]float64, 2)

			if len(joint) >= 2 {
				row[0], row[1] = joint[0], joint[1]
			} else {
				row[0], row[1] = math.NaN(), math.NaN()
			}

			if usePCutoff && len(joint) > 2 && joint[2] < pcutoff {
				row[0], row[1] = math.NaN(), math.NaN()
			}

			out[i][j] = row
		}
	}

	return out
}

// nanMean averages the values excluding NaN entries.  An empty or fully
// NaN input yields NaN
func nanMean(vals []float64) float64 {

	sum := 0.0
	count := 0

	for _, v := range vals {
		if math.IsNaN(v) {
			continue
		}

		sum += v
		count++
	}

	if count == 0 {
		return math.NaN()
	}

	return sum / float64(count)
}
