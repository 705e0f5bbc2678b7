package assembly

import (
	"math"
	"testing"
)

// square returns a four joint assembly translated by the given offset
func square(dx, dy float64) Assembly {
	return FromArray([][]float64{
		{0 + dx, 0 + dy},
		{10 + dx, 0 + dy},
		{10 + dx, 10 + dy},
		{0 + dx, 10 + dy},
	})
}

func TestEvaluatePerfectPredictions(t *testing.T) {

	gt := map[string][]Assembly{
		"img0": {square(0, 0), square(100, 100)},
		"img1": {square(50, 50)},
	}

	pred := map[string][]Assembly{
		"img0": {square(0, 0), square(100, 100)},
		"img1": {square(50, 50)},
	}

	scores, err := Evaluator{}.Evaluate(pred, gt, 0.1, 0)

	if err != nil {
		t.Fatalf("Evaluate returned an error: %v", err)
	}

	if scores["mAP"] != 1.0 {
		t.Errorf("Expected mAP 1, but got %f", scores["mAP"])
	}

	if scores["mAR"] != 1.0 {
		t.Errorf("Expected mAR 1, but got %f", scores["mAR"])
	}
}

func TestEvaluateMissedIndividual(t *testing.T) {

	gt := map[string][]Assembly{
		"img0": {square(0, 0), square(100, 100)},
	}

	// only one of the two individuals is predicted
	pred := map[string][]Assembly{
		"img0": {square(0, 0)},
	}

	scores, err := Evaluator{}.Evaluate(pred, gt, 0.1, 0)

	if err != nil {
		t.Fatalf("Evaluate returned an error: %v", err)
	}

	if !almostEqual(scores["mAP"], 0.5, 1e-9) {
		t.Errorf("Expected mAP 0.5, but got %f", scores["mAP"])
	}

	if !almostEqual(scores["mAR"], 0.5, 1e-9) {
		t.Errorf("Expected mAR 0.5, but got %f", scores["mAR"])
	}
}

func TestEvaluateFalsePositive(t *testing.T) {

	gt := map[string][]Assembly{
		"img0": {square(0, 0)},
	}

	// a spurious second prediction far from any ground truth
	pred := map[string][]Assembly{
		"img0": {square(0, 0), square(1000, 1000)},
	}

	scores, err := Evaluator{}.Evaluate(pred, gt, 0.1, 0)

	if err != nil {
		t.Fatalf("Evaluate returned an error: %v", err)
	}

	// the exact match ranks first, so precision is unaffected at the point
	// of the true positive and recall stays complete
	if scores["mAP"] != 1.0 {
		t.Errorf("Expected mAP 1, but got %f", scores["mAP"])
	}

	if scores["mAR"] != 1.0 {
		t.Errorf("Expected mAR 1, but got %f", scores["mAR"])
	}
}

func TestEvaluateInexactPredictions(t *testing.T) {

	gt := map[string][]Assembly{
		"img0": {square(0, 0)},
	}

	// close enough to match low thresholds but not high ones, OKS is
	// exp(-0.125) which is roughly 0.88
	pred := map[string][]Assembly{
		"img0": {square(0.5, 0)},
	}

	scores, err := Evaluator{}.Evaluate(pred, gt, 0.1, 0)

	if err != nil {
		t.Fatalf("Evaluate returned an error: %v", err)
	}

	if !(scores["mAP"] > 0 && scores["mAP"] < 1) {
		t.Errorf("Expected mAP in (0, 1), but got %f", scores["mAP"])
	}

	if !(scores["mAR"] > 0 && scores["mAR"] < 1) {
		t.Errorf("Expected mAR in (0, 1), but got %f", scores["mAR"])
	}
}

func TestEvaluateNoData(t *testing.T) {

	scores, err := Evaluator{}.Evaluate(map[string][]Assembly{},
		map[string][]Assembly{}, 0.1, 0)

	if err != nil {
		t.Fatalf("Evaluate returned an error: %v", err)
	}

	if !math.IsNaN(scores["mAP"]) || !math.IsNaN(scores["mAR"]) {
		t.Errorf("Expected NaN metrics, but got mAP=%f mAR=%f",
			scores["mAP"], scores["mAR"])
	}
}

func TestEvaluateAffinityRanking(t *testing.T) {

	gt := map[string][]Assembly{
		"img0": {square(0, 0)},
	}

	// the low affinity spurious prediction must rank behind the confident
	// exact match, keeping precision intact
	spurious := FromArray([][]float64{
		{500, 500, 0.2},
		{510, 500, 0.2},
		{510, 510, 0.2},
		{500, 510, 0.2},
	})

	exact := FromArray([][]float64{
		{0, 0, 0.9},
		{10, 0, 0.9},
		{10, 10, 0.9},
		{0, 10, 0.9},
	})

	pred := map[string][]Assembly{
		"img0": {spurious, exact},
	}

	scores, err := Evaluator{}.Evaluate(pred, gt, 0.1, 0)

	if err != nil {
		t.Fatalf("Evaluate returned an error: %v", err)
	}

	if scores["mAP"] != 1.0 {
		t.Errorf("Expected mAP 1, but got %f", scores["mAP"])
	}
}
