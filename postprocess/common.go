package postprocess

import (
	"math"
)

// sigmoid applies the logistic function to a raw heatmap logit
func sigmoid(x float32) float32 {
	return float32(1.0 / (1.0 + math.Exp(float64(-x))))
}

// clipScore restricts a score to the range min to max
func clipScore(val, min, max float32) float32 {

	if val < min {
		return min
	}

	if val > max {
		return max
	}

	return val
}
