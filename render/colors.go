package render

import "image/color"

var (
	// White is the default label color
	White = color.RGBA{R: 255, G: 255, B: 255, A: 255}

	// keyPointColors paints the circle at each of the COCO skeleton joints
	keyPointColors = []color.RGBA{
		{R: 255, G: 128, B: 0, A: 255},   // nose
		{R: 255, G: 153, B: 51, A: 255},  // left eye
		{R: 255, G: 178, B: 102, A: 255}, // right eye
		{R: 230, G: 230, B: 0, A: 255},   // left ear
		{R: 255, G: 153, B: 255, A: 255}, // right ear
		{R: 153, G: 204, B: 255, A: 255}, // left shoulder
		{R: 255, G: 102, B: 255, A: 255}, // right shoulder
		{R: 255, G: 51, B: 255, A: 255},  // left elbow
		{R: 102, G: 178, B: 255, A: 255}, // right elbow
		{R: 51, G: 153, B: 255, A: 255},  // left wrist
		{R: 255, G: 153, B: 153, A: 255}, // right wrist
		{R: 255, G: 102, B: 102, A: 255}, // left hip
		{R: 255, G: 51, B: 51, A: 255},   // right hip
		{R: 153, G: 255, B: 153, A: 255}, // left knee
		{R: 102, G: 255, B: 102, A: 255}, // right knee
		{R: 51, G: 255, B: 51, A: 255},   // left ankle
		{R: 0, G: 255, B: 0, A: 255},     // right ankle
	}

	// limbColors paints the skeleton lines between joint pairs
	limbColors = []color.RGBA{
		{R: 0, G: 255, B: 0, A: 255},
		{R: 0, G: 255, B: 0, A: 255},
		{R: 0, G: 255, B: 0, A: 255},
		{R: 0, G: 255, B: 0, A: 255},
		{R: 255, G: 128, B: 0, A: 255},
		{R: 255, G: 128, B: 0, A: 255},
		{R: 255, G: 128, B: 0, A: 255},
		{R: 255, G: 153, B: 255, A: 255},
		{R: 255, G: 153, B: 255, A: 255},
		{R: 255, G: 153, B: 255, A: 255},
		{R: 255, G: 153, B: 255, A: 255},
		{R: 102, G: 178, B: 255, A: 255},
		{R: 102, G: 178, B: 255, A: 255},
		{R: 102, G: 178, B: 255, A: 255},
		{R: 102, G: 178, B: 255, A: 255},
		{R: 102, G: 178, B: 255, A: 255},
		{R: 102, G: 178, B: 255, A: 255},
		{R: 102, G: 178, B: 255, A: 255},
		{R: 102, G: 178, B: 255, A: 255},
	}

	// individualColors paints the circles when the keypoint set is not the
	// COCO skeleton, one color per individual
	individualColors = []color.RGBA{
		{R: 255, G: 56, B: 56, A: 255},   // #FF3838
		{R: 255, G: 178, B: 29, A: 255},  // #FFB21D
		{R: 72, G: 249, B: 10, A: 255},   // #48F90A
		{R: 0, G: 212, B: 187, A: 255},   // #00D4BB
		{R: 0, G: 194, B: 255, A: 255},   // #00C2FF
		{R: 100, G: 115, B: 255, A: 255}, // #6473FF
		{R: 132, G: 56, B: 255, A: 255},  // #8438FF
		{R: 255, G: 149, B: 200, A: 255}, // #FF95C8
		{R: 255, G: 55, B: 199, A: 255},  // #FF37C7
		{R: 61, G: 219, B: 134, A: 255},  // #3DDB86
		{R: 203, G: 56, B: 255, A: 255},  // #CB38FF
		{R: 146, G: 204, B: 23, A: 255},  // #92CC17
	}
)
