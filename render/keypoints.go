// Package render draws decoded keypoint poses onto images for visual
// inspection of predictions.
package render

import (
	"image"
	"math"

	poseval "github.com/poseval/go-poseval"
	"gocv.io/x/gocv"
)

/* COCO skeleton keypoints
0: Nose
1: Left Eye
2: Right Eye
3: Left Ear
4: Right Ear
5: Left Shoulder
6: Right Shoulder
7: Left Elbow
8: Right Elbow
9: Left Wrist
10: Right Wrist
11: Left Hip
12: Right Hip
13: Left Knee
14: Right Knee
15: Left Ankle
16: Right Ankle
*/

var (
	// skeleton defines the pose skeleton points to draw lines between.  The
	// numbers are paired, so (16,14) means draw a line from right ankle to
	// right knee
	skeleton = [38]int{16, 14, 14, 12, 17, 15, 15, 13, 12, 13, 6, 12, 7, 13,
		6, 7, 6, 8, 7, 9, 8, 10, 9, 11, 2, 3, 1, 2, 1, 3, 2, 4, 3, 5, 4, 6,
		5, 7}
	// cocoKeyPoints is the number of keypoints in the COCO skeleton
	cocoKeyPoints = 17
)

// Poses renders the keypoints of every individual in the image.  Keypoints
// scoring below minScore are skipped.  When an individual carries the
// seventeen COCO keypoints the skeleton lines are drawn as well, other
// keypoint counts are rendered as circles only
func Poses(img *gocv.Mat, poses poseval.Keypoints, minScore float64,
	lineThickness int) {

	for i, individual := range poses {

		if len(individual) == cocoKeyPoints {
			drawSkeleton(img, individual, minScore, lineThickness)
		}

		for j, joint := range individual {

			if len(joint) < 2 || !visible(joint, minScore) {
				continue
			}

			clr := individualColors[i%len(individualColors)]

			if len(individual) == cocoKeyPoints {
				clr = keyPointColors[j]
			}

			gocv.Circle(img, image.Pt(int(joint[0]), int(joint[1])), 3,
				clr, -1)
		}
	}
}

// drawSkeleton draws the COCO skeleton lines between one individual's
// joint pairs
func drawSkeleton(img *gocv.Mat, individual [][]float64, minScore float64,
	lineThickness int) {

	for j := 0; j < len(skeleton)/2; j++ {

		a := individual[skeleton[2*j]-1]
		b := individual[skeleton[2*j+1]-1]

		if !visible(a, minScore) || !visible(b, minScore) {
			continue
		}

		gocv.Line(img, image.Pt(int(a[0]), int(a[1])),
			image.Pt(int(b[0]), int(b[1])), limbColors[j], lineThickness)
	}
}

// visible reports whether a joint has coordinates worth drawing, treating
// rows without a score column as always visible
func visible(joint []float64, minScore float64) bool {

	if len(joint) < 2 || math.IsNaN(joint[0]) || math.IsNaN(joint[1]) {
		return false
	}

	if len(joint) > 2 && joint[2] < minScore {
		return false
	}

	return true
}
