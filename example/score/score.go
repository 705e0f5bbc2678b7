package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"sort"

	poseval "github.com/poseval/go-poseval"
	"github.com/poseval/go-poseval/scoring"
)

func main() {
	// disable logging timestamps
	log.SetFlags(0)

	// read in cli flags
	predFile := flag.String("p", "predictions.json", "Predicted keypoints JSON file")
	gtFile := flag.String("g", "groundtruth.json", "Ground truth keypoints JSON file")
	pcutoff := flag.Float64("c", -1, "Confidence cutoff for the pcutoff metric variants")
	sigma := flag.Float64("s", 0.1, "OKS sigma")
	margin := flag.Float64("m", 0, "OKS bounding box margin")
	align := flag.Bool("a", false, "Align predicted individuals to ground truth before scoring")
	flag.Parse()

	poses, err := loadKeypoints(*predFile)

	if err != nil {
		log.Fatal("Error loading predictions: ", err)
	}

	groundTruth, err := loadKeypoints(*gtFile)

	if err != nil {
		log.Fatal("Error loading ground truth: ", err)
	}

	if *align {
		poses, err = scoring.AlignToGroundTruth(poses, groundTruth)

		if err != nil {
			log.Fatal("Error aligning individuals: ", err)
		}
	}

	params := scoring.ScorerDefaultParams()
	params.PCutoff = *pcutoff
	params.OKSSigma = *sigma
	params.Margin = *margin

	scores, err := scoring.NewScorer(params).Scores(poses, groundTruth)

	if err != nil {
		log.Fatal("Error computing scores: ", err)
	}

	// print metrics in stable order
	names := make([]string, 0, len(scores))

	for name := range scores {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		log.Printf("%-14s %.4f", name, scores[name])
	}
}

// loadKeypoints reads a JSON file mapping image identifiers to keypoint
// arrays of shape (individuals, joints, values)
func loadKeypoints(path string) (map[string]poseval.Keypoints, error) {

	data, err := os.ReadFile(path)

	if err != nil {
		return nil, err
	}

	var kpts map[string]poseval.Keypoints

	if err := json.Unmarshal(data, &kpts); err != nil {
		return nil, err
	}

	return kpts, nil
}
