package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"os"

	poseval "github.com/poseval/go-poseval"
	"github.com/poseval/go-poseval/render"
	"gocv.io/x/gocv"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	// labelFontSize is the size the TTF font face is created with
	labelFontSize = 14
	// labelFontDPI is the resolution the TTF font face is rendered at
	labelFontDPI = 72
)

func main() {
	// disable logging timestamps
	log.SetFlags(0)

	// read in cli flags
	imgFile := flag.String("i", "image.jpg", "Image file to draw poses on")
	kptFile := flag.String("k", "keypoints.json", "Keypoints JSON file")
	imgName := flag.String("n", "", "Image identifier in the keypoints file, defaults to the first entry")
	saveFile := flag.String("o", "out.jpg", "Output image file")
	ttfFont := flag.String("f", "", "Optional TTF font for individual labels")
	minScore := flag.Float64("s", 0, "Minimum keypoint score to draw")
	flag.Parse()

	img := gocv.IMRead(*imgFile, gocv.IMReadColor)

	if img.Empty() {
		log.Fatal("Error reading image from: ", *imgFile)
	}

	defer img.Close()

	poses, err := loadPoses(*kptFile, *imgName)

	if err != nil {
		log.Fatal("Error loading keypoints: ", err)
	}

	render.Poses(&img, poses, *minScore, 2)

	if *ttfFont != "" {
		face, err := loadFontFace(*ttfFont)

		if err != nil {
			log.Fatal("Error loading font: ", err)
		}

		if err := labelIndividuals(&img, poses, face, *minScore); err != nil {
			log.Fatal("Error labelling individuals: ", err)
		}
	}

	if ok := gocv.IMWrite(*saveFile, img); !ok {
		log.Fatal("Failed to save image to: ", *saveFile)
	}

	log.Printf("Saved pose rendering with %d individuals to %s", len(poses),
		*saveFile)
}

// loadPoses reads the keypoints for one image from a JSON file mapping
// image identifiers to keypoint arrays.  An empty name selects the entry
// with the lowest key
func loadPoses(path, name string) (poseval.Keypoints, error) {

	data, err := os.ReadFile(path)

	if err != nil {
		return nil, err
	}

	var all map[string]poseval.Keypoints

	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}

	if name == "" {
		for key := range all {
			if name == "" || key < name {
				name = key
			}
		}
	}

	poses, ok := all[name]

	if !ok {
		return nil, fmt.Errorf("no keypoints for image %q", name)
	}

	return poses, nil
}

// loadFontFace loads a TTF font and creates a new font face from it
func loadFontFace(path string) (font.Face, error) {

	fontBytes, err := os.ReadFile(path)

	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}

	f, err := opentype.Parse(fontBytes)

	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}

	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    labelFontSize,
		DPI:     labelFontDPI,
		Hinting: font.HintingFull,
	})
}

// labelIndividuals writes each individual's index next to its first visible
// keypoint using the TTF font face
func labelIndividuals(img *gocv.Mat, poses poseval.Keypoints, face font.Face,
	minScore float64) error {

	// render labels on a transparent overlay then blend it onto the image
	rgba := image.NewRGBA(image.Rect(0, 0, img.Cols(), img.Rows()))
	draw.Draw(rgba, rgba.Bounds(), image.NewUniform(color.RGBA{0, 0, 0, 0}),
		image.Point{}, draw.Src)

	for i, individual := range poses {

		x, y, ok := firstVisible(individual, minScore)

		if !ok {
			continue
		}

		dr := &font.Drawer{
			Dst:  rgba,
			Src:  image.NewUniform(render.White),
			Face: face,
			Dot: fixed.Point26_6{
				X: fixed.Int26_6((x + 6) * 64),
				Y: fixed.Int26_6((y - 6) * 64),
			},
		}
		dr.DrawString(fmt.Sprintf("%d", i))
	}

	overlay, err := gocv.NewMatFromBytes(rgba.Bounds().Dy(),
		rgba.Bounds().Dx(), gocv.MatTypeCV8UC4, rgba.Pix)

	if overlay.Empty() || err != nil {
		return fmt.Errorf("error creating Mat from RGBA overlay")
	}

	defer overlay.Close()

	gocv.CvtColor(overlay, &overlay, gocv.ColorRGBAToBGR)
	gocv.AddWeighted(*img, 1.0, overlay, 1.0, 0, img)

	return nil
}

// firstVisible returns the coordinates of the individual's first keypoint
// at or above the score cutoff
func firstVisible(individual [][]float64, minScore float64) (x, y int, ok bool) {

	for _, joint := range individual {

		if len(joint) < 2 {
			continue
		}

		if len(joint) > 2 && joint[2] < minScore {
			continue
		}

		return int(joint[0]), int(joint[1]), true
	}

	return 0, 0, false
}
