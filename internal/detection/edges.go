package detection

import (
	"context"
	"image"
	"math"
	"sort"
)

// edgeThreshold is the grayscale step between neighbouring pixels that
// counts as an edge.
const edgeThreshold = 30.0

// textWindows are the sliding window sizes tried, roughly matching small
// through large printed text.
var textWindows = []struct{ w, h int }{
	{100, 30},
	{150, 40},
	{200, 50},
	{80, 25},
}

// EdgeDensity is a region-only text detector. It looks for windows whose
// edge density and horizontal structure resemble printed text and reports
// them as detections with empty Text.
//
// It needs no OCR engine, so it serves as a fallback when Tesseract is not
// installed. Its regions are axis-aligned.
type EdgeDensity struct {
	// MinConfidence drops candidate windows scoring below it.
	MinConfidence float64
}

// NewEdgeDensity returns an EdgeDensity detector with the given floor.
func NewEdgeDensity(minConfidence float64) *EdgeDensity {
	return &EdgeDensity{MinConfidence: minConfidence}
}

// Detect implements the pipeline's text detector contract.
func (e *EdgeDensity) Detect(ctx context.Context, img image.Image) ([]Detection, error) {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	edges := edgeMap(img, width, height)

	type candidate struct {
		rect       image.Rectangle
		confidence float64
	}
	candidates := make([]candidate, 0)

	for _, ws := range textWindows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		stepX := ws.w / 2
		stepY := ws.h / 2

		for y := 0; y <= height-ws.h; y += stepY {
			for x := 0; x <= width-ws.w; x += stepX {
				edgeCount := 0
				for wy := 0; wy < ws.h; wy++ {
					for wx := 0; wx < ws.w; wx++ {
						if edges[y+wy][x+wx] {
							edgeCount++
						}
					}
				}

				density := float64(edgeCount) / float64(ws.w*ws.h)

				// Text sits in a middle band: blank areas are sparse, textures are dense.
				if density < 0.05 || density > 0.4 {
					continue
				}

				confidence := horizontalScore(edges, x, y, ws.w, ws.h) * (1.0 - math.Abs(density-0.2)/0.2)
				if confidence < e.MinConfidence {
					continue
				}

				candidates = append(candidates, candidate{
					rect:       image.Rect(x, y, x+ws.w, y+ws.h).Add(bounds.Min),
					confidence: math.Round(confidence*1000) / 1000,
				})
			}
		}
	}

	// Merge overlapping windows into single regions.
	merged := make([]candidate, 0)
	for _, c := range candidates {
		found := false
		for i := range merged {
			if c.rect.Overlaps(merged[i].rect) {
				merged[i].rect = merged[i].rect.Union(c.rect)
				merged[i].confidence = math.Max(c.confidence, merged[i].confidence)
				found = true
				break
			}
		}
		if !found {
			merged = append(merged, c)
		}
	}

	sort.Slice(merged, func(i, j int) bool {
		return merged[i].confidence > merged[j].confidence
	})

	dets := make([]Detection, 0, len(merged))
	for _, m := range merged {
		dets = append(dets, Detection{
			Region:     RegionFromRect(m.rect),
			Confidence: m.confidence,
		})
	}
	return dets, nil
}

// horizontalScore is the share of edge runs that are horizontal.
func horizontalScore(edges [][]bool, x, y, w, h int) float64 {
	horizontalRuns := 0
	verticalRuns := 0

	for row := y; row < y+h; row++ {
		inRun := false
		for col := x; col < x+w; col++ {
			if edges[row][col] {
				if !inRun {
					horizontalRuns++
					inRun = true
				}
			} else {
				inRun = false
			}
		}
	}

	for col := x; col < x+w; col++ {
		inRun := false
		for row := y; row < y+h; row++ {
			if edges[row][col] {
				if !inRun {
					verticalRuns++
					inRun = true
				}
			} else {
				inRun = false
			}
		}
	}

	if horizontalRuns+verticalRuns == 0 {
		return 0
	}
	return float64(horizontalRuns) / float64(horizontalRuns+verticalRuns)
}

// edgeMap marks pixels whose right or lower neighbour differs by more than
// edgeThreshold in luminance. Border pixels are never edges.
func edgeMap(img image.Image, width, height int) [][]bool {
	bounds := img.Bounds()
	edges := make([][]bool, height)

	for y := 0; y < height; y++ {
		edges[y] = make([]bool, width)
		for x := 0; x < width; x++ {
			if x == 0 || y == 0 || x == width-1 || y == height-1 {
				continue
			}

			c := luminance(img, x+bounds.Min.X, y+bounds.Min.Y)
			cx := luminance(img, x+1+bounds.Min.X, y+bounds.Min.Y)
			cy := luminance(img, x+bounds.Min.X, y+1+bounds.Min.Y)

			if math.Abs(c-cx) > edgeThreshold || math.Abs(c-cy) > edgeThreshold {
				edges[y][x] = true
			}
		}
	}

	return edges
}

func luminance(img image.Image, x, y int) float64 {
	r, g, b, _ := img.At(x, y).RGBA()
	return float64(r>>8)*0.299 + float64(g>>8)*0.587 + float64(b>>8)*0.114
}
