package detection

import (
	"errors"
	"fmt"
)

// DefaultBoldRatio is the height-to-width ratio above which a region counts
// as bold. It is calibrated for roughly horizontal text of the size a desk
// camera sees, not derived from anything.
const DefaultBoldRatio = 0.5

// Classifier decides whether a region holds bold text.
type Classifier interface {
	Classify(r Region) (bool, error)
}

// ClassifierFunc adapts a plain function to the Classifier interface.
type ClassifierFunc func(r Region) (bool, error)

// Classify calls f(r).
func (f ClassifierFunc) Classify(r Region) (bool, error) {
	return f(r)
}

// AspectRatio treats points 0 and 2 of a region as opposite corners of its
// bounding box and reports bold when height/width exceeds Threshold.
//
// A zero-width box has no defined ratio and is rejected with
// ErrMalformedRegion rather than guessed at.
type AspectRatio struct {
	Threshold float64
}

// NewAspectRatio returns an AspectRatio classifier. A non-positive
// threshold selects DefaultBoldRatio.
func NewAspectRatio(threshold float64) AspectRatio {
	if threshold <= 0 {
		threshold = DefaultBoldRatio
	}
	return AspectRatio{Threshold: threshold}
}

// Classify implements Classifier.
func (a AspectRatio) Classify(r Region) (bool, error) {
	width, height := Diagonal(r)
	if width == 0 {
		return false, fmt.Errorf("%w: zero-width bounding box %s", ErrMalformedRegion, r)
	}
	return float64(height)/float64(width) > a.Threshold, nil
}

// Diagonal returns the absolute width and height spanned by points 0 and 2.
func Diagonal(r Region) (width, height int) {
	return abs(r[2].X - r[0].X), abs(r[2].Y - r[0].Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Rejection records a detection the classifier refused.
type Rejection struct {
	Detection Detection `json:"detection"`
	Reason    string    `json:"reason"`
}

// Classify runs c over every detection. It returns all classified
// detections in input order and the detections rejected as malformed.
// Errors other than ErrMalformedRegion abort the pass.
func Classify(c Classifier, dets []Detection) ([]Classified, []Rejection, error) {
	classified := make([]Classified, 0, len(dets))
	var rejected []Rejection

	for _, d := range dets {
		bold, err := c.Classify(d.Region)
		if err != nil {
			if errors.Is(err, ErrMalformedRegion) {
				rejected = append(rejected, Rejection{Detection: d, Reason: err.Error()})
				continue
			}
			return nil, nil, fmt.Errorf("classify %s: %w", d.Region, err)
		}
		classified = append(classified, Classified{Detection: d, Bold: bold})
	}

	return classified, rejected, nil
}

// Bold returns the subset of classified detections marked bold.
func Bold(classified []Classified) []Classified {
	out := make([]Classified, 0, len(classified))
	for _, c := range classified {
		if c.Bold {
			out = append(out, c)
		}
	}
	return out
}
