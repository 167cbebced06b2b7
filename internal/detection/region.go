package detection

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"strconv"
	"strings"
)

// ErrMalformedRegion is returned for regions that cannot be classified:
// a point count other than four, negative or out-of-frame coordinates,
// or a zero-width bounding box.
var ErrMalformedRegion = errors.New("malformed region")

// Region is the quadrilateral bounding one text instance.
//
// Points are ordered the way the detector produced them, normally
// top-left, top-right, bottom-right, bottom-left. The quadrilateral
// need not be axis-aligned.
type Region [4]image.Point

// RegionFromPoints builds a Region from a detector's point list.
// Anything other than exactly four points is rejected.
func RegionFromPoints(pts []image.Point) (Region, error) {
	var r Region
	if len(pts) != len(r) {
		return r, fmt.Errorf("%w: expected 4 points, got %d", ErrMalformedRegion, len(pts))
	}
	copy(r[:], pts)
	return r, nil
}

// RegionFromRect returns the clockwise quadrilateral of an axis-aligned
// rectangle, starting at its top-left corner.
func RegionFromRect(rect image.Rectangle) Region {
	return Region{
		{X: rect.Min.X, Y: rect.Min.Y},
		{X: rect.Max.X, Y: rect.Min.Y},
		{X: rect.Max.X, Y: rect.Max.Y},
		{X: rect.Min.X, Y: rect.Max.Y},
	}
}

// Validate checks that every point is non-negative and, when frame is
// non-empty, lies within it. Points on the far edge are accepted since
// detectors report exclusive maxima.
func (r Region) Validate(frame image.Rectangle) error {
	for i, p := range r {
		if p.X < 0 || p.Y < 0 {
			return fmt.Errorf("%w: point %d %v has a negative coordinate", ErrMalformedRegion, i, p)
		}
		if frame.Empty() {
			continue
		}
		if p.X < frame.Min.X || p.Y < frame.Min.Y || p.X > frame.Max.X || p.Y > frame.Max.Y {
			return fmt.Errorf("%w: point %d %v outside frame %v", ErrMalformedRegion, i, p, frame)
		}
	}
	return nil
}

// Bounds returns the smallest axis-aligned rectangle containing all four points.
func (r Region) Bounds() image.Rectangle {
	rect := image.Rectangle{Min: r[0], Max: r[0]}
	for _, p := range r[1:] {
		rect.Min.X = min(rect.Min.X, p.X)
		rect.Min.Y = min(rect.Min.Y, p.Y)
		rect.Max.X = max(rect.Max.X, p.X)
		rect.Max.Y = max(rect.Max.Y, p.Y)
	}
	return rect
}

// String renders the region as "[[x0, y0], [x1, y1], [x2, y2], [x3, y3]]".
// This is the form stored in the bbox column and accepted by ParseRegion.
func (r Region) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, p := range r {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('[')
		b.WriteString(strconv.Itoa(p.X))
		b.WriteString(", ")
		b.WriteString(strconv.Itoa(p.Y))
		b.WriteByte(']')
	}
	b.WriteByte(']')
	return b.String()
}

// ParseRegion reads back a region written by Region.String. Whitespace
// between tokens is ignored.
func ParseRegion(s string) (Region, error) {
	var r Region

	compact := strings.Join(strings.Fields(s), "")
	if !strings.HasPrefix(compact, "[[") || !strings.HasSuffix(compact, "]]") {
		return r, fmt.Errorf("%w: %q is not a point list", ErrMalformedRegion, s)
	}
	body := compact[2 : len(compact)-2]

	pairs := strings.Split(body, "],[")
	if len(pairs) != len(r) {
		return r, fmt.Errorf("%w: expected 4 points, got %d in %q", ErrMalformedRegion, len(pairs), s)
	}

	for i, pair := range pairs {
		xs, ys, ok := strings.Cut(pair, ",")
		if !ok {
			return r, fmt.Errorf("%w: point %d %q is not an x,y pair", ErrMalformedRegion, i, pair)
		}
		x, err := strconv.Atoi(xs)
		if err != nil {
			return r, fmt.Errorf("%w: point %d x: %v", ErrMalformedRegion, i, err)
		}
		y, err := strconv.Atoi(ys)
		if err != nil {
			return r, fmt.Errorf("%w: point %d y: %v", ErrMalformedRegion, i, err)
		}
		r[i] = image.Point{X: x, Y: y}
	}

	return r, nil
}

// MarshalJSON encodes the region as [[x, y], ...].
func (r Region) MarshalJSON() ([]byte, error) {
	pts := make([][2]int, len(r))
	for i, p := range r {
		pts[i] = [2]int{p.X, p.Y}
	}
	return json.Marshal(pts)
}

// UnmarshalJSON decodes [[x, y], ...] and requires exactly four points.
func (r *Region) UnmarshalJSON(data []byte) error {
	var pts [][2]int
	if err := json.Unmarshal(data, &pts); err != nil {
		return err
	}
	points := make([]image.Point, len(pts))
	for i, p := range pts {
		points[i] = image.Point{X: p[0], Y: p[1]}
	}
	region, err := RegionFromPoints(points)
	if err != nil {
		return err
	}
	*r = region
	return nil
}
