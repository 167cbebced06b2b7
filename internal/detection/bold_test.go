package detection

import (
	"errors"
	"image"
	"testing"
)

func rect(x1, y1, x2, y2 int) Region {
	return RegionFromRect(image.Rect(x1, y1, x2, y2))
}

func TestAspectRatio_Classify(t *testing.T) {
	tests := []struct {
		name   string
		region Region
		want   bool
	}{
		{
			"tall box is bold",
			Region{{0, 0}, {10, 0}, {10, 30}, {0, 30}},
			true,
		},
		{
			"wide box is not bold",
			Region{{0, 0}, {30, 0}, {30, 10}, {0, 10}},
			false,
		},
		{
			"ratio exactly at threshold is not bold",
			rect(0, 0, 20, 10),
			false,
		},
		{
			"ratio just above threshold is bold",
			rect(0, 0, 10000000, 5000001),
			true,
		},
		{
			"ratio just below threshold is not bold",
			rect(0, 0, 10000000, 4999999),
			false,
		},
		{
			"zero height is not bold",
			rect(5, 5, 25, 5),
			false,
		},
		{
			"reversed diagonal uses absolute extents",
			Region{{10, 30}, {0, 30}, {0, 0}, {10, 0}},
			true,
		},
		{
			"rotated quadrilateral only looks at points 0 and 2",
			Region{{0, 5}, {40, 0}, {42, 12}, {2, 17}},
			false,
		},
	}

	c := NewAspectRatio(DefaultBoldRatio)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Classify(tt.region)
			if err != nil {
				t.Fatalf("Classify(%s) returned error: %v", tt.region, err)
			}
			if got != tt.want {
				w, h := Diagonal(tt.region)
				t.Errorf("Classify(%s) = %v, want %v (w=%d h=%d)", tt.region, got, tt.want, w, h)
			}
		})
	}
}

func TestAspectRatio_ZeroWidthRejected(t *testing.T) {
	c := NewAspectRatio(DefaultBoldRatio)

	for _, r := range []Region{
		{{5, 0}, {5, 0}, {5, 30}, {5, 30}},
		{{0, 0}, {0, 0}, {0, 0}, {0, 0}},
	} {
		bold, err := c.Classify(r)
		if !errors.Is(err, ErrMalformedRegion) {
			t.Errorf("Classify(%s) error = %v, want ErrMalformedRegion", r, err)
		}
		if bold {
			t.Errorf("Classify(%s) reported bold alongside an error", r)
		}
	}
}

func TestNewAspectRatio_DefaultThreshold(t *testing.T) {
	for _, th := range []float64{0, -1} {
		if got := NewAspectRatio(th).Threshold; got != DefaultBoldRatio {
			t.Errorf("NewAspectRatio(%v).Threshold = %v, want %v", th, got, DefaultBoldRatio)
		}
	}
	if got := NewAspectRatio(1.5).Threshold; got != 1.5 {
		t.Errorf("NewAspectRatio(1.5).Threshold = %v", got)
	}
}

func TestAspectRatio_CustomThreshold(t *testing.T) {
	c := NewAspectRatio(2.0)
	bold, err := c.Classify(Region{{0, 0}, {10, 0}, {10, 30}, {0, 30}})
	if err != nil {
		t.Fatal(err)
	}
	if !bold {
		t.Error("ratio 3.0 should be bold at threshold 2.0")
	}

	bold, err = c.Classify(rect(0, 0, 10, 20))
	if err != nil {
		t.Fatal(err)
	}
	if bold {
		t.Error("ratio 2.0 should not be bold at threshold 2.0")
	}
}

func TestClassifierFunc(t *testing.T) {
	var calls int
	c := ClassifierFunc(func(r Region) (bool, error) {
		calls++
		return r[0].X > 0, nil
	})

	got, _ := c.Classify(rect(1, 0, 2, 2))
	if !got || calls != 1 {
		t.Errorf("ClassifierFunc returned %v after %d calls", got, calls)
	}
}

func TestClassify_SplitsRejections(t *testing.T) {
	dets := []Detection{
		{Region: Region{{0, 0}, {10, 0}, {10, 30}, {0, 30}}, Text: "Hi", Confidence: 0.9},
		{Region: Region{{0, 0}, {30, 0}, {30, 10}, {0, 10}}, Text: "lo", Confidence: 0.95},
		{Region: Region{{3, 0}, {3, 0}, {3, 9}, {3, 9}}, Text: "|", Confidence: 0.4},
	}

	classified, rejected, err := Classify(NewAspectRatio(DefaultBoldRatio), dets)
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}

	if len(classified) != 2 {
		t.Fatalf("expected 2 classified, got %d", len(classified))
	}
	if !classified[0].Bold || classified[0].Text != "Hi" {
		t.Errorf("first detection: %+v", classified[0])
	}
	if classified[1].Bold {
		t.Errorf("second detection should not be bold: %+v", classified[1])
	}

	if len(rejected) != 1 || rejected[0].Detection.Text != "|" {
		t.Fatalf("expected the zero-width detection to be rejected, got %+v", rejected)
	}

	bold := Bold(classified)
	if len(bold) != 1 || bold[0].Text != "Hi" {
		t.Errorf("Bold() = %+v, want only \"Hi\"", bold)
	}
}

func TestClassify_OtherErrorsAbort(t *testing.T) {
	boom := errors.New("boom")
	c := ClassifierFunc(func(Region) (bool, error) { return false, boom })

	_, _, err := Classify(c, []Detection{{Region: rect(0, 0, 1, 1)}})
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped boom, got %v", err)
	}
}
