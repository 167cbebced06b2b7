package pipeline

import (
	"context"
	"errors"
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ironsheep/boldtext/internal/capture"
	"github.com/ironsheep/boldtext/internal/config"
	"github.com/ironsheep/boldtext/internal/detection"
	"github.com/ironsheep/boldtext/internal/ocr"
	"github.com/ironsheep/boldtext/internal/preview"
	"github.com/ironsheep/boldtext/internal/store"
)

type fakeSource struct {
	frame image.Image
	err   error
	calls int
}

func (f *fakeSource) Capture(context.Context) (image.Image, error) {
	f.calls++
	return f.frame, f.err
}

type fakeDetector struct {
	dets  []detection.Detection
	err   error
	calls int
}

func (f *fakeDetector) Detect(context.Context, image.Image) ([]detection.Detection, error) {
	f.calls++
	return f.dets, f.err
}

type fakeRenderer struct {
	accepted []detection.Classified
	err      error
}

func (f *fakeRenderer) Render(_ image.Image, accepted []detection.Classified) error {
	f.accepted = accepted
	return f.err
}

// trackingStore wraps a real store and records whether it was closed.
type trackingStore struct {
	*store.Store
	closed bool
}

func (t *trackingStore) Close() error {
	t.closed = true
	return t.Store.Close()
}

var (
	regionA = detection.Region{{0, 0}, {10, 0}, {10, 30}, {0, 30}}
	regionB = detection.Region{{0, 0}, {30, 0}, {30, 10}, {0, 10}}
)

func frame(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.White)
		}
	}
	return img
}

func newTestPipeline(t *testing.T, dets []detection.Detection) (*Pipeline, string, *[]*trackingStore) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "texts.db")
	var opened []*trackingStore

	p := &Pipeline{
		Source:     &fakeSource{frame: frame(100, 100)},
		Detector:   &fakeDetector{dets: dets},
		Classifier: detection.NewAspectRatio(detection.DefaultBoldRatio),
		OpenStore: func() (Store, error) {
			s, err := store.Open(dbPath)
			if err != nil {
				return nil, err
			}
			ts := &trackingStore{Store: s}
			opened = append(opened, ts)
			return ts, nil
		},
	}
	return p, dbPath, &opened
}

func storedRecords(t *testing.T, dbPath string) []store.Record {
	t.Helper()
	s, err := store.Open(dbPath)
	require.NoError(t, err)
	defer s.Close()

	records, err := s.List(context.Background(), 0)
	require.NoError(t, err)
	return records
}

func TestRun_StoresOnlyBold(t *testing.T) {
	p, dbPath, opened := newTestPipeline(t, []detection.Detection{
		{Region: regionA, Text: "Hi", Confidence: 0.9},
		{Region: regionB, Text: "lo", Confidence: 0.95},
	})

	report, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 2, report.Detected)
	assert.Equal(t, 100, report.FrameWidth)
	require.Len(t, report.Accepted, 1)
	assert.Equal(t, "Hi", report.Accepted[0].Text)
	require.Len(t, report.Records, 1)

	records := storedRecords(t, dbPath)
	require.Len(t, records, 1)
	assert.Equal(t, "Hi", records[0].Text)
	assert.Equal(t, regionA.String(), records[0].BBox)
	assert.InDelta(t, 0.9, records[0].Probability, 1e-9)

	require.Len(t, *opened, 1)
	assert.True(t, (*opened)[0].closed, "store must be closed when the run ends")
}

func TestRun_DeviceUnavailable(t *testing.T) {
	p, dbPath, opened := newTestPipeline(t, nil)
	det := p.Detector.(*fakeDetector)
	p.Source = &fakeSource{err: capture.ErrDeviceUnavailable}

	_, err := p.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, capture.ErrDeviceUnavailable)

	assert.Zero(t, det.calls, "no detection after a capture failure")
	assert.Empty(t, *opened, "no storage after a capture failure")
	assert.NoFileExists(t, dbPath)
}

func TestRun_CameraWithoutGocv(t *testing.T) {
	p, _, opened := newTestPipeline(t, nil)
	p.Source = capture.NewCamera(0)

	_, err := p.Run(context.Background())
	if err == nil {
		t.Skip("a camera is attached and gocv is enabled")
	}
	assert.ErrorIs(t, err, capture.ErrDeviceUnavailable)
	assert.Empty(t, *opened)
}

func TestRun_DetectorFailure(t *testing.T) {
	p, _, opened := newTestPipeline(t, nil)
	boom := errors.New("model exploded")
	p.Detector = &fakeDetector{err: boom}

	_, err := p.Run(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, *opened)
}

func TestRun_RejectsMalformedRegions(t *testing.T) {
	p, dbPath, _ := newTestPipeline(t, []detection.Detection{
		{Region: detection.Region{{5, 0}, {5, 0}, {5, 20}, {5, 20}}, Text: "zero", Confidence: 0.9},
		{Region: detection.Region{{90, 0}, {120, 0}, {120, 40}, {90, 40}}, Text: "outside", Confidence: 0.9},
		{Region: regionA, Text: "Hi", Confidence: 0.9},
	})

	report, err := p.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Rejected, 2)
	for _, r := range report.Rejected {
		assert.Contains(t, r.Reason, detection.ErrMalformedRegion.Error())
	}

	records := storedRecords(t, dbPath)
	require.Len(t, records, 1)
	assert.Equal(t, "Hi", records[0].Text)
}

func TestRun_MinConfidence(t *testing.T) {
	p, dbPath, _ := newTestPipeline(t, []detection.Detection{
		{Region: regionA, Text: "faint", Confidence: 0.2},
		{Region: regionA, Text: "clear", Confidence: 0.8},
	})
	p.MinConfidence = 0.5

	report, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.LowConfidence)

	records := storedRecords(t, dbPath)
	require.Len(t, records, 1)
	assert.Equal(t, "clear", records[0].Text)
}

func TestRun_StorageFailureLeavesTableUnchanged(t *testing.T) {
	p, dbPath, opened := newTestPipeline(t, []detection.Detection{
		{Region: regionA, Text: "kept", Confidence: 0.9},
	})
	_, err := p.Run(context.Background())
	require.NoError(t, err)

	p.Detector = &fakeDetector{dets: []detection.Detection{
		{Region: regionA, Text: "one", Confidence: 0.9},
		{Region: regionA, Text: "boom", Confidence: 0.9},
		{Region: regionA, Text: "three", Confidence: 0.9},
	}}
	open := p.OpenStore
	p.OpenStore = func() (Store, error) {
		st, err := open()
		if err != nil {
			return nil, err
		}
		ts := st.(*trackingStore)
		err = ts.DB().Callback().Create().Before("gorm:create").Register("test:fail_on_boom", func(tx *gorm.DB) {
			if rec, ok := tx.Statement.Dest.(*store.Record); ok && rec.Text == "boom" {
				tx.AddError(errors.New("disk full"))
			}
		})
		return ts, err
	}

	_, err = p.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrStorageFailure)

	records := storedRecords(t, dbPath)
	require.Len(t, records, 1)
	assert.Equal(t, "kept", records[0].Text)

	require.Len(t, *opened, 2)
	assert.True(t, (*opened)[1].closed, "store must be closed after a failed batch")
}

func TestRun_StoreUnavailable(t *testing.T) {
	p, _, _ := newTestPipeline(t, []detection.Detection{{Region: regionA, Text: "Hi", Confidence: 0.9}})
	p.OpenStore = SQLiteOpener(filepath.Join(t.TempDir(), "missing", "texts.db"))

	_, err := p.Run(context.Background())
	assert.ErrorIs(t, err, store.ErrStorageFailure)
}

func TestRun_NoDetectionsStillCreatesTable(t *testing.T) {
	p, dbPath, _ := newTestPipeline(t, nil)

	report, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report.Records)
	assert.FileExists(t, dbPath)
	assert.Empty(t, storedRecords(t, dbPath))
}

func TestRun_Preview(t *testing.T) {
	p, _, _ := newTestPipeline(t, []detection.Detection{
		{Region: regionA, Text: "Hi", Confidence: 0.9},
		{Region: regionB, Text: "lo", Confidence: 0.95},
	})
	r := &fakeRenderer{}
	p.Renderer = r

	_, err := p.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, r.accepted, 1, "preview sees only accepted detections")
	assert.Equal(t, "Hi", r.accepted[0].Text)
}

func TestRun_PreviewFailureIsNotFatal(t *testing.T) {
	p, dbPath, _ := newTestPipeline(t, []detection.Detection{{Region: regionA, Text: "Hi", Confidence: 0.9}})
	p.Renderer = &fakeRenderer{err: errors.New("no display")}

	report, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "no display", report.PreviewError)
	assert.Len(t, storedRecords(t, dbPath), 1)
}

func TestRun_RealPreviewFile(t *testing.T) {
	p, _, _ := newTestPipeline(t, []detection.Detection{{Region: regionA, Text: "Hi", Confidence: 0.9}})
	out := filepath.Join(t.TempDir(), "preview.png")
	r, err := preview.New(preview.Options{OutputPath: out})
	require.NoError(t, err)
	p.Renderer = r

	_, err = p.Run(context.Background())
	require.NoError(t, err)
	assert.FileExists(t, out)
}

func TestFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.DatabasePath = filepath.Join(t.TempDir(), "texts.db")

	p, err := FromConfig(cfg)
	require.NoError(t, err)
	assert.IsType(t, &capture.Camera{}, p.Source)
	assert.IsType(t, &ocr.Tesseract{}, p.Detector)
	assert.Equal(t, detection.AspectRatio{Threshold: 0.5}, p.Classifier)
	assert.Nil(t, p.Renderer)

	cfg.Capture.ImagePath = "frame.png"
	cfg.OCR.Detector = config.DetectorEdges
	cfg.Preview.Enabled = true
	p, err = FromConfig(cfg)
	require.NoError(t, err)
	assert.IsType(t, &capture.File{}, p.Source)
	assert.IsType(t, &detection.EdgeDensity{}, p.Detector)
	assert.NotNil(t, p.Renderer)

	cfg.Preview.BoxColor = "not-a-color"
	_, err = FromConfig(cfg)
	assert.Error(t, err)

	cfg.Preview.BoxColor = ""
	cfg.OCR.Detector = "paddle"
	_, err = FromConfig(cfg)
	assert.Error(t, err)
}
