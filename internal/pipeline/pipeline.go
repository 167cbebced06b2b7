// Package pipeline runs one capture, detect, classify, persist pass.
//
// A run owns its resources: the frame source is opened and released inside
// Capture, and the store is opened for the run and closed before Run
// returns. Nothing is shared between runs, and a run is never retried.
package pipeline

import (
	"context"
	"fmt"
	"image"
	"log"
	"os"

	"github.com/google/uuid"

	"github.com/ironsheep/boldtext/internal/detection"
	"github.com/ironsheep/boldtext/internal/store"
)

// FrameSource yields one frame per call.
type FrameSource interface {
	Capture(ctx context.Context) (image.Image, error)
}

// TextDetector finds text in a frame. Detections come in no particular order.
type TextDetector interface {
	Detect(ctx context.Context, frame image.Image) ([]detection.Detection, error)
}

// Store persists one batch atomically.
type Store interface {
	Persist(ctx context.Context, batch []detection.Classified) ([]store.Record, error)
	Close() error
}

// StoreOpener opens the store for a single run.
type StoreOpener func() (Store, error)

// Renderer draws accepted detections over the frame.
type Renderer interface {
	Render(frame image.Image, accepted []detection.Classified) error
}

// Pipeline binds the collaborators of a run.
type Pipeline struct {
	Source     FrameSource
	Detector   TextDetector
	Classifier detection.Classifier
	OpenStore  StoreOpener

	// Renderer is optional. Preview failures are logged, not fatal, since
	// the batch is already committed by then.
	Renderer Renderer

	// MinConfidence drops detections scoring below it before
	// classification.
	MinConfidence float64
}

// Report summarizes a run.
type Report struct {
	RunID string `json:"run_id"`

	FrameWidth  int `json:"frame_width"`
	FrameHeight int `json:"frame_height"`

	// Detected is the number of raw detections.
	Detected int `json:"detected"`

	// LowConfidence counts detections dropped by MinConfidence.
	LowConfidence int `json:"low_confidence"`

	// Rejected lists detections whose region was malformed.
	Rejected []detection.Rejection `json:"rejected,omitempty"`

	// Accepted are the bold detections, in detector order.
	Accepted []detection.Classified `json:"accepted"`

	// Records are the rows written for Accepted, with their IDs.
	Records []store.Record `json:"records"`

	// PreviewError is set when the optional preview could not be written.
	PreviewError string `json:"preview_error,omitempty"`
}

// Run performs one pass. Device, storage and detector failures abort the
// run and are returned wrapped; malformed regions only reject their own
// detection.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	report := &Report{RunID: uuid.NewString()}

	frame, err := p.Source.Capture(ctx)
	if err != nil {
		return report, fmt.Errorf("capture frame: %w", err)
	}
	size := frame.Bounds().Size()
	report.FrameWidth, report.FrameHeight = size.X, size.Y
	debugf("run %s: captured %dx%d frame", report.RunID, size.X, size.Y)

	dets, err := p.Detector.Detect(ctx, frame)
	if err != nil {
		return report, fmt.Errorf("detect text: %w", err)
	}
	report.Detected = len(dets)

	candidates := make([]detection.Detection, 0, len(dets))
	for _, d := range dets {
		if d.Confidence < p.MinConfidence {
			report.LowConfidence++
			continue
		}
		if err := d.Region.Validate(frame.Bounds()); err != nil {
			report.Rejected = append(report.Rejected, detection.Rejection{Detection: d, Reason: err.Error()})
			continue
		}
		candidates = append(candidates, d)
	}

	classified, rejected, err := detection.Classify(p.Classifier, candidates)
	if err != nil {
		return report, err
	}
	report.Rejected = append(report.Rejected, rejected...)
	report.Accepted = detection.Bold(classified)

	for _, r := range report.Rejected {
		log.Printf("run %s: rejected %q: %s", report.RunID, r.Detection.Text, r.Reason)
	}

	records, err := p.persist(ctx, report.Accepted)
	if err != nil {
		return report, err
	}
	report.Records = records

	if p.Renderer != nil {
		if err := p.Renderer.Render(frame, report.Accepted); err != nil {
			log.Printf("run %s: preview failed: %v", report.RunID, err)
			report.PreviewError = err.Error()
		}
	}

	debugf("run %s: %d detected, %d low confidence, %d rejected, %d stored",
		report.RunID, report.Detected, report.LowConfidence, len(report.Rejected), len(report.Records))

	return report, nil
}

// persist opens the store, writes the batch and closes the store again.
func (p *Pipeline) persist(ctx context.Context, accepted []detection.Classified) (records []store.Record, err error) {
	st, err := p.OpenStore()
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close store: %w", cerr)
		}
	}()

	records, err = st.Persist(ctx, accepted)
	if err != nil {
		return nil, fmt.Errorf("persist batch: %w", err)
	}
	return records, nil
}

func debugf(format string, args ...interface{}) {
	if os.Getenv("BOLDTEXT_LOG_LEVEL") == "debug" {
		log.Printf(format, args...)
	}
}
