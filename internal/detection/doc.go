// Package detection holds the text detection types and the boldness heuristic.
//
// A Detection is one recognized text instance: a four-point Region, the
// recognized text and a confidence score. Detections are transient; they
// live for one pipeline run and only the bold ones are persisted.
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//
// Region points are ordered as the detector produced them, normally
// top-left, top-right, bottom-right, bottom-left.
//
// # Boldness
//
// AspectRatio approximates "bold" by the aspect ratio of the box spanned by
// points 0 and 2: a region is bold when height/width > 0.5. This is a
// heuristic tuned for the expected imagery, not a font-weight detector.
// The comparison is strict, so a ratio of exactly 0.5 is not bold.
//
// A zero-width box has no ratio. It is rejected with ErrMalformedRegion;
// Classify collects such detections as Rejections and never stores them.
//
// Other heuristics can be plugged in through the Classifier interface.
//
// # Serialization
//
// Region.String produces "[[x0, y0], [x1, y1], [x2, y2], [x3, y3]]", the
// form written to the bbox column. ParseRegion reads it back.
//
// # Region-only Detection
//
// EdgeDensity finds text-like areas from edge density alone. It needs no
// OCR engine and reports detections with empty text.
package detection
