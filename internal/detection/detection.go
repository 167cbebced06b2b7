package detection

// Detection is one raw result from a text detector.
type Detection struct {
	// Region bounds the text in frame coordinates.
	Region Region `json:"region"`

	// Text is the recognized content. Region-only detectors leave it empty.
	Text string `json:"text"`

	// Confidence is the detector's score in [0, 1].
	Confidence float64 `json:"confidence"`
}

// Classified is a Detection with its boldness decided. Bold is computed
// once and never re-derived.
type Classified struct {
	Detection
	Bold bool `json:"bold"`
}
