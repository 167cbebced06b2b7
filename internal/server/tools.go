package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name: "bold_text_scan",
			Description: "Capture one frame (from the configured camera, or from an image file), recognize text, " +
				"keep the detections whose bounding box is taller than half its width, and store them. " +
				"Returns the run report with the stored record IDs.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"image_path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to an image to scan instead of the camera",
					},
					"detector": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"tesseract", "edges"},
						"description": "Text detector: 'tesseract' for OCR, 'edges' for region-only detection without OCR",
					},
					"preview_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional path to write an annotated preview image",
					},
					"min_confidence": map[string]interface{}{
						"type":        "number",
						"description": "Drop detections below this confidence (0-1) before classification",
					},
				},
			},
		},
		{
			Name:        "bold_text_classify",
			Description: "Classify a single 4-point region with the boldness heuristic (height/width of points 0 and 2 compared to a threshold).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"region": map[string]interface{}{
						"type":        "array",
						"description": "Exactly four [x, y] points, e.g. [[0,0],[10,0],[10,30],[0,30]]",
						"minItems":    4,
						"maxItems":    4,
						"items": map[string]interface{}{
							"type":     "array",
							"items":    map[string]interface{}{"type": "integer"},
							"minItems": 2,
							"maxItems": 2,
						},
					},
					"bold_ratio": map[string]interface{}{
						"type":        "number",
						"description": "Optional threshold. Default is the configured ratio (0.5)",
					},
				},
				"required": []string{"region"},
			},
		},
		{
			Name:        "bold_text_records",
			Description: "List stored bold text records in insertion order.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"limit": map[string]interface{}{
						"type":        "integer",
						"description": "Only return the most recent N records. Default 0 returns all",
						"default":     0,
					},
				},
			},
		},
	}
}
