package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ironsheep/boldtext/internal/detection"
	"github.com/ironsheep/boldtext/internal/pipeline"
	"github.com/ironsheep/boldtext/internal/store"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "bold_text_scan").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	case "bold_text_scan":
		return s.handleScan(args)
	case "bold_text_classify":
		return s.handleClassify(args)
	case "bold_text_records":
		return s.handleRecords(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Scan ===

type scanArgs struct {
	ImagePath     string   `json:"image_path"`
	Detector      string   `json:"detector"`
	PreviewPath   string   `json:"preview_path"`
	MinConfidence *float64 `json:"min_confidence"`
}

// handleScan runs one pipeline pass. Arguments override a copy of the
// server configuration for this call only.
func (s *Server) handleScan(args json.RawMessage) (interface{}, error) {
	var a scanArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	cfg := *s.cfg
	if a.ImagePath != "" {
		cfg.Capture.ImagePath = a.ImagePath
	}
	if a.Detector != "" {
		cfg.OCR.Detector = a.Detector
	}
	if a.PreviewPath != "" {
		cfg.Preview.Enabled = true
		cfg.Preview.OutputPath = a.PreviewPath
	}
	if a.MinConfidence != nil {
		cfg.OCR.MinConfidence = *a.MinConfidence
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p, err := pipeline.FromConfig(&cfg)
	if err != nil {
		return nil, err
	}

	s.runMu.Lock()
	defer s.runMu.Unlock()

	return p.Run(context.Background())
}

// === Classify ===

type classifyArgs struct {
	Region    *detection.Region `json:"region"`
	BoldRatio float64           `json:"bold_ratio"`
}

type classifyResult struct {
	Bold      bool    `json:"bold"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	Ratio     float64 `json:"ratio"`
	Threshold float64 `json:"threshold"`
}

func (s *Server) handleClassify(args json.RawMessage) (interface{}, error) {
	var a classifyArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Region == nil {
		return nil, fmt.Errorf("region is required")
	}

	ratio := a.BoldRatio
	if ratio == 0 {
		ratio = s.cfg.Classifier.BoldRatio
	}
	c := detection.NewAspectRatio(ratio)

	bold, err := c.Classify(*a.Region)
	if err != nil {
		return nil, err
	}

	w, h := detection.Diagonal(*a.Region)
	return &classifyResult{
		Bold:      bold,
		Width:     w,
		Height:    h,
		Ratio:     float64(h) / float64(w),
		Threshold: c.Threshold,
	}, nil
}

// === Records ===

type recordsArgs struct {
	Limit int `json:"limit"`
}

type recordsResult struct {
	Records []store.Record `json:"records"`
	Count   int            `json:"count"`
	Total   int64          `json:"total"`
}

func (s *Server) handleRecords(args json.RawMessage) (interface{}, error) {
	var a recordsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Limit < 0 {
		return nil, fmt.Errorf("limit must be >= 0")
	}

	st, err := store.Open(s.cfg.DatabasePath)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	ctx := context.Background()
	records, err := st.List(ctx, a.Limit)
	if err != nil {
		return nil, err
	}
	total, err := st.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &recordsResult{
		Records: records,
		Count:   len(records),
		Total:   total,
	}, nil
}

