package server

import (
	"encoding/json"
	"fmt"
	"image"

	"github.com/fairwaylabs/launchmeter/internal/detect"
	"github.com/fairwaylabs/launchmeter/internal/marker"
	"github.com/fairwaylabs/launchmeter/internal/overlay"
	"github.com/fairwaylabs/launchmeter/internal/raster"
	"github.com/fairwaylabs/launchmeter/internal/speed"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "track_markers", "decode_detections").
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
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Loads frames from cache as needed
//  4. Calls the appropriate pipeline operation
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Frame Operations
	case "frame_info":
		return s.handleFrameInfo(args)

	// Marker Tracking
	case "setup_markers":
		return s.handleSetupMarkers(args)
	case "track_markers":
		return s.handleTrackMarkers(args)
	case "reset_markers":
		return s.handleResetMarkers(args)
	case "marker_status":
		return s.handleMarkerStatus(args)

	// Detection
	case "decode_detections":
		return s.handleDecodeDetections(args)
	case "cluster_detections":
		return s.handleClusterDetections(args)

	// Calibration and Speed
	case "set_calibration":
		return s.handleSetCalibration(args)
	case "calculate_speed":
		return s.handleCalculateSpeed(args)
	case "convert_speed":
		return s.handleConvertSpeed(args)
	case "list_shots":
		return s.handleListShots(args)

	// Visualization
	case "render_overlay":
		return s.handleRenderOverlay(args)

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
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Frame Operation Handlers ===

type frameInfoArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleFrameInfo(args json.RawMessage) (interface{}, error) {
	var a frameInfoArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return raster.LoadFrameInfo(s.cache, a.Path)
}

// === Marker Tracking Handlers ===

type setupMarkersArgs struct {
	FramePath string `json:"frame_path"`
	Points    []struct {
		X int `json:"x"`
		Y int `json:"y"`
	} `json:"points"`
}

func (s *Server) handleSetupMarkers(args json.RawMessage) (interface{}, error) {
	var a setupMarkersArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	frame, err := s.cache.Load(a.FramePath)
	if err != nil {
		return nil, err
	}

	points := make([]image.Point, len(a.Points))
	for i, p := range a.Points {
		points[i] = image.Point{X: p.X, Y: p.Y}
	}
	if err := s.pipeline.SetupMarkers(points, frame); err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"configured": len(points),
		"markers":    s.pipeline.Markers(),
	}, nil
}

type trackMarkersArgs struct {
	FramePath string `json:"frame_path"`
}

func (s *Server) handleTrackMarkers(args json.RawMessage) (interface{}, error) {
	var a trackMarkersArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	frame, err := s.cache.Load(a.FramePath)
	if err != nil {
		return nil, err
	}

	results := s.pipeline.TrackMarkers(frame)
	if results == nil {
		return nil, fmt.Errorf("markers not configured; call setup_markers first")
	}

	found := 0
	for _, r := range results {
		if r.Found {
			found++
		}
	}
	return map[string]interface{}{
		"markers": results,
		"found":   found,
	}, nil
}

func (s *Server) handleResetMarkers(json.RawMessage) (interface{}, error) {
	s.pipeline.ResetMarkers()
	return map[string]interface{}{"reset": true}, nil
}

func (s *Server) handleMarkerStatus(json.RawMessage) (interface{}, error) {
	markers := s.pipeline.Markers()
	return map[string]interface{}{
		"configured": len(markers) > 0,
		"markers":    markers,
	}, nil
}

// === Detection Handlers ===

type decodeDetectionsArgs struct {
	Rows        [][]float64 `json:"rows"`
	ImageWidth  int         `json:"image_width"`
	ImageHeight int         `json:"image_height"`
}

func (s *Server) handleDecodeDetections(args json.RawMessage) (interface{}, error) {
	var a decodeDetectionsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.ImageWidth < 1 || a.ImageHeight < 1 {
		return nil, fmt.Errorf("image dimensions must be positive, got %dx%d", a.ImageWidth, a.ImageHeight)
	}

	detections, err := s.pipeline.Decode(a.Rows, a.ImageWidth, a.ImageHeight)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"detections": detections,
		"count":      len(detections),
		"discarded":  len(a.Rows) - len(detections),
	}, nil
}

type clusterDetectionsArgs struct {
	Detections []detect.Detection `json:"detections"`
}

func (s *Server) handleClusterDetections(args json.RawMessage) (interface{}, error) {
	var a clusterDetectionsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	clusters := s.pipeline.Cluster(a.Detections)
	return map[string]interface{}{
		"clusters": clusters,
		"count":    len(clusters),
	}, nil
}

// === Calibration and Speed Handlers ===

type setCalibrationArgs struct {
	PixelDiameter      float64 `json:"pixel_diameter"`
	PhysicalDiameterCM float64 `json:"physical_diameter_cm"`
}

func (s *Server) handleSetCalibration(args json.RawMessage) (interface{}, error) {
	var a setCalibrationArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.PhysicalDiameterCM == 0 {
		a.PhysicalDiameterCM = 4.27 // regulation golf ball
	}

	ratio, err := s.pipeline.SetCalibration(a.PixelDiameter, a.PhysicalDiameterCM)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"ratio_cm_per_px": ratio,
	}, nil
}

type calculateSpeedArgs struct {
	Samples []speed.Sample `json:"samples"`
	Unit    string         `json:"unit"`
}

func (s *Server) handleCalculateSpeed(args json.RawMessage) (interface{}, error) {
	var a calculateSpeedArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Unit == "" {
		a.Unit = speed.UnitMPS
	}

	mps := s.pipeline.CalculateSpeed(a.Samples)
	converted, err := speed.Convert(mps, a.Unit)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"speed_mps": mps,
		"speed":     converted,
		"unit":      a.Unit,
		"samples":   len(a.Samples),
	}, nil
}

type convertSpeedArgs struct {
	SpeedMPS float64 `json:"speed_mps"`
	Unit     string  `json:"unit"`
}

func (s *Server) handleConvertSpeed(args json.RawMessage) (interface{}, error) {
	var a convertSpeedArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	converted, err := speed.Convert(a.SpeedMPS, a.Unit)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"speed": converted,
		"unit":  a.Unit,
	}, nil
}

type listShotsArgs struct {
	Limit int `json:"limit"`
}

func (s *Server) handleListShots(args json.RawMessage) (interface{}, error) {
	var a listShotsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Limit == 0 {
		a.Limit = 20
	}

	shots, err := s.pipeline.RecentShots(a.Limit)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"shots": shots,
		"count": len(shots),
	}, nil
}

// === Visualization Handlers ===

type renderOverlayArgs struct {
	FramePath string           `json:"frame_path"`
	Clusters  []detect.Cluster `json:"clusters"`
}

func (s *Server) handleRenderOverlay(args json.RawMessage) (interface{}, error) {
	var a renderOverlayArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	frame, err := s.cache.Load(a.FramePath)
	if err != nil {
		return nil, err
	}

	// Current marker states render as crosshairs; a marker counts as found
	// while its quality is above zero.
	states := s.pipeline.Markers()
	markers := make([]marker.TrackResult, len(states))
	for i, m := range states {
		markers[i] = marker.TrackResult{
			Index:   m.Index,
			Found:   m.Quality > 0,
			X:       m.X,
			Y:       m.Y,
			Quality: m.Quality,
		}
	}

	return overlay.Render(frame, markers, a.Clusters)
}
