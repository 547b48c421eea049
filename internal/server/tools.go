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
		// Frame Operations
		{
			Name:        "frame_info",
			Description: "Load a captured frame and return its dimensions, format and file size. The frame stays cached for subsequent operations.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the frame file (PNG, JPEG or GIF)",
					},
				},
				"required": []string{"path"},
			},
		},

		// Marker Tracking
		{
			Name:        "setup_markers",
			Description: "Capture the reference marker set from a frame. The points mark physical reference tags whose surroundings are fingerprinted with corner features; later frames are matched against these references to detect camera drift.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"frame_path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the setup frame",
					},
					"points": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"x": map[string]interface{}{"type": "integer"},
								"y": map[string]interface{}{"type": "integer"},
							},
							"required": []string{"x", "y"},
						},
						"description": "Marker positions in frame pixels; the count must match the configured marker count",
					},
				},
				"required": []string{"frame_path", "points"},
			},
		},
		{
			Name:        "track_markers",
			Description: "Re-locate every configured marker on a new frame. Each marker reports whether it was found, its position and a quality score that decays while the marker stays lost.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"frame_path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the frame to track on",
					},
				},
				"required": []string{"frame_path"},
			},
		},
		{
			Name:        "reset_markers",
			Description: "Discard the configured marker set, returning the tracker to its unconfigured state.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "marker_status",
			Description: "Report the current marker states (positions and quality) without tracking a new frame.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},

		// Detection
		{
			Name:        "decode_detections",
			Description: "Decode raw neural-detector output rows into labeled detections in original-image pixel coordinates. Rows are [cx, cy, w, h, objectness, class scores...] normalized to the model input; letterbox padding is undone and low-confidence rows are dropped.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"rows": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type":  "array",
							"items": map[string]interface{}{"type": "number"},
						},
						"description": "Raw detector rows",
					},
					"image_width": map[string]interface{}{
						"type":        "integer",
						"description": "Original frame width in pixels",
					},
					"image_height": map[string]interface{}{
						"type":        "integer",
						"description": "Original frame height in pixels",
					},
				},
				"required": []string{"rows", "image_width", "image_height"},
			},
		},
		{
			Name:        "cluster_detections",
			Description: "Merge near-duplicate detections of the same class into clusters. Overlapping boxes average into one confidence-weighted box; the cluster keeps the maximum member confidence.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"detections": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"label":       map[string]interface{}{"type": "string"},
								"class_index": map[string]interface{}{"type": "integer"},
								"confidence":  map[string]interface{}{"type": "number"},
								"box": map[string]interface{}{
									"type": "object",
									"properties": map[string]interface{}{
										"x":      map[string]interface{}{"type": "number"},
										"y":      map[string]interface{}{"type": "number"},
										"width":  map[string]interface{}{"type": "number"},
										"height": map[string]interface{}{"type": "number"},
									},
									"required": []string{"x", "y", "width", "height"},
								},
							},
							"required": []string{"label", "class_index", "confidence", "box"},
						},
						"description": "Detections to cluster, typically the output of decode_detections",
					},
				},
				"required": []string{"detections"},
			},
		},

		// Calibration and Speed
		{
			Name:        "set_calibration",
			Description: "Derive the centimeters-per-pixel scale from a reference object of known physical size, typically the ball itself.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"pixel_diameter": map[string]interface{}{
						"type":        "number",
						"description": "Measured diameter of the reference object in pixels (must be positive)",
					},
					"physical_diameter_cm": map[string]interface{}{
						"type":        "number",
						"description": "Real diameter in centimeters (default 4.27, a regulation golf ball)",
						"default":     4.27,
					},
				},
				"required": []string{"pixel_diameter"},
			},
		},
		{
			Name:        "calculate_speed",
			Description: "Compute the speed across a tracked trajectory using the current calibration. Only the first and last sample matter. Fewer than two samples or a non-increasing time span yields zero.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"samples": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"x":            map[string]interface{}{"type": "number"},
								"y":            map[string]interface{}{"type": "number"},
								"timestamp_ms": map[string]interface{}{"type": "integer"},
							},
							"required": []string{"x", "y", "timestamp_ms"},
						},
						"description": "Tracked positions with capture timestamps in milliseconds",
					},
					"unit": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"mps", "mph", "kmph", "kph"},
						"description": "Display unit for the converted speed (default mps)",
						"default":     "mps",
					},
				},
				"required": []string{"samples"},
			},
		},
		{
			Name:        "convert_speed",
			Description: "Convert a speed in meters per second to another display unit.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"speed_mps": map[string]interface{}{
						"type":        "number",
						"description": "Speed in meters per second",
					},
					"unit": map[string]interface{}{
						"type": "string",
						"enum": []string{"mps", "mph", "kmph", "kph"},
					},
				},
				"required": []string{"speed_mps", "unit"},
			},
		},
		{
			Name:        "list_shots",
			Description: "List recently persisted speed measurements, newest first. Returns nothing when no shot store is configured.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"limit": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum number of shots to return (default 20)",
						"default":     20,
					},
				},
			},
		},

		// Visualization
		{
			Name:        "render_overlay",
			Description: "Render the current marker positions and optional detection clusters onto a frame and return it as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"frame_path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the frame to draw on",
					},
					"clusters": map[string]interface{}{
						"type":        "array",
						"description": "Optional clusters to draw, typically the output of cluster_detections",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"label":      map[string]interface{}{"type": "string"},
								"confidence": map[string]interface{}{"type": "number"},
								"box": map[string]interface{}{
									"type": "object",
									"properties": map[string]interface{}{
										"x":      map[string]interface{}{"type": "number"},
										"y":      map[string]interface{}{"type": "number"},
										"width":  map[string]interface{}{"type": "number"},
										"height": map[string]interface{}{"type": "number"},
									},
								},
							},
						},
					},
				},
				"required": []string{"frame_path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
