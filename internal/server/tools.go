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
			Name:        "furniture_detect",
			Description: "Detect furniture (chair, couch, potted plant, bed, table, lamp, carpet) in an image and return labels, bounding boxes, confidences and center points.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "furniture_compare",
			Description: "Compare furniture placement in a room photo against a reference photo. Returns move suggestions such as \"chair: Adjust right\" and the room photo annotated with boxes and direction arrows.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"room_path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the photo of the user's room",
					},
					"reference_path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the reference layout photo",
					},
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional path to write the annotated image (.jpg or .png)",
					},
					"include_image": map[string]interface{}{
						"type":        "boolean",
						"description": "Include the annotated image as base64 in the result. Default true",
						"default":     true,
					},
					"format": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"jpeg", "png"},
						"description": "Encoding of the returned image. Default jpeg",
						"default":     "jpeg",
					},
				},
				"required": []string{"room_path", "reference_path"},
			},
		},
		{
			Name:        "furniture_vocabulary",
			Description: "List the furniture categories the advisor recognizes, with aliases, verbs and icons.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
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
