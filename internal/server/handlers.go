package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ironsheep/layout-advisor/internal/detection"
	"github.com/ironsheep/layout-advisor/internal/imaging"
	"github.com/ironsheep/layout-advisor/internal/suggest"
	"github.com/ironsheep/layout-advisor/internal/vocab"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "furniture_compare").
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

	result, err := s.executeTool(context.Background(), params.Name, params.Arguments)
	if err != nil {
		s.log.Warning("tool %s failed: %v", params.Name, err)
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
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "furniture_detect":
		return s.handleFurnitureDetect(ctx, args)
	case "furniture_compare":
		return s.handleFurnitureCompare(ctx, args)
	case "furniture_vocabulary":
		return s.handleFurnitureVocabulary()
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

type furnitureDetectArgs struct {
	Path string `json:"path"`
}

type furnitureDetectResult struct {
	Image      *imaging.ImageInfo `json:"image"`
	Detections detection.Set      `json:"detections"`
	Count      int                `json:"count"`
}

func (s *Server) handleFurnitureDetect(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a furnitureDetectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("path is required")
	}

	set, info, err := s.advisor.DetectFile(ctx, a.Path)
	if err != nil {
		return nil, err
	}
	return &furnitureDetectResult{Image: info, Detections: set, Count: len(set)}, nil
}

type furnitureCompareArgs struct {
	RoomPath      string `json:"room_path"`
	ReferencePath string `json:"reference_path"`
	OutputPath    string `json:"output_path"`
	IncludeImage  *bool  `json:"include_image"`
	Format        string `json:"format"`
}

type furnitureCompareResult struct {
	ID                  string                `json:"id"`
	Messages            []string              `json:"messages"`
	Suggestions         []suggest.Suggestion  `json:"suggestions"`
	RoomDetections      detection.Set         `json:"room_detections"`
	ReferenceDetections detection.Set         `json:"reference_detections"`
	AnnotatedPath       string                `json:"annotated_path,omitempty"`
	Annotated           *imaging.ImagePayload `json:"annotated_image,omitempty"`
}

func (s *Server) handleFurnitureCompare(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a furnitureCompareArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.RoomPath == "" || a.ReferencePath == "" {
		return nil, fmt.Errorf("room_path and reference_path are required")
	}
	format, err := imaging.ParseFormat(a.Format)
	if err != nil {
		return nil, err
	}

	analysis, err := s.advisor.CompareFiles(ctx, a.RoomPath, a.ReferencePath)
	if err != nil {
		return nil, err
	}

	result := &furnitureCompareResult{
		ID:                  analysis.ID,
		Messages:            analysis.Messages,
		Suggestions:         analysis.Suggestions,
		RoomDetections:      analysis.RoomDetections,
		ReferenceDetections: analysis.ReferenceDetections,
	}

	if a.OutputPath != "" {
		if err := imaging.Save(a.OutputPath, analysis.Annotated); err != nil {
			return nil, err
		}
		result.AnnotatedPath = a.OutputPath
	}

	if a.IncludeImage == nil || *a.IncludeImage {
		payload, err := imaging.EncodeBase64(analysis.Annotated, format)
		if err != nil {
			return nil, err
		}
		result.Annotated = payload
	}

	return result, nil
}

func (s *Server) handleFurnitureVocabulary() (interface{}, error) {
	var f vocab.File = s.advisor.Vocabulary().File()
	return f, nil
}
