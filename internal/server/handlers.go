package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/ironsheep/hough-tools-mcp/internal/config"
	"github.com/ironsheep/hough-tools-mcp/internal/detection"
	"github.com/ironsheep/hough-tools-mcp/internal/hough"
	"github.com/ironsheep/hough-tools-mcp/internal/imaging"
	"github.com/ironsheep/hough-tools-mcp/internal/render"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "hough_detect_lines").
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

	start := time.Now()
	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.log.Warn().Err(err).Str("tool", params.Name).Dur("elapsed", time.Since(start)).Msg("tool failed")
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}
	s.log.Info().Str("tool", params.Name).Dur("elapsed", time.Since(start)).Msg("tool call")

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
//  1. Splits its own arguments from the detection parameters
//  2. Layers the parameters over config.Defaults and validates them
//  3. Loads the frame from cache
//  4. Calls the appropriate detection/render function
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Edge Extraction
	case "hough_edges":
		return s.handleEdges(args)

	// Detection
	case "hough_detect_lines":
		return s.handleDetect(args, config.ModeLines)
	case "hough_detect_segments":
		return s.handleDetect(args, config.ModeSegments)
	case "hough_detect_circles":
		return s.handleDetect(args, config.ModeCircles)
	case "hough_detect_lanes":
		return s.handleDetect(args, config.ModeLanes)

	// Visualisation
	case "hough_accumulator":
		return s.handleAccumulator(args)
	case "hough_annotate":
		return s.handleAnnotate(args)

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

// decodeToolArgs decodes the tool's own arguments into dst and the rest
// into detection parameters. A non-empty mode overrides any mode argument.
func decodeToolArgs(raw json.RawMessage, dst interface{}, mode config.Mode) (config.Params, error) {
	m := map[string]interface{}{}
	if len(raw) > 0 && string(raw) != "null" {
		if err := json.Unmarshal(raw, &m); err != nil {
			return config.Params{}, err
		}
	}

	var md mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Metadata:         &md,
		Result:           dst,
	})
	if err != nil {
		return config.Params{}, err
	}
	if err := dec.Decode(m); err != nil {
		return config.Params{}, fmt.Errorf("decoding arguments: %w", err)
	}

	rest := make(map[string]interface{}, len(md.Unused))
	for _, k := range md.Unused {
		rest[k] = m[k]
	}

	p := config.Defaults()
	if err := p.Merge(rest); err != nil {
		return p, err
	}
	if mode != "" {
		p.Mode = mode
	}
	if err := p.Validate(); err != nil {
		return p, fmt.Errorf("invalid parameters: %w", err)
	}
	return p, nil
}

func requirePath(path string) error {
	if path == "" {
		return errors.New("path is required")
	}
	return nil
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if err := requirePath(a.Path); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if err := requirePath(a.Path); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Edge Extraction ===

// EdgesResult is the edge image the transforms vote from.
type EdgesResult struct {
	Region     detection.Bounds `json:"region"`
	EdgeMethod string           `json:"edge_method"`
	EdgePixels int              `json:"edge_pixels"`
	*render.ImageResult
}

// frameFor loads the image at path and prepares it for detection.
func (s *Server) frameFor(path string, p config.Params) (*detection.Frame, error) {
	if err := requirePath(path); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(path)
	if err != nil {
		return nil, err
	}
	return detection.Prepare(img, p)
}

func (s *Server) handleEdges(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	p, err := decodeToolArgs(args, &a, "")
	if err != nil {
		return nil, err
	}
	f, err := s.frameFor(a.Path, p)
	if err != nil {
		return nil, err
	}
	img, err := render.NewImageResult(f.Edges.Gray())
	if err != nil {
		return nil, err
	}
	return &EdgesResult{
		Region:      detection.BoundsOf(f.Region),
		EdgeMethod:  p.EdgeMethod,
		EdgePixels:  f.Edges.Count(),
		ImageResult: img,
	}, nil
}

// === Detection ===

func (s *Server) handleDetect(args json.RawMessage, mode config.Mode) (interface{}, error) {
	var a imageLoadArgs
	p, err := decodeToolArgs(args, &a, mode)
	if err != nil {
		return nil, err
	}
	f, err := s.frameFor(a.Path, p)
	if err != nil {
		return nil, err
	}
	res, err := f.Detect()
	if err != nil {
		return nil, err
	}
	s.log.Debug().
		Str("path", a.Path).
		Str("mode", string(mode)).
		Int("detections", res.Count()).
		Msg("detected")
	return res, nil
}

// === Visualisation ===

type accumulatorArgs struct {
	Path     string `json:"path"`
	Space    string `json:"space"`
	Colormap string `json:"colormap"`
}

// AccumulatorResult describes a rendered parameter space.
type AccumulatorResult struct {
	Space string `json:"space"`

	// Dims are the accumulator dimensions: angle × ρ for lines, width ×
	// height (× radius layers) for circles.
	Dims       []int `json:"dims"`
	Radii      []int `json:"radii,omitempty"`
	MaxVotes   int   `json:"max_votes"`
	TotalVotes int64 `json:"total_votes"`
	Dropped    int64 `json:"dropped_votes"`
	*render.ImageResult
}

func (s *Server) handleAccumulator(args json.RawMessage) (interface{}, error) {
	var a accumulatorArgs
	p, err := decodeToolArgs(args, &a, "")
	if err != nil {
		return nil, err
	}
	if a.Space == "" {
		a.Space = "lines"
	}
	if a.Colormap == "" {
		a.Colormap = "heat"
	}
	if a.Colormap != "heat" && a.Colormap != "gray" {
		return nil, fmt.Errorf("unknown colormap %q", a.Colormap)
	}

	f, err := s.frameFor(a.Path, p)
	if err != nil {
		return nil, err
	}

	out := &AccumulatorResult{Space: a.Space}
	var acc *hough.Accumulator
	switch a.Space {
	case "lines":
		ls, err := f.LineSpace()
		if err != nil {
			return nil, err
		}
		acc = ls.Accumulator()
		out.Dropped = ls.Dropped()
	case "circles":
		cs, err := f.CircleSpace()
		if err != nil {
			return nil, err
		}
		acc = cs.Accumulator()
		out.Radii = cs.Radii()
		out.Dropped = cs.Dropped()
	default:
		return nil, fmt.Errorf("unknown space %q", a.Space)
	}

	out.Dims = acc.Dims()
	out.MaxVotes = acc.Max()
	out.TotalVotes = acc.Total()
	if a.Colormap == "gray" {
		out.ImageResult, err = render.NewImageResult(render.AccumulatorImage(acc))
	} else {
		out.ImageResult, err = render.NewImageResult(render.Heatmap(acc))
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

type annotateArgs struct {
	Path        string `json:"path"`
	GridSpacing int    `json:"grid_spacing"`
	OutputPath  string `json:"output_path"`
}

// AnnotateResult is a detection together with its rendering.
type AnnotateResult struct {
	Result     *detection.Result `json:"result"`
	OutputPath string            `json:"output_path,omitempty"`
	*render.ImageResult
}

func (s *Server) handleAnnotate(args json.RawMessage) (interface{}, error) {
	var a annotateArgs
	p, err := decodeToolArgs(args, &a, "")
	if err != nil {
		return nil, err
	}
	if a.GridSpacing < 0 {
		return nil, fmt.Errorf("grid_spacing must be >= 0, got %d", a.GridSpacing)
	}
	f, err := s.frameFor(a.Path, p)
	if err != nil {
		return nil, err
	}
	res, err := f.Detect()
	if err != nil {
		return nil, err
	}

	style := render.DefaultStyle()
	style.GridSpacing = a.GridSpacing
	img, err := render.Overlay(f.Image, render.FromResult(res), style)
	if err != nil {
		return nil, err
	}
	if a.OutputPath != "" {
		if err := imaging.Save(img, a.OutputPath); err != nil {
			return nil, err
		}
		s.log.Info().Str("path", a.OutputPath).Msg("saved annotated image")
	}
	enc, err := render.NewImageResult(img)
	if err != nil {
		return nil, err
	}
	return &AnnotateResult{Result: res, OutputPath: a.OutputPath, ImageResult: enc}, nil
}
