package server

import (
	"github.com/ironsheep/hough-tools-mcp/internal/config"
	"github.com/ironsheep/hough-tools-mcp/internal/imaging"
)

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// Argument groups shared by several tools. Names are config.Params JSON
// fields.
var (
	edgeArgs = []string{
		"orientation", "edge_method", "region", "blur_radius", "edge_level",
		"adaptive_offset", "erode_radius", "canny_low", "canny_high",
	}
	lineArgs = []string{
		"line_threshold", "angle_steps", "neighborhood", "convention", "max_votes",
	}
	segmentArgs = []string{"min_line_length", "max_line_gap"}
	circleArgs  = []string{
		"circle_threshold", "min_radius", "max_radius", "step_radius", "min_distance",
		"angle_steps", "vote_bounds", "radius_suppression", "max_votes",
	}
)

// paramSchema describes every config.Params field. Defaults are filled in
// from config.Defaults by schemaFor.
func paramSchema() map[string]map[string]interface{} {
	d := config.Defaults()
	prop := func(typ, desc string, def interface{}) map[string]interface{} {
		return map[string]interface{}{"type": typ, "description": desc, "default": def}
	}
	enum := func(desc string, def interface{}, values ...string) map[string]interface{} {
		m := prop("string", desc, def)
		m["enum"] = values
		return m
	}

	methods := make([]string, len(imaging.EdgeMethods))
	for i, m := range imaging.EdgeMethods {
		methods[i] = string(m)
	}
	modes := make([]string, len(config.Modes))
	for i, m := range config.Modes {
		modes[i] = string(m)
	}

	return map[string]map[string]interface{}{
		"mode":        enum("Detection to run", string(d.Mode), modes...),
		"orientation": enum("Camera orientation; auto derives it from the aspect ratio", string(d.Orientation), "auto", "landscape", "portrait"),

		"line_threshold":  prop("integer", "Minimum votes for a line (lowered by 1/5 for lanes and a further 1/3 for portrait frames)", d.LineThreshold),
		"min_line_length": prop("integer", "Shortest segment kept, in pixels", d.MinLineLength),
		"max_line_gap":    prop("integer", "Largest gap bridged inside one segment, in pixels", d.MaxLineGap),
		"angle_steps":     prop("integer", "Number of angle samples over the half turn (lines) or full turn (circles)", d.AngleSteps),
		"neighborhood":    prop("integer", "Half-width of the line peak suppression window", d.Neighborhood),
		"convention":      enum("Origin of ρ: the image center or the top-left corner", d.Convention, "centered", "corner"),

		"circle_threshold":   prop("integer", "Minimum votes for a circle center", d.CircleThreshold),
		"min_radius":         prop("integer", "Smallest radius searched", d.MinRadius),
		"max_radius":         prop("integer", "Largest radius searched; equal to min_radius for a known radius", d.MaxRadius),
		"step_radius":        prop("integer", "Radius step between layers", d.StepRadius),
		"min_distance":       prop("integer", "Minimum spacing between reported centers", d.MinDistance),
		"vote_bounds":        enum("Which centers an edge pixel may vote for", d.VoteBounds, "upper-left", "full-image"),
		"radius_suppression": enum("Whether detections on different radius layers suppress each other", d.RadiusSuppression, "per-layer", "across-layers"),

		"edge_method":     enum("How the frame is turned into an edge image", d.EdgeMethod, methods...),
		"region":          enum("Region of interest allowed to vote; auto follows orientation", d.Region, regionNames()...),
		"blur_radius":     prop("number", "Gaussian blur radius applied before segmentation (0 = none)", d.BlurRadius),
		"edge_level":      prop("integer", "Cut-off for the threshold and sobel methods (0-255)", d.EdgeLevel),
		"adaptive_offset": prop("number", "How much brighter than its local mean a pixel must be (adaptive)", d.AdaptiveOffset),
		"erode_radius":    prop("number", "Erosion radius after thresholding (0.5 = 2x2 window)", d.ErodeRadius),
		"canny_low":       prop("integer", "Canny low hysteresis threshold", d.CannyLow),
		"canny_high":      prop("integer", "Canny high hysteresis threshold", d.CannyHigh),

		"max_votes": prop("integer", "Work budget: edge pixels x angle steps x radius layers (0 = unlimited)", d.MaxVotes),
	}
}

func regionNames() []string {
	return []string{
		imaging.RegionAuto, imaging.RegionFull,
		imaging.RegionTopHalf, imaging.RegionBottomHalf, imaging.RegionLeftHalf, imaging.RegionRightHalf,
		imaging.RegionRightThird,
		imaging.RegionTopLeft, imaging.RegionTopRight, imaging.RegionBottomLeft, imaging.RegionBottomRight,
		imaging.RegionCenter,
	}
}

// schemaFor builds an input schema with a required path argument, the named
// parameter groups and any extra properties.
func schemaFor(extra map[string]interface{}, groups ...[]string) map[string]interface{} {
	all := paramSchema()
	props := map[string]interface{}{
		"path": map[string]interface{}{
			"type":        "string",
			"description": "Absolute path to the image file",
		},
	}
	for _, g := range groups {
		for _, name := range g {
			props[name] = all[name]
		}
	}
	for k, v := range extra {
		props[k] = v
	}
	return map[string]interface{}{
		"type":       "object",
		"properties": props,
		"required":   []string{"path"},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format, orientation and default region of interest. The image is cached for subsequent calls.",
			InputSchema: schemaFor(nil),
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: schemaFor(nil),
		},

		// Edge Extraction
		{
			Name:        "hough_edges",
			Description: "Extract the binary edge image that the Hough transforms vote from, as base64-encoded PNG, with the region of interest and edge pixel count.",
			InputSchema: schemaFor(nil, edgeArgs),
		},

		// Detection
		{
			Name:        "hough_detect_lines",
			Description: "Detect straight lines with the Hough line transform. Returns each line's angle, distance, votes and where it meets the image border.",
			InputSchema: schemaFor(nil, edgeArgs, lineArgs),
		},
		{
			Name:        "hough_detect_segments",
			Description: "Detect finite line segments by tracing edge pixels along each Hough line, splitting at gaps larger than max_line_gap.",
			InputSchema: schemaFor(nil, edgeArgs, lineArgs, segmentArgs),
		},
		{
			Name:        "hough_detect_circles",
			Description: "Detect circles with the Hough circle transform, for one known radius (min_radius = max_radius) or a range of radii.",
			InputSchema: schemaFor(nil, edgeArgs, circleArgs),
		},
		{
			Name:        "hough_detect_lanes",
			Description: "Detect the left and right lane lines of a road frame and estimate the horizon point where they meet.",
			InputSchema: schemaFor(nil, edgeArgs, lineArgs),
		},

		// Visualisation
		{
			Name:        "hough_accumulator",
			Description: "Render the Hough parameter space (line or circle accumulator) as a base64-encoded PNG heat map.",
			InputSchema: schemaFor(map[string]interface{}{
				"space": map[string]interface{}{
					"type":        "string",
					"description": "Parameter space to render",
					"enum":        []string{"lines", "circles"},
					"default":     "lines",
				},
				"colormap": map[string]interface{}{
					"type":        "string",
					"description": "gray for raw intensities, heat for a blue-to-yellow map",
					"enum":        []string{"gray", "heat"},
					"default":     "heat",
				},
			}, edgeArgs, lineArgs, circleArgs),
		},
		{
			Name:        "hough_annotate",
			Description: "Run a detection and return the image with the detections drawn on it as base64-encoded PNG, together with the detection result.",
			InputSchema: schemaFor(map[string]interface{}{
				"grid_spacing": map[string]interface{}{
					"type":        "integer",
					"description": "Draw a labelled coordinate grid every N pixels (0 = none)",
					"default":     0,
				},
				"output_path": map[string]interface{}{
					"type":        "string",
					"description": "Also save the annotated image to this path; the format follows the extension",
				},
			}, []string{"mode"}, edgeArgs, lineArgs, segmentArgs, circleArgs),
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
