package server

import (
	"testing"

	"github.com/ironsheep/hough-tools-mcp/internal/config"
)

func toolByName(t *testing.T, name string) Tool {
	t.Helper()
	for _, tool := range GetToolDefinitions() {
		if tool.Name == name {
			return tool
		}
	}
	t.Fatalf("tool %s not found", name)
	return Tool{}
}

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	expectedTools := []string{
		"image_load",
		"image_dimensions",
		"hough_edges",
		"hough_detect_lines",
		"hough_detect_segments",
		"hough_detect_circles",
		"hough_detect_lanes",
		"hough_accumulator",
		"hough_annotate",
	}
	if len(tools) != len(expectedTools) {
		t.Errorf("Tool count: got %d, want %d", len(tools), len(expectedTools))
	}

	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		if _, dup := toolMap[tool.Name]; dup {
			t.Errorf("Duplicate tool %s", tool.Name)
		}
		toolMap[tool.Name] = tool
	}
	for _, name := range expectedTools {
		if _, ok := toolMap[name]; !ok {
			t.Errorf("Expected tool %s not found", name)
		}
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}
			if tool.InputSchema["type"] != "object" {
				t.Errorf("InputSchema type: got %v, want 'object'", tool.InputSchema["type"])
			}

			props, ok := tool.InputSchema["properties"].(map[string]interface{})
			if !ok {
				t.Fatal("properties should be a map")
			}
			for name, p := range props {
				prop, ok := p.(map[string]interface{})
				if !ok {
					t.Errorf("%s: property should be a map", name)
					continue
				}
				if prop["type"] == nil || prop["description"] == nil {
					t.Errorf("%s: property needs a type and a description", name)
				}
			}

			// Every tool works on an image file.
			required, ok := tool.InputSchema["required"].([]string)
			if !ok || len(required) != 1 || required[0] != "path" {
				t.Errorf("required: got %v, want [path]", tool.InputSchema["required"])
			}
		})
	}
}

func TestToolDefinitions_ParameterGroups(t *testing.T) {
	tests := []struct {
		tool    string
		present []string
		absent  []string
	}{
		{"image_load", []string{"path"}, []string{"line_threshold", "edge_method"}},
		{"hough_edges", []string{"edge_method", "region", "canny_low"}, []string{"line_threshold", "min_radius"}},
		{"hough_detect_lines", []string{"line_threshold", "convention", "neighborhood", "max_votes"}, []string{"min_line_length", "min_radius", "mode"}},
		{"hough_detect_segments", []string{"min_line_length", "max_line_gap"}, []string{"circle_threshold"}},
		{"hough_detect_circles", []string{"min_radius", "max_radius", "vote_bounds", "radius_suppression"}, []string{"line_threshold"}},
		{"hough_detect_lanes", []string{"line_threshold", "orientation"}, []string{"min_radius"}},
		{"hough_accumulator", []string{"space", "colormap", "line_threshold", "min_radius"}, []string{"mode"}},
		{"hough_annotate", []string{"mode", "grid_spacing", "output_path", "max_line_gap", "step_radius"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			props := toolByName(t, tt.tool).InputSchema["properties"].(map[string]interface{})
			for _, name := range tt.present {
				if _, ok := props[name]; !ok {
					t.Errorf("missing parameter %s", name)
				}
			}
			for _, name := range tt.absent {
				if _, ok := props[name]; ok {
					t.Errorf("unexpected parameter %s", name)
				}
			}
		})
	}
}

func TestToolDefinitions_Defaults(t *testing.T) {
	d := config.Defaults()
	props := toolByName(t, "hough_annotate").InputSchema["properties"].(map[string]interface{})

	defaults := map[string]interface{}{
		"mode":               "lines",
		"line_threshold":     70,
		"min_line_length":    100,
		"max_line_gap":       100,
		"angle_steps":        180,
		"circle_threshold":   45,
		"min_radius":         40,
		"max_radius":         40,
		"step_radius":        10,
		"min_distance":       25,
		"convention":         "centered",
		"vote_bounds":        "upper-left",
		"radius_suppression": "across-layers",
		"edge_method":        d.EdgeMethod,
		"region":             "auto",
		"max_votes":          int64(config.DefaultMaxVotes),
		"grid_spacing":       0,
	}
	for name, want := range defaults {
		prop, ok := props[name].(map[string]interface{})
		if !ok {
			t.Errorf("%s: parameter not found", name)
			continue
		}
		if got := prop["default"]; got != want {
			t.Errorf("%s: default got %v (%T), want %v (%T)", name, got, got, want, want)
		}
	}
}

func TestToolDefinitions_Enums(t *testing.T) {
	props := toolByName(t, "hough_annotate").InputSchema["properties"].(map[string]interface{})

	modes := props["mode"].(map[string]interface{})["enum"].([]string)
	if len(modes) != len(config.Modes) {
		t.Errorf("mode enum: got %v", modes)
	}

	regions := props["region"].(map[string]interface{})["enum"].([]string)
	found := false
	for _, r := range regions {
		if r == "right-third" {
			found = true
		}
	}
	if !found {
		t.Errorf("region enum missing right-third: %v", regions)
	}
}

func TestHandleToolsList(t *testing.T) {
	s := New()
	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
	}

	resp := s.handleToolsList(req)

	if resp == nil {
		t.Fatal("handleToolsList returned nil")
	}
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	toolsList, ok := result["tools"].([]Tool)
	if !ok {
		t.Fatal("tools should be a slice of Tool")
	}
	if len(toolsList) != len(GetToolDefinitions()) {
		t.Errorf("Tool count: got %d, want %d", len(toolsList), len(GetToolDefinitions()))
	}
}
