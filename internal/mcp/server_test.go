package mcp

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/omarselim/codeviz/internal/bundle"
)

type stubRenderer struct{}

func (stubRenderer) Render(_ context.Context, source string) ([]byte, error) {
	return []byte("PNG"), nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return NewServer(bundle.New(t.TempDir(), stubRenderer{}))
}

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		name     string
		tool     mcp.Tool
		wantName string
	}{
		{"generate_diagrams", generateDiagramsTool, "generate_diagrams"},
		{"extract_flow_model", extractFlowModelTool, "extract_flow_model"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.tool.Name != tt.wantName {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.wantName)
			}
			if tt.tool.Description == "" {
				t.Error("tool description should not be empty")
			}
		})
	}
}

func TestNewServer(t *testing.T) {
	srv := newTestServer(t)
	if srv == nil {
		t.Fatal("NewServer returned nil")
	}
	if srv.mcp == nil {
		t.Fatal("MCP server not initialized")
	}
	if srv.orchestrator == nil {
		t.Error("orchestrator not set correctly")
	}
}

func TestHandleGenerateDiagrams(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	t.Run("full request", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{
			"analysis_text": "**Involved Classes:** OrderService, OrderRepository",
			"class_name":    "OrderService",
			"method_name":   "processOrder",
			"project":       "billing",
		}

		result, err := srv.handleGenerateDiagrams(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}

		text := resultText(t, result)
		if !strings.Contains(text, "Sequence Diagram") || !strings.Contains(text, "Flow Diagram") {
			t.Errorf("expected both diagram links in output, got %q", text)
		}
	})

	t.Run("missing analysis text", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{}

		result, err := srv.handleGenerateDiagrams(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for missing analysis_text")
		}
	})
}

func TestHandleExtractFlowModel(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{
		"analysis_text": "**Involved Classes:** OrderService, OrderRepository\n\n**Execution Steps:**\n1. Validate the order\n2. Save the order",
	}

	result, err := srv.handleExtractFlowModel(ctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %v", result.Content)
	}

	text := resultText(t, result)
	if !strings.Contains(text, "OrderService") {
		t.Errorf("expected classes in model JSON, got %q", text)
	}
	if !strings.Contains(text, "Validate the order") {
		t.Errorf("expected steps in model JSON, got %q", text)
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("empty tool result")
	}
	tc, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("unexpected content type %T", result.Content[0])
	}
	return tc.Text
}
