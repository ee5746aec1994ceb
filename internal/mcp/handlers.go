package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/omarselim/codeviz/internal/bundle"
	"github.com/omarselim/codeviz/internal/flowmodel"
)

// handleGenerateDiagrams runs the full analysis-text to rendered-artifacts pipeline.
func (s *Server) handleGenerateDiagrams(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	analysisText, err := request.RequireString("analysis_text")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: analysis_text"), nil
	}

	req := bundle.Request{
		Project:      request.GetString("project", ""),
		ClassName:    request.GetString("class_name", ""),
		MethodName:   request.GetString("method_name", ""),
		AnalysisText: analysisText,
	}

	manifest := s.orchestrator.Generate(ctx, req)

	var b strings.Builder
	if len(manifest.Links) == 0 {
		b.WriteString("No diagrams could be rendered.")
	} else {
		fmt.Fprintf(&b, "Rendered %d diagram(s):\n", len(manifest.Links))
		for _, l := range manifest.Links {
			fmt.Fprintf(&b, "- %s: %s\n", l.Label, l.Path)
		}
	}
	if manifest.Notice != "" {
		b.WriteString("\n")
		b.WriteString(manifest.Notice)
	}

	return mcp.NewToolResultText(b.String()), nil
}

// handleExtractFlowModel parses the analysis text and returns the model as JSON.
func (s *Server) handleExtractFlowModel(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	analysisText, err := request.RequireString("analysis_text")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: analysis_text"), nil
	}

	model := flowmodel.Extract(analysisText)

	out, err := json.MarshalIndent(model, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding flow model: %v", err)), nil
	}

	return mcp.NewToolResultText(string(out)), nil
}
