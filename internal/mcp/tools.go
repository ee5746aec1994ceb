package mcp

import "github.com/mark3labs/mcp-go/mcp"

// generateDiagramsTool defines the generate_diagrams MCP tool.
var generateDiagramsTool = mcp.NewTool("generate_diagrams",
	mcp.WithDescription("Generate activity and sequence diagrams from a method flow analysis text. Writes PlantUML sources and rendered PNGs, and returns the artifact paths."),
	mcp.WithString("analysis_text",
		mcp.Required(),
		mcp.Description("The flow analysis text (markdown with Involved Classes, Execution Steps, Flow Logic, Sequence Interactions sections)"),
	),
	mcp.WithString("class_name",
		mcp.Description("Name of the class the analyzed method belongs to"),
	),
	mcp.WithString("method_name",
		mcp.Description("Name of the analyzed method"),
	),
	mcp.WithString("project",
		mcp.Description("Project name used to group artifacts on disk (default \"default\")"),
	),
)

// extractFlowModelTool defines the extract_flow_model MCP tool.
var extractFlowModelTool = mcp.NewTool("extract_flow_model",
	mcp.WithDescription("Parse a flow analysis text into its structured model (classes, steps, flow elements, interactions, exceptions) without rendering diagrams."),
	mcp.WithString("analysis_text",
		mcp.Required(),
		mcp.Description("The flow analysis text to parse"),
	),
)
