package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/omarselim/codeviz/internal/bundle"
	mcpserver "github.com/omarselim/codeviz/internal/mcp"
	"github.com/omarselim/codeviz/internal/renderer"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long: `Starts a Model Context Protocol (MCP) server on stdio, exposing the
diagram pipeline as tools for AI agents like Claude Code.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		orchestrator := bundle.New(cfg.OutputDir, renderer.NewPlantUMLRenderer(cfg.RendererURL))

		mcpserver.Version = Version

		fmt.Fprintf(os.Stderr, "codeviz MCP server started on stdio (output=%s, renderer=%s)\n",
			cfg.OutputDir, cfg.RendererURL)

		srv := mcpserver.NewServer(orchestrator)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
