package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "codeviz",
	Short: "Generate UML activity and sequence diagrams from flow analyses",
	Long: `Codeviz turns natural-language analyses of application flows into
rendered UML diagrams. It parses the analysis text into a structured
flow model, synthesizes PlantUML activity and sequence diagrams, and
renders them through a Kroki-compatible service. It can run as a batch
renderer, an HTTP chat server, or an MCP server for AI agents.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".codeviz.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
