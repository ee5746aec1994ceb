package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/omarselim/codeviz/internal/bundle"
	"github.com/omarselim/codeviz/internal/progress"
	"github.com/omarselim/codeviz/internal/renderer"
	"github.com/omarselim/codeviz/internal/scanner"
)

var (
	renderProject string
	renderOut     string
)

var renderCmd = &cobra.Command{
	Use:   "render [dir]",
	Short: "Render diagrams for every analysis file in a directory",
	Long: `Scans a directory for analysis text files (matching the configured
include/exclude globs), parses each into a flow model, and renders the
activity and sequence diagrams. File names of the form Class.method.md
determine the diagrammed class and method.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		root := "."
		if len(args) == 1 {
			root = args[0]
		}
		outputDir := cfg.OutputDir
		if renderOut != "" {
			outputDir = renderOut
		}

		files, err := scanner.Scan(scanner.Config{
			RootDir: root,
			Include: cfg.Include,
			Exclude: cfg.Exclude,
		})
		if err != nil {
			return err
		}
		if len(files) == 0 {
			fmt.Println("No analysis files found.")
			return nil
		}

		orchestrator := bundle.New(outputDir, renderer.NewPlantUMLRenderer(cfg.RendererURL))
		reporter := progress.NewReporter()
		reporter.Start(len(files))

		rendered, degraded := 0, 0
		for i, f := range files {
			reporter.Update(i+1, f.RelPath)

			text, err := os.ReadFile(f.Path)
			if err != nil {
				fmt.Fprintf(os.Stderr, "skipping %s: %v\n", f.RelPath, err)
				continue
			}

			className, methodName := targetFromFilename(f.RelPath)
			manifest := orchestrator.Generate(cmd.Context(), bundle.Request{
				Project:      renderProject,
				ClassName:    className,
				MethodName:   methodName,
				AnalysisText: string(text),
			})

			rendered += len(manifest.Links)
			if manifest.Notice != "" {
				degraded++
				if verbose {
					fmt.Fprintf(os.Stderr, "%s: %s\n", f.RelPath, manifest.Notice)
				}
			}
		}
		reporter.Finish()

		fmt.Printf("Rendered %d diagram(s) from %d analysis file(s) into %s\n", rendered, len(files), outputDir)
		if degraded > 0 {
			fmt.Printf("%d file(s) rendered with degraded output; rerun with --verbose for details.\n", degraded)
		}
		return nil
	},
}

// targetFromFilename derives the class and method names from an analysis
// file name like "OrderService.processOrder.md". A file without a method
// segment yields only a class name.
func targetFromFilename(relPath string) (className, methodName string) {
	base := filepath.Base(relPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	parts := strings.SplitN(base, ".", 2)
	className = parts[0]
	if len(parts) == 2 {
		methodName = parts[1]
	}
	return className, methodName
}

func init() {
	renderCmd.Flags().StringVar(&renderProject, "project", "", "project name used to group artifacts")
	renderCmd.Flags().StringVar(&renderOut, "out", "", "output directory (overrides config)")
	rootCmd.AddCommand(renderCmd)
}
