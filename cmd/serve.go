package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/omarselim/codeviz/internal/analysis"
	"github.com/omarselim/codeviz/internal/archive"
	"github.com/omarselim/codeviz/internal/bundle"
	"github.com/omarselim/codeviz/internal/db"
	"github.com/omarselim/codeviz/internal/history"
	"github.com/omarselim/codeviz/internal/renderer"
	"github.com/omarselim/codeviz/internal/server"
	"github.com/omarselim/codeviz/internal/sessions"
	"github.com/omarselim/codeviz/internal/tickets"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the codeviz HTTP server",
	Long: `Starts the codeviz server with the REST API, chat WebSocket, ticket
tracking, and the diagram archive. Chat and question answering require a
configured LLM provider; diagram generation from prepared analysis text
works without one.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if servePort == 0 {
			servePort = cfg.Port
		}

		// Open database.
		dbPath := filepath.Join(cfg.DataDir, "codeviz.db")
		database, err := db.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		orchestrator := bundle.New(cfg.OutputDir, renderer.NewPlantUMLRenderer(cfg.RendererURL))
		archiveStore := archive.NewStore(database)
		ticketStore := tickets.NewStore(database)
		sessionStore := sessions.NewStore(database)

		// The chat engine and history index need an LLM provider and an
		// embedder; without credentials the server still runs with the
		// direct diagram API only.
		var (
			engine       *sessions.Engine
			historyStore *history.Store
		)
		llmProvider, err := createLLMProviderFromConfig(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: chat disabled: %v\n", err)
		} else {
			embedder, err := createEmbedderFromConfig(cfg)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: history search disabled: %v\n", err)
			} else {
				historyStore, err = history.New(filepath.Join(cfg.DataDir, "history"), embedder)
				if err != nil {
					return fmt.Errorf("opening history index: %w", err)
				}
			}

			engine = sessions.NewEngine(sessions.EngineConfig{
				Store:    sessionStore,
				Analyzer: analysis.NewGenerator(llmProvider, cfg.Model),
				Bundler:  orchestrator,
				Archive:  archiveStore,
				History:  historyStore,
				Tickets:  ticketStore,
				Provider: llmProvider,
				Model:    cfg.Model,
			})
		}

		srv := server.New(server.Config{
			Port:      servePort,
			OutputDir: cfg.OutputDir,
			AllowAll:  true,
		}, server.Deps{
			DB:           database,
			Engine:       engine,
			Orchestrator: orchestrator,
			Archive:      archiveStore,
			Tickets:      ticketStore,
			History:      historyStore,
		})

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			srv.Shutdown(context.Background())
		}()

		fmt.Fprintf(os.Stderr, "codeviz server v%s starting on port %d\n", Version, servePort)
		fmt.Fprintf(os.Stderr, "  Database: %s\n", dbPath)
		fmt.Fprintf(os.Stderr, "  Artifacts: %s\n", cfg.OutputDir)
		fmt.Fprintf(os.Stderr, "  Renderer: %s\n", cfg.RendererURL)

		return srv.Start()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
