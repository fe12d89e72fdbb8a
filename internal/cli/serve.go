package cli

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/AlexSherTemplar/StaticCodeViewer/internal/analyzer"
	"github.com/AlexSherTemplar/StaticCodeViewer/internal/config"
	"github.com/AlexSherTemplar/StaticCodeViewer/internal/search"
	"github.com/AlexSherTemplar/StaticCodeViewer/internal/server"
	"github.com/AlexSherTemplar/StaticCodeViewer/internal/watcher"
)

var (
	serveAddr  string
	serveDepth int
	serveWatch bool
)

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve [dir]",
	Short: "Serve the graph API for the visualization front end",
	Long: `Serve analyzes a source tree and exposes the graph over HTTP:

  GET /api/graph                    the full node/edge graph
  GET /api/nodes/{id}/source        the source text a node spans
  GET /api/nodes/{id}/neighbors     edges touching a node
  GET /api/search?q=                full-text search
  GET /ws                           graph push channel (watch mode)

With --watch, file changes trigger a full re-analysis and every
websocket client receives the fresh graph.
`,
	Args: cobra.MaximumNArgs(1),
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	serveCmd.Flags().IntVarP(&serveDepth, "depth", "d", 0, "extraction depth (1-3, default from config)")
	serveCmd.Flags().BoolVarP(&serveWatch, "watch", "w", false, "re-analyze on file changes")
}

func runServe(cmd *cobra.Command, args []string) error {
	root, err := resolveRoot(args)
	if err != nil {
		return err
	}
	cfg, err := config.NewLoader(root).Load()
	if err != nil {
		return err
	}

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}
	depth := cfg.Analyze.Depth
	if serveDepth != 0 {
		depth = serveDepth
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	snap, err := buildSnapshot(root, cfg, depth)
	if err != nil {
		return err
	}
	searcher, err := search.New(ctx, snap.Result, snap.Explorer)
	if err != nil {
		snap.Close()
		return err
	}
	defer searcher.Close()

	srv := server.New(addr, snap, searcher)

	if serveWatch {
		discovery, err := ingestDiscovery(root, cfg)
		if err != nil {
			return err
		}
		w, err := watcher.New(root, cfg.Paths.Extensions, discovery.ShouldIgnore)
		if err != nil {
			return err
		}
		go func() {
			err := w.Start(ctx, func() {
				log.Println("change detected, re-analyzing")
				fresh, err := buildSnapshot(root, cfg, depth)
				if err != nil {
					log.Printf("re-analysis failed: %v", err)
					return
				}
				if err := searcher.Replace(ctx, fresh.Result, fresh.Explorer); err != nil {
					log.Printf("reindex failed: %v", err)
					fresh.Close()
					return
				}
				srv.Publish(fresh)
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("watcher stopped: %v", err)
			}
		}()
	}

	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// buildSnapshot runs one full analysis pass and wraps it for serving.
func buildSnapshot(root string, cfg *config.Config, depth int) (*server.Snapshot, error) {
	files, result, err := loadQuiet(root, cfg, depth)
	if err != nil {
		return nil, err
	}

	explorer, err := analyzer.NewExplorer(result, files)
	if err != nil {
		return nil, err
	}

	log.Println(result.Summary)
	return &server.Snapshot{Result: result, Explorer: explorer}, nil
}
