package cli

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tessro/chorus/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the catalog proxy",
	Long: `Serve the search and track lookup endpoints:

  GET /api/search?q=<query>   every matching track with a preview
  GET /api/tracks/<id>        one track by catalog id
  GET /health                 liveness check

Responses are cached for server.cache_ttl seconds.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "listen address (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}

	handler := server.LoggingMiddleware(logger, server.NewHandler(newCatalog(cfg), logger))

	logger.Info().
		Str("addr", ln.Addr().String()).
		Str("catalog", cfg.Catalog.BaseURL).
		Str("country", cfg.Catalog.Country).
		Msg("serving")
	if !JSONOutput() {
		Normal("Listening", "http://"+ln.Addr().String())
	}

	timeout := time.Duration(cfg.Server.ReadHeaderTimeout) * time.Second
	return server.Serve(ctx, ln, handler, timeout, logger)
}
