package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/designfolio/designfolio/internal/config"
	"github.com/designfolio/designfolio/internal/content"
	"github.com/designfolio/designfolio/internal/logging"
	"github.com/designfolio/designfolio/internal/storage"
)

var rootCmd = &cobra.Command{
	Use:           "designfolio",
	Short:         "Design portfolio web server",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web server (default)",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(catalogCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	gin.SetMode(cfg.Mode)

	logger, err := logging.New(cfg.Mode)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	site, err := content.Load()
	if err != nil {
		return err
	}

	store, err := storage.Open(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer store.Close()

	srv := newServer(cfg, site, store, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting designfolio",
		zap.String("addr", cfg.Addr()),
		zap.String("mode", cfg.Mode),
		zap.String("data_dir", cfg.DataDir),
		zap.Int("projects", site.Projects.Len()))
	return srv.run(ctx)
}
