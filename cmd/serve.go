package cmd

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"clipcast/internal/publish"
	"clipcast/internal/publish/bilibili"
	"clipcast/internal/publish/youtube"
	"clipcast/internal/server"
	"clipcast/internal/storage"
	"clipcast/pkg/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the publishing API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	store, closeStore, err := buildStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	logger := slog.Default()
	router := publish.NewRouter(
		youtube.NewPipeline(youtube.NewClient(nil), store, logger),
		bilibili.NewPipeline(),
	)

	srv := server.New(router, store, cfg.APIKey, cfg.Storage.MediaPrefix, server.Defaults{
		CategoryID:  cfg.YouTube.CategoryID,
		Privacy:     cfg.YouTube.PrivacyStatus,
		DefaultTags: cfg.YouTube.DefaultTags,
	}, logger)

	return srv.ListenAndServe(ctx, cfg.Server.Addr)
}

func buildStore(ctx context.Context, cfg *config.Config) (storage.Store, func(), error) {
	if cfg.Storage.Provider == "gcs" {
		gcs, err := storage.NewGCS(ctx, cfg.GCSBucket)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("using GCS storage", "bucket", cfg.GCSBucket)
		return gcs, func() { _ = gcs.Close() }, nil
	}

	local := storage.NewLocal(cfg.Storage.LocalDir)
	if err := local.EnsureRoot(); err != nil {
		return nil, nil, err
	}
	slog.Info("using local storage", "dir", cfg.Storage.LocalDir)
	return local, func() {}, nil
}
