package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/randofan/varsitylink/internal/api"
	"github.com/randofan/varsitylink/internal/matching"
	"github.com/randofan/varsitylink/internal/metrics"
	"github.com/randofan/varsitylink/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the marketplace API",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address (default :8080)")
	serveCmd.Flags().Bool("auto-migrate", true, "apply pending migrations before serving")

	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
	viper.BindPFlag("server.auto-migrate", serveCmd.Flags().Lookup("auto-migrate"))
}

func serve() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := newLogger()
	defer func() { _ = logger.Sync() }()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the varsitylink api", zap.String("version", version))

	if config.Server.AutoMigrate {
		backend, dsn, err := resolveDatabase(config.Database)
		if err != nil {
			logger.Fatal("resolving the database", zap.Error(err))
		}
		if _, err := store.Migrate(ctx, backend, dsn, store.LatestVersion, logger); err != nil {
			logger.Fatal("migrating the database", zap.Error(err))
		}
	}

	db, err := openStore(ctx, config.Database, logger)
	if err != nil {
		logger.Fatal("opening the database", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	registry, err := newRegistry(config.Drafts)
	if err != nil {
		logger.Fatal("registering draft kinds", zap.Error(err))
	}

	m := metrics.New()

	drafter, err := newDrafter(ctx, config.AI, registry, m, logger)
	switch {
	case errors.Is(err, errDraftsDisabled):
		logger.Warn("draft generation is disabled, /api/generate will answer 503")
	case err != nil:
		logger.Fatal("creating the drafter", zap.Error(err))
	}

	server := api.NewServer(api.Options{
		Store:    db,
		Scorer:   matching.Default(),
		Drafter:  drafter,
		Registry: registry,
		Metrics:  m,
		Logger:   logger,
	})

	httpServer := &http.Server{
		Addr:         config.Server.Addr,
		Handler:      server.Handler(),
		ReadTimeout:  config.Server.ReadTimeout,
		WriteTimeout: config.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down", zap.Duration("timeout", config.Server.ShutdownTimeout))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.Server.ShutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("serving", zap.Error(err))
	}

	logger.Info("stopped")
}
