package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agentgrowth/leadflow/internal/config"
	"github.com/agentgrowth/leadflow/internal/pipeline"
	"github.com/agentgrowth/leadflow/internal/ratelimit"
	"github.com/agentgrowth/leadflow/internal/resource"
	"github.com/agentgrowth/leadflow/internal/server"
	"github.com/agentgrowth/leadflow/internal/worker"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the intake API and background report workers",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cfg.Server.Port = resolvePort(servePort, cfg.Server.Port)
		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		limiter, err := initLimiter(st)
		if err != nil {
			return err
		}

		env, err := initDelivery()
		if err != nil {
			return err
		}
		for _, bucket := range []string{cfg.Storage.ReportsBucket, cfg.Storage.ResourcesBucket} {
			if err := env.Storage.EnsureBucket(ctx, bucket); err != nil {
				zap.L().Warn("storage bucket not verified", zap.String("bucket", bucket), zap.Error(err))
			}
		}

		pool := worker.New(worker.Config{
			Concurrency: cfg.Worker.Concurrency,
			QueueSize:   cfg.Worker.QueueSize,
			JobTimeout:  config.Seconds(cfg.Worker.JobTimeoutSecs),
		})

		leads := pipeline.New(st, limiter, pool, env.Renderer, env.Dispatcher)
		downloads, err := resource.New(st, env.Storage, cfg.Storage.ResourcesBucket, config.Seconds(cfg.Storage.SignedURLTTLSecs))
		if err != nil {
			return err
		}

		if pg, ok := limiter.(*ratelimit.Postgres); ok {
			go pruneLoop(ctx, pg, config.Seconds(cfg.RateLimit.WindowSecs))
		}

		handler := server.NewRouter(leads, downloads, server.Options{CORSOrigins: cfg.Server.CORSOrigins})
		drain := config.Seconds(cfg.Server.ShutdownSecs)
		runErr := server.Run(ctx, server.Config{
			Port:         cfg.Server.Port,
			ReadTimeout:  config.Seconds(cfg.Server.ReadTimeoutSecs),
			WriteTimeout: config.Seconds(cfg.Server.WriteTimeoutSecs),
		}, handler, drain)

		// Let queued reports finish before the store closes.
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), drain)
		defer cancel()
		if err := pool.Shutdown(shutdownCtx); err != nil {
			zap.L().Warn("worker pool did not drain", zap.Error(err))
		}
		stats := pool.Stats()
		zap.L().Info("worker pool stopped",
			zap.Int64("succeeded", stats.Succeeded),
			zap.Int64("failed", stats.Failed),
			zap.Int64("rejected", stats.Rejected),
		)

		return runErr
	},
}

// resolvePort returns the flag value if set, otherwise the config value.
func resolvePort(flagPort, cfgPort int) int {
	if flagPort != 0 {
		return flagPort
	}
	return cfgPort
}

// pruneLoop deletes expired rate-limit windows once per window.
func pruneLoop(ctx context.Context, pg *ratelimit.Postgres, every time.Duration) {
	if every <= 0 {
		every = ratelimit.DefaultWindow
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := pg.Prune(ctx)
			if err != nil {
				zap.L().Warn("rate limit prune failed", zap.Error(err))
				continue
			}
			zap.L().Debug("rate limit windows pruned", zap.Int64("rows", n))
		}
	}
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
