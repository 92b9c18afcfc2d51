package cmd

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"finbuddy/internal/auth"
	"finbuddy/internal/cache"
	"finbuddy/internal/charts"
	"finbuddy/internal/cli"
	apphttp "finbuddy/internal/http"
	"finbuddy/internal/metrics"
	"finbuddy/internal/middleware/ratelimit"
	"finbuddy/internal/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web UI",
	Long: `Serve the finbuddy web UI on PORT.

When AMQP_URL is set every ledger change is published for "finbuddy worker".
When only GOOGLE_SPREADSHEET_ID is set the ledger is mirrored in-process.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := validConfig()
	if err != nil {
		return err
	}
	ctx, stop := cli.SignalContext(cmd.Context())
	defer stop()

	m := metrics.New()
	opts, publisher, err := cli.LedgerObservers(cfg, m, logger)
	if err != nil {
		return err
	}
	if publisher != nil {
		defer publisher.Close()
		logger.Info("Publishing ledger events", "exchange", cfg.AMQPExchange)
	}

	env, err := cli.OpenLedger(ctx, cfg, opts...)
	if err != nil {
		return err
	}
	defer env.Close()
	m.Observe(env.Ledger.Snapshot())

	// Without a broker the server mirrors the spreadsheet itself.
	if publisher == nil {
		mirror, err := cli.OpenMirror(ctx, cfg)
		if err != nil {
			return err
		}
		if mirror != nil {
			pcfg := services.DefaultSyncProcessorConfig()
			pcfg.PollInterval = cfg.SyncInterval
			proc := services.NewSyncProcessor(env.Ledger, mirror, m, pcfg)
			if err := proc.Start(ctx); err != nil {
				return err
			}
			defer func() {
				stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				_ = proc.Stop(stopCtx)
			}()
		}
	}

	chartCache := cache.NewLRUCache[[]byte](32, 10*time.Minute)
	caches := cache.NewManager()
	caches.Register(chartCache)
	caches.Start(ctx, time.Minute)
	defer caches.Stop()

	chat, err := cli.NewResponder(cfg)
	if err != nil {
		return err
	}

	rl := ratelimit.DefaultConfig()
	rl.RequestsPerSecond = cfg.RateLimitRPS
	rl.Burst = cfg.RateLimitBurst

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Ledger:       env.Ledger,
		Store:        env.Store,
		Keys:         env.Keys,
		Auth:         auth.NewDemo(env.Store, env.Keys),
		Chat:         chat,
		Charts:       charts.NewCached(charts.NewRenderer(), chartCache),
		Metrics:      m,
		Logger:       logger,
		PreviewLimit: cfg.CSVPreviewLimit,
		RateLimit:    rl,

		TrustedProxies: cfg.TrustedProxies,
	})
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 60 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting finbuddy server", "port", cfg.Port, "backend", cfg.DataBackend)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "error", err, "port", cfg.Port)
			return err
		}
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
		return err
	}
	logger.Info("Server stopped gracefully")
	return nil
}
