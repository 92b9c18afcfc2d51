package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"finbuddy/internal/amqp"
	"finbuddy/internal/cli"
	"finbuddy/internal/metrics"
	"finbuddy/internal/sheets"
	sheetsmem "finbuddy/internal/sheets/memory"
	"finbuddy/internal/worker"
)

var workerMetricsAddr string

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Mirror published ledger events to the spreadsheet",
	Long: `Consume ledger events from AMQP and mirror the newest ledger to
Google Sheets. Without GOOGLE_SPREADSHEET_ID the events are applied to an
in-memory mirror, which is only useful to check the pipeline.`,
	Args: cobra.NoArgs,
	RunE: runWorker,
}

func init() {
	workerCmd.Flags().StringVar(&workerMetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9090)")
}

func runWorker(cmd *cobra.Command, _ []string) error {
	cfg, err := validConfig()
	if err != nil {
		return err
	}
	if !cfg.AMQPEnabled() {
		return errors.New("AMQP_URL is required for the worker")
	}
	ctx, stop := cli.SignalContext(cmd.Context())
	defer stop()

	var mirror sheets.LedgerMirror
	mirror, err = cli.OpenMirror(ctx, cfg)
	if err != nil {
		return err
	}
	if mirror == nil {
		logger.Warn("Google Sheets disabled - no GOOGLE_SPREADSHEET_ID provided, using in-memory mirror")
		mirror = sheetsmem.New()
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		return fmt.Errorf("connect to AMQP: %w", err)
	}
	defer client.Close()

	m := metrics.New()
	sw := worker.NewSyncWorker(mirror, m)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Worker consuming ledger events", "queue", cfg.AMQPQueue)
		return client.Consume(gctx, sw.HandleLedgerEvent)
	})
	if workerMetricsAddr != "" {
		srv := &http.Server{
			Addr:              workerMetricsAddr,
			Handler:           m.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		g.Go(func() error {
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	err = g.Wait()
	applied, skipped := sw.Stats()
	logger.Info("Worker stopped", "applied", applied, "skipped_stale", skipped)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
