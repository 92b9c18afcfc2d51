// Package cli provides the initialization steps shared by the finbuddy
// subcommands: logging, configuration, storage and optional integrations.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"finbuddy/internal/amqp"
	"finbuddy/internal/backend"
	"finbuddy/internal/chat"
	"finbuddy/internal/config"
	"finbuddy/internal/ledger"
	applog "finbuddy/internal/log"
	"finbuddy/internal/metrics"
	"finbuddy/internal/services"
	"finbuddy/internal/sheets"
	gsheets "finbuddy/internal/sheets/google"
	"finbuddy/internal/storage"
)

// SetupLogger installs the default logger. debug overrides level.
func SetupLogger(level string, debug bool) (*applog.Logger, error) {
	lvl, err := applog.ParseLevel(level)
	if debug {
		lvl, err = slog.LevelDebug, nil
	}
	logger := applog.Setup(lvl)
	return logger, err
}

// LedgerObservers returns the observers installed by every command that
// mutates the ledger: metrics, change logging and, when AMQP is configured,
// the event publisher. The returned client is nil without AMQP; otherwise
// the caller closes it.
func LedgerObservers(cfg *config.Config, m *metrics.Metrics, logger *applog.Logger) ([]ledger.Option, *amqp.Client, error) {
	sl := applog.NewStructuredLogger(logger.WithComponent(applog.ComponentLedger))
	opts := []ledger.Option{
		ledger.WithObserver(m),
		ledger.WithObserver(ledger.ObserverFunc(func(ctx context.Context, ev ledger.Event) {
			sl.LogLedgerChange(ctx, string(ev.Op), ev.Snapshot.Revision, len(ev.Snapshot.Expenses), ev.Snapshot.Budget.Cents)
		})),
	}
	if !cfg.AMQPEnabled() {
		return opts, nil, nil
	}
	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to AMQP: %w", err)
	}
	opts = append(opts, ledger.WithObserver(services.NewEventPublisher(client, m)))
	return opts, client, nil
}

// Env is the state every command that touches the ledger needs.
type Env struct {
	Store  storage.Store
	Keys   storage.Keys
	Ledger *ledger.Ledger

	cleanup backend.CleanupFunc
}

// Close releases the store.
func (e *Env) Close() error {
	if e.cleanup == nil {
		return nil
	}
	return e.cleanup()
}

// OpenLedger opens the configured store and loads the ledger from it.
func OpenLedger(ctx context.Context, cfg *config.Config, opts ...ledger.Option) (*Env, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	res, err := backend.NewFactory(slog.Default()).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, err
	}
	l, err := ledger.Load(ctx, res.Store, res.Keys, opts...)
	if err != nil {
		_ = res.Cleanup()
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	return &Env{Store: res.Store, Keys: res.Keys, Ledger: l, cleanup: res.Cleanup}, nil
}

// OpenMirror returns the spreadsheet mirror, or nil when none is configured.
func OpenMirror(ctx context.Context, cfg *config.Config) (sheets.LedgerMirror, error) {
	if !cfg.SheetsEnabled() {
		return nil, nil
	}
	m, err := gsheets.New(ctx, gsheets.Config{
		SpreadsheetID:      cfg.GoogleSpreadsheetID,
		SheetName:          cfg.GoogleSheetName,
		ServiceAccountJSON: cfg.GoogleServiceAccountJSON,
		ServiceAccountFile: cfg.GoogleServiceAccountFile,
	})
	if err != nil {
		return nil, fmt.Errorf("init sheets mirror: %w", err)
	}
	return m, nil
}

// NewResponder builds the chat responder from the configured rule file.
func NewResponder(cfg *config.Config) (*chat.Responder, error) {
	rules, err := chat.LoadRules(cfg.ChatRulesFile)
	if err != nil {
		return nil, err
	}
	return chat.NewResponder(rules,
		chat.WithTypingDelay(cfg.ChatTypingDelay),
		chat.WithRevealInterval(cfg.ChatRevealInterval),
	), nil
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
