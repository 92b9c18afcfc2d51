package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"finbuddy/internal/ledger"
	"finbuddy/internal/sheets"
)

// SnapshotSource is the ledger as seen by the processor.
type SnapshotSource interface {
	Revision() uint64
	Snapshot() ledger.Snapshot
}

// SyncRecorder counts mirror outcomes.
type SyncRecorder interface {
	MirrorSynced(err error)
}

type SyncProcessorConfig struct {
	// PollInterval is how often the ledger revision is checked (default: 10s).
	PollInterval time.Duration
	// MaxRetries bounds consecutive failed writes of one revision before it
	// is skipped until the next change (default: 3).
	MaxRetries int
}

func DefaultSyncProcessorConfig() SyncProcessorConfig {
	return SyncProcessorConfig{
		PollInterval: 10 * time.Second,
		MaxRetries:   3,
	}
}

// SyncProcessor mirrors the in-process ledger to a spreadsheet without a
// broker, polling for new revisions. It is used by `serve` when a
// spreadsheet is configured but AMQP is not.
type SyncProcessor struct {
	source   SnapshotSource
	mirror   sheets.LedgerMirror
	recorder SyncRecorder
	config   SyncProcessorConfig

	mu       sync.Mutex
	running  bool
	stopCh   chan struct{}
	doneCh   chan struct{}
	synced   uint64
	attempts int
	primed   bool
}

func NewSyncProcessor(source SnapshotSource, mirror sheets.LedgerMirror, recorder SyncRecorder, config SyncProcessorConfig) *SyncProcessor {
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultSyncProcessorConfig().PollInterval
	}
	if config.MaxRetries <= 0 {
		config.MaxRetries = DefaultSyncProcessorConfig().MaxRetries
	}
	return &SyncProcessor{source: source, mirror: mirror, recorder: recorder, config: config}
}

// Start begins the polling loop. Returns an error if already running.
func (p *SyncProcessor) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return fmt.Errorf("sync processor is already running")
	}
	p.running = true
	p.stopCh = make(chan struct{})
	p.doneCh = make(chan struct{})
	p.mu.Unlock()

	go p.runLoop(ctx)

	slog.InfoContext(ctx, "Sync processor started", "poll_interval", p.config.PollInterval)
	return nil
}

// Stop signals the loop and waits for it, or for ctx.
func (p *SyncProcessor) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	stopCh, doneCh := p.stopCh, p.doneCh
	p.mu.Unlock()

	close(stopCh)
	select {
	case <-doneCh:
		slog.InfoContext(ctx, "Sync processor stopped gracefully")
	case <-ctx.Done():
		slog.WarnContext(ctx, "Sync processor stop timed out")
		return ctx.Err()
	}

	p.mu.Lock()
	p.running = false
	p.mu.Unlock()
	return nil
}

func (p *SyncProcessor) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *SyncProcessor) runLoop(ctx context.Context) {
	defer close(p.doneCh)

	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	p.SyncOnce(ctx)
	for {
		select {
		case <-p.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.SyncOnce(ctx)
		}
	}
}

// SyncOnce writes the current snapshot if its revision has not been
// mirrored yet. The first call always writes, so the spreadsheet matches
// the ledger as loaded at startup. It reports whether a write happened.
func (p *SyncProcessor) SyncOnce(ctx context.Context) bool {
	p.mu.Lock()
	rev := p.source.Revision()
	if p.primed && rev == p.synced {
		p.mu.Unlock()
		return false
	}
	p.mu.Unlock()

	snap := p.source.Snapshot()
	err := p.mirror.Mirror(ctx, snap)
	if p.recorder != nil {
		p.recorder.MirrorSynced(err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.attempts++
		slog.ErrorContext(ctx, "Failed to mirror ledger",
			"revision", snap.Revision,
			"attempt", p.attempts,
			"error", err)
		if p.attempts >= p.config.MaxRetries {
			slog.WarnContext(ctx, "Giving up on ledger revision until next change",
				"revision", snap.Revision)
			p.synced, p.primed, p.attempts = snap.Revision, true, 0
		}
		return false
	}
	p.synced, p.primed, p.attempts = snap.Revision, true, 0
	return true
}
