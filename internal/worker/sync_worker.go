package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"finbuddy/internal/amqp"
	"finbuddy/internal/sheets"
)

// SyncRecorder counts mirror outcomes.
type SyncRecorder interface {
	MirrorSynced(err error)
}

// SyncWorker applies ledger events from the broker to a spreadsheet mirror.
// Every event carries the full ledger, so only the newest one matters:
// events older than the last applied one are acknowledged and dropped.
type SyncWorker struct {
	mirror   sheets.LedgerMirror
	recorder SyncRecorder

	mu         sync.Mutex
	lastAt     time.Time
	lastRev    uint64
	applied    int
	skippedOld int
}

func NewSyncWorker(mirror sheets.LedgerMirror, recorder SyncRecorder) *SyncWorker {
	return &SyncWorker{mirror: mirror, recorder: recorder}
}

// HandleLedgerEvent mirrors ev unless a newer event was already applied.
// Ordering is by occurrence time, then revision, so a producer restart
// (which resets revisions) is still applied.
func (w *SyncWorker) HandleLedgerEvent(ctx context.Context, ev amqp.LedgerEvent) error {
	if w.isStale(ev) {
		w.mu.Lock()
		w.skippedOld++
		w.mu.Unlock()
		slog.InfoContext(ctx, "Skipping stale ledger event",
			"event_id", ev.ID,
			"revision", ev.Revision,
			"occurred_at", ev.OccurredAt)
		return nil
	}

	snap, err := ev.Snapshot()
	if err != nil {
		// Redelivery cannot fix a malformed payload.
		slog.ErrorContext(ctx, "Dropping malformed ledger event", "event_id", ev.ID, "error", err)
		return nil
	}

	err = w.mirror.Mirror(ctx, snap)
	if w.recorder != nil {
		w.recorder.MirrorSynced(err)
	}
	if err != nil {
		return fmt.Errorf("mirror revision %d: %w", ev.Revision, err)
	}

	w.mu.Lock()
	if !w.isStaleLocked(ev) {
		w.lastAt, w.lastRev = ev.OccurredAt, ev.Revision
	}
	w.applied++
	w.mu.Unlock()

	slog.InfoContext(ctx, "Applied ledger event",
		"event_id", ev.ID,
		"operation", ev.Op,
		"revision", ev.Revision,
		"expenses", len(ev.Expenses))
	return nil
}

func (w *SyncWorker) isStale(ev amqp.LedgerEvent) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.isStaleLocked(ev)
}

func (w *SyncWorker) isStaleLocked(ev amqp.LedgerEvent) bool {
	if w.lastAt.IsZero() {
		return false
	}
	if ev.OccurredAt.Before(w.lastAt) {
		return true
	}
	return ev.OccurredAt.Equal(w.lastAt) && ev.Revision <= w.lastRev
}

// Stats reports how many events were applied and how many were skipped as stale.
func (w *SyncWorker) Stats() (applied, skipped int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.applied, w.skippedOld
}
