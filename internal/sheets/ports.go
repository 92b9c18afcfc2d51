package sheets

import (
	"context"

	"finbuddy/internal/ledger"
)

// LedgerMirror receives the complete ledger state after a change and
// overwrites its copy with it. Mirrors are idempotent per revision.
type LedgerMirror interface {
	Mirror(ctx context.Context, snap ledger.Snapshot) error
}
