package services

import (
	"context"
	"log/slog"

	"finbuddy/internal/amqp"
	"finbuddy/internal/ledger"
)

// EventSender is the broker side of the publisher.
type EventSender interface {
	Publish(ctx context.Context, ev amqp.LedgerEvent) error
}

// PublishRecorder counts publish outcomes.
type PublishRecorder interface {
	EventPublished(err error)
}

// EventPublisher forwards committed ledger changes to the broker. The
// ledger is already persisted when it runs, so failures are logged and
// counted but never surface to the caller.
type EventPublisher struct {
	sender   EventSender
	recorder PublishRecorder
}

var _ ledger.Observer = (*EventPublisher)(nil)

func NewEventPublisher(sender EventSender, recorder PublishRecorder) *EventPublisher {
	return &EventPublisher{sender: sender, recorder: recorder}
}

func (p *EventPublisher) LedgerChanged(ctx context.Context, ev ledger.Event) {
	if p.sender == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping ledger event",
			"operation", string(ev.Op))
		return
	}
	msg := amqp.NewLedgerEvent(ev)
	err := p.sender.Publish(ctx, msg)
	if p.recorder != nil {
		p.recorder.EventPublished(err)
	}
	if err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"event_id", msg.ID,
			"operation", msg.Op,
			"revision", msg.Revision,
			"error", err)
	}
}
