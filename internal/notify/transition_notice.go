package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/andeshealth/ipsalud/internal/events"
	"github.com/andeshealth/ipsalud/pkg/logging"
)

// TransitionNotice turns outbox transition events into emails for the
// clinic staff inbox. It implements events.DeliveryHandler.
type TransitionNotice struct {
	sender    EmailSender
	recipient string
	logger    *logging.Logger
}

// NewTransitionNotice creates the handler. recipient is the staff inbox
// that receives every transition.
func NewTransitionNotice(sender EmailSender, recipient string, logger *logging.Logger) *TransitionNotice {
	if logger == nil {
		logger = logging.Default()
	}
	return &TransitionNotice{
		sender:    sender,
		recipient: recipient,
		logger:    logger.Component("transition-notice"),
	}
}

// Handle delivers one outbox entry. Unknown event types are skipped
// without error so new producers don't wedge the outbox.
func (n *TransitionNotice) Handle(ctx context.Context, entry events.OutboxEntry) error {
	if entry.Type != events.TypeCitaTransition {
		n.logger.Debug("skipping unhandled event type", "type", entry.Type)
		return nil
	}
	if n.sender == nil || n.recipient == "" {
		return nil
	}

	var payload events.CitaTransitionPayload
	if err := json.Unmarshal(entry.Payload, &payload); err != nil {
		// A malformed payload can never succeed later; report it and
		// let the entry be marked delivered.
		n.logger.Error("malformed transition payload", "event_id", entry.ID, "error", err)
		return nil
	}

	msg := EmailMessage{
		To:      n.recipient,
		Subject: fmt.Sprintf("Cita %d: %s -> %s", payload.CitaID, payload.From, payload.To),
		Body: fmt.Sprintf(
			"La cita %d del paciente %d cambió de estado %s a %s el %s.",
			payload.CitaID, payload.PacienteID, payload.From, payload.To,
			payload.OccurredAt.Format("2006-01-02 15:04"),
		),
	}
	if err := n.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("notify: transition notice: %w", err)
	}
	return nil
}
