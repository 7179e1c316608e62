// Package events gives appointment transitions a reliable side-effect
// channel: transitions insert a row into a Postgres outbox in-band, and
// a poller delivers pending rows to downstream handlers out-of-band.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// TypeCitaTransition is the event emitted on every estado change.
const TypeCitaTransition = "cita.transicion.v1"

// CitaTransitionPayload is the body of a TypeCitaTransition event.
type CitaTransitionPayload struct {
	CitaID     int64     `json:"citaId"`
	PacienteID int64     `json:"pacienteId"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	OccurredAt time.Time `json:"occurredAt"`
}

// OutboxEntry represents a pending event.
type OutboxEntry struct {
	ID        uuid.UUID
	Type      string
	Payload   json.RawMessage
	CreatedAt time.Time
}

// DeliveryHandler emits events to downstream transports.
type DeliveryHandler interface {
	Handle(ctx context.Context, entry OutboxEntry) error
}
