package notify

import (
	"context"
	"time"
)

// EventType identifica el evento que se entrega al despachador de notificaciones.
// La entrega en sí (push, email) vive fuera de este servicio.
type EventType string

const (
	EventAlertMatched     EventType = "alert.matched"
	EventAdoptionDecided  EventType = "adoption.decided"
	EventAdoptionReceived EventType = "adoption.received"
)

type Event struct {
	ID          string         `json:"id"`
	Type        EventType      `json:"type"`
	RecipientID string         `json:"recipient_id"`
	OccurredAt  time.Time      `json:"occurred_at"`
	Data        map[string]any `json:"data,omitempty"`
}

type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}

// Discard es el publisher por defecto cuando no hay broker configurado.
type Discard struct{}

func (Discard) Publish(context.Context, Event) error { return nil }
