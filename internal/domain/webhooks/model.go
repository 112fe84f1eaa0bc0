package webhooks

import "time"

// EventType es el tipo de evento al que se suscribe un endpoint.
// @Enum lembrete.disparado, webhook.teste
type EventType string

const (
	EventReminderFired EventType = "lembrete.disparado"
	EventTest          EventType = "webhook.teste"
)

// @Enum ativo, inativo
type Status string

const (
	StatusActive   Status = "ativo"
	StatusInactive Status = "inativo"
)

// Webhook es un endpoint externo registrado para recibir eventos.
type Webhook struct {
	ID string

	Name string
	URL  string

	// Secret es write-only hacia afuera (la API solo expone si existe).
	Secret string

	Events []EventType
	Status Status

	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time

	// Bookkeeping informativo de la última entrega.
	LastFiredAt *time.Time
	LastStatus  int
}

func (w Webhook) Subscribed(ev EventType) bool {
	for _, e := range w.Events {
		if e == ev {
			return true
		}
	}
	return false
}

// Attempt es el resultado de una entrega a un endpoint (un solo intento).
type Attempt struct {
	WebhookID string // vacío para el endpoint por defecto
	URL       string
	Event     EventType

	StatusCode int
	Err        error

	StartedAt time.Time
	Duration  time.Duration
}

func (a Attempt) Success() bool {
	return a.Err == nil && a.StatusCode >= 200 && a.StatusCode < 300
}
