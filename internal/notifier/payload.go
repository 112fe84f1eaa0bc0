package notifier

import (
	"fmt"
	"strings"
	"time"

	"backoffice-api/internal/domain/reminders"
	"backoffice-api/internal/domain/webhooks"
)

// Payload es el sobre de todos los eventos salientes.
type Payload struct {
	Event     webhooks.EventType `json:"evento"`
	Timestamp time.Time          `json:"timestamp"`
	Data      any                `json:"dados"`
}

type recipientData struct {
	ClientID string `json:"clienteId,omitempty"`
	Name     string `json:"nome"`
	Phone    string `json:"telefone,omitempty"`
}

type frequencyData struct {
	Value int    `json:"valor"`
	Unit  string `json:"unidade"`
}

type medicationData struct {
	ID        string        `json:"id"`
	Name      string        `json:"nome"`
	Dosage    string        `json:"dosagem"`
	Frequency frequencyData `json:"frequencia"`
}

// ReminderFired son los dados de lembrete.disparado.
type ReminderFired struct {
	ReminderID string         `json:"lembreteId"`
	Recipient  recipientData  `json:"destinatario"`
	Medication medicationData `json:"medicamento"`
	Message    string         `json:"mensagem"`
	FiredAt    time.Time      `json:"horario"`
}

type testPing struct {
	WebhookID string `json:"webhookId"`
	Name      string `json:"nome"`
	Message   string `json:"mensagem"`
}

func reminderFired(r reminders.Reminder, m reminders.Medication, firedAt time.Time) ReminderFired {
	return ReminderFired{
		ReminderID: r.ID,
		Recipient: recipientData{
			ClientID: r.Recipient.ClientID,
			Name:     r.Recipient.Name,
			Phone:    r.Recipient.Phone,
		},
		Medication: medicationData{
			ID:     m.ID,
			Name:   m.Name,
			Dosage: m.Dosage,
			Frequency: frequencyData{
				Value: m.Frequency.Value,
				Unit:  string(m.Frequency.Unit),
			},
		},
		Message: Message(r.Recipient, m),
		FiredAt: firedAt,
	}
}

// Message devuelve la mensagem del medicamento o la generada por defecto.
func Message(to reminders.Recipient, m reminders.Medication) string {
	if msg := strings.TrimSpace(m.Message); msg != "" {
		return msg
	}
	if dosage := strings.TrimSpace(m.Dosage); dosage != "" {
		return fmt.Sprintf("Olá %s, está na hora de tomar %s (%s).", to.Name, m.Name, dosage)
	}
	return fmt.Sprintf("Olá %s, está na hora de tomar %s.", to.Name, m.Name)
}
