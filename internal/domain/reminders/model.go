package reminders

import "time"

// Unit es la unidad de la frecuencia de un medicamento.
// @Enum minutos, horas, dias
type Unit string

const (
	UnitMinute Unit = "minutos"
	UnitHour   Unit = "horas"
	UnitDay    Unit = "dias"
)

type Frequency struct {
	Value int
	Unit  Unit
}

// Recipient es a quién se le envía el recordatorio.
// ClientID es opcional (referencia al módulo clientes).
type Recipient struct {
	ClientID string
	Name     string
	Phone    string
}

// Medication es un sub-item del recordatorio, con su propia frecuencia y ventana.
type Medication struct {
	ID     string
	Name   string
	Dosage string // texto libre: "2 comprimidos", "10ml"

	Frequency Frequency

	StartsAt time.Time
	EndsAt   time.Time

	// Message opcional; si está vacío se genera uno por defecto.
	Message string
}

// Reminder es el recordatorio de medicación de un destinatario.
// El reminder es dueño exclusivo de sus Medications.
type Reminder struct {
	ID string

	Recipient   Recipient
	Medications []Medication

	Active         bool
	NextOccurrence *time.Time

	Notes string

	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time

	// Version se incrementa en cada escritura (check-and-set en Update).
	Version int
}
