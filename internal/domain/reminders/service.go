package reminders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrBadState     = errors.New("invalid state")
)

// ValidationError lleva el campo y un mensaje legible; errors.Is(err, ErrInvalidInput) == true.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

func invalid(field, msg string) error { return &ValidationError{Field: field, Message: msg} }

// ClientDirectory evita importar el paquete clients (rompe ciclos).
type ClientDirectory interface {
	ContactOf(ctx context.Context, clientID string) (name, phone string, err error)
}

type Service struct {
	repo    Repository
	clients ClientDirectory
	now     func() time.Time
}

// NewService: clients puede ser nil (sin resolución de destinatario).
func NewService(repo Repository, clients ClientDirectory) *Service {
	return &Service{
		repo:    repo,
		clients: clients,
		now:     time.Now,
	}
}

type MedicationInput struct {
	Name           string
	Dosage         string
	FrequencyValue int
	FrequencyUnit  string
	StartsAt       time.Time
	EndsAt         time.Time
	Message        string
}

type CreateInput struct {
	Recipient   Recipient
	Medications []MedicationInput
	Notes       string

	// Active opcional: nil => se calcula a partir de los medicamentos.
	Active *bool
}

type UpdateInput struct {
	CreateInput

	// ExpectedVersion opcional (If-Match).
	ExpectedVersion *int
}

func (s *Service) Create(ctx context.Context, createdBy string, in CreateInput) (Reminder, error) {
	if strings.TrimSpace(createdBy) == "" {
		return Reminder{}, invalid("criadoPor", "required")
	}

	recipient, meds, err := s.prepare(ctx, in)
	if err != nil {
		return Reminder{}, err
	}

	now := s.now()
	next, active := Schedule(meds, now)
	if in.Active != nil && !*in.Active {
		active = false
	}

	r := Reminder{
		ID:             uuid.NewString(),
		Recipient:      recipient,
		Medications:    meds,
		Active:         active,
		NextOccurrence: next,
		Notes:          strings.TrimSpace(in.Notes),
		CreatedBy:      strings.TrimSpace(createdBy),
		CreatedAt:      now,
		UpdatedAt:      now,
		Version:        1,
	}

	if err := s.repo.Create(ctx, r); err != nil {
		return Reminder{}, err
	}
	return r, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Reminder, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Reminder{}, ErrNotFound
	}
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Reminder{}, notFound(err)
	}
	return r, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]Reminder, error) {
	return s.repo.List(ctx, filter)
}

// Update es un reemplazo completo: los medicamentos reciben ids nuevos,
// se preservan id / criadoPor / createdAt.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Reminder, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return Reminder{}, err
	}
	if in.ExpectedVersion != nil && *in.ExpectedVersion != current.Version {
		return Reminder{}, ErrConflict
	}

	recipient, meds, err := s.prepare(ctx, in.CreateInput)
	if err != nil {
		return Reminder{}, err
	}

	now := s.now()
	next, active := Schedule(meds, now)
	if in.Active != nil && !*in.Active {
		active = false
	}

	updated := current
	updated.Recipient = recipient
	updated.Medications = meds
	updated.Notes = strings.TrimSpace(in.Notes)
	updated.NextOccurrence = next
	updated.Active = active
	updated.UpdatedAt = now

	return s.save(ctx, updated)
}

// SetStatus activa/desactiva manualmente. Reactivar exige algún medicamento en ventana.
func (s *Service) SetStatus(ctx context.Context, id string, active bool) (Reminder, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return Reminder{}, err
	}

	now := s.now()
	updated := current
	if active {
		next, ok := Schedule(current.Medications, now)
		if !ok {
			return Reminder{}, fmt.Errorf("%w: no medication within its window", ErrBadState)
		}
		updated.NextOccurrence = next
	}
	updated.Active = active
	updated.UpdatedAt = now

	return s.save(ctx, updated)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err)
	}
	return nil
}

// save persiste con check-and-set y devuelve el reminder con la versión nueva.
func (s *Service) save(ctx context.Context, r Reminder) (Reminder, error) {
	if err := s.repo.Update(ctx, r); err != nil {
		return Reminder{}, err
	}
	r.Version++
	return r, nil
}

func (s *Service) prepare(ctx context.Context, in CreateInput) (Recipient, []Medication, error) {
	recipient, err := s.resolveRecipient(ctx, in.Recipient)
	if err != nil {
		return Recipient{}, nil, err
	}
	meds, err := buildMedications(in.Medications)
	if err != nil {
		return Recipient{}, nil, err
	}
	return recipient, meds, nil
}

func (s *Service) resolveRecipient(ctx context.Context, in Recipient) (Recipient, error) {
	out := Recipient{
		ClientID: strings.TrimSpace(in.ClientID),
		Name:     strings.TrimSpace(in.Name),
		Phone:    strings.TrimSpace(in.Phone),
	}

	if out.ClientID != "" && s.clients != nil {
		name, phone, err := s.clients.ContactOf(ctx, out.ClientID)
		if err != nil {
			return Recipient{}, invalid("destinatario.clienteId", "client not found")
		}
		if out.Name == "" {
			out.Name = strings.TrimSpace(name)
		}
		if out.Phone == "" {
			out.Phone = strings.TrimSpace(phone)
		}
	}

	if out.Name == "" {
		return Recipient{}, invalid("destinatario.nome", "required")
	}
	return out, nil
}

// buildMedications valida y asigna ids nuevos (los ids del request se ignoran).
func buildMedications(in []MedicationInput) ([]Medication, error) {
	if len(in) == 0 {
		return nil, invalid("medicamentos", "at least one medication is required")
	}

	out := make([]Medication, 0, len(in))
	for i, m := range in {
		field := func(name string) string { return fmt.Sprintf("medicamentos[%d].%s", i, name) }

		name := strings.TrimSpace(m.Name)
		if name == "" {
			return nil, invalid(field("nome"), "required")
		}
		unit, err := ParseUnit(m.FrequencyUnit)
		if err != nil {
			return nil, invalid(field("frequencia.unidade"), "must be minutos, horas or dias")
		}
		if m.FrequencyValue <= 0 {
			return nil, invalid(field("frequencia.valor"), "must be > 0")
		}
		if _, err := (Frequency{Value: m.FrequencyValue, Unit: unit}).Step(); err != nil {
			return nil, invalid(field("frequencia.valor"), "too large")
		}
		if m.StartsAt.IsZero() {
			return nil, invalid(field("dataInicio"), "required")
		}
		if m.EndsAt.IsZero() {
			return nil, invalid(field("dataFim"), "required")
		}
		if m.EndsAt.Before(m.StartsAt) {
			return nil, invalid(field("dataFim"), "must not be before dataInicio")
		}

		out = append(out, Medication{
			ID:        uuid.NewString(),
			Name:      name,
			Dosage:    strings.TrimSpace(m.Dosage),
			Frequency: Frequency{Value: m.FrequencyValue, Unit: unit},
			StartsAt:  m.StartsAt,
			EndsAt:    m.EndsAt,
			Message:   strings.TrimSpace(m.Message),
		})
	}
	return out, nil
}

func notFound(err error) error {
	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	return err
}
