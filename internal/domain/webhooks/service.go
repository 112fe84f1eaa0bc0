package webhooks

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type Input struct {
	Name string
	URL  string

	// Secret: nil = no tocar (en update), "" = borrar.
	Secret *string

	Events []EventType
	Status Status
}

func (s *Service) Create(ctx context.Context, createdBy string, in Input) (Webhook, error) {
	if strings.TrimSpace(createdBy) == "" {
		return Webhook{}, ErrInvalidInput
	}

	w := Webhook{
		ID:        uuid.NewString(),
		CreatedBy: strings.TrimSpace(createdBy),
	}
	if err := apply(&w, in); err != nil {
		return Webhook{}, err
	}

	now := s.now()
	w.CreatedAt = now
	w.UpdatedAt = now

	if err := s.repo.Create(ctx, w); err != nil {
		return Webhook{}, err
	}
	return w, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Webhook, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Webhook{}, ErrNotFound
	}
	w, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Webhook{}, ErrNotFound
		}
		return Webhook{}, err
	}
	return w, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]Webhook, error) {
	return s.repo.List(ctx, filter)
}

// ListActiveByEvent devuelve los endpoints activos suscritos a ev.
func (s *Service) ListActiveByEvent(ctx context.Context, ev EventType) ([]Webhook, error) {
	return s.repo.List(ctx, ListFilter{Event: ev, Status: StatusActive})
}

// Update es reemplazo completo salvo el segredo (ver Input.Secret) y el bookkeeping de entregas.
func (s *Service) Update(ctx context.Context, id string, in Input) (Webhook, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return Webhook{}, err
	}

	updated := current
	if err := apply(&updated, in); err != nil {
		return Webhook{}, err
	}
	updated.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, updated); err != nil {
		return Webhook{}, err
	}
	return updated, nil
}

func (s *Service) SetStatus(ctx context.Context, id string, st Status) (Webhook, error) {
	st, err := parseStatus(st)
	if err != nil {
		return Webhook{}, err
	}
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return Webhook{}, err
	}

	current.Status = st
	current.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, current); err != nil {
		return Webhook{}, err
	}
	return current, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, strings.TrimSpace(id))
}

func (s *Service) RecordDelivery(ctx context.Context, id string, at time.Time, status int) error {
	return s.repo.RecordDelivery(ctx, id, at, status)
}

func apply(w *Webhook, in Input) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return fmt.Errorf("%w: nome required", ErrInvalidInput)
	}

	rawURL, err := validateURL(in.URL)
	if err != nil {
		return err
	}

	// Eventos: vacío => default útil (lembrete.disparado). Con valores: validación estricta.
	events := []EventType{EventReminderFired}
	if len(in.Events) > 0 {
		events, err = normalizeEventsStrict(in.Events)
		if err != nil {
			return err
		}
		if len(events) == 0 {
			return fmt.Errorf("%w: eventos required", ErrInvalidInput)
		}
	}

	st := StatusActive
	if in.Status != "" {
		st, err = parseStatus(in.Status)
		if err != nil {
			return err
		}
	}

	w.Name = name
	w.URL = rawURL
	w.Events = events
	w.Status = st
	if in.Secret != nil {
		w.Secret = strings.TrimSpace(*in.Secret)
	}
	return nil
}

func validateURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: url required", ErrInvalidInput)
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", fmt.Errorf("%w: url must be absolute http(s)", ErrInvalidInput)
	}
	return u.String(), nil
}

func parseStatus(st Status) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(string(st)))) {
	case StatusActive:
		return StatusActive, nil
	case StatusInactive:
		return StatusInactive, nil
	default:
		return "", fmt.Errorf("%w: status must be ativo or inativo", ErrInvalidInput)
	}
}

func normalizeEventsStrict(in []EventType) ([]EventType, error) {
	allowed := map[EventType]struct{}{
		EventReminderFired: {},
		EventTest:          {},
	}

	seen := map[EventType]struct{}{}
	out := make([]EventType, 0, len(in))

	for _, raw := range in {
		ev := EventType(strings.TrimSpace(string(raw)))
		if ev == "" {
			continue
		}
		if _, ok := allowed[ev]; !ok {
			return nil, fmt.Errorf("%w: unknown event %q", ErrInvalidInput, ev)
		}
		if _, ok := seen[ev]; ok {
			continue
		}
		seen[ev] = struct{}{}
		out = append(out, ev)
	}

	return out, nil
}
