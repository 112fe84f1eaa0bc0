package clients

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidInput = errors.New("invalid input")

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
	Name  string
	Email string
	Phone string
	Notes string
}

func (in Input) normalize() (Input, error) {
	out := Input{
		Name:  strings.TrimSpace(in.Name),
		Email: strings.ToLower(strings.TrimSpace(in.Email)),
		Phone: strings.TrimSpace(in.Phone),
		Notes: strings.TrimSpace(in.Notes),
	}
	if out.Name == "" {
		return Input{}, fmt.Errorf("%w: nome required", ErrInvalidInput)
	}
	if out.Email != "" {
		if _, err := mail.ParseAddress(out.Email); err != nil {
			return Input{}, fmt.Errorf("%w: email inválido", ErrInvalidInput)
		}
	}
	return out, nil
}

func (s *Service) Create(ctx context.Context, createdBy string, in Input) (Client, error) {
	if strings.TrimSpace(createdBy) == "" {
		return Client{}, ErrInvalidInput
	}
	in, err := in.normalize()
	if err != nil {
		return Client{}, err
	}

	now := s.now()
	c := Client{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Notes:     in.Notes,
		CreatedBy: strings.TrimSpace(createdBy),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return Client{}, err
	}
	return c, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Client, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Client{}, ErrNotFound
	}
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Client{}, ErrNotFound
		}
		return Client{}, err
	}
	return c, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]Client, error) {
	filter.Query = strings.TrimSpace(filter.Query)
	return s.repo.List(ctx, filter)
}

// Update es reemplazo completo; preserva id, criadoPor y createdAt.
func (s *Service) Update(ctx context.Context, id string, in Input) (Client, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return Client{}, err
	}
	in, err = in.normalize()
	if err != nil {
		return Client{}, err
	}

	current.Name = in.Name
	current.Email = in.Email
	current.Phone = in.Phone
	current.Notes = in.Notes
	current.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, current); err != nil {
		return Client{}, err
	}
	return current, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, strings.TrimSpace(id))
}
