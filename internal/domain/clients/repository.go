package clients

import (
	"context"
	"errors"
	"strings"
)

var ErrNotFound = errors.New("not found")

// Repository: List devuelve en orden de inserción.
type Repository interface {
	Create(ctx context.Context, c Client) error
	Update(ctx context.Context, c Client) error
	GetByID(ctx context.Context, id string) (Client, error)
	List(ctx context.Context, filter ListFilter) ([]Client, error)
	Delete(ctx context.Context, id string) error
}

type ListFilter struct {
	// Query busca (case-insensitive) en nombre, email y teléfono.
	Query string
}

func (f ListFilter) Matches(c Client) bool {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(c.Name), q) ||
		strings.Contains(strings.ToLower(c.Email), q) ||
		strings.Contains(c.Phone, q)
}
