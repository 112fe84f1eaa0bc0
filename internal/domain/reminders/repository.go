package reminders

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrConflict: la versión guardada no coincide con la esperada.
	ErrConflict = errors.New("version conflict")
)

// Repository mantiene el orden de inserción en List.
// Update es check-and-set: solo reemplaza si la versión guardada == r.Version,
// y guarda r.Version+1.
type Repository interface {
	Create(ctx context.Context, r Reminder) error
	Update(ctx context.Context, r Reminder) error
	GetByID(ctx context.Context, id string) (Reminder, error)
	List(ctx context.Context, filter ListFilter) ([]Reminder, error)
	Delete(ctx context.Context, id string) error
}

type ListFilter struct {
	Active   *bool
	ClientID string
}

// Matches aplica el filtro en memoria (usado por adapters sin query nativa).
func (f ListFilter) Matches(r Reminder) bool {
	if f.Active != nil && r.Active != *f.Active {
		return false
	}
	if f.ClientID != "" && r.Recipient.ClientID != f.ClientID {
		return false
	}
	return true
}
