package webhooks

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("not found")

type Repository interface {
	Create(ctx context.Context, w Webhook) error
	Update(ctx context.Context, w Webhook) error
	GetByID(ctx context.Context, id string) (Webhook, error)
	List(ctx context.Context, filter ListFilter) ([]Webhook, error)
	Delete(ctx context.Context, id string) error

	// RecordDelivery actualiza solo ultimoDisparo / ultimoStatus.
	RecordDelivery(ctx context.Context, id string, at time.Time, status int) error
}

type ListFilter struct {
	Event  EventType
	Status Status
}

func (f ListFilter) Matches(w Webhook) bool {
	if f.Status != "" && w.Status != f.Status {
		return false
	}
	if f.Event != "" && !w.Subscribed(f.Event) {
		return false
	}
	return true
}
