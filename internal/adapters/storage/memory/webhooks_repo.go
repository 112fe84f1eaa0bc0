package memory

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"backoffice-api/internal/domain/webhooks"
)

type webhookRepo struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]webhooks.Webhook
}

func NewWebhookRepo() webhooks.Repository {
	return &webhookRepo{
		byID: make(map[string]webhooks.Webhook),
	}
}

func (r *webhookRepo) Create(ctx context.Context, w webhooks.Webhook) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if w.ID == "" {
		return errors.New("webhook id required")
	}
	if _, exists := r.byID[w.ID]; exists {
		return errors.New("webhook already exists")
	}
	r.byID[w.ID] = cloneWebhook(w)
	r.order = append(r.order, w.ID)
	return nil
}

func (r *webhookRepo) Update(ctx context.Context, w webhooks.Webhook) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, exists := r.byID[w.ID]
	if !exists {
		return webhooks.ErrNotFound
	}
	// El bookkeeping de entregas solo lo toca RecordDelivery.
	w.LastFiredAt = cur.LastFiredAt
	w.LastStatus = cur.LastStatus
	r.byID[w.ID] = cloneWebhook(w)
	return nil
}

func (r *webhookRepo) GetByID(ctx context.Context, id string) (webhooks.Webhook, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	w, ok := r.byID[id]
	if !ok {
		return webhooks.Webhook{}, webhooks.ErrNotFound
	}
	return cloneWebhook(w), nil
}

func (r *webhookRepo) List(ctx context.Context, filter webhooks.ListFilter) ([]webhooks.Webhook, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]webhooks.Webhook, 0, len(r.order))
	for _, id := range r.order {
		if w := r.byID[id]; filter.Matches(w) {
			out = append(out, cloneWebhook(w))
		}
	}
	return out, nil
}

func (r *webhookRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return webhooks.ErrNotFound
	}
	delete(r.byID, id)
	r.order = removeID(r.order, id)
	return nil
}

func (r *webhookRepo) RecordDelivery(ctx context.Context, id string, at time.Time, status int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.byID[id]
	if !ok {
		return webhooks.ErrNotFound
	}
	w.LastFiredAt = &at
	w.LastStatus = status
	r.byID[id] = w
	return nil
}

func cloneWebhook(w webhooks.Webhook) webhooks.Webhook {
	w.Events = slices.Clone(w.Events)
	if w.LastFiredAt != nil {
		t := *w.LastFiredAt
		w.LastFiredAt = &t
	}
	return w
}
