package memory

import (
	"context"
	"errors"
	"slices"
	"sync"

	"backoffice-api/internal/domain/reminders"
)

// reminderRepo guarda en orden de inserción; Update es check-and-set sobre Version.
type reminderRepo struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]reminders.Reminder
}

func NewReminderRepo() reminders.Repository {
	return &reminderRepo{
		byID: make(map[string]reminders.Reminder),
	}
}

func (r *reminderRepo) Create(ctx context.Context, rem reminders.Reminder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rem.ID == "" {
		return errors.New("reminder id required")
	}
	if _, exists := r.byID[rem.ID]; exists {
		return errors.New("reminder already exists")
	}
	r.byID[rem.ID] = cloneReminder(rem)
	r.order = append(r.order, rem.ID)
	return nil
}

func (r *reminderRepo) Update(ctx context.Context, rem reminders.Reminder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, exists := r.byID[rem.ID]
	if !exists {
		return reminders.ErrNotFound
	}
	if cur.Version != rem.Version {
		return reminders.ErrConflict
	}
	rem = cloneReminder(rem)
	rem.Version++
	r.byID[rem.ID] = rem
	return nil
}

func (r *reminderRepo) GetByID(ctx context.Context, id string) (reminders.Reminder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rem, ok := r.byID[id]
	if !ok {
		return reminders.Reminder{}, reminders.ErrNotFound
	}
	return cloneReminder(rem), nil
}

func (r *reminderRepo) List(ctx context.Context, filter reminders.ListFilter) ([]reminders.Reminder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]reminders.Reminder, 0, len(r.order))
	for _, id := range r.order {
		rem := r.byID[id]
		if filter.Matches(rem) {
			out = append(out, cloneReminder(rem))
		}
	}
	return out, nil
}

func (r *reminderRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return reminders.ErrNotFound
	}
	delete(r.byID, id)
	r.order = removeID(r.order, id)
	return nil
}

// cloneReminder evita compartir el slice de medicamentos ni el puntero de proximoEnvio con el caller.
func cloneReminder(rem reminders.Reminder) reminders.Reminder {
	rem.Medications = slices.Clone(rem.Medications)
	if rem.NextOccurrence != nil {
		t := *rem.NextOccurrence
		rem.NextOccurrence = &t
	}
	return rem
}

func removeID(order []string, id string) []string {
	if i := slices.Index(order, id); i >= 0 {
		return slices.Delete(order, i, i+1)
	}
	return order
}
