package reminders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backoffice-api/internal/platform/logger"
)

// Notifier entrega un disparo (reminder, medicamento). true si al menos un endpoint respondió 2xx.
// Los errores de entrega nunca salen del Notifier.
type Notifier interface {
	NotifyReminder(ctx context.Context, r Reminder, m Medication, firedAt time.Time) bool
}

// PassSummary es el resultado agregado de una pasada de procesamiento.
type PassSummary struct {
	Examined    int `json:"processados"`
	Advanced    int `json:"avancados"`
	Deactivated int `json:"desativados"`
	Due         int `json:"disparos"`
	Delivered   int `json:"entregues"`
	Failed      int `json:"falhas"`
	Skipped     int `json:"ignorados"`
	Errors      int `json:"erros"`

	RanAt time.Time `json:"executadoEm"`
}

type Processor struct {
	repo     Repository
	notifier Notifier
	log      logger.Logger
	now      func() time.Time
}

func NewProcessor(repo Repository, notifier Notifier, log logger.Logger) *Processor {
	if log == nil {
		log = logger.Nop()
	}
	return &Processor{
		repo:     repo,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

// Run ejecuta una pasada: selecciona los reminders vencidos en orden de
// almacenamiento, reclama cada uno persistiendo su estado avanzado
// (check-and-set) y recién después notifica. Si otra pasada ganó la
// escritura, el disparo se omite.
func (p *Processor) Run(ctx context.Context) (PassSummary, error) {
	now := p.now()
	sum := PassSummary{RanAt: now}

	active := true
	items, err := p.repo.List(ctx, ListFilter{Active: &active})
	if err != nil {
		return sum, fmt.Errorf("list reminders: %w", err)
	}

	for _, r := range items {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		if r.NextOccurrence != nil && r.NextOccurrence.After(now) {
			continue
		}
		sum.Examined++

		due := DueIn(r, now)
		advanced := Advance(r, now)

		if err := p.repo.Update(ctx, advanced); err != nil {
			if errors.Is(err, ErrConflict) || errors.Is(err, ErrNotFound) {
				sum.Skipped++
				p.log.Info("reminder claimed elsewhere", map[string]any{
					"reminder_id": r.ID,
					"version":     r.Version,
				})
				continue
			}
			sum.Errors++
			p.log.Error("advance reminder failed", map[string]any{
				"reminder_id": r.ID,
				"error":       err,
			})
			continue
		}

		sum.Advanced++
		if !advanced.Active {
			sum.Deactivated++
		}

		for _, d := range due {
			sum.Due++
			if p.notifier != nil && p.notifier.NotifyReminder(ctx, d.Reminder, d.Medication, now) {
				sum.Delivered++
				continue
			}
			sum.Failed++
		}
	}

	p.log.Info("processing pass finished", map[string]any{
		"examined":    sum.Examined,
		"advanced":    sum.Advanced,
		"deactivated": sum.Deactivated,
		"due":         sum.Due,
		"delivered":   sum.Delivered,
		"failed":      sum.Failed,
		"skipped":     sum.Skipped,
	})
	return sum, nil
}
