package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"backoffice-api/internal/domain/webhooks"
)

var _ webhooks.Repository = (*WebhooksRepo)(nil)

type WebhooksRepo struct {
	db *sql.DB
}

func NewWebhooksRepo(db *sql.DB) *WebhooksRepo {
	return &WebhooksRepo{db: db}
}

const webhookColumns = `
	id, nome, url, segredo, eventos, status,
	criado_por, created_at, updated_at,
	ultimo_disparo, ultimo_status
`

func (r *WebhooksRepo) Create(ctx context.Context, w webhooks.Webhook) error {
	events, err := json.Marshal(w.Events)
	if err != nil {
		return fmt.Errorf("encode eventos: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO webhooks (`+webhookColumns+`)
		VALUES ($1,$2,$3,$4,$5::jsonb,$6,$7,$8,$9,$10,$11)
	`,
		w.ID,
		w.Name,
		w.URL,
		w.Secret,
		string(events),
		string(w.Status),
		w.CreatedBy,
		w.CreatedAt,
		w.UpdatedAt,
		toNullTime(w.LastFiredAt),
		w.LastStatus,
	)
	return err
}

// Update no toca ultimo_disparo / ultimo_status (ver RecordDelivery).
func (r *WebhooksRepo) Update(ctx context.Context, w webhooks.Webhook) error {
	events, err := json.Marshal(w.Events)
	if err != nil {
		return fmt.Errorf("encode eventos: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE webhooks
		SET
			nome = $2,
			url = $3,
			segredo = $4,
			eventos = $5::jsonb,
			status = $6,
			updated_at = $7
		WHERE id = $1
	`,
		w.ID,
		w.Name,
		w.URL,
		w.Secret,
		string(events),
		string(w.Status),
		w.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return webhooks.ErrNotFound
	}
	return nil
}

func (r *WebhooksRepo) GetByID(ctx context.Context, id string) (webhooks.Webhook, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return webhooks.Webhook{}, webhooks.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+webhookColumns+` FROM webhooks WHERE id = $1`, id)
	w, err := scanWebhook(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return webhooks.Webhook{}, webhooks.ErrNotFound
		}
		return webhooks.Webhook{}, err
	}
	return w, nil
}

func (r *WebhooksRepo) List(ctx context.Context, filter webhooks.ListFilter) ([]webhooks.Webhook, error) {
	sb := strings.Builder{}
	sb.WriteString(`SELECT ` + webhookColumns + ` FROM webhooks WHERE 1=1`)

	args := []any{}
	argN := 1

	if filter.Status != "" {
		sb.WriteString(fmt.Sprintf(" AND status = $%d", argN))
		args = append(args, string(filter.Status))
		argN++
	}
	if filter.Event != "" {
		// eventos es un array JSON de strings
		sb.WriteString(fmt.Sprintf(" AND eventos ? $%d", argN))
		args = append(args, string(filter.Event))
	}
	sb.WriteString(" ORDER BY seq ASC")

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]webhooks.Webhook, 0)
	for rows.Next() {
		w, err := scanWebhook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (r *WebhooksRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM webhooks WHERE id = $1`, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return webhooks.ErrNotFound
	}
	return nil
}

func (r *WebhooksRepo) RecordDelivery(ctx context.Context, id string, at time.Time, status int) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE webhooks SET ultimo_disparo = $2, ultimo_status = $3 WHERE id = $1
	`, id, at, status)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return webhooks.ErrNotFound
	}
	return nil
}

func scanWebhook(s rowScanner) (webhooks.Webhook, error) {
	var (
		w      webhooks.Webhook
		events []byte
		status string
		last   sql.NullTime
	)
	if err := s.Scan(
		&w.ID,
		&w.Name,
		&w.URL,
		&w.Secret,
		&events,
		&status,
		&w.CreatedBy,
		&w.CreatedAt,
		&w.UpdatedAt,
		&last,
		&w.LastStatus,
	); err != nil {
		return webhooks.Webhook{}, err
	}

	if len(events) > 0 {
		if err := json.Unmarshal(events, &w.Events); err != nil {
			return webhooks.Webhook{}, fmt.Errorf("webhook %s: decode eventos: %w", w.ID, err)
		}
	}
	w.Status = webhooks.Status(status)
	if last.Valid {
		t := last.Time
		w.LastFiredAt = &t
	}
	return w, nil
}
