package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"backoffice-api/internal/domain/reminders"
)

var _ reminders.Repository = (*RemindersRepo)(nil)

type RemindersRepo struct {
	db *sql.DB
}

func NewRemindersRepo(db *sql.DB) *RemindersRepo {
	return &RemindersRepo{db: db}
}

// medicationRow es la forma de cada medicamento dentro de lembretes.medicamentos (JSONB).
type medicationRow struct {
	ID       string    `json:"id"`
	Name     string    `json:"nome"`
	Dosage   string    `json:"dosagem"`
	Value    int       `json:"valor"`
	Unit     string    `json:"unidade"`
	StartsAt time.Time `json:"dataInicio"`
	EndsAt   time.Time `json:"dataFim"`
	Message  string    `json:"mensagem,omitempty"`
}

const reminderColumns = `
	id,
	destinatario_cliente_id, destinatario_nome, destinatario_telefone,
	medicamentos, ativo, proximo_envio,
	observacoes, criado_por,
	created_at, updated_at, versao
`

func (r *RemindersRepo) Create(ctx context.Context, rem reminders.Reminder) error {
	meds, err := encodeMedications(rem.Medications)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO lembretes (`+reminderColumns+`)
		VALUES ($1,$2,$3,$4,$5::jsonb,$6,$7,$8,$9,$10,$11,$12)
	`,
		rem.ID,
		rem.Recipient.ClientID,
		rem.Recipient.Name,
		rem.Recipient.Phone,
		meds,
		rem.Active,
		toNullTime(rem.NextOccurrence),
		rem.Notes,
		rem.CreatedBy,
		rem.CreatedAt,
		rem.UpdatedAt,
		rem.Version,
	)
	return err
}

// Update es check-and-set: solo escribe si versao == rem.Version y la incrementa.
func (r *RemindersRepo) Update(ctx context.Context, rem reminders.Reminder) error {
	meds, err := encodeMedications(rem.Medications)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE lembretes
		SET
			destinatario_cliente_id = $2,
			destinatario_nome = $3,
			destinatario_telefone = $4,
			medicamentos = $5::jsonb,
			ativo = $6,
			proximo_envio = $7,
			observacoes = $8,
			updated_at = $9,
			versao = versao + 1
		WHERE id = $1 AND versao = $10
	`,
		rem.ID,
		rem.Recipient.ClientID,
		rem.Recipient.Name,
		rem.Recipient.Phone,
		meds,
		rem.Active,
		toNullTime(rem.NextOccurrence),
		rem.Notes,
		rem.UpdatedAt,
		rem.Version,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		return nil
	}

	// 0 filas: o no existe o la versión cambió.
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM lembretes WHERE id = $1)`, rem.ID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return reminders.ErrNotFound
	}
	return reminders.ErrConflict
}

func (r *RemindersRepo) GetByID(ctx context.Context, id string) (reminders.Reminder, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return reminders.Reminder{}, reminders.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+reminderColumns+` FROM lembretes WHERE id = $1`, id)
	rem, err := scanReminder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return reminders.Reminder{}, reminders.ErrNotFound
		}
		return reminders.Reminder{}, err
	}
	return rem, nil
}

func (r *RemindersRepo) List(ctx context.Context, filter reminders.ListFilter) ([]reminders.Reminder, error) {
	sb := strings.Builder{}
	sb.WriteString(`SELECT ` + reminderColumns + ` FROM lembretes WHERE 1=1`)

	args := []any{}
	argN := 1

	if filter.Active != nil {
		sb.WriteString(fmt.Sprintf(" AND ativo = $%d", argN))
		args = append(args, *filter.Active)
		argN++
	}
	if strings.TrimSpace(filter.ClientID) != "" {
		sb.WriteString(fmt.Sprintf(" AND destinatario_cliente_id = $%d", argN))
		args = append(args, strings.TrimSpace(filter.ClientID))
	}

	// Orden de almacenamiento (inserción).
	sb.WriteString(" ORDER BY seq ASC")

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]reminders.Reminder, 0)
	for rows.Next() {
		rem, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rem)
	}
	return out, rows.Err()
}

func (r *RemindersRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM lembretes WHERE id = $1`, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return reminders.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReminder(s rowScanner) (reminders.Reminder, error) {
	var (
		rem  reminders.Reminder
		meds []byte
		next sql.NullTime
	)
	if err := s.Scan(
		&rem.ID,
		&rem.Recipient.ClientID,
		&rem.Recipient.Name,
		&rem.Recipient.Phone,
		&meds,
		&rem.Active,
		&next,
		&rem.Notes,
		&rem.CreatedBy,
		&rem.CreatedAt,
		&rem.UpdatedAt,
		&rem.Version,
	); err != nil {
		return reminders.Reminder{}, err
	}

	decoded, err := decodeMedications(meds)
	if err != nil {
		return reminders.Reminder{}, fmt.Errorf("lembrete %s: %w", rem.ID, err)
	}
	rem.Medications = decoded
	if next.Valid {
		t := next.Time
		rem.NextOccurrence = &t
	}
	return rem, nil
}

func encodeMedications(in []reminders.Medication) (string, error) {
	rows := make([]medicationRow, 0, len(in))
	for _, m := range in {
		rows = append(rows, medicationRow{
			ID:       m.ID,
			Name:     m.Name,
			Dosage:   m.Dosage,
			Value:    m.Frequency.Value,
			Unit:     string(m.Frequency.Unit),
			StartsAt: m.StartsAt,
			EndsAt:   m.EndsAt,
			Message:  m.Message,
		})
	}
	b, err := json.Marshal(rows)
	if err != nil {
		return "", fmt.Errorf("encode medicamentos: %w", err)
	}
	return string(b), nil
}

func decodeMedications(raw []byte) ([]reminders.Medication, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var rows []medicationRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("decode medicamentos: %w", err)
	}
	out := make([]reminders.Medication, 0, len(rows))
	for _, m := range rows {
		out = append(out, reminders.Medication{
			ID:     m.ID,
			Name:   m.Name,
			Dosage: m.Dosage,
			Frequency: reminders.Frequency{
				Value: m.Value,
				Unit:  reminders.Unit(m.Unit),
			},
			StartsAt: m.StartsAt,
			EndsAt:   m.EndsAt,
			Message:  m.Message,
		})
	}
	return out, nil
}

func toNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
