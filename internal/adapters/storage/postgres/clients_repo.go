package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"backoffice-api/internal/domain/clients"
)

var _ clients.Repository = (*ClientsRepo)(nil)

type ClientsRepo struct {
	db *sql.DB
}

func NewClientsRepo(db *sql.DB) *ClientsRepo {
	return &ClientsRepo{db: db}
}

func (r *ClientsRepo) Create(ctx context.Context, c clients.Client) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO clientes (
			id, nome, email, telefone, observacoes,
			criado_por, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		c.ID,
		c.Name,
		c.Email,
		c.Phone,
		c.Notes,
		c.CreatedBy,
		c.CreatedAt,
		c.UpdatedAt,
	)
	return err
}

func (r *ClientsRepo) Update(ctx context.Context, c clients.Client) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE clientes
		SET
			nome = $2,
			email = $3,
			telefone = $4,
			observacoes = $5,
			updated_at = $6
		WHERE id = $1
	`,
		c.ID,
		c.Name,
		c.Email,
		c.Phone,
		c.Notes,
		c.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return clients.ErrNotFound
	}
	return nil
}

func (r *ClientsRepo) GetByID(ctx context.Context, id string) (clients.Client, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return clients.Client{}, clients.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, nome, email, telefone, observacoes, criado_por, created_at, updated_at
		FROM clientes
		WHERE id = $1
	`, id)

	var c clients.Client
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Notes, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return clients.Client{}, clients.ErrNotFound
		}
		return clients.Client{}, err
	}
	return c, nil
}

func (r *ClientsRepo) List(ctx context.Context, filter clients.ListFilter) ([]clients.Client, error) {
	query := `
		SELECT id, nome, email, telefone, observacoes, criado_por, created_at, updated_at
		FROM clientes
	`
	args := []any{}

	// q: búsqueda simple en nome / email / telefone
	if q := strings.TrimSpace(filter.Query); q != "" {
		query += ` WHERE (nome ILIKE $1 OR email ILIKE $1 OR telefone ILIKE $1)`
		args = append(args, "%"+q+"%")
	}
	query += ` ORDER BY seq ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]clients.Client, 0)
	for rows.Next() {
		var c clients.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Notes, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *ClientsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM clientes WHERE id = $1`, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return clients.ErrNotFound
	}
	return nil
}
