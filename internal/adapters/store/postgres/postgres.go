// Package postgres implements the template store on a pgx connection pool.
// Identifier uniqueness rides on the primary key constraint: the insert is a
// single statement and SQLSTATE 23505 is the duplicate signal, never a
// check-then-insert in application code.
package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"stencil/internal/models"
	"stencil/internal/ports"
)

type Store struct {
	db *pgxpool.Pool
}

func New(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Provider() string { return "postgres" }

func (s *Store) Insert(ctx context.Context, id string, content string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO templates (id, content)
		VALUES ($1,$2)
	`, id, content)

	if err != nil {
		if isUniqueViolation(err) {
			return ports.ErrDuplicateID
		}
		return err
	}
	return nil
}

func (s *Store) FindByID(ctx context.Context, id string) (*models.Template, error) {
	var t models.Template
	var content string

	err := s.db.QueryRow(ctx, `
		SELECT id, content, created_at
		FROM templates
		WHERE id=$1
	`, id).Scan(&t.ID, &content, &t.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ports.ErrTemplateNotFound
		}
		return nil, err
	}

	t.Content = json.RawMessage(content)
	return &t, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *Store) Close() error {
	s.db.Close()
	return nil
}

// isUniqueViolation returns true if the error is a PostgreSQL unique
// constraint violation. 23505 = unique_violation
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
