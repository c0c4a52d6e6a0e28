package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/trainware/module-content/pkg/modulecontent"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements modulecontent.Repository using PostgreSQL
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) *Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

// Error handling helper
func (r *Repository) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("module already exists")
		case "23503": // foreign_key_violation
			return fmt.Errorf("referenced module not found")
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return modulecontent.ErrModuleNotFound
	}

	return fmt.Errorf("database error in %s: %w", operation, err)
}

// CreateModule inserts the record; the bigserial column assigns the
// identifier, returned into module.ID.
func (r *Repository) CreateModule(ctx context.Context, module *modulecontent.Module) error {
	query := `
		INSERT INTO module (
			title, slug, kind, published, pass_marks, total_marks,
			linked_module_id, content, file_source, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`

	err := r.db.QueryRow(ctx, query,
		module.Title, module.Slug, module.Kind, module.Published,
		module.PassMarks, module.TotalMarks, module.LinkedModuleID,
		module.Content, module.FileSource, module.CreatedAt, module.UpdatedAt,
	).Scan(&module.ID)

	if err != nil {
		return r.handlePostgresError("create module", err)
	}

	return nil
}

// GetModule fetches a record by identifier.
func (r *Repository) GetModule(ctx context.Context, id int64) (*modulecontent.Module, error) {
	query := `
		SELECT id, title, slug, kind, published, pass_marks, total_marks,
		       linked_module_id, content, file_source, created_at, updated_at
		FROM module WHERE id = $1`

	var module modulecontent.Module
	err := r.db.QueryRow(ctx, query, id).Scan(
		&module.ID, &module.Title, &module.Slug, &module.Kind,
		&module.Published, &module.PassMarks, &module.TotalMarks,
		&module.LinkedModuleID, &module.Content, &module.FileSource,
		&module.CreatedAt, &module.UpdatedAt,
	)

	if err != nil {
		return nil, r.handlePostgresError("get module", err)
	}

	return &module, nil
}

// UpdateModule writes the mutable fields of an existing record.
func (r *Repository) UpdateModule(ctx context.Context, module *modulecontent.Module) error {
	query := `
		UPDATE module
		SET title = $2, slug = $3, kind = $4, published = $5,
		    pass_marks = $6, total_marks = $7, linked_module_id = $8,
		    content = $9, file_source = $10, updated_at = $11
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		module.ID, module.Title, module.Slug, module.Kind, module.Published,
		module.PassMarks, module.TotalMarks, module.LinkedModuleID,
		module.Content, module.FileSource, module.UpdatedAt,
	)

	if err != nil {
		return r.handlePostgresError("update module", err)
	}
	if tag.RowsAffected() == 0 {
		return modulecontent.ErrModuleNotFound
	}

	return nil
}
