// Package repository provides PostgreSQL persistence for todos and users.
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ndavydov/gotodo/internal/models"
)

// PostgresTodoRepository implements todo persistence against a PostgreSQL database.
type PostgresTodoRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresTodoRepository creates a new PostgresTodoRepository with the given
// database connection. db must be a valid *sql.DB connected to a PostgreSQL instance.
func NewPostgresTodoRepository(db *sql.DB) *PostgresTodoRepository {
	return &PostgresTodoRepository{DB: db}
}

// Insert persists a new todo record.
func (r *PostgresTodoRepository) Insert(ctx context.Context, todo *models.Todo) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO todos (id, text, completed, completed_at, creator_id)
		VALUES ($1, $2, $3, $4, $5)
	`, todo.ID, todo.Text, todo.Completed, todo.CompletedAt, todo.CreatorID)
	if err != nil {
		return fmt.Errorf("insert todo: %w", err)
	}
	return nil
}

// GetAll fetches every stored todo.
func (r *PostgresTodoRepository) GetAll(ctx context.Context) ([]models.Todo, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, text, completed, completed_at, creator_id FROM todos
	`)
	if err != nil {
		return nil, fmt.Errorf("select todos: %w", err)
	}
	defer rows.Close()

	var todos []models.Todo
	for rows.Next() {
		var t models.Todo
		if err := rows.Scan(&t.ID, &t.Text, &t.Completed, &t.CompletedAt, &t.CreatorID); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		todos = append(todos, t)
	}
	return todos, rows.Err()
}

// GetByID fetches a single todo by id. Returns sql.ErrNoRows when no todo
// with that id exists.
func (r *PostgresTodoRepository) GetByID(ctx context.Context, id string) (*models.Todo, error) {
	var t models.Todo
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, text, completed, completed_at, creator_id FROM todos WHERE id = $1
	`, id).Scan(&t.ID, &t.Text, &t.Completed, &t.CompletedAt, &t.CreatorID)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// UpdateByID applies the merged update fields to the todo with the given id
// in a single statement and returns the updated row. A nil text keeps the
// stored text. Returns sql.ErrNoRows when no todo with that id exists.
func (r *PostgresTodoRepository) UpdateByID(ctx context.Context, id string, text *string, completed bool, completedAt *int64) (*models.Todo, error) {
	var t models.Todo
	err := r.DB.QueryRowContext(ctx, `
		UPDATE todos
		   SET text = COALESCE($2, text), completed = $3, completed_at = $4
		 WHERE id = $1
		RETURNING id, text, completed, completed_at, creator_id
	`, id, text, completed, completedAt).Scan(&t.ID, &t.Text, &t.Completed, &t.CompletedAt, &t.CreatorID)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// DeleteByID removes the todo with the given id and returns the deleted row.
// Returns sql.ErrNoRows when no todo with that id exists.
func (r *PostgresTodoRepository) DeleteByID(ctx context.Context, id string) (*models.Todo, error) {
	var t models.Todo
	err := r.DB.QueryRowContext(ctx, `
		DELETE FROM todos WHERE id = $1
		RETURNING id, text, completed, completed_at, creator_id
	`, id).Scan(&t.ID, &t.Text, &t.Completed, &t.CompletedAt, &t.CreatorID)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
