// Package service provides todo and authentication business logic,
// delegating persistence to repository interfaces.
package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ndavydov/gotodo/internal/models"
)

// TodoRepository defines the persistence operations required by the TodoService.
type TodoRepository interface {
	// Insert persists a new todo record.
	Insert(ctx context.Context, todo *models.Todo) error
	// GetAll fetches every stored todo.
	GetAll(ctx context.Context) ([]models.Todo, error)
	// GetByID fetches a todo by id, returning sql.ErrNoRows when absent.
	GetByID(ctx context.Context, id string) (*models.Todo, error)
	// UpdateByID applies the merged update fields in a single statement and
	// returns the updated row, or sql.ErrNoRows when absent.
	UpdateByID(ctx context.Context, id string, text *string, completed bool, completedAt *int64) (*models.Todo, error)
	// DeleteByID removes a todo and returns the deleted row, or sql.ErrNoRows
	// when absent.
	DeleteByID(ctx context.Context, id string) (*models.Todo, error)
}

// TodoService implements todo operations by delegating to a TodoRepository.
type TodoService struct {
	// repo performs the data-layer operations.
	repo TodoRepository
	// now supplies completion timestamps.
	now func() time.Time
}

// NewTodoService constructs a TodoService using the provided repository.
func NewTodoService(repo TodoRepository) *TodoService {
	return &TodoService{repo: repo, now: time.Now}
}

// Create trims and validates text, then persists a new todo for the creator.
// Whitespace-only text fails with ErrValidation and nothing is persisted.
func (s *TodoService) Create(ctx context.Context, text, creatorID string) (*models.Todo, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrValidation
	}

	todo := &models.Todo{
		ID:        uuid.NewString(),
		Text:      text,
		Completed: false,
		CreatorID: creatorID,
	}
	if err := s.repo.Insert(ctx, todo); err != nil {
		return nil, err
	}
	return todo, nil
}

// List returns every stored todo.
func (s *TodoService) List(ctx context.Context) ([]models.Todo, error) {
	return s.repo.GetAll(ctx)
}

// Get fetches a single todo by id.
func (s *TodoService) Get(ctx context.Context, id string) (*models.Todo, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	todo, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return todo, err
}

// Update derives the new persisted state of a todo from a partial update.
// A provided text replaces the stored text (trimmed); text that is empty
// after trimming fails with ErrValidation and nothing is persisted. A nil
// text keeps the stored value. Completed set to true stamps CompletedAt with
// the current time in epoch milliseconds. Completed absent or false resets
// both fields: omitting completed from a patch clears the completion state
// rather than keeping it.
func (s *TodoService) Update(ctx context.Context, id string, patch models.TodoPatch) (*models.Todo, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	text := patch.Text
	if text != nil {
		trimmed := strings.TrimSpace(*text)
		if trimmed == "" {
			return nil, ErrValidation
		}
		text = &trimmed
	}

	completed := patch.Completed != nil && *patch.Completed
	var completedAt *int64
	if completed {
		ms := s.now().UnixMilli()
		completedAt = &ms
	}

	todo, err := s.repo.UpdateByID(ctx, id, text, completed, completedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return todo, err
}

// Delete removes a todo by id and returns the deleted record.
func (s *TodoService) Delete(ctx context.Context, id string) (*models.Todo, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	todo, err := s.repo.DeleteByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return todo, err
}

// validateID rejects malformed identifiers before any store round-trip.
func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidID
	}
	return nil
}
