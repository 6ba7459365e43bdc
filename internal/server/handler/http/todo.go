package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndavydov/gotodo/internal/middleware"
	"github.com/ndavydov/gotodo/internal/models"
	"github.com/ndavydov/gotodo/internal/service"
)

// TodoService defines the interface for todo operations required by the
// TodoHandler.
type TodoService interface {
	// Create persists a new todo for the creator.
	Create(ctx context.Context, text, creatorID string) (*models.Todo, error)
	// List returns every stored todo.
	List(ctx context.Context) ([]models.Todo, error)
	// Get fetches a single todo by id.
	Get(ctx context.Context, id string) (*models.Todo, error)
	// Update applies a partial update to a todo.
	Update(ctx context.Context, id string, patch models.TodoPatch) (*models.Todo, error)
	// Delete removes a todo and returns the deleted record.
	Delete(ctx context.Context, id string) (*models.Todo, error)
}

// TodoHandler handles HTTP requests for todos.
type TodoHandler struct {
	TodoService TodoService
}

// CreateTodoRequest represents the JSON payload for creating a todo.
type CreateTodoRequest struct {
	Text string `json:"text"`
}

// Create handles POST /api/todos.
func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	todo, err := h.TodoService.Create(r.Context(), req.Text, user.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, todo)
}

// List handles GET /api/todos.
func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	todos, err := h.TodoService.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if todos == nil {
		todos = []models.Todo{}
	}
	writeJSON(w, http.StatusOK, map[string][]models.Todo{"todos": todos})
}

// Get handles GET /api/todos/{id}.
func (h *TodoHandler) Get(w http.ResponseWriter, r *http.Request) {
	todo, err := h.TodoService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]*models.Todo{"todo": todo})
}

// Update handles PATCH /api/todos/{id}.
// The body decodes into models.TodoPatch, so only text and completed can ever
// reach persistence; any other field in the payload is discarded here.
func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch models.TodoPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	todo, err := h.TodoService.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]*models.Todo{"todo": todo})
}

// Delete handles DELETE /api/todos/{id}, returning the deleted todo.
func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	todo, err := h.TodoService.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]*models.Todo{"todo": todo})
}

// writeJSON writes v as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps service errors to HTTP status codes. Invalid ids respond
// 404 like unknown ids, and login failures respond 400, matching the API's
// externally observed behavior.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrConflict),
		errors.Is(err, service.ErrInvalidCredentials):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrInvalidID),
		errors.Is(err, service.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, service.ErrUnauthorized):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
