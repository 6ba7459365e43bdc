package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndavydov/gotodo/internal/middleware"
	"github.com/ndavydov/gotodo/internal/models"
	handler "github.com/ndavydov/gotodo/internal/server/handler/http"
	"github.com/ndavydov/gotodo/internal/service"
)

// fakeTodoService records calls and returns preconfigured results.
type fakeTodoService struct {
	createdText    string
	createdCreator string
	updatedID      string
	receivedPatch  models.TodoPatch

	todo  *models.Todo
	todos []models.Todo
	err   error
}

func (f *fakeTodoService) Create(ctx context.Context, text, creatorID string) (*models.Todo, error) {
	f.createdText = text
	f.createdCreator = creatorID
	return f.todo, f.err
}

func (f *fakeTodoService) List(ctx context.Context) ([]models.Todo, error) {
	return f.todos, f.err
}

func (f *fakeTodoService) Get(ctx context.Context, id string) (*models.Todo, error) {
	return f.todo, f.err
}

func (f *fakeTodoService) Update(ctx context.Context, id string, patch models.TodoPatch) (*models.Todo, error) {
	f.updatedID = id
	f.receivedPatch = patch
	return f.todo, f.err
}

func (f *fakeTodoService) Delete(ctx context.Context, id string) (*models.Todo, error) {
	return f.todo, f.err
}

// staticResolver authenticates every request as the same user.
type staticResolver struct {
	user *models.User
}

func (s *staticResolver) ResolveToken(ctx context.Context, tokenString string) (*models.User, error) {
	return s.user, nil
}

// protect wraps a handler with the auth middleware and a resolver that
// always yields testUser, so handlers see an authenticated context.
var testUser = &models.User{ID: "u1", Email: "tyler@example.com"}

func protect(h http.HandlerFunc) http.Handler {
	return middleware.Auth(&staticResolver{user: testUser})(h)
}

func authedRequest(method, target string, body []byte) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set(middleware.AuthHeader, "live-token")
	return req
}

func TestTodoHandler_Create(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		service      *fakeTodoService
		expectedCode int
	}{
		{
			name:         "invalid JSON",
			body:         `not a json`,
			service:      &fakeTodoService{},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "empty text",
			body:         `{}`,
			service:      &fakeTodoService{err: service.ErrValidation},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "success",
			body:         `{"text":"Test the todo"}`,
			service:      &fakeTodoService{todo: &models.Todo{ID: "t1", Text: "Test the todo", CreatorID: "u1"}},
			expectedCode: http.StatusCreated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &handler.TodoHandler{TodoService: tt.service}
			rec := httptest.NewRecorder()
			protect(h.Create).ServeHTTP(rec, authedRequest(http.MethodPost, "/api/todos", []byte(tt.body)))

			if rec.Code != tt.expectedCode {
				t.Fatalf("status = %d; want %d", rec.Code, tt.expectedCode)
			}
			if tt.expectedCode == http.StatusCreated {
				if tt.service.createdCreator != testUser.ID {
					t.Errorf("creator = %q; want %q", tt.service.createdCreator, testUser.ID)
				}
				var got models.Todo
				if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
					t.Fatalf("failed to decode JSON: %v", err)
				}
				if got.Text != "Test the todo" {
					t.Errorf("text = %q; want %q", got.Text, "Test the todo")
				}
			}
		})
	}
}

func TestTodoHandler_List(t *testing.T) {
	svc := &fakeTodoService{todos: []models.Todo{
		{ID: "t1", Text: "First test todo"},
		{ID: "t2", Text: "Second test todo", Completed: true},
	}}
	h := &handler.TodoHandler{TodoService: svc}

	rec := httptest.NewRecorder()
	protect(h.List).ServeHTTP(rec, authedRequest(http.MethodGet, "/api/todos", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want %d", rec.Code, http.StatusOK)
	}
	var payload map[string][]models.Todo
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}
	if len(payload["todos"]) != 2 {
		t.Errorf("todos = %d; want 2", len(payload["todos"]))
	}
}

func TestTodoHandler_List_EmptyIsArray(t *testing.T) {
	h := &handler.TodoHandler{TodoService: &fakeTodoService{}}

	rec := httptest.NewRecorder()
	protect(h.List).ServeHTTP(rec, authedRequest(http.MethodGet, "/api/todos", nil))

	if body := rec.Body.String(); !bytes.Contains([]byte(body), []byte(`"todos":[]`)) {
		t.Errorf("expected empty todos array, got %q", body)
	}
}

func TestTodoHandler_Get_ErrorMapping(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode int
	}{
		{"malformed id", service.ErrInvalidID, http.StatusNotFound},
		{"absent id", service.ErrNotFound, http.StatusNotFound},
		{"store failure", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &handler.TodoHandler{TodoService: &fakeTodoService{err: tt.err}}
			rec := httptest.NewRecorder()
			protect(h.Get).ServeHTTP(rec, authedRequest(http.MethodGet, "/api/todos/x", nil))

			if rec.Code != tt.expectedCode {
				t.Errorf("status = %d; want %d", rec.Code, tt.expectedCode)
			}
		})
	}
}

func TestTodoHandler_Update_WhitelistsFields(t *testing.T) {
	svc := &fakeTodoService{todo: &models.Todo{ID: "t1", Text: "x"}}
	h := &handler.TodoHandler{TodoService: svc}

	// The evil field must never survive decoding into the patch type.
	body := []byte(`{"text":"x","completed":true,"evil":"y","id":"hijacked"}`)
	rec := httptest.NewRecorder()
	protect(h.Update).ServeHTTP(rec, authedRequest(http.MethodPatch, "/api/todos/t1", body))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want %d", rec.Code, http.StatusOK)
	}
	if svc.receivedPatch.Text == nil || *svc.receivedPatch.Text != "x" {
		t.Errorf("patch text = %v; want x", svc.receivedPatch.Text)
	}
	if svc.receivedPatch.Completed == nil || !*svc.receivedPatch.Completed {
		t.Errorf("patch completed = %v; want true", svc.receivedPatch.Completed)
	}
}

func TestTodoHandler_Update_BadJSON(t *testing.T) {
	h := &handler.TodoHandler{TodoService: &fakeTodoService{}}

	rec := httptest.NewRecorder()
	protect(h.Update).ServeHTTP(rec, authedRequest(http.MethodPatch, "/api/todos/t1", []byte(`{`)))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d; want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestTodoHandler_Delete(t *testing.T) {
	svc := &fakeTodoService{todo: &models.Todo{ID: "t1", Text: "First test todo"}}
	h := &handler.TodoHandler{TodoService: svc}

	rec := httptest.NewRecorder()
	protect(h.Delete).ServeHTTP(rec, authedRequest(http.MethodDelete, "/api/todos/t1", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want %d", rec.Code, http.StatusOK)
	}
	var payload map[string]models.Todo
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}
	if payload["todo"].ID != "t1" {
		t.Errorf("deleted todo = %q; want t1", payload["todo"].ID)
	}
}

func TestTodoHandler_Delete_NotFound(t *testing.T) {
	h := &handler.TodoHandler{TodoService: &fakeTodoService{err: service.ErrNotFound}}

	rec := httptest.NewRecorder()
	protect(h.Delete).ServeHTTP(rec, authedRequest(http.MethodDelete, "/api/todos/t1", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d; want %d", rec.Code, http.StatusNotFound)
	}
}
