package http_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/ndavydov/gotodo/internal/middleware"
	"github.com/ndavydov/gotodo/internal/models"
	handler "github.com/ndavydov/gotodo/internal/server/handler/http"
)

// rejectingResolver fails every token, live or not.
type rejectingResolver struct{}

func (rejectingResolver) ResolveToken(ctx context.Context, tokenString string) (*models.User, error) {
	return nil, errors.New("unauthorized")
}

func newTestRouter(resolver middleware.TokenResolver) http.Handler {
	return handler.NewRouter(
		&handler.AuthHandler{AuthService: &fakeAuthService{token: "signed-token"}},
		&handler.TodoHandler{TodoService: &fakeTodoService{}},
		resolver,
		zap.NewNop(),
	)
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	router := newTestRouter(rejectingResolver{})

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/todos"},
		{http.MethodPost, "/api/todos"},
		{http.MethodGet, "/api/todos/t1"},
		{http.MethodPatch, "/api/todos/t1"},
		{http.MethodDelete, "/api/todos/t1"},
		{http.MethodGet, "/api/users/me"},
		{http.MethodDelete, "/api/users/me/token"},
	}

	for _, p := range paths {
		t.Run(p.method+" "+p.path, func(t *testing.T) {
			req := httptest.NewRequest(p.method, p.path, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d; want %d", rec.Code, http.StatusUnauthorized)
			}
		})
	}
}

func TestRouter_PublicRoutesSkipAuth(t *testing.T) {
	router := newTestRouter(rejectingResolver{})

	body := bytes.NewBufferString(`{"email":"tyler@example.com","password":"tylerpass"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/users/login", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d; want %d", rec.Code, http.StatusOK)
	}
	if got := rec.Header().Get(middleware.AuthHeader); got != "signed-token" {
		t.Errorf("x-auth header = %q; want %q", got, "signed-token")
	}
}

func TestRouter_RejectsNonJSONContentType(t *testing.T) {
	router := newTestRouter(rejectingResolver{})

	req := httptest.NewRequest(http.MethodPost, "/api/users", bytes.NewBufferString("email=x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnsupportedMediaType {
		t.Errorf("status = %d; want %d", rec.Code, http.StatusUnsupportedMediaType)
	}
}
