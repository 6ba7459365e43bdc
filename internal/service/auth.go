package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ndavydov/gotodo/internal/models"
	"github.com/ndavydov/gotodo/internal/repository"
	"github.com/ndavydov/gotodo/internal/token"
)

// MinPasswordLength is the minimum accepted password length at registration.
const MinPasswordLength = 6

// UserRepository defines the persistence operations required by the AuthService.
type UserRepository interface {
	// Insert persists a new user, returning repository.ErrDuplicateEmail on
	// a duplicate email.
	Insert(ctx context.Context, user *models.User) error
	// GetByEmail fetches a user by email, returning sql.ErrNoRows when absent.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetByID fetches a user by id, returning sql.ErrNoRows when absent.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// AppendToken records a new active session for the user.
	AppendToken(ctx context.Context, userID string, t models.SessionToken) error
	// RemoveToken deletes the matching session row.
	RemoveToken(ctx context.Context, userID string, t models.SessionToken) error
	// HasToken reports whether the exact session row is currently live.
	HasToken(ctx context.Context, userID string, t models.SessionToken) (bool, error)
}

// TokenSigner signs and verifies the bearer tokens backing sessions.
type TokenSigner interface {
	// Sign generates a token bound to the given user id.
	Sign(userID string) (string, error)
	// Verify validates a token string and returns its claims.
	Verify(tokenString string) (*token.Claims, error)
}

// AuthService implements registration, login, logout, and token resolution.
type AuthService struct {
	repo   UserRepository
	signer TokenSigner
}

// NewAuthService constructs an AuthService using the provided repository and signer.
func NewAuthService(repo UserRepository, signer TokenSigner) *AuthService {
	return &AuthService{repo: repo, signer: signer}
}

// Register creates a new user from email and password and immediately issues
// a first session token, so registration doubles as login. The email is
// trimmed and must be non-empty; the password must be at least
// MinPasswordLength characters. A duplicate email fails with ErrConflict.
func (s *AuthService) Register(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.TrimSpace(email)
	if email == "" || len(password) < MinPasswordLength {
		return nil, "", ErrValidation
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.repo.Insert(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, "", ErrConflict
		}
		return nil, "", err
	}

	t, err := s.issueToken(ctx, user)
	if err != nil {
		return nil, "", err
	}
	return user, t, nil
}

// Login verifies the credentials and issues a new session token. Unknown
// email and wrong password fail identically with ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.issueToken(ctx, user)
}

// Logout revokes the presented session token. A token already revoked is not
// an error.
func (s *AuthService) Logout(ctx context.Context, userID, tokenString string) error {
	return s.repo.RemoveToken(ctx, userID, models.SessionToken{
		Access: models.AccessAuth,
		Token:  tokenString,
	})
}

// ResolveToken resolves a bearer token to its user. The signature only proves
// the token was issued by this system; the live session list is the source of
// truth, so a validly signed but revoked token is rejected. Every failure
// mode surfaces as the same ErrUnauthorized.
func (s *AuthService) ResolveToken(ctx context.Context, tokenString string) (*models.User, error) {
	claims, err := s.signer.Verify(tokenString)
	if err != nil || claims.Access != models.AccessAuth {
		return nil, ErrUnauthorized
	}

	user, err := s.repo.GetByID(ctx, claims.UserID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}

	live, err := s.repo.HasToken(ctx, user.ID, models.SessionToken{
		Access: models.AccessAuth,
		Token:  tokenString,
	})
	if err != nil {
		return nil, err
	}
	if !live {
		return nil, ErrUnauthorized
	}
	return user, nil
}

// issueToken signs a token for the user and records it as a live session.
func (s *AuthService) issueToken(ctx context.Context, user *models.User) (string, error) {
	t, err := s.signer.Sign(user.ID)
	if err != nil {
		return "", err
	}
	session := models.SessionToken{Access: models.AccessAuth, Token: t}
	if err := s.repo.AppendToken(ctx, user.ID, session); err != nil {
		return "", err
	}
	user.Tokens = append(user.Tokens, session)
	return t, nil
}
