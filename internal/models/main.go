// Package models defines the core data structures for todos and users.
package models

// Todo represents a single task record.
type Todo struct {
	// ID is the unique identifier for the todo.
	ID string `json:"id"`
	// Text is the task description. It is stored trimmed and is never empty.
	Text string `json:"text"`
	// Completed reports whether the task has been finished.
	Completed bool `json:"completed"`
	// CompletedAt is the completion time in epoch milliseconds.
	// It is nil exactly when Completed is false.
	CompletedAt *int64 `json:"completedAt"`
	// CreatorID references the user that created the todo.
	CreatorID string `json:"creatorId"`
}

// TodoPatch is a partial update for a todo. Only the two fields below are
// mutable through the API; a nil Text leaves the stored text untouched,
// while a nil or false Completed resets the completion state.
type TodoPatch struct {
	Text      *string `json:"text"`
	Completed *bool   `json:"completed"`
}

// User represents an application user with credentials and live sessions.
type User struct {
	// ID is the unique identifier for the user.
	ID string `json:"id"`
	// Email is the login email, stored trimmed and unique.
	Email string `json:"email"`
	// PasswordHash is the bcrypt digest of the user's password.
	PasswordHash []byte `json:"-"`
	// Tokens holds the user's active sessions, newest last.
	Tokens []SessionToken `json:"-"`
}

// SessionToken is one active login session of a user.
type SessionToken struct {
	// Access is the session kind tag. Login sessions use AccessAuth.
	Access string `json:"access"`
	// Token is the signed credential returned to the client.
	Token string `json:"token"`
}

// AccessAuth is the access tag for ordinary login sessions.
const AccessAuth = "auth"
