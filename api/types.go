package api

import (
	"context"

	log "github.com/sirupsen/logrus"

	"verva-api/domain"
	"verva-api/identity"
)

// TaskStore abstracts the task collection for handlers.
type TaskStore interface {
	List(ctx context.Context, userID string, f domain.Filter) ([]domain.Task, error)
	Add(ctx context.Context, userID, title string, priority domain.Priority, dueDate string) ([]domain.Task, error)
	Toggle(ctx context.Context, userID, id string) ([]domain.Task, error)
	Update(ctx context.Context, userID, id string, patch domain.TaskPatch) ([]domain.Task, error)
	Delete(ctx context.Context, userID, id string) ([]domain.Task, error)
}

// SessionProvider is the hosted identity service boundary.
type SessionProvider interface {
	SignUp(ctx context.Context, email, password, name string) (*identity.Session, error)
	SignIn(ctx context.Context, email, password string) (*identity.Session, error)
	SignInWithGoogle(ctx context.Context, code string) (*identity.Session, error)
}

// Assistant produces chat replies. It never fails; every failure path inside
// resolves to a string.
type Assistant interface {
	GetResponse(ctx context.Context, message string, history []domain.ChatMessage, tasks []domain.Task) string
}

// Authenticator is implemented by types able to extract user IDs from headers.
type Authenticator interface {
	UserIDFromAuthHeader(string) (string, error)
}

// Revoker tracks signed-out tokens.
type Revoker interface {
	Revoke(ctx context.Context, token string) error
	Revoked(ctx context.Context, token string) bool
}

// SessionSink receives session replacements; nil means signed out.
type SessionSink interface {
	Set(user *domain.User)
}

// Deps bundles everything Register wires into the routes.
type Deps struct {
	Store       TaskStore
	Provider    SessionProvider
	Assistant   Assistant
	Auth        Authenticator
	Revocations Revoker
	Sessions    SessionSink
	Logger      *log.Logger
}
