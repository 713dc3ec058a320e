package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dlfdnd96/kidari-teacher-sub001/entity"
)

// Session is the identity resolved from the session cookie.
type Session struct {
	UserID    uuid.UUID   `json:"userId"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      entity.Role `json:"role"`
	ExpiresAt time.Time   `json:"expires"`
}

func (s *Session) IsAdmin() bool { return s != nil && s.Role == entity.RoleAdmin }

// Authenticated reports whether s identifies a user. A session without an
// email does not count.
func (s *Session) Authenticated() bool { return s != nil && s.Email != "" }

// CanActOn reports whether s is an admin or the owner of a resource.
func (s *Session) CanActOn(ownerID uuid.UUID) bool {
	return s.IsAdmin() || (s != nil && s.UserID == ownerID)
}

// Identity is a verified social-login identity.
type Identity struct {
	UID           string
	Email         string
	Name          string
	Picture       string
	EmailVerified bool
}

// Principal is a signed-in session plus its token.
type Principal struct {
	Session
	Token string `json:"-"`
}

// Service provides sign-in operations.
type Service interface {
	SignIn(ctx context.Context, id Identity) (*Principal, error)
	// TestSignIn mints a session for a fixed test account with the given role.
	TestSignIn(ctx context.Context, role entity.Role) (*Principal, error)
}

type sessionKey struct{}

// WithSession stores s in ctx.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFromContext returns the session in ctx, or nil.
func SessionFromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionKey{}).(*Session)
	return s
}
