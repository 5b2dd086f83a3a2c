package acl

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/jsamuelsen/resource-feed/internal/adapters/clients"
	"github.com/jsamuelsen/resource-feed/internal/domain"
)

// AuthUserPath is the GoTrue endpoint that describes the token's user.
const AuthUserPath = "/auth/v1/user"

// SupabaseSession implements ports.SessionProvider by asking Supabase Auth
// who a token belongs to. The client's BaseURL is the project URL.
type SupabaseSession struct {
	BaseAdapter
	logger *slog.Logger
}

// NewSupabaseSession creates a session provider. Panics if client is nil.
func NewSupabaseSession(client *clients.Client, logger *slog.Logger) *SupabaseSession {
	if client == nil {
		panic("SupabaseSession: client is required")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &SupabaseSession{
		BaseAdapter: NewBaseAdapter(client, "supabase-auth"),
		logger:      logger.With(slog.String("component", "acl.SupabaseSession")),
	}
}

type authUser struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
}

func translateUser(ext *authUser) (*domain.User, error) {
	if ext.ID == "" {
		return nil, nil
	}

	return &domain.User{
		ID:        ext.ID,
		Name:      ext.metadata("full_name", "name", "user_name"),
		Email:     ext.Email,
		AvatarURL: ext.metadata("avatar_url"),
	}, nil
}

// metadata returns the first non-empty string value among keys.
func (u *authUser) metadata(keys ...string) string {
	for _, k := range keys {
		if v, ok := u.UserMetadata[k].(string); ok && v != "" {
			return v
		}
	}

	return ""
}

// CurrentUser implements ports.SessionProvider. Rejected tokens resolve to
// an anonymous visitor rather than an error.
func (s *SupabaseSession) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, nil
	}

	user, err := fetch[authUser](ctx, &s.BaseAdapter, call{
		path:   AuthUserPath,
		header: http.Header{"Authorization": {"Bearer " + token}},
		target: Target{Operation: "resolve session", Entity: "user"},
	})
	if err != nil {
		if domain.IsUnauthorized(err) || domain.IsNotFound(err) {
			s.logger.DebugContext(ctx, "session token rejected")

			return nil, nil
		}

		return nil, err
	}

	return translateUser(&user)
}
