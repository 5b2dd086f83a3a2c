// Package session resolves session tokens to users without a network call.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jsamuelsen/resource-feed/internal/domain"
)

// Claims is the subset of a Supabase access token the feed reads.
type Claims struct {
	Email        string       `json:"email,omitempty"`
	UserMetadata UserMetadata `json:"user_metadata,omitzero"`
	jwt.RegisteredClaims
}

// UserMetadata is the profile block GoTrue copies from the identity provider.
type UserMetadata struct {
	FullName  string `json:"full_name,omitempty"`
	Name      string `json:"name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// JWT implements ports.SessionProvider by verifying HS256 tokens signed
// with the project's JWT secret.
type JWT struct {
	secret []byte
	issuer string
	logger *slog.Logger
	now    func() time.Time
}

// NewJWT creates a verifier. issuer is optional; when set, tokens from
// other issuers are treated as anonymous.
func NewJWT(secret, issuer string, logger *slog.Logger) (*JWT, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &JWT{
		secret: []byte(secret),
		issuer: issuer,
		logger: logger.With(slog.String("component", "session.JWT")),
		now:    time.Now,
	}, nil
}

// CurrentUser implements ports.SessionProvider. Tokens that fail
// verification resolve to an anonymous visitor.
func (j *JWT) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, nil
	}

	claims, err := j.parse(token)
	if err != nil {
		j.logger.DebugContext(ctx, "session token rejected", slog.String("reason", err.Error()))

		return nil, nil
	}

	name := claims.UserMetadata.FullName
	if name == "" {
		name = claims.UserMetadata.Name
	}

	return &domain.User{
		ID:        claims.Subject,
		Name:      name,
		Email:     claims.Email,
		AvatarURL: claims.UserMetadata.AvatarURL,
	}, nil
}

func (j *JWT) parse(token string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(j.now),
		jwt.WithExpirationRequired(),
	}

	if j.issuer != "" {
		opts = append(opts, jwt.WithIssuer(j.issuer))
	}

	claims := &Claims{}

	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return j.secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}

	if !parsed.Valid || claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}

	return claims, nil
}

// Sign issues a token for user that expires after ttl. It exists for local
// development and tests; production tokens come from Supabase Auth.
func (j *JWT) Sign(user domain.User, ttl time.Duration) (string, error) {
	now := j.now()

	claims := Claims{
		Email: user.Email,
		UserMetadata: UserMetadata{
			FullName:  user.Name,
			AvatarURL: user.AvatarURL,
		},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}

	return signed, nil
}

// Anonymous implements ports.SessionProvider for deployments without sign-in.
type Anonymous struct{}

// CurrentUser always reports an anonymous visitor.
func (Anonymous) CurrentUser(context.Context, string) (*domain.User, error) {
	return nil, nil
}
