package acl

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/resource-feed/internal/adapters/clients"
	"github.com/jsamuelsen/resource-feed/internal/domain"
)

func newSupabaseSession(t *testing.T, handler http.HandlerFunc) *SupabaseSession {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := clients.New(testConfig(server.URL))
	require.NoError(t, err)

	return NewSupabaseSession(client, nil)
}

func TestSupabaseSession_CurrentUser(t *testing.T) {
	session := newSupabaseSession(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, AuthUserPath, r.URL.Path)
		assert.Equal(t, "Bearer user-token", r.Header.Get("Authorization"))
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))

		_, _ = io.WriteString(w, `{
			"id":"0b8e",
			"email":"ada@example.com",
			"user_metadata":{"full_name":"Ada Lovelace","avatar_url":"https://img.example.com/ada.png","email_verified":true}
		}`)
	})

	user, err := session.CurrentUser(context.Background(), "user-token")
	require.NoError(t, err)

	assert.Equal(t, &domain.User{
		ID:        "0b8e",
		Name:      "Ada Lovelace",
		Email:     "ada@example.com",
		AvatarURL: "https://img.example.com/ada.png",
	}, user)
}

func TestSupabaseSession_NameFallbacks(t *testing.T) {
	session := newSupabaseSession(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"id":"1","user_metadata":{"user_name":"ada"}}`)
	})

	user, err := session.CurrentUser(context.Background(), "t")
	require.NoError(t, err)
	assert.Equal(t, "ada", user.Name)
}

func TestSupabaseSession_RejectedTokenIsAnonymous(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound} {
		session := newSupabaseSession(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			_, _ = io.WriteString(w, `{"code":401,"msg":"invalid JWT: token is expired"}`)
		})

		user, err := session.CurrentUser(context.Background(), "expired")
		require.NoError(t, err, "status %d", status)
		assert.Nil(t, user)
	}
}

func TestSupabaseSession_EmptyTokenSkipsRequest(t *testing.T) {
	var calls int32

	session := newSupabaseSession(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	})

	user, err := session.CurrentUser(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, user)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestSupabaseSession_ProviderFailure(t *testing.T) {
	session := newSupabaseSession(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := session.CurrentUser(context.Background(), "t")
	require.Error(t, err)
	assert.True(t, domain.IsUnavailable(err))
}
