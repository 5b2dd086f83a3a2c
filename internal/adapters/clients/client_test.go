package clients

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/resource-feed/internal/adapters/http/middleware"
	"github.com/jsamuelsen/resource-feed/internal/platform/config"
)

func defaultConfig() *Config {
	return &Config{
		ServiceName: "supabase",
		Timeout:     5 * time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:     3,
			InitialInterval: 10 * time.Millisecond,
			MaxInterval:     100 * time.Millisecond,
			Multiplier:      2.0,
			JitterFactor:    0.25,
		},
		Circuit: config.CircuitBreakerConfig{
			MaxFailures:   5,
			Timeout:       time.Second,
			HalfOpenLimit: 2,
		},
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc, mutate func(*Config)) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := defaultConfig()
	cfg.BaseURL = server.URL

	if mutate != nil {
		mutate(cfg)
	}

	client, err := New(cfg)
	require.NoError(t, err)

	return client
}

func closeBody(t *testing.T, resp *http.Response) {
	t.Helper()

	if err := resp.Body.Close(); err != nil {
		t.Errorf("failed to close response body: %v", err)
	}
}

func TestNew_RequiresConfig(t *testing.T) {
	_, err := New(nil)
	assert.EqualError(t, err, "config is required")
}

func TestNew_RequiresServiceName(t *testing.T) {
	cfg := defaultConfig()
	cfg.ServiceName = ""

	_, err := New(cfg)
	assert.EqualError(t, err, "service name is required")
}

func TestFromAppConfig(t *testing.T) {
	shared := config.ClientConfig{
		Timeout: 3 * time.Second,
		Retry:   config.RetryConfig{MaxAttempts: 4},
		Transport: config.TransportConfig{
			MaxIdleConns: 7,
		},
	}

	cfg := FromAppConfig(shared, "postgrest", "https://db.example.com/rest/v1/")

	assert.Equal(t, "postgrest", cfg.ServiceName)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, 4, cfg.Retry.MaxAttempts)

	client, err := New(cfg)
	require.NoError(t, err)
	assert.Equal(t, "https://db.example.com/rest/v1", client.baseURL)
	assert.Equal(t, 7, client.http.Transport.(*http.Transport).MaxIdleConns)
}

func TestClient_HeaderPropagation(t *testing.T) {
	var got http.Header

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.WriteHeader(http.StatusOK)
	}, func(cfg *Config) {
		cfg.Headers = map[string]string{"apikey": "anon", "Accept": "application/json"}
	})

	ctx := middleware.ContextWithRequestID(context.Background(), "req-123")
	ctx = middleware.ContextWithCorrelationID(ctx, "corr-456")

	resp, err := client.Get(ctx, "/resources", nil, http.Header{"Accept": {"application/vnd.pgrst.object+json"}})
	require.NoError(t, err)
	defer closeBody(t, resp)

	assert.Equal(t, "req-123", got.Get(middleware.HeaderRequestID))
	assert.Equal(t, "corr-456", got.Get(middleware.HeaderCorrelationID))
	assert.Equal(t, "anon", got.Get("apikey"))
	assert.Equal(t, "application/vnd.pgrst.object+json", got.Get("Accept"), "per-call header wins")
}

func TestClient_QueryKeepsFilterSyntax(t *testing.T) {
	var rawQuery string

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		w.WriteHeader(http.StatusOK)
	}, nil)

	q := url.Values{}
	q.Set("select", "*,tags(*)")
	q.Set("id", "in.(1,3)")

	resp, err := client.Get(context.Background(), "resources", q, nil)
	require.NoError(t, err)
	defer closeBody(t, resp)

	assert.Equal(t, "id=in.(1,3)&select=*,tags(*)", rawQuery)

	parsed, err := url.ParseQuery(rawQuery)
	require.NoError(t, err)
	assert.Equal(t, "*,tags(*)", parsed.Get("select"))
}

func TestClient_RetryOnServerError(t *testing.T) {
	var attempts int32

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)

			return
		}

		w.WriteHeader(http.StatusOK)
	}, nil)

	resp, err := client.Get(context.Background(), "/test", nil, nil)
	require.NoError(t, err)
	defer closeBody(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
}

func TestClient_PostBodyReplayedOnRetry(t *testing.T) {
	var bodies []string

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(body))

		if len(bodies) == 1 {
			w.WriteHeader(http.StatusBadGateway)

			return
		}

		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusCreated)
	}, nil)

	resp, err := client.Post(context.Background(), "/submissions", []byte(`{"url":"https://go.dev"}`), nil)
	require.NoError(t, err)
	defer closeBody(t, resp)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, []string{`{"url":"https://go.dev"}`, `{"url":"https://go.dev"}`}, bodies)
}

func TestClient_NoRetryOnClientError(t *testing.T) {
	var attempts int32

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}, nil)

	resp, err := client.Get(context.Background(), "/auth/v1/user", nil, nil)
	require.NoError(t, err)
	defer closeBody(t, resp)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts))
}

func TestClient_MaxRetriesExceeded(t *testing.T) {
	var attempts int32

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}, nil)

	_, err := client.Get(context.Background(), "/test", nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMaxRetriesExceeded)
	assert.Equal(t, http.StatusServiceUnavailable, StatusCode(err))
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
}

func TestClient_CircuitBreakerShortCircuitsWhenOpen(t *testing.T) {
	var calls int32

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}, func(cfg *Config) {
		cfg.Retry.MaxAttempts = 1
		cfg.Circuit.MaxFailures = 2
	})

	ctx := context.Background()

	_, _ = client.Get(ctx, "/test", nil, nil)
	assert.Equal(t, StateClosed, client.CircuitState())
	assert.NoError(t, client.Check(ctx))

	_, _ = client.Get(ctx, "/test", nil, nil)
	assert.Equal(t, StateOpen, client.CircuitState())
	assert.ErrorIs(t, client.Check(ctx), ErrCircuitOpen)

	before := atomic.LoadInt32(&calls)

	_, err := client.Get(ctx, "/test", nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, before, atomic.LoadInt32(&calls))
}

func TestClient_Timeout(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}, func(cfg *Config) {
		cfg.Timeout = 50 * time.Millisecond
		cfg.Retry.MaxAttempts = 1
	})

	_, err := client.Get(context.Background(), "/test", nil, nil)
	require.Error(t, err)
}

func TestClient_ContextCancellation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Get(ctx, "/test", nil, nil)
	require.Error(t, err)
}

func TestClient_AuthFuncCalledOnRetry(t *testing.T) {
	var authCalls, requests int32

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer anon", r.Header.Get("Authorization"))

		if atomic.AddInt32(&requests, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)

			return
		}

		w.WriteHeader(http.StatusOK)
	}, func(cfg *Config) {
		cfg.Retry.MaxAttempts = 2
		cfg.Retry.InitialInterval = time.Millisecond
		cfg.AuthFunc = func(r *http.Request) {
			atomic.AddInt32(&authCalls, 1)
			r.Header.Set("Authorization", "Bearer anon")
		}
	})

	resp, err := client.Get(context.Background(), "/test", nil, nil)
	require.NoError(t, err)
	defer closeBody(t, resp)

	assert.Equal(t, int32(2), atomic.LoadInt32(&authCalls))
}

func TestClient_Delete(t *testing.T) {
	var method, rawQuery string

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		rawQuery = r.URL.RawQuery
		w.WriteHeader(http.StatusNoContent)
	}, nil)

	resp, err := client.Delete(context.Background(), "/submissions", url.Values{"id": {"eq.sub_1"}}, nil)
	require.NoError(t, err)
	defer closeBody(t, resp)

	assert.Equal(t, http.MethodDelete, method)
	assert.Equal(t, "id=eq.sub_1", rawQuery)
}

func TestClient_BuildURL(t *testing.T) {
	cfg := defaultConfig()
	cfg.BaseURL = "https://api.example.com/"

	client, err := New(cfg)
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com/tags", client.buildURL("/tags", nil))
	assert.Equal(t, "https://api.example.com/tags", client.buildURL("tags", url.Values{}))
	assert.Equal(t, "https://api.example.com/tags?order=slug.asc", client.buildURL("tags", url.Values{"order": {"slug.asc"}}))
}

func TestCalculateBackoff(t *testing.T) {
	cfg := defaultConfig()
	cfg.Retry.InitialInterval = 100 * time.Millisecond
	cfg.Retry.MaxInterval = time.Second

	client, err := New(cfg)
	require.NoError(t, err)

	assert.InDelta(t, 100*time.Millisecond, client.calculateBackoff(0), float64(25*time.Millisecond))
	assert.InDelta(t, 200*time.Millisecond, client.calculateBackoff(1), float64(50*time.Millisecond))
	assert.LessOrEqual(t, client.calculateBackoff(10), cfg.Retry.MaxInterval+cfg.Retry.MaxInterval/4)

	cfg.Retry.JitterFactor = 0
	client, err = New(cfg)
	require.NoError(t, err)
	assert.Equal(t, 400*time.Millisecond, client.calculateBackoff(2))
}

type testNetError struct {
	timeout bool
}

func (e testNetError) Error() string   { return "test net error" }
func (e testNetError) Timeout() bool   { return e.timeout }
func (e testNetError) Temporary() bool { return true }

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"nil error", nil, false},
		{"context canceled", context.Canceled, false},
		{"context deadline exceeded", context.DeadlineExceeded, false},
		{"net error with timeout", testNetError{timeout: true}, true},
		{"net error without timeout", testNetError{timeout: false}, false},
		{"connection refused", &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.retryable, isRetryableError(tt.err))
		})
	}
}
