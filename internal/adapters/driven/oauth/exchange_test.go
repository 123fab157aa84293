package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/storefront-cli/internal/core/domain"
)

// newEndpoint starts a fake exchange endpoint answering with status and body,
// and records the refresh token it received.
func newEndpoint(t *testing.T, status int, body string) (*httptest.Server, *atomic.Value) {
	t.Helper()
	received := &atomic.Value{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))

		var req struct {
			RefreshToken string `json:"refreshToken"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			received.Store(req.RefreshToken)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, received
}

func TestExchange_Success(t *testing.T) {
	srv, received := newEndpoint(t, http.StatusOK, `{"data":{"accessToken":"at-2"}}`)
	exchanger := NewExchanger(srv.URL, "", srv.Client())

	token, err := exchanger.Exchange(context.Background(), "rt-1")

	require.NoError(t, err)
	assert.Equal(t, "at-2", token)
	assert.Equal(t, "rt-1", received.Load())
}

func TestExchange_CustomTokenField(t *testing.T) {
	srv, _ := newEndpoint(t, http.StatusCreated, `{"accessToken":"at-9","expiresIn":3600}`)
	exchanger := NewExchanger(srv.URL, "accessToken", srv.Client())

	token, err := exchanger.Exchange(context.Background(), "rt-1")

	require.NoError(t, err)
	assert.Equal(t, "at-9", token)
}

func TestExchange_Rejected(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"unauthorized with message", http.StatusUnauthorized, `{"message":"refresh token expired"}`, "refresh token expired"},
		{"nested error message", http.StatusBadRequest, `{"error":{"message":"malformed token"}}`, "malformed token"},
		{"error string", http.StatusForbidden, `{"error":"revoked"}`, "revoked"},
		{"server error without body", http.StatusInternalServerError, ``, "status 500"},
		{"invalid json", http.StatusOK, `<html>gateway</html>`, "not valid JSON"},
		{"missing field", http.StatusOK, `{"data":{}}`, "no data.accessToken"},
		{"empty field", http.StatusOK, `{"data":{"accessToken":""}}`, "no data.accessToken"},
		{"non-string field", http.StatusOK, `{"data":{"accessToken":42}}`, "no data.accessToken"},
		{"null field", http.StatusOK, `{"data":{"accessToken":null}}`, "no data.accessToken"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newEndpoint(t, tt.status, tt.body)
			exchanger := NewExchanger(srv.URL, "", srv.Client())

			token, err := exchanger.Exchange(context.Background(), "rt-1")

			assert.Empty(t, token)
			require.ErrorIs(t, err, domain.ErrServerRejected)
			assert.NotErrorIs(t, err, domain.ErrNetwork)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestExchange_ResponseTooLarge(t *testing.T) {
	huge := `{"data":{"accessToken":"at-2","pad":"` + strings.Repeat("x", maxResponseBytes) + `"}}`
	srv, _ := newEndpoint(t, http.StatusOK, huge)
	exchanger := NewExchanger(srv.URL, "", srv.Client())

	_, err := exchanger.Exchange(context.Background(), "rt-1")

	assert.ErrorIs(t, err, domain.ErrServerRejected)
}

func TestExchange_NetworkError(t *testing.T) {
	srv, _ := newEndpoint(t, http.StatusOK, `{}`)
	url := srv.URL
	srv.Close()
	exchanger := NewExchanger(url, "", http.DefaultClient)

	_, err := exchanger.Exchange(context.Background(), "rt-1")

	require.ErrorIs(t, err, domain.ErrNetwork)
	assert.NotErrorIs(t, err, domain.ErrServerRejected)
}

type failingDoer struct{ err error }

func (f failingDoer) Do(*http.Request) (*http.Response, error) { return nil, f.err }

func TestExchange_TransportErrorIsWrapped(t *testing.T) {
	cause := errors.New("tls handshake timeout")
	exchanger := NewExchanger("https://api.shop.example.com/auth/refresh", "", failingDoer{err: cause})

	_, err := exchanger.Exchange(context.Background(), "rt-1")

	assert.ErrorIs(t, err, domain.ErrNetwork)
	assert.ErrorIs(t, err, cause)
}

func TestExchange_InvalidEndpoint(t *testing.T) {
	exchanger := NewExchanger("://bad", "", http.DefaultClient)

	_, err := exchanger.Exchange(context.Background(), "rt-1")

	assert.ErrorIs(t, err, domain.ErrNetwork)
}

func TestExchange_ContextCancelled(t *testing.T) {
	srv, _ := newEndpoint(t, http.StatusOK, `{"data":{"accessToken":"at-2"}}`)
	exchanger := NewExchanger(srv.URL, "", srv.Client())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := exchanger.Exchange(ctx, "rt-1")

	assert.ErrorIs(t, err, domain.ErrNetwork)
	assert.ErrorIs(t, err, context.Canceled)
}
