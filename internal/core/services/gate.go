package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/custodia-labs/storefront-cli/internal/core/domain"
	"github.com/custodia-labs/storefront-cli/internal/core/ports/driven"
	"github.com/custodia-labs/storefront-cli/internal/core/ports/driving"
	"github.com/custodia-labs/storefront-cli/internal/logger"
	"github.com/custodia-labs/storefront-cli/internal/metrics"
)

// Ensure Gate implements the interface.
var _ driving.RequestGate = (*Gate)(nil)

const (
	refreshKey = "refresh"

	// maxDrainBytes bounds how much of a discarded 401 body is read
	// before closing it, so the connection can be reused.
	maxDrainBytes = 64 << 10
)

// GateOption configures a Gate.
type GateOption func(*Gate)

// WithMetrics sets the collectors the gate records into.
func WithMetrics(m *metrics.GateMetrics) GateOption {
	return func(g *Gate) {
		g.metrics = m
	}
}

// Gate sends authenticated requests and owns the single in-flight refresh
// of its credential store.
type Gate struct {
	store     driven.TokenStore
	sanitizer driven.TargetSanitizer
	exchanger driven.TokenExchanger
	client    driven.HTTPDoer
	metrics   *metrics.GateMetrics

	group singleflight.Group
}

// NewGate creates a request gate. All collaborators are required.
func NewGate(
	store driven.TokenStore,
	sanitizer driven.TargetSanitizer,
	exchanger driven.TokenExchanger,
	client driven.HTTPDoer,
	opts ...GateOption,
) *Gate {
	g := &Gate{
		store:     store,
		sanitizer: sanitizer,
		exchanger: exchanger,
		client:    client,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.metrics == nil {
		g.metrics = metrics.NewGateMetrics(nil)
	}
	return g
}

// Refresh obtains a new access token, joining the in-flight exchange if
// there is one. The exchange itself is not cancelled by ctx; a caller whose
// ctx ends stops waiting and gets ok=false.
func (g *Gate) Refresh(ctx context.Context) (string, bool) {
	ch := g.group.DoChan(refreshKey, func() (any, error) {
		return g.exchange(context.WithoutCancel(ctx))
	})

	g.metrics.RefreshWaiters.Inc()
	defer g.metrics.RefreshWaiters.Dec()

	select {
	case res := <-ch:
		if res.Err != nil {
			return "", false
		}
		token, _ := res.Val.(string)
		return token, token != ""
	case <-ctx.Done():
		logger.Get().Debug().Err(ctx.Err()).Msg("stopped waiting for token refresh")
		return "", false
	}
}

// exchange runs one refresh: read the refresh token, trade it for an access
// token and persist the result. Failures are logged and counted here.
func (g *Gate) exchange(ctx context.Context) (string, error) {
	log := logger.Get()

	refreshToken, ok, err := g.store.Get(ctx, domain.RefreshTokenKey)
	if err != nil {
		g.metrics.RecordRefresh(metrics.ResultStoreError)
		log.Warn().Err(err).Msg("token refresh failed: read refresh token")
		return "", fmt.Errorf("read refresh token: %w", err)
	}
	if !ok || refreshToken == "" {
		g.metrics.RecordRefresh(metrics.ResultNoRefreshToken)
		log.Debug().Msg("token refresh skipped: no refresh token stored")
		return "", domain.ErrInvalidCredential
	}

	log.Debug().Msg("exchanging refresh token")
	accessToken, err := g.exchanger.Exchange(ctx, refreshToken)
	if err == nil && accessToken == "" {
		err = fmt.Errorf("%w: empty access token", domain.ErrServerRejected)
	}
	if err != nil {
		result := metrics.ResultNetwork
		if errors.Is(err, domain.ErrServerRejected) {
			result = metrics.ResultRejected
		}
		g.metrics.RecordRefresh(result)
		log.Warn().Err(err).Str("kind", result).Msg("token refresh failed")
		return "", err
	}

	if err := g.store.Set(ctx, domain.AccessTokenKey, accessToken); err != nil {
		g.metrics.RecordRefresh(metrics.ResultStoreError)
		log.Warn().Err(err).Msg("token refresh failed: persist access token")
		return "", fmt.Errorf("persist access token: %w", err)
	}

	g.metrics.RecordRefresh(metrics.ResultSuccess)
	log.Info().Msg("access token refreshed")
	return accessToken, nil
}

// Token returns the stored access token, refreshing when none is stored.
func (g *Gate) Token(ctx context.Context) (string, error) {
	token, ok, err := g.store.Get(ctx, domain.AccessTokenKey)
	if err != nil {
		return "", fmt.Errorf("read access token: %w", err)
	}
	if ok && token != "" {
		return token, nil
	}

	token, ok = g.Refresh(ctx)
	if !ok {
		return "", domain.ErrUnauthenticated
	}
	return token, nil
}

// Do sends an authenticated request to target. A 401 triggers one refresh
// and, if it yields a token, exactly one resend.
func (g *Gate) Do(ctx context.Context, target string, opts domain.RequestOptions) (*http.Response, error) {
	log := logger.Get().With().Str("request_id", uuid.NewString()).Logger()

	u, err := g.sanitizer.Sanitize(target)
	if err != nil {
		g.metrics.RecordRequest(metrics.OutcomeInvalidTarget)
		log.Debug().Err(err).Msg("request target rejected")
		if !errors.Is(err, domain.ErrInvalidTarget) {
			err = fmt.Errorf("%w: %w", domain.ErrInvalidTarget, err)
		}
		return nil, err
	}

	token, err := g.Token(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthenticated) {
			g.metrics.RecordRequest(metrics.OutcomeUnauthenticated)
		}
		log.Debug().Err(err).Msg("no access token for request")
		return nil, err
	}

	method := opts.MethodOrDefault()
	log.Debug().Str("method", method).Str("url", u).Msg("sending request")

	resp, err := g.send(ctx, u, token, opts)
	if err != nil {
		g.metrics.RecordRequest(metrics.OutcomeTransportError)
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		g.metrics.RecordRequest(metrics.OutcomeSent)
		return resp, nil
	}

	log.Debug().Msg("request unauthorized, refreshing token")
	newToken, ok := g.Refresh(ctx)
	if !ok {
		g.metrics.RecordRequest(metrics.OutcomeSent)
		return resp, nil
	}

	drain(resp.Body)
	g.metrics.Retries.Inc()

	retry, err := g.send(ctx, u, newToken, opts)
	if err != nil {
		g.metrics.RecordRequest(metrics.OutcomeTransportError)
		return nil, err
	}
	if retry.StatusCode == http.StatusUnauthorized {
		g.metrics.RepeatedUnauthorized.Inc()
		log.Warn().Str("url", u).Msg("request still unauthorized after token refresh")
	}
	g.metrics.RecordRequest(metrics.OutcomeSent)
	return retry, nil
}

// send builds and sends one request carrying the bearer token.
// Caller headers are kept except Authorization.
func (g *Gate) send(ctx context.Context, target, token string, opts domain.RequestOptions) (*http.Response, error) {
	var body io.Reader
	if opts.Body != nil {
		body = bytes.NewReader(opts.Body)
	}

	req, err := http.NewRequestWithContext(ctx, opts.MethodOrDefault(), target, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	for key, values := range opts.Header {
		if strings.EqualFold(key, "Authorization") {
			continue
		}
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	req.Header.Set("Authorization", "Bearer "+token)

	return g.client.Do(req)
}

func drain(body io.ReadCloser) {
	if body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(body, maxDrainBytes))
	_ = body.Close()
}
