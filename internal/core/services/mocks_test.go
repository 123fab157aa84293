package services

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/custodia-labs/storefront-cli/internal/core/domain"
)

// mockTokenStore is an in-memory TokenStore with injectable failures.
type mockTokenStore struct {
	mu        sync.Mutex
	values    map[domain.CredentialKey]string
	getErr    error
	setErr    error
	deleteErr error
}

func newMockTokenStore(values map[domain.CredentialKey]string) *mockTokenStore {
	if values == nil {
		values = make(map[domain.CredentialKey]string)
	}
	return &mockTokenStore{values: values}
}

func (m *mockTokenStore) Get(_ context.Context, key domain.CredentialKey) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *mockTokenStore) Set(_ context.Context, key domain.CredentialKey, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	return nil
}

func (m *mockTokenStore) Delete(_ context.Context, key domain.CredentialKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.values, key)
	return nil
}

func (m *mockTokenStore) value(key domain.CredentialKey) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key]
}

// sanitizerFunc adapts a function to TargetSanitizer.
type sanitizerFunc func(string) (string, error)

func (f sanitizerFunc) Sanitize(target string) (string, error) {
	return f(target)
}

func passthroughSanitizer() sanitizerFunc {
	return func(target string) (string, error) { return target, nil }
}

// fakeExchanger counts exchanges and optionally blocks until released.
type fakeExchanger struct {
	calls   atomic.Int32
	release chan struct{}

	mu       sync.Mutex
	token    string
	err      error
	received []string
}

func (f *fakeExchanger) Exchange(_ context.Context, refreshToken string) (string, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.received = append(f.received, refreshToken)
	release := f.release
	f.mu.Unlock()

	if release != nil {
		<-release
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token, f.err
}

func (f *fakeExchanger) setResult(token string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = token
	f.err = err
}

func (f *fakeExchanger) receivedTokens() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.received...)
}

// doerFunc adapts a function to HTTPDoer.
type doerFunc func(*http.Request) (*http.Response, error)

func (f doerFunc) Do(req *http.Request) (*http.Response, error) {
	return f(req)
}
