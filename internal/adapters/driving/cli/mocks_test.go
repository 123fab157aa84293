package cli

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/custodia-labs/storefront-cli/internal/core/domain"
)

// mockRequestGate implements driving.RequestGate for testing.
type mockRequestGate struct {
	refreshToken string
	refreshOK    bool
	refreshCalls int

	token    string
	tokenErr error

	resp    *http.Response
	doErr   error
	target  string
	options domain.RequestOptions
}

func (m *mockRequestGate) Refresh(_ context.Context) (string, bool) {
	m.refreshCalls++
	return m.refreshToken, m.refreshOK
}

func (m *mockRequestGate) Do(_ context.Context, target string, opts domain.RequestOptions) (*http.Response, error) {
	m.target = target
	m.options = opts
	if m.doErr != nil {
		return nil, m.doErr
	}
	return m.resp, nil
}

func (m *mockRequestGate) Token(_ context.Context) (string, error) {
	return m.token, m.tokenErr
}

func newResponse(status int, body string, header http.Header) *http.Response {
	if header == nil {
		header = http.Header{}
	}
	return &http.Response{
		Status:     http.StatusText(status),
		StatusCode: status,
		Proto:      "HTTP/1.1",
		Header:     header,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
	}
}

// mockCredentialsService implements driving.CredentialsService for testing.
type mockCredentialsService struct {
	access  string
	refresh string
	logins  int
	err     error
}

func (m *mockCredentialsService) Login(_ context.Context, accessToken, refreshToken string) error {
	if m.err != nil {
		return m.err
	}
	m.logins++
	m.access, m.refresh = accessToken, refreshToken
	return nil
}

func (m *mockCredentialsService) Logout(_ context.Context) error {
	if m.err != nil {
		return m.err
	}
	m.access, m.refresh = "", ""
	return nil
}

func (m *mockCredentialsService) Status(_ context.Context) (*domain.CredentialStatus, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &domain.CredentialStatus{
		Scope:               "default",
		HasAccessToken:      m.access != "",
		HasRefreshToken:     m.refresh != "",
		AccessTokenPreview:  domain.MaskToken(m.access),
		RefreshTokenPreview: domain.MaskToken(m.refresh),
	}, nil
}

// mockSettingsService implements driving.SettingsService for testing.
type mockSettingsService struct {
	settings domain.ClientSettings
	set      map[string]string
	setErr   error
}

func newMockSettingsService() *mockSettingsService {
	return &mockSettingsService{
		settings: domain.DefaultClientSettings(),
		set:      make(map[string]string),
	}
}

func (m *mockSettingsService) Get() (*domain.ClientSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.set[key] = value
	return nil
}

func (m *mockSettingsService) Keys() []string {
	return []string{
		"api.base_url",
		"api.token_exchange_url",
		"api.allowed_hosts",
		"api.token_field",
		"api.allow_insecure",
		"http.timeout_seconds",
		"http.rate_limit",
		"http.burst",
		"storage.backend",
		"storage.scope",
		"storage.data_dir",
	}
}

func (m *mockSettingsService) GetDefaults() domain.ClientSettings {
	return domain.DefaultClientSettings()
}

// setupServices swaps the package services for mocks and resets flags left
// over from earlier runs.
func setupServices() (*mockRequestGate, *mockCredentialsService, *mockSettingsService, func()) {
	oldGate, oldCreds, oldSettings := requestGate, credentialsService, settingsService
	oldGatherer, oldBootstrap, oldErr := metricsGatherer, bootstrap, servicesErr

	gate := &mockRequestGate{}
	creds := &mockCredentialsService{}
	settings := newMockSettingsService()
	requestGate, credentialsService, settingsService = gate, creds, settings
	metricsGatherer, bootstrap, servicesErr = nil, nil, nil
	oldEffective := effectiveSettings
	effectiveSettings = nil

	resetFlags()

	return gate, creds, settings, func() {
		requestGate, credentialsService, settingsService = oldGate, oldCreds, oldSettings
		metricsGatherer, bootstrap, servicesErr = oldGatherer, oldBootstrap, oldErr
		effectiveSettings = oldEffective
		resetFlags()
	}
}

func resetFlags() {
	verbose, showMetrics, profile = false, false, ""
	loginAccessToken, loginRefreshToken = "", ""
	requestMethod, requestHeaders, requestData = http.MethodGet, nil, ""
	requestInclude, requestFail = false, false
}

// execute runs the root command with args and returns its output.
func execute(args ...string) (string, error) {
	return executeWith(rootCmd.Execute, args...)
}

func executeWith(run func() error, args ...string) (string, error) {
	buf := new(bytes.Buffer)
	err := executeTo(run, buf, buf, args...)
	return buf.String(), err
}

// executeSplit runs the root command with separate stdout and stderr.
func executeSplit(args ...string) (stdout, stderr string, err error) {
	var out, errOut bytes.Buffer
	err = executeTo(rootCmd.Execute, &out, &errOut, args...)
	return out.String(), errOut.String(), err
}

func executeTo(run func() error, out, errOut io.Writer, args ...string) error {
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	return run()
}
