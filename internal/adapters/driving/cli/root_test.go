package cli

import (
	"errors"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/storefront-cli/internal/logger"
	"github.com/custodia-labs/storefront-cli/internal/metrics"
)

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "storefront", rootCmd.Use)
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	for _, name := range []string{"verbose", "metrics", "profile"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
	}
}

func TestBootstrap_ReceivesProfile(t *testing.T) {
	_, _, _, cleanup := setupServices()
	defer cleanup()

	gate := &mockRequestGate{token: "staging-token"}
	var gotProfile string
	bootstrap = func(p string) (*Services, error) {
		gotProfile = p
		return &Services{Gate: gate}, nil
	}

	out, err := execute("--profile", "staging", "auth", "token")

	require.NoError(t, err)
	assert.Equal(t, "staging", gotProfile)
	assert.Equal(t, "staging-token\n", out)
}

func TestVerboseFlag_EnablesLogging(t *testing.T) {
	_, _, _, cleanup := setupServices()
	defer cleanup()
	defer logger.SetVerbose(false)

	_, err := execute("--verbose", "version")

	require.NoError(t, err)
	assert.True(t, logger.IsVerbose())
}

func TestExecute_WritesMetrics(t *testing.T) {
	_, _, _, cleanup := setupServices()
	defer cleanup()

	reg := prometheus.NewRegistry()
	m := metrics.NewGateMetrics(reg)
	m.RecordRequest(metrics.OutcomeSent)
	gate := &mockRequestGate{resp: newResponse(http.StatusOK, "", nil)}
	bootstrap = func(string) (*Services, error) {
		return &Services{Gate: gate, Metrics: reg}, nil
	}

	out, err := executeWith(Execute, "--metrics", "request", "/v1/cart")

	require.NoError(t, err)
	assert.Contains(t, out, `storefront_gate_requests_total{outcome="sent"} 1`)
}

func TestExecute_ClosesServices(t *testing.T) {
	_, _, _, cleanup := setupServices()
	defer cleanup()

	closed := false
	closeErr := errors.New("close failed")
	bootstrap = func(string) (*Services, error) {
		return &Services{Close: func() error {
			closed = true
			return closeErr
		}}, nil
	}

	_, err := executeWith(Execute, "version")

	assert.True(t, closed)
	assert.ErrorIs(t, err, closeErr)
	assert.Nil(t, closeServices)
}
