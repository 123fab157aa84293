package domain

import "time"

// StorageBackend selects where credentials are persisted.
type StorageBackend string

// Available storage backends.
const (
	// StorageBackendSQLite persists credentials in the local SQLite database.
	StorageBackendSQLite StorageBackend = "sqlite"

	// StorageBackendMemory keeps credentials for the lifetime of the process.
	StorageBackendMemory StorageBackend = "memory"
)

// IsValid returns true if the storage backend is recognised.
func (b StorageBackend) IsValid() bool {
	switch b {
	case StorageBackendSQLite, StorageBackendMemory:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b StorageBackend) String() string {
	return string(b)
}

// Default setting values.
const (
	DefaultBaseURL          = "https://api.storefront.example.com"
	DefaultTokenExchangeURL = "https://api.storefront.example.com/auth/refresh"
	DefaultTokenField       = "data.accessToken"
	DefaultTimeout          = 30 * time.Second
	DefaultRateLimit        = 5.0
	DefaultBurst            = 5
	DefaultScope            = "default"
)

// ClientSettings holds the configuration of the storefront API client.
type ClientSettings struct {
	API     APISettings     `validate:"required"`
	HTTP    HTTPSettings    `validate:"required"`
	Storage StorageSettings `validate:"required"`
}

// APISettings describes the remote commerce API.
type APISettings struct {
	// BaseURL is the API root. Relative request targets resolve against it.
	BaseURL string `validate:"required,url"`
	// TokenExchangeURL is the endpoint exchanging a refresh token for an access token.
	TokenExchangeURL string `validate:"required,url"`
	// AllowedHosts lists extra hosts requests may target besides the BaseURL host.
	AllowedHosts []string `validate:"dive,hostname_port|hostname_rfc1123"`
	// TokenField is the JSON path of the access token in the exchange response.
	TokenField string `validate:"required"`
	// AllowInsecure permits plain http targets (local development only).
	AllowInsecure bool
}

// HTTPSettings configures the outbound transport.
type HTTPSettings struct {
	// Timeout bounds a single HTTP round trip. Zero disables the timeout.
	Timeout time.Duration `validate:"gte=0"`
	// RateLimit is the sustained number of requests per second. Zero disables throttling.
	RateLimit float64 `validate:"gte=0"`
	// Burst is the number of requests allowed above the sustained rate.
	Burst int `validate:"gte=0"`
}

// StorageSettings configures credential persistence.
type StorageSettings struct {
	// Backend selects the credential store implementation.
	Backend StorageBackend `validate:"required,oneof=sqlite memory"`
	// Scope isolates credentials of different profiles in the same store.
	Scope string `validate:"required"`
	// DataDir overrides the directory holding the SQLite database.
	DataDir string
}

// DefaultClientSettings returns sensible defaults for the client.
func DefaultClientSettings() ClientSettings {
	return ClientSettings{
		API: APISettings{
			BaseURL:          DefaultBaseURL,
			TokenExchangeURL: DefaultTokenExchangeURL,
			TokenField:       DefaultTokenField,
		},
		HTTP: HTTPSettings{
			Timeout:   DefaultTimeout,
			RateLimit: DefaultRateLimit,
			Burst:     DefaultBurst,
		},
		Storage: StorageSettings{
			Backend: StorageBackendSQLite,
			Scope:   DefaultScope,
		},
	}
}
