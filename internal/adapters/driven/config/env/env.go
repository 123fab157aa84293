// Package env overlays STOREFRONT_* environment variables on the stored
// settings and validates the result.
package env

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/custodia-labs/storefront-cli/internal/core/domain"
)

// Prefix is prepended to every variable name, e.g. STOREFRONT_API_BASE_URL.
const Prefix = "STOREFRONT"

// DefaultEnvFile is loaded from the working directory when present.
const DefaultEnvFile = ".env"

// Overrides holds the settings present in the environment. Unset variables
// leave their field nil.
type Overrides struct {
	BaseURL          *string   `envconfig:"API_BASE_URL"`
	TokenExchangeURL *string   `envconfig:"API_TOKEN_EXCHANGE_URL"`
	AllowedHosts     *[]string `envconfig:"API_ALLOWED_HOSTS"`
	TokenField       *string   `envconfig:"API_TOKEN_FIELD"`
	AllowInsecure    *bool     `envconfig:"API_ALLOW_INSECURE"`
	TimeoutSeconds   *int      `envconfig:"HTTP_TIMEOUT_SECONDS"`
	RateLimit        *float64  `envconfig:"HTTP_RATE_LIMIT"`
	Burst            *int      `envconfig:"HTTP_BURST"`
	Backend          *string   `envconfig:"STORAGE_BACKEND"`
	Scope            *string   `envconfig:"STORAGE_SCOPE"`
	DataDir          *string   `envconfig:"STORAGE_DATA_DIR"`
}

// Load reads overrides from the environment. envFile, if non-empty and
// present, is loaded first; variables already set take precedence over it.
func Load(envFile string) (*Overrides, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	var o Overrides
	if err := envconfig.Process(Prefix, &o); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}
	return &o, nil
}

// Apply copies the set overrides onto s. Blank strings are ignored.
func (o *Overrides) Apply(s *domain.ClientSettings) {
	setString(&s.API.BaseURL, o.BaseURL)
	setString(&s.API.TokenExchangeURL, o.TokenExchangeURL)
	setString(&s.API.TokenField, o.TokenField)
	setString(&s.Storage.Scope, o.Scope)
	setString(&s.Storage.DataDir, o.DataDir)
	if o.Backend != nil && strings.TrimSpace(*o.Backend) != "" {
		s.Storage.Backend = domain.StorageBackend(strings.TrimSpace(*o.Backend))
	}
	if o.AllowedHosts != nil {
		s.API.AllowedHosts = nil
		for _, host := range *o.AllowedHosts {
			if host = strings.TrimSpace(host); host != "" {
				s.API.AllowedHosts = append(s.API.AllowedHosts, host)
			}
		}
	}
	if o.AllowInsecure != nil {
		s.API.AllowInsecure = *o.AllowInsecure
	}
	if o.TimeoutSeconds != nil {
		s.HTTP.Timeout = time.Duration(*o.TimeoutSeconds) * time.Second
	}
	if o.RateLimit != nil {
		s.HTTP.RateLimit = *o.RateLimit
	}
	if o.Burst != nil {
		s.HTTP.Burst = *o.Burst
	}
}

func setString(dst *string, src *string) {
	if src == nil {
		return
	}
	if v := strings.TrimSpace(*src); v != "" {
		*dst = v
	}
}

// Resolve returns a copy of base with environment overrides applied, validated.
func Resolve(base domain.ClientSettings, envFile string) (*domain.ClientSettings, error) {
	overrides, err := Load(envFile)
	if err != nil {
		return nil, err
	}

	resolved := base
	resolved.API.AllowedHosts = append([]string(nil), base.API.AllowedHosts...)
	overrides.Apply(&resolved)

	if err := Validate(&resolved); err != nil {
		return nil, err
	}
	return &resolved, nil
}

// FieldError describes one invalid setting.
type FieldError struct {
	Field   string
	Tag     string
	Message string
}

// ValidationError wraps every invalid setting found.
type ValidationError struct {
	Errors []FieldError
}

// Error implements the error interface.
func (ve ValidationError) Error() string {
	msgs := make([]string, len(ve.Errors))
	for i, fe := range ve.Errors {
		msgs[i] = fe.Field + ": " + fe.Message
	}
	return "invalid settings: " + strings.Join(msgs, "; ")
}

// Unwrap lets callers match domain.ErrInvalidInput.
func (ve ValidationError) Unwrap() error {
	return domain.ErrInvalidInput
}

var validate = validator.New()

// Validate checks s against its struct tags.
func Validate(s *domain.ClientSettings) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	out := ValidationError{Errors: make([]FieldError, len(validationErrors))}
	for i, fe := range validationErrors {
		out.Errors[i] = FieldError{
			Field:   strings.TrimPrefix(fe.Namespace(), "ClientSettings."),
			Tag:     fe.Tag(),
			Message: msgForTag(fe.Tag(), fe.Param()),
		}
	}
	return out
}

func msgForTag(tag, param string) string {
	switch tag {
	case "required":
		return "is required"
	case "url":
		return "must be an absolute URL"
	case "oneof":
		return "must be one of: " + param
	case "gte":
		return "must be at least " + param
	case "hostname_port|hostname_rfc1123":
		return "must be a host name, optionally with port"
	default:
		return "failed validation on rule: " + tag
	}
}
