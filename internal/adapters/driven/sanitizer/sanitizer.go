// Package sanitizer validates request targets before they reach the network.
package sanitizer

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/custodia-labs/storefront-cli/internal/core/domain"
	"github.com/custodia-labs/storefront-cli/internal/core/ports/driven"
)

// Ensure URLSanitizer implements the interface.
var _ driven.TargetSanitizer = (*URLSanitizer)(nil)

// URLSanitizer accepts absolute URLs on allowed hosts and paths relative
// to the API base URL.
type URLSanitizer struct {
	base          *url.URL
	allowedHosts  map[string]struct{}
	allowInsecure bool
	validate      *validator.Validate
}

// New creates a sanitizer from the API settings. The base URL host is
// always allowed.
func New(settings domain.APISettings) (*URLSanitizer, error) {
	v := validator.New()
	if err := v.Var(settings.BaseURL, "required,url"); err != nil {
		return nil, fmt.Errorf("%w: base url %q", domain.ErrInvalidInput, settings.BaseURL)
	}
	base, err := url.Parse(settings.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: base url: %w", domain.ErrInvalidInput, err)
	}

	s := &URLSanitizer{
		base:          base,
		allowedHosts:  map[string]struct{}{strings.ToLower(base.Host): {}},
		allowInsecure: settings.AllowInsecure,
		validate:      v,
	}
	for _, host := range settings.AllowedHosts {
		if host = strings.ToLower(strings.TrimSpace(host)); host != "" {
			s.allowedHosts[host] = struct{}{}
		}
	}
	return s, nil
}

// Sanitize returns the absolute URL for target.
func (s *URLSanitizer) Sanitize(target string) (string, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return "", reject("empty target")
	}
	if strings.ContainsFunc(target, unicode.IsControl) {
		return "", reject("target contains control characters")
	}

	if strings.HasPrefix(target, "/") && !strings.HasPrefix(target, "//") {
		ref, err := url.Parse(target)
		if err != nil {
			return "", reject(err.Error())
		}
		target = s.base.ResolveReference(ref).String()
	}

	if err := s.validate.Var(target, "url"); err != nil {
		return "", reject(fmt.Sprintf("%q is not a valid URL", target))
	}
	u, err := url.Parse(target)
	if err != nil {
		return "", reject(err.Error())
	}

	switch u.Scheme {
	case "https":
	case "http":
		if !s.allowInsecure {
			return "", reject("plain http is not allowed")
		}
	default:
		return "", reject(fmt.Sprintf("scheme %q is not allowed", u.Scheme))
	}

	if u.User != nil {
		return "", reject("credentials in URL are not allowed")
	}
	if u.Host == "" {
		return "", reject("missing host")
	}
	if !s.hostAllowed(u) {
		return "", reject(fmt.Sprintf("host %q is not allowed", u.Host))
	}

	return u.String(), nil
}

// hostAllowed matches either host:port or the bare hostname against the allowlist.
func (s *URLSanitizer) hostAllowed(u *url.URL) bool {
	if _, ok := s.allowedHosts[strings.ToLower(u.Host)]; ok {
		return true
	}
	_, ok := s.allowedHosts[strings.ToLower(u.Hostname())]
	return ok
}

func reject(reason string) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidTarget, reason)
}
