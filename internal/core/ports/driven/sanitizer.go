package driven

// TargetSanitizer validates and normalises request targets.
type TargetSanitizer interface {
	// Sanitize returns the absolute URL to request for target.
	// Returns an error wrapping domain.ErrInvalidTarget if the target is
	// malformed or not allowed.
	Sanitize(target string) (string, error)
}
