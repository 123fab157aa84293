package driven

// ConfigStore holds flat, dot-separated settings keys such as
// "api.base_url". Typed getters return the zero value when a key is missing
// or holds another type; use Get to tell the two apart.
type ConfigStore interface {
	Get(key string) (any, bool)
	GetString(key string) string
	GetInt(key string) int
	GetBool(key string) bool
	GetStringSlice(key string) []string

	// Set stores value under key and persists it before returning.
	Set(key string, value any) error
}
