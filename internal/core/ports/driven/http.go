package driven

import "net/http"

// HTTPDoer sends HTTP requests. *http.Client satisfies it.
// Timeouts are the transport's concern.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}
