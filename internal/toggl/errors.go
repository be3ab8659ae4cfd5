package toggl

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrProvider is the sentinel behind every non-2xx Toggl response.
var ErrProvider = errors.New("toggl provider error")

// ProviderError is a non-2xx response from the Toggl API. Body is the raw
// response body.
type ProviderError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *ProviderError) Error() string {
	// Bad requests carry the useful explanation in the body.
	if e.StatusCode == http.StatusBadRequest {
		return fmt.Sprintf("%d Client Error: %s for url: %s", e.StatusCode, strings.TrimSpace(e.Body), e.URL)
	}
	kind := "Client"
	if e.StatusCode >= 500 {
		kind = "Server"
	}
	return fmt.Sprintf("%d %s Error: %s for url: %s", e.StatusCode, kind, http.StatusText(e.StatusCode), e.URL)
}

func (e *ProviderError) Unwrap() error { return ErrProvider }
