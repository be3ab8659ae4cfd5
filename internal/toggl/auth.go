package toggl

import (
	"context"
	"encoding/base64"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/Tiliavir/toggl-tally/internal/model"
)

// TokenEnv is the environment variable holding the Toggl API token.
const TokenEnv = "TOGGL_API_TOKEN"

// basicPassword is the fixed password Toggl expects alongside an API token.
const basicPassword = "api_token"

// tokenSource returns a static token source that authenticates every request
// with HTTP Basic "<token>:api_token".
func tokenSource(apiToken string) (oauth2.TokenSource, error) {
	if apiToken == "" {
		return nil, model.NewConfigError("api.token",
			"please ensure that the '%s' environment variable is set", TokenEnv)
	}
	creds := base64.StdEncoding.EncodeToString([]byte(apiToken + ":" + basicPassword))
	return oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: creds,
		TokenType:   "Basic",
	}), nil
}

// httpClient builds the authenticated transport. The timeout applies to each
// request including reading the body.
func httpClient(ctx context.Context, apiToken string, timeout time.Duration) (*http.Client, error) {
	ts, err := tokenSource(apiToken)
	if err != nil {
		return nil, err
	}
	c := oauth2.NewClient(ctx, ts)
	c.Timeout = timeout
	return c, nil
}
