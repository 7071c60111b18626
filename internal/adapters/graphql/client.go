package graphql

import (
	"context"
	"net/http"
	"time"

	"github.com/SscSPs/journal_draft_app/internal/middleware"
	"github.com/cockroachdb/errors"
	"github.com/imroc/req/v3"
	"github.com/samber/lo"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	portsrepo "github.com/SscSPs/journal_draft_app/internal/core/ports/repositories"
)

// ActingUserHeader tells the gateway on whose behalf the service is calling.
const ActingUserHeader = "X-Acting-User-ID"

// Client talks to the accounting GraphQL gateway.
type Client struct {
	cl       *req.Client
	endpoint string
	tokens   oauth2.TokenSource
}

// Option configures a Client.
type Option func(*Client)

// WithTokenSource authenticates every request with a bearer token from ts.
func WithTokenSource(ts oauth2.TokenSource) Option {
	return func(c *Client) {
		c.tokens = ts
	}
}

// WithStaticToken authenticates every request with a fixed API token.
func WithStaticToken(token string) Option {
	return func(c *Client) {
		if token != "" {
			c.tokens = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
		}
	}
}

// NewClientCredentialsTokenSource returns a cached OAuth2 client-credentials
// token source for service-to-service calls.
func NewClientCredentialsTokenSource(ctx context.Context, clientID, clientSecret, tokenURL string) oauth2.TokenSource {
	cfg := clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
	}
	return cfg.TokenSource(ctx)
}

// NewHTTPClient returns the req client used for gateway calls.
func NewHTTPClient(timeout time.Duration) *req.Client {
	return req.C().
		SetTimeout(timeout).
		SetCommonHeader("Accept", "application/json").
		SetUserAgent("journal-draft-service")
}

// NewClient creates a gateway client posting to endpoint.
func NewClient(endpoint string, cl *req.Client, opts ...Option) *Client {
	c := &Client{
		cl:       cl,
		endpoint: endpoint,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ portsrepo.AccountingGatewayFacade = (*Client)(nil)

type request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type gqlError struct {
	Message string `json:"message"`
}

type response[T any] struct {
	Data   *T         `json:"data"`
	Errors []gqlError `json:"errors"`
}

// execute posts one operation and decodes its data into T. Errors reported
// in the response body become a *portsrepo.RemoteError carrying the
// gateway's messages.
func execute[T any](ctx context.Context, c *Client, operation, query string, variables map[string]any) (*T, error) {
	var apiResp response[T]

	r := c.cl.R().
		SetContext(ctx).
		SetBody(request{Query: query, Variables: variables}).
		SetSuccessResult(&apiResp).
		SetErrorResult(&apiResp)

	if c.tokens != nil {
		token, err := c.tokens.Token()
		if err != nil {
			return nil, errors.Wrap(err, "failed to obtain gateway access token")
		}
		r.SetBearerAuthToken(token.AccessToken)
	}
	if userID, ok := middleware.UserIDFromCtx(ctx); ok {
		r.SetHeader(ActingUserHeader, userID)
	}

	resp, err := r.Post(c.endpoint)
	if err != nil {
		return nil, errors.Wrapf(err, "graphql %s request failed", operation)
	}

	if len(apiResp.Errors) > 0 {
		return nil, &portsrepo.RemoteError{
			Messages: lo.Map(apiResp.Errors, func(e gqlError, _ int) string { return e.Message }),
		}
	}

	if resp.IsErrorState() {
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return nil, errors.Newf("graphql %s: gateway refused credentials (status %d)", operation, resp.StatusCode)
		}
		return nil, errors.Newf("graphql %s: got error response %d: %s", operation, resp.StatusCode, resp.String())
	}

	if apiResp.Data == nil {
		return nil, errors.Newf("graphql %s: response has no data", operation)
	}

	return apiResp.Data, nil
}
