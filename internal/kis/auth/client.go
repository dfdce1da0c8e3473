package auth

import (
	"net/http"

	"kisopenapi/internal/kis"
)

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=auth_test -destination=mock_http_client_test.go -source=client.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the KIS OAuth endpoints. Unlike the quotation client it
// authenticates with the bare appkey/appsecret pair, since it exists to
// obtain the token in the first place.
type Client struct {
	baseURL    string
	httpClient HTTPClient
}

// ClientOption is a configuration option for the auth client.
type ClientOption func(*Client)

// WithHTTPClient sets the HTTP client used for outbound calls.
func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithBaseURL overrides the environment-resolved endpoint URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// NewClient creates an auth client for the given environment.
func NewClient(environment kis.Environment, options ...ClientOption) *Client {
	var client = &Client{
		baseURL:    environment.BaseURL(),
		httpClient: http.DefaultClient,
	}
	for _, option := range options {
		option(client)
	}
	return client
}
