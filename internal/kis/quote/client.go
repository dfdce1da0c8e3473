package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"kisopenapi/internal/kis"
)

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=quote_test -destination=mock_client_test.go -source=client.go HTTPClient CredentialProvider
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// CredentialProvider supplies the static application credentials and the
// current access token. Token reports false when no token is held; the
// provider owns any synchronization around token refresh.
type CredentialProvider interface {
	Token() (string, bool)
	AppKey() string
	AppSecret() string
}

// Client dispatches authenticated quotation requests against the KIS Open
// API. It is immutable after construction and safe for concurrent use; the
// HTTP client and credential provider are shared, not owned.
type Client struct {
	// baseURL is resolved from the environment at construction.
	baseURL string
	// environment is the deployment the client was built for.
	environment kis.Environment
	// httpClient performs the outbound calls.
	httpClient HTTPClient
	// creds supplies appkey, appsecret and the bearer token.
	creds CredentialProvider
	// account is held for construction parity with the order APIs; the
	// quotation endpoints do not read it.
	account kis.Account
}

// ClientOption is a configuration option for the quotation client.
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

// NewClient creates a quotation client for the given environment.
func NewClient(environment kis.Environment, creds CredentialProvider, account kis.Account, options ...ClientOption) (*Client, error) {
	if creds == nil {
		return nil, fmt.Errorf("credential provider is required")
	}
	var client = &Client{
		baseURL:     environment.BaseURL(),
		environment: environment,
		httpClient:  http.DefaultClient,
		creds:       creds,
		account:     account,
	}
	for _, option := range options {
		option(client)
	}
	return client, nil
}

// Environment returns the deployment the client was built for.
func (c *Client) Environment() kis.Environment { return c.environment }

// send issues the authenticated GET shared by every operation. It fails
// with ErrTokenUnavailable before any network I/O when no token is held.
func (c *Client) send(ctx context.Context, url string, trID kis.TrID) (*http.Response, error) {
	token, ok := c.creds.Token()
	if !ok {
		return nil, ErrTokenUnavailable
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRequest, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("appkey", c.creds.AppKey())
	req.Header.Set("appsecret", c.creds.AppSecret())
	req.Header.Set("tr_id", string(trID))
	// custtype P is the personal-customer type mandated by the upstream.
	req.Header.Set("custtype", "P")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	return res, nil
}

// getJSON dispatches a GET and decodes the JSON body into out. Non-2xx
// responses surface as *StatusError so callers can tell "server rejected"
// apart from "payload unparseable".
func (c *Client) getJSON(ctx context.Context, url string, trID kis.TrID, out any) error {
	res, err := c.send(ctx, url, trID)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 2<<10))
		return &StatusError{Code: res.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return nil
}
