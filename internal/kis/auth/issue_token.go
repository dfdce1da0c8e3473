package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	issueTokenPath  = "/oauth2/tokenP"
	revokeTokenPath = "/oauth2/revokeP"
)

// Token is an issued access token. ExpiresAt is the upstream's local
// timestamp string ("2006-01-02 15:04:05").
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	ExpiresAt   string `json:"access_token_token_expired"`
}

// IssueToken requests a new access token for the appkey/appsecret pair.
// The upstream invalidates the previous token for the pair when a new one
// is issued, so call this once per process and share the result.
func (c *Client) IssueToken(ctx context.Context, appKey, appSecret string) (*Token, error) {
	body, err := json.Marshal(map[string]string{
		"grant_type": "client_credentials",
		"appkey":     appKey,
		"appsecret":  appSecret,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+issueTokenPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("performing token request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 2<<10))
		return nil, fmt.Errorf("token request failed with status %d: %s", res.StatusCode, strings.TrimSpace(string(b)))
	}

	var token Token
	if err := json.NewDecoder(res.Body).Decode(&token); err != nil {
		return nil, fmt.Errorf("decoding token response: %w", err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("token response carried no access token")
	}
	return &token, nil
}

// RevokeToken invalidates an access token upstream.
func (c *Client) RevokeToken(ctx context.Context, appKey, appSecret, token string) error {
	body, err := json.Marshal(map[string]string{
		"appkey":    appKey,
		"appsecret": appSecret,
		"token":     token,
	})
	if err != nil {
		return fmt.Errorf("encoding revoke request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+revokeTokenPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating revoke request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing revoke request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 2<<10))
		return fmt.Errorf("revoke request failed with status %d: %s", res.StatusCode, strings.TrimSpace(string(b)))
	}
	return nil
}
