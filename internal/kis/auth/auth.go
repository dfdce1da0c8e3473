// Package auth holds the static application credentials and the access
// token presented on every quotation request. Token refresh scheduling is
// the caller's concern; this package only issues, stores and revokes.
package auth

import "sync"

// Credentials implements the credential capability the quotation client
// consumes. The token slot is the only mutable state in the whole binding
// and is guarded here so concurrent dispatchers can read it safely.
type Credentials struct {
	appKey    string
	appSecret string

	mu    sync.RWMutex
	token string
}

// NewCredentials creates credentials with no token held yet.
func NewCredentials(appKey, appSecret string) *Credentials {
	return &Credentials{appKey: appKey, appSecret: appSecret}
}

// AppKey returns the static application key.
func (c *Credentials) AppKey() string { return c.appKey }

// AppSecret returns the static application secret.
func (c *Credentials) AppSecret() string { return c.appSecret }

// Token returns the current access token. The second return is false when
// no token is held.
func (c *Credentials) Token() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token, c.token != ""
}

// SetToken stores a freshly issued access token.
func (c *Credentials) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// ClearToken drops the held token, typically after revocation.
func (c *Credentials) ClearToken() {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
}
