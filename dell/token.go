// dell/token.go
package dell

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	ent_errors "github.com/assetops/entitlements/errors"
)

// renewalBuffer is subtracted from a reported token lifetime so a token is
// renewed shortly before the upstream service would reject it.
const renewalBuffer = 30 * time.Second

// TokenManager owns the OAuth2 client-credential lifecycle against the auth
// endpoint. It holds at most one token; acquisition is serialized so
// concurrent callers trigger at most one in-flight authentication call.
// There is no background refresh: refresh is always caller-triggered, either
// by expiry or by Invalidate after a downstream 401.
type TokenManager struct {
	authURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client
	log          *zap.Logger

	mu       sync.Mutex
	token    string
	hasToken bool
	expiry   time.Time // zero when upstream reported no lifetime
}

// tokenResponse is the auth endpoint's success body. Only access_token is
// guaranteed; expires_in is absent in some deployments.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

func NewTokenManager(authURL, clientID, clientSecret string, httpClient *http.Client, log *zap.Logger) *TokenManager {
	if log == nil {
		log = zap.NewNop()
	}
	return &TokenManager{
		authURL:      authURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   httpClient,
		log:          log,
	}
}

// EnsureValid returns a currently-valid bearer token, authenticating when
// none is held, the held token was invalidated, or its reported lifetime has
// elapsed. Callers blocked on a concurrent acquisition reuse its result.
func (tm *TokenManager) EnsureValid(ctx context.Context) (string, error) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if tm.hasToken && (tm.expiry.IsZero() || time.Now().Before(tm.expiry)) {
		return tm.token, nil
	}

	token, err := tm.authenticate(ctx)
	if err != nil {
		return "", err
	}
	return token, nil
}

// Invalidate marks the held token as no longer usable. Idempotent. Called
// after a downstream 401, which is treated conservatively as expiry.
func (tm *TokenManager) Invalidate() {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.token = ""
	tm.hasToken = false
	tm.expiry = time.Time{}
}

// authenticate performs the client-credential exchange. Caller holds tm.mu.
func (tm *TokenManager) authenticate(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", tm.clientID)
	form.Set("client_secret", tm.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tm.authURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", &ent_errors.AuthenticationError{Reason: "building auth request", Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := tm.httpClient.Do(req)
	if err != nil {
		return "", &ent_errors.NetworkError{Op: "authenticate", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ent_errors.NetworkError{Op: "authenticate", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		tm.log.Warn("Auth endpoint rejected credentials", zap.Int("status", resp.StatusCode))
		return "", &ent_errors.AuthenticationError{
			Reason: fmt.Sprintf("auth endpoint returned status %d", resp.StatusCode),
		}
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return "", &ent_errors.AuthenticationError{Reason: "malformed token response", Err: err}
	}
	if tr.AccessToken == "" {
		return "", &ent_errors.AuthenticationError{Reason: "token response missing access_token"}
	}

	tm.token = tr.AccessToken
	tm.hasToken = true
	tm.expiry = time.Time{}
	if tr.ExpiresIn > 0 {
		lifetime := time.Duration(tr.ExpiresIn) * time.Second
		if lifetime > renewalBuffer {
			lifetime -= renewalBuffer
		}
		tm.expiry = time.Now().Add(lifetime)
	}

	tm.log.Debug("Authenticated against auth endpoint",
		zap.Bool("hasExpiry", !tm.expiry.IsZero()))
	return tm.token, nil
}
