// dell/client.go

// Package dell is the client for the asset-entitlement service: an OAuth2
// token lifecycle, a TTL-bounded response cache keyed by service tag, and an
// authenticated fetch with exactly one 401-triggered retry.
package dell

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/assetops/entitlements/cache"
	ent_errors "github.com/assetops/entitlements/errors"
)

const (
	DefaultAuthURL = "https://apigtwb2c.us.dell.com/auth/oauth/v2/token"
	DefaultAPIURL  = "https://apigtwb2c.us.dell.com/PROD/sbil/eapi/v5/asset-entitlements"

	defaultCacheTTL = 15 * time.Minute
	defaultTimeout  = 30 * time.Second
)

// Config carries everything the client needs at construction. ClientID and
// ClientSecret are required; URLs, TTL and timeout fall back to defaults.
type Config struct {
	AuthURL      string
	APIURL       string
	ClientID     string
	ClientSecret string
	CacheTTL     time.Duration
	Timeout      time.Duration

	// HTTPClient overrides the default client; used by tests.
	HTTPClient *http.Client
	// Logger is the observability capability; nil means silent.
	Logger *zap.Logger
}

// Client performs cached, authenticated entitlement lookups. Safe for
// concurrent use; concurrent cache misses for the same tag are coalesced
// into a single upstream call.
type Client struct {
	apiURL     string
	tokens     *TokenManager
	responses  *cache.TTLCache[string, json.RawMessage]
	httpClient *http.Client
	log        *zap.Logger
	group      singleflight.Group
}

// NewClient validates the configuration and builds a client. Missing
// credentials are fatal: no call proceeds without them.
func NewClient(cfg Config) (*Client, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, ent_errors.ErrMissingCredentials
	}
	if cfg.AuthURL == "" {
		cfg.AuthURL = DefaultAuthURL
	}
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = defaultCacheTTL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		apiURL:     cfg.APIURL,
		tokens:     NewTokenManager(cfg.AuthURL, cfg.ClientID, cfg.ClientSecret, httpClient, cfg.Logger),
		responses:  cache.New[string, json.RawMessage](cfg.CacheTTL),
		httpClient: httpClient,
		log:        cfg.Logger,
	}, nil
}

// NormalizeTag canonicalizes a service tag for lookups and cache keys.
func NormalizeTag(tag string) string {
	return strings.ToUpper(strings.TrimSpace(tag))
}

// Fetch returns the raw upstream payload for a service tag, from cache when
// a fresh entry exists. On a miss it guarantees a valid token, issues the
// GET, and retries exactly once after a 401; a second 401 surfaces as an
// AuthenticationError. Other non-200 statuses surface as UpstreamError with
// the body verbatim; transport failures as NetworkError. Nothing is cached
// for a failed attempt.
func (c *Client) Fetch(ctx context.Context, tag string) (json.RawMessage, error) {
	tag = NormalizeTag(tag)
	if tag == "" {
		return nil, ent_errors.ErrMissingServiceTag
	}

	if payload, ok := c.responses.Get(tag); ok {
		c.log.Debug("Cache hit", zap.String("serviceTag", tag))
		return payload, nil
	}

	// Coalesce concurrent misses for the same tag into one upstream call.
	v, err, shared := c.group.Do(tag, func() (interface{}, error) {
		return c.fetchUpstream(ctx, tag)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.log.Debug("Coalesced concurrent fetch", zap.String("serviceTag", tag))
	}
	return v.(json.RawMessage), nil
}

// fetchUpstream is the miss path: authenticated GET with a bounded attempt
// counter in place of recursive self-retry.
func (c *Client) fetchUpstream(ctx context.Context, tag string) (json.RawMessage, error) {
	for attempt := 0; attempt < 2; attempt++ {
		token, err := c.tokens.EnsureValid(ctx)
		if err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL, nil)
		if err != nil {
			return nil, &ent_errors.NetworkError{Op: "fetch entitlements", Err: err}
		}
		q := url.Values{}
		q.Set("servicetags", tag)
		req.URL.RawQuery = q.Encode()
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, &ent_errors.NetworkError{Op: "fetch entitlements", Err: err}
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, &ent_errors.NetworkError{Op: "fetch entitlements", Err: err}
		}

		switch resp.StatusCode {
		case http.StatusOK:
			payload := json.RawMessage(body)
			c.responses.Put(tag, payload)
			c.log.Debug("Fetched entitlements",
				zap.String("serviceTag", tag),
				zap.Int("bytes", len(body)))
			return payload, nil
		case http.StatusUnauthorized:
			c.log.Warn("Entitlement request unauthorized, re-authenticating",
				zap.String("serviceTag", tag),
				zap.Int("attempt", attempt+1))
			c.tokens.Invalidate()
			continue
		default:
			return nil, &ent_errors.UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
		}
	}

	return nil, &ent_errors.AuthenticationError{
		Reason: "entitlement request rejected with 401 after re-authentication",
	}
}

// InvalidateTag drops any cached payload for a tag, forcing the next Fetch
// to hit upstream.
func (c *Client) InvalidateTag(tag string) {
	c.responses.Delete(NormalizeTag(tag))
}
