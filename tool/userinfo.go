package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/smallnest/leadscout/schema"
)

// ProfileClient implements UserInfoProvider against an HTTP profile
// store.
type ProfileClient struct {
	BaseURL string
	client  *http.Client
}

type ProfileOption func(*ProfileClient)

// WithProfileHTTPClient overrides the HTTP client used for profile
// lookups.
func WithProfileHTTPClient(client *http.Client) ProfileOption {
	return func(p *ProfileClient) {
		p.client = client
	}
}

// NewProfileClient creates a profile store client.
func NewProfileClient(baseURL string, opts ...ProfileOption) (*ProfileClient, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("profile store base URL not set")
	}

	p := &ProfileClient{
		BaseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// GetUserInfo fetches the declared profile for the given opaque
// identity. Any transport or server failure maps to
// ErrContextUnavailable.
func (p *ProfileClient) GetUserInfo(ctx context.Context, identity string) (schema.UserContext, error) {
	reqURL := fmt.Sprintf("%s/users/%s", p.BaseURL, url.PathEscape(identity))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return schema.UserContext{}, fmt.Errorf("%w: %v", ErrContextUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return schema.UserContext{}, fmt.Errorf("%w: %v", ErrContextUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return schema.UserContext{}, fmt.Errorf("%w: profile store status %d", ErrContextUnavailable, resp.StatusCode)
	}

	var userContext schema.UserContext
	if err := json.NewDecoder(resp.Body).Decode(&userContext); err != nil {
		return schema.UserContext{}, fmt.Errorf("%w: %v", ErrContextUnavailable, err)
	}
	return userContext, nil
}
