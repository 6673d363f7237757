package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/smallnest/leadscout/schema"
)

// HunterEmailFinder implements EmailFinder against a Hunter-style
// email discovery and verification API.
type HunterEmailFinder struct {
	APIKey  string
	BaseURL string
	client  *http.Client
}

type EmailFinderOption func(*HunterEmailFinder)

// WithEmailFinderBaseURL sets the API base URL.
func WithEmailFinderBaseURL(baseURL string) EmailFinderOption {
	return func(h *HunterEmailFinder) {
		h.BaseURL = baseURL
	}
}

// WithEmailFinderHTTPClient overrides the HTTP client.
func WithEmailFinderHTTPClient(client *http.Client) EmailFinderOption {
	return func(h *HunterEmailFinder) {
		h.client = client
	}
}

// NewHunterEmailFinder creates an email finder. If apiKey is empty, it
// tries the HUNTER_API_KEY environment variable.
func NewHunterEmailFinder(apiKey string, opts ...EmailFinderOption) (*HunterEmailFinder, error) {
	if apiKey == "" {
		apiKey = os.Getenv("HUNTER_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("HUNTER_API_KEY not set")
	}

	h := &HunterEmailFinder{
		APIKey:  apiKey,
		BaseURL: "https://api.hunter.io/v2/email-finder",
		client:  &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

type hunterResponse struct {
	Data struct {
		Email        string `json:"email"`
		Score        int    `json:"score"`
		Verification struct {
			Status string `json:"status"`
		} `json:"verification"`
	} `json:"data"`
}

// FindAndVerify looks up an email for the person. A miss — provider
// error, not-found status or empty email — is reported as a valid
// EmailResult with source "none"; the provider is treated as reliable,
// so misses are never retried here.
func (h *HunterEmailFinder) FindAndVerify(ctx context.Context, person schema.Person) (schema.EmailResult, error) {
	result := schema.EmailResult{
		Name:        person.Name,
		Role:        person.Role,
		Company:     person.Company,
		EmailSource: schema.EmailNone,
	}

	params := url.Values{}
	params.Set("full_name", person.Name)
	params.Set("company", person.Company)
	params.Set("api_key", h.APIKey)

	reqURL := fmt.Sprintf("%s?%s", h.BaseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return result, nil
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return result, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return result, nil
	}

	var payload hunterResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return result, nil
	}

	if payload.Data.Email == "" {
		return result, nil
	}

	result.Email = payload.Data.Email
	if payload.Data.Verification.Status == "valid" {
		result.EmailSource = schema.EmailFromSearch
	} else {
		result.EmailSource = schema.EmailGuessed
	}

	if err := result.Validate(); err != nil {
		return schema.EmailResult{
			Name:        person.Name,
			Role:        person.Role,
			Company:     person.Company,
			EmailSource: schema.EmailNone,
		}, nil
	}
	return result, nil
}
