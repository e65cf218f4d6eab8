package subscriptions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// CheckoutClient talks to the external billing provider to create hosted
// checkout sessions. The provider redirects the user back after payment and
// confirms the subscription through the webhook.
type CheckoutClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewCheckoutClient constructs a CheckoutClient.
func NewCheckoutClient(baseURL, apiKey string) (*CheckoutClient, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("CHECKOUT_API_URL is required")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("CHECKOUT_API_KEY is required")
	}
	return &CheckoutClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

type sessionRequest struct {
	UserID  string `json:"userId"`
	PriceID string `json:"priceId"`
}

type sessionResponse struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// CreateSession opens a hosted checkout session for the given price and
// returns the URL the user should be sent to.
func (c *CheckoutClient) CreateSession(ctx context.Context, userID, priceID string) (string, error) {
	body, err := json.Marshal(sessionRequest{UserID: userID, PriceID: priceID})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/checkout/sessions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("checkout request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("checkout response: %w", err)
	}

	var parsed sessionResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("checkout response: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		msg := "unexpected status"
		if parsed.Error != nil && parsed.Error.Message != "" {
			msg = parsed.Error.Message
		}
		return "", fmt.Errorf("checkout status %d: %s", resp.StatusCode, msg)
	}
	if parsed.URL == "" {
		return "", fmt.Errorf("checkout response missing url")
	}
	return parsed.URL, nil
}
