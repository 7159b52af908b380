package portal

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/rs/zerolog"
)

const (
	requestTimeout = 10 * time.Second
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

	bookingPagePath  = "/space-booking/library-space-booking"
	bookRoomPath     = "/space-booking/book-library-room"
	authenticatePath = "/authenticate"
)

// Client talks to the eServices portal. The cookie jar carries the login
// session, so a single Client is one session; it is not safe for concurrent
// use and is owned by exactly one booking run.
type Client struct {
	baseURL    string
	httpClient *http.Client
	classifier LoginClassifier
	logger     zerolog.Logger
}

// NewClient creates a portal client for the given base origin.
func NewClient(baseURL string, logger zerolog.Logger) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("portal URL is required")
	}

	// Ensure baseURL doesn't have trailing slash
	if baseURL[len(baseURL)-1] == '/' {
		baseURL = baseURL[:len(baseURL)-1]
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Jar:     jar,
			Timeout: requestTimeout,
		},
		classifier: NewMarkerClassifier(),
		logger:     logger,
	}, nil
}

// SetClassifier swaps the login-response classification policy.
func (c *Client) SetClassifier(classifier LoginClassifier) {
	c.classifier = classifier
}

// BaseURL returns the portal origin the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// get performs a GET request and returns the body of a 2xx response.
func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("request to %s failed with status %d", rawURL, resp.StatusCode)
	}

	return body, nil
}
