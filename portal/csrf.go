package portal

import (
	"bytes"
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"
)

// FetchCSRFToken reads the anti-forgery token from the booking page. The
// token is short-lived; callers fetch it once per booking pass and must not
// cache it across runs.
func (c *Client) FetchCSRFToken(ctx context.Context) (string, error) {
	page, err := c.get(ctx, c.baseURL+bookingPagePath)
	if err != nil {
		return "", fmt.Errorf("failed to fetch booking page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return "", fmt.Errorf("failed to parse booking page: %w", err)
	}

	if content, ok := doc.Find(`meta[name="csrf-token"]`).Attr("content"); ok && content != "" {
		return content, nil
	}
	if value, ok := doc.Find(`input[name="_token"]`).Attr("value"); ok && value != "" {
		return value, nil
	}

	return "", ErrCSRFTokenNotFound
}
