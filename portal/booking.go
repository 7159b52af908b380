package portal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// bookResponse is the JSON payload returned by the booking endpoint.
type bookResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// BookRoom submits a reservation for a room captured by an earlier
// availability probe. The snapshot is not re-validated before submission;
// a room taken in the meantime comes back as a *BookingError. No retry
// happens here; a failed submission is the caller's problem.
func (c *Client) BookRoom(ctx context.Context, room Room, csrfToken string) error {
	form := url.Values{
		"_token":           {csrfToken},
		"bookingRoomId":    {room.ID},
		"bookingDate":      {room.Date},
		"bookingStartTime": {room.Start},
		"bookingEndTime":   {room.End},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+bookRoomPath, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create booking request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.Header.Set("X-CSRF-TOKEN", csrfToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("booking request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read booking response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("booking request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result bookResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("failed to parse booking response: %w", err)
	}

	if result.Code != 200 {
		return &BookingError{Code: result.Code, Message: result.Message}
	}

	c.logger.Info().
		Str("room", room.Name).
		Str("date", room.Date).
		Str("slot", room.Slot()).
		Msg("Booking successful")

	return nil
}
