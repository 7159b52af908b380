package portal

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// bookingFragment is the JSON envelope around the booking page fragment.
type bookingFragment struct {
	HTML string `json:"html"`
}

// AvailableRooms returns the bookable rooms for date within the given
// category, in document order. A non-empty startTime/endTime pair filters
// to rooms whose window matches exactly; empty strings return every open
// room. Fetch or parse trouble yields an empty list, never an error: a date
// the portal will not show simply has no rooms to offer.
func (c *Client) AvailableRooms(ctx context.Context, date string, category RoomCategory, startTime, endTime, csrfToken string) []Room {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+bookingPagePath, nil)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Failed to create availability request")
		return nil
	}

	q := req.URL.Query()
	q.Set("bookingDate", date)
	req.URL.RawQuery = q.Encode()

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.Header.Set("X-CSRF-TOKEN", csrfToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("date", date).Msg("Availability request failed")
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn().Int("status", resp.StatusCode).Str("date", date).Msg("Availability request rejected")
		return nil
	}

	var fragment bookingFragment
	if err := json.NewDecoder(resp.Body).Decode(&fragment); err != nil {
		c.logger.Warn().Err(err).Str("date", date).Msg("Failed to decode availability envelope")
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment.HTML))
	if err != nil {
		c.logger.Warn().Err(err).Msg("Failed to parse availability fragment")
		return nil
	}

	table := doc.Find("table#" + category.TableID())
	if table.Length() == 0 {
		c.logger.Warn().Str("table", category.TableID()).Msg("Room table not found in fragment")
		return nil
	}

	var rooms []Room
	table.Find("button.booking-btn").Each(func(_ int, s *goquery.Selection) {
		if _, disabled := s.Attr("disabled"); disabled {
			return
		}

		room := Room{
			ID:    s.AttrOr("data-booking-room-id", ""),
			Name:  s.AttrOr("data-booking-room-name", ""),
			Start: s.AttrOr("data-booking-start-time", ""),
			End:   s.AttrOr("data-booking-end-time", ""),
			Date:  s.AttrOr("data-booking-date", ""),
		}

		if startTime != "" && (room.Start != startTime || room.End != endTime) {
			return
		}

		rooms = append(rooms, room)
	})

	c.logger.Debug().
		Str("date", date).
		Str("category", string(category)).
		Int("count", len(rooms)).
		Msg("Availability probe complete")

	return rooms
}
