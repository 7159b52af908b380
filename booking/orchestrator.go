package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/weijiet/xmum-booker/captcha"
	"github.com/weijiet/xmum-booker/portal"
)

// PortalAPI is the slice of the portal client the orchestrator drives.
type PortalAPI interface {
	Login(ctx context.Context, creds portal.Credentials, solver captcha.Solver) error
	FetchCSRFToken(ctx context.Context) (string, error)
	AvailableRooms(ctx context.Context, date string, category portal.RoomCategory, startTime, endTime, csrfToken string) []portal.Room
	BookRoom(ctx context.Context, room portal.Room, csrfToken string) error
}

// RoomFilter narrows availability results before the first room is picked.
type RoomFilter interface {
	Match(room portal.Room) bool
}

const (
	maxLoginAttempts = 3
	loginRetryDelay  = 2 * time.Second
	interDateDelay   = 1 * time.Second
)

// Orchestrator runs one booking pass end to end: login with retries, one
// CSRF token for the whole pass, then a preference-ordered slot search and
// at most one booking attempt per date. It owns the session exclusively for
// the duration of the run.
type Orchestrator struct {
	portal PortalAPI
	solver captcha.Solver
	creds  portal.Credentials
	logger zerolog.Logger

	category portal.RoomCategory
	pref     Preference
	filter   RoomFilter
	dryRun   bool

	sleep func(time.Duration)
}

// New creates an orchestrator booking group rooms by default.
func New(api PortalAPI, solver captcha.Solver, creds portal.Credentials, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		portal:   api,
		solver:   solver,
		creds:    creds,
		logger:   logger,
		category: portal.RoomGroup,
		sleep:    time.Sleep,
	}
}

// SetCategory selects the room category to search.
func (o *Orchestrator) SetCategory(category portal.RoomCategory) {
	o.category = category
}

// SetPreference sets the slot preference for the run.
func (o *Orchestrator) SetPreference(pref Preference) {
	o.pref = pref
}

// SetFilter installs an optional room filter.
func (o *Orchestrator) SetFilter(filter RoomFilter) {
	o.filter = filter
}

// SetDryRun makes the run search without submitting bookings.
func (o *Orchestrator) SetDryRun(dryRun bool) {
	o.dryRun = dryRun
}

// Login runs the login retry loop: up to three attempts with a fixed pause
// between them. Exhausting the attempts is the one failure that aborts the
// whole run; no booking is attempted without a session.
func (o *Orchestrator) Login(ctx context.Context) error {
	var err error
	for attempt := 1; attempt <= maxLoginAttempts; attempt++ {
		o.logger.Info().Int("attempt", attempt).Int("max", maxLoginAttempts).Msg("Logging in")

		if err = o.portal.Login(ctx, o.creds, o.solver); err == nil {
			return nil
		}

		o.logger.Warn().Err(err).Int("attempt", attempt).Msg("Login attempt failed")
		if attempt < maxLoginAttempts {
			o.sleep(loginRetryDelay)
		}
	}
	return fmt.Errorf("failed to login after %d attempts: %w", maxLoginAttempts, err)
}

// Run executes one booking pass over the given dates, in order. The
// returned error is non-nil only when login failed; every outcome below the
// session layer, including a pass where every date failed, is reported
// through the results alone.
//
// The CSRF token is fetched once and reused for every date in the pass. A
// pass currently covers a single date, so refetching per date would only
// add a request; revisit if multi-date passes ever span long enough for the
// portal to rotate the token.
func (o *Orchestrator) Run(ctx context.Context, dates []time.Time) ([]DateResult, error) {
	if err := o.Login(ctx); err != nil {
		return nil, err
	}

	results := make([]DateResult, 0, len(dates))

	token, err := o.portal.FetchCSRFToken(ctx)
	if err != nil {
		o.logger.Error().Err(err).Msg("Failed to extract CSRF token")
		for _, date := range dates {
			results = append(results, DateResult{Date: date, Outcome: OutcomeFailed, Reason: "CSRF token unavailable"})
		}
		return results, nil
	}
	o.logger.Debug().Msg("CSRF token obtained")

	for i, date := range dates {
		if i > 0 {
			// Courtesy pause so consecutive dates don't hammer the portal.
			o.sleep(interDateDelay)
		}
		results = append(results, o.processDate(ctx, date, token))
	}

	return results, nil
}

// processDate searches the date's preference list in order and attempts to
// book the first room of the first non-empty slot. Later slots are never
// probed once one matches: the list order itself encodes preference.
func (o *Orchestrator) processDate(ctx context.Context, date time.Time, token string) DateResult {
	dateStr := date.Format("2006-01-02")
	slots, any := o.pref.Resolve(date)

	log := o.logger.With().Str("date", dateStr).Str("category", string(o.category)).Logger()

	var candidate *portal.Room
	if any {
		log.Info().Msg("Searching any available slot")
		if rooms := o.available(ctx, dateStr, "", "", token); len(rooms) > 0 {
			candidate = &rooms[0]
		}
	} else {
		log.Info().Stringers("preferences", slotStringers(slots)).Msg("Searching preferred slots")
		for _, slot := range slots {
			rooms := o.available(ctx, dateStr, slot.Start, slot.End, token)
			if len(rooms) > 0 {
				log.Info().Str("slot", slot.String()).Int("rooms", len(rooms)).Msg("Found available rooms")
				candidate = &rooms[0]
				break
			}
			log.Info().Str("slot", slot.String()).Msg("No rooms, trying next slot")
		}
	}

	if candidate == nil {
		return DateResult{Date: date, Outcome: OutcomeNoRooms}
	}

	if o.dryRun {
		log.Info().Str("room", candidate.Name).Str("slot", candidate.Slot()).Msg("Dry run, skipping booking")
		return DateResult{Date: date, Outcome: OutcomeSuccess, Room: candidate, Reason: "dry run, not submitted"}
	}

	if err := o.portal.BookRoom(ctx, *candidate, token); err != nil {
		log.Error().Err(err).Str("room", candidate.Name).Msg("Booking failed")
		return DateResult{Date: date, Outcome: OutcomeFailed, Room: candidate, Reason: err.Error()}
	}

	return DateResult{Date: date, Outcome: OutcomeSuccess, Room: candidate}
}

// available probes the portal and applies the optional room filter.
func (o *Orchestrator) available(ctx context.Context, date, start, end, token string) []portal.Room {
	rooms := o.portal.AvailableRooms(ctx, date, o.category, start, end, token)
	if o.filter == nil {
		return rooms
	}

	kept := rooms[:0:0]
	for _, room := range rooms {
		if o.filter.Match(room) {
			kept = append(kept, room)
		}
	}
	return kept
}

func slotStringers(slots []TimeSlot) []fmt.Stringer {
	out := make([]fmt.Stringer, len(slots))
	for i, s := range slots {
		out[i] = s
	}
	return out
}
