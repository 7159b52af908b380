package booking

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/weijiet/xmum-booker/portal"
)

// Outcome classifies what happened to one date in a pass.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeNoRooms Outcome = "no_rooms"
	OutcomeFailed  Outcome = "failed"
)

// DateResult records the outcome for one processed date.
type DateResult struct {
	Date    time.Time
	Outcome Outcome
	Room    *portal.Room
	Reason  string
}

func outcomeIcon(o Outcome) string {
	switch o {
	case OutcomeSuccess:
		return "✓"
	case OutcomeNoRooms:
		return "○"
	default:
		return "✗"
	}
}

// PrintSummary writes the per-date outcome table.
func PrintSummary(w io.Writer, results []DateResult) {
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintln(w, "BOOKING SUMMARY")
	fmt.Fprintln(w, strings.Repeat("=", 60))

	for _, r := range results {
		line := fmt.Sprintf("%s %s, %s: %s",
			outcomeIcon(r.Outcome),
			r.Date.Format("Monday"),
			r.Date.Format("2006-01-02"),
			strings.ToUpper(string(r.Outcome)))

		if r.Room != nil {
			line += fmt.Sprintf("  [%s %s]", r.Room.Name, r.Room.Slot())
		}
		if r.Reason != "" {
			line += fmt.Sprintf("  (%s)", r.Reason)
		}

		fmt.Fprintln(w, line)
	}
}
