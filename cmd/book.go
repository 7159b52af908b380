package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/weijiet/xmum-booker/booking"
	"github.com/weijiet/xmum-booker/captcha"
	"github.com/weijiet/xmum-booker/filter"
	"github.com/weijiet/xmum-booker/portal"
)

var (
	bookDate   string
	roomName   string
	timePrefs  string
	filterExpr string
	dryRun     bool
)

// bookCmd represents the book command
var bookCmd = &cobra.Command{
	Use:   "book",
	Short: "Log in and book a library room",
	Long: `Log in to the eServices portal and book a room for the target date.

Without --date the booking targets two days from now, trying the day-type
default slots in order (weekday: 19:00-21:00, 17:00-19:00, 15:00-17:00;
weekend: 15:00-17:00, 13:00-15:00, 11:00-13:00). An explicit --date without
--time books any available slot. --time supplies an ordered preference list;
the first slot with an open room wins.`,
	PreRunE: initializeApp,
	RunE:    runBook,
}

func init() {
	rootCmd.AddCommand(bookCmd)

	bookCmd.Flags().StringVar(&bookDate, "date", "", "booking date (YYYY-MM-DD, default two days from now)")
	bookCmd.Flags().StringVar(&roomName, "room", "", fmt.Sprintf("room category: %s", strings.Join(portal.CategoryNames(), ", ")))
	bookCmd.Flags().StringVar(&timePrefs, "time", "", "comma-separated slot preferences in order, e.g. '19:00-21:00,17:00-19:00'")
	bookCmd.Flags().StringVar(&filterExpr, "filter", "", `room filter expression, e.g. 'hasPrefix(RoomName, "E2")'`)
	bookCmd.Flags().BoolVarP(&dryRun, "dry-run", "d", false, "search for a room but do not submit the booking")
}

func runBook(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	room := roomName
	if room == "" {
		room = cfg.Booking.Room
	}
	category, err := portal.ParseRoomCategory(room)
	if err != nil {
		return err
	}

	pref, prefDesc, err := resolvePreference()
	if err != nil {
		return err
	}

	date, err := booking.ResolveDate(bookDate, time.Now())
	if err != nil {
		return err
	}

	solver, err := captcha.NewGeminiSolver(ctx, cfg.Captcha.GeminiAPIKey, cfg.Captcha.Model, logger)
	if err != nil {
		return fmt.Errorf("failed to create captcha solver: %w", err)
	}
	defer solver.Close()

	orch := booking.New(portalClient, solver, portal.Credentials{
		Username: cfg.Portal.Username,
		Password: cfg.Portal.Password,
	}, logger)
	orch.SetCategory(category)
	orch.SetPreference(pref)
	orch.SetDryRun(dryRun)

	if filterExpr != "" {
		roomFilter, err := filter.Compile(filterExpr)
		if err != nil {
			return fmt.Errorf("invalid filter expression: %w", err)
		}
		orch.SetFilter(roomFilter)
	}

	fmt.Printf("User:      %s\n", cfg.Portal.Username)
	fmt.Printf("Room type: %s\n", category)
	fmt.Printf("Date:      %s (%s)\n", date.Format("2006-01-02"), date.Format("Monday"))
	fmt.Printf("Time:      %s\n", prefDesc)
	if dryRun {
		fmt.Println("Mode:      dry run (no booking will be submitted)")
	}
	fmt.Println()

	results, err := orch.Run(ctx, []time.Time{date})
	if err != nil {
		// Only login exhaustion lands here; nothing was booked.
		return err
	}

	// Booking failures are reported through the summary alone; the process
	// exits zero as long as login succeeded.
	booking.PrintSummary(os.Stdout, results)
	return nil
}

// resolvePreference maps the flag/config state onto a slot preference:
// an explicit --time list wins, an explicit --date without --time means any
// slot, and otherwise the day-type defaults apply.
func resolvePreference() (booking.Preference, string, error) {
	times := timePrefs
	if times == "" {
		times = cfg.Booking.Times
	}

	if times != "" {
		slots, err := booking.ParseSlots(times)
		if err != nil {
			return booking.Preference{}, "", err
		}
		return booking.Preference{Slots: slots}, times, nil
	}

	if bookDate != "" {
		return booking.Preference{Any: true}, "any available slot", nil
	}

	return booking.Preference{}, "day-type defaults", nil
}
