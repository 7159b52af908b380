package booking

import (
	"testing"
	"time"
)

func TestParseSlots(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []TimeSlot
		wantErr bool
	}{
		{
			name:  "ordered list",
			input: "19:00-21:00,17:00-19:00",
			want:  []TimeSlot{{"19:00", "21:00"}, {"17:00", "19:00"}},
		},
		{
			name:  "whitespace tolerated",
			input: " 15:00-17:00 , 13:00-15:00 ",
			want:  []TimeSlot{{"15:00", "17:00"}, {"13:00", "15:00"}},
		},
		{
			name:  "empty entries skipped",
			input: "11:00-13:00,,",
			want:  []TimeSlot{{"11:00", "13:00"}},
		},
		{
			name:    "malformed entry",
			input:   "19:00",
			wantErr: true,
		},
		{
			name:    "unknown window",
			input:   "08:00-10:00",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSlots(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSlots(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ParseSlots(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("slot %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestPreferenceResolve(t *testing.T) {
	saturday := time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)
	monday := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)

	t.Run("explicit list wins on any day", func(t *testing.T) {
		explicit := []TimeSlot{{"09:00", "11:00"}}
		pref := Preference{Slots: explicit}

		for _, date := range []time.Time{saturday, monday} {
			slots, any := pref.Resolve(date)
			if any {
				t.Error("explicit preference must not resolve to any-slot mode")
			}
			if len(slots) != 1 || slots[0] != explicit[0] {
				t.Errorf("Resolve(%s) = %v, want %v", date.Format("2006-01-02"), slots, explicit)
			}
		}
	})

	t.Run("saturday defaults", func(t *testing.T) {
		slots, any := Preference{}.Resolve(saturday)
		if any {
			t.Fatal("defaults must not be any-slot mode")
		}
		want := []TimeSlot{{"15:00", "17:00"}, {"13:00", "15:00"}, {"11:00", "13:00"}}
		for i := range want {
			if slots[i] != want[i] {
				t.Errorf("weekend default %d = %v, want %v", i, slots[i], want[i])
			}
		}
	})

	t.Run("weekday defaults", func(t *testing.T) {
		slots, _ := Preference{}.Resolve(monday)
		want := []TimeSlot{{"19:00", "21:00"}, {"17:00", "19:00"}, {"15:00", "17:00"}}
		for i := range want {
			if slots[i] != want[i] {
				t.Errorf("weekday default %d = %v, want %v", i, slots[i], want[i])
			}
		}
	})

	t.Run("any-slot marker", func(t *testing.T) {
		slots, any := Preference{Any: true}.Resolve(monday)
		if !any || slots != nil {
			t.Errorf("Resolve() = (%v, %v), want (nil, true)", slots, any)
		}
	})

	t.Run("sunday is weekend", func(t *testing.T) {
		sunday := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
		if !IsWeekend(sunday) || !IsWeekend(saturday) || IsWeekend(monday) {
			t.Error("weekend detection is wrong")
		}
	})
}

func TestResolveDate(t *testing.T) {
	now := time.Date(2025, 6, 12, 10, 30, 0, 0, time.UTC)

	date, err := ResolveDate("", now)
	if err != nil {
		t.Fatalf("ResolveDate() error = %v", err)
	}
	if date.Format("2006-01-02") != "2025-06-14" {
		t.Errorf("default date = %s, want 2025-06-14 (two days ahead)", date.Format("2006-01-02"))
	}

	date, err = ResolveDate("2025-07-01", now)
	if err != nil {
		t.Fatalf("ResolveDate() error = %v", err)
	}
	if date.Format("2006-01-02") != "2025-07-01" {
		t.Errorf("explicit date = %s, want 2025-07-01", date.Format("2006-01-02"))
	}

	if _, err := ResolveDate("01/07/2025", now); err == nil {
		t.Error("expected error for malformed date")
	}
}
