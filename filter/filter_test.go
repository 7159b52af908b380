package filter

import (
	"errors"
	"testing"

	"github.com/weijiet/xmum-booker/portal"
)

var testRooms = []portal.Room{
	{ID: "41", Name: "E231", Start: "15:00", End: "17:00", Date: "2025-06-16"},
	{ID: "43", Name: "W241", Start: "19:00", End: "21:00", Date: "2025-06-16"},
	{ID: "51", Name: "S221", Start: "19:00", End: "21:00", Date: "2025-06-16"},
}

func TestCompileAndMatch(t *testing.T) {
	tests := []struct {
		name       string
		expression string
		want       []string // matching room names
	}{
		{
			name:       "name prefix",
			expression: `hasPrefix(RoomName, "E2")`,
			want:       []string{"E231"},
		},
		{
			name:       "prefix is case-insensitive",
			expression: `hasPrefix(RoomName, "w2")`,
			want:       []string{"W241"},
		},
		{
			name:       "suffix",
			expression: `hasSuffix(RoomName, "41")`,
			want:       []string{"W241"},
		},
		{
			name:       "membership",
			expression: `RoomName in ["E231", "S221"]`,
			want:       []string{"E231", "S221"},
		},
		{
			name:       "combined conditions",
			expression: `Start == "19:00" and hasSubstring(RoomName, "w")`,
			want:       []string{"W241"},
		},
		{
			name:       "builtin operator form is case-sensitive",
			expression: `RoomName startsWith "E2"`,
			want:       []string{"E231"},
		},
		{
			name:       "slot string",
			expression: `Slot == "15:00-17:00"`,
			want:       []string{"E231"},
		},
		{
			name:       "no match",
			expression: `RoomName == "N201"`,
			want:       nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Compile(tt.expression)
			if err != nil {
				t.Fatalf("Compile(%q) error = %v", tt.expression, err)
			}

			var got []string
			for _, room := range testRooms {
				if f.Match(room) {
					got = append(got, room.Name)
				}
			}

			if len(got) != len(tt.want) {
				t.Fatalf("matches = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("match %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestCompileErrors(t *testing.T) {
	var compErr *CompilationError

	_, err := Compile("")
	if !errors.As(err, &compErr) {
		t.Errorf("Compile(\"\") error = %v, want *CompilationError", err)
	}

	_, err = Compile("RoomName ==")
	if !errors.As(err, &compErr) {
		t.Errorf("Compile(malformed) error = %v, want *CompilationError", err)
	}

	// Non-boolean expressions are rejected at compile time.
	if _, err := Compile(`"just a string"`); err == nil {
		t.Error("expected error for non-boolean expression")
	}

	// The operator names cannot be used in call form; the expression
	// language reserves them as infix tokens.
	if _, err := Compile(`startsWith(RoomName, "E2")`); err == nil {
		t.Error("expected error for calling a reserved operator as a function")
	}
}

func TestHelpersCompileInCallForm(t *testing.T) {
	for _, expression := range []string{
		`hasPrefix(RoomName, "E2")`,
		`hasSuffix(RoomName, "31")`,
		`hasSubstring(RoomName, "23")`,
	} {
		if _, err := Compile(expression); err != nil {
			t.Errorf("Compile(%q) error = %v", expression, err)
		}
	}
}

func TestExpression(t *testing.T) {
	f, err := Compile(`  hasSubstring(RoomName, "E")  `)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if f.Expression() != `hasSubstring(RoomName, "E")` {
		t.Errorf("Expression() = %q, want trimmed original", f.Expression())
	}
}
