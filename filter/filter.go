// Package filter compiles room filter expressions into predicates used to
// narrow availability results, e.g.:
//
//	hasPrefix(RoomName, "E2")
//	RoomName in ["E231", "W241"]
//	Start == "19:00" and hasSubstring(RoomName, "W")
//
// The hasPrefix/hasSuffix/hasSubstring helpers match case-insensitively.
// The expression language's own string operators (contains, startsWith,
// endsWith) remain available and match case-sensitively; those names are
// infix operators, not callable functions.
package filter

import (
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/weijiet/xmum-booker/portal"
)

// Filter is a compiled room predicate.
type Filter struct {
	expression string
	program    *vm.Program
}

// Compile compiles an expression into an executable room filter.
func Compile(expression string) (*Filter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	program, err := expr.Compile(expression,
		expr.Env(helperFunctions()),
		expr.AllowUndefinedVariables(), // Allow room properties
		expr.AsBool(),                  // Ensure boolean result
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	return &Filter{
		expression: expression,
		program:    program,
	}, nil
}

// Match evaluates the filter against a room. A runtime evaluation error
// skips the room rather than aborting the search.
func (f *Filter) Match(room portal.Room) bool {
	result, err := expr.Run(f.program, runtimeEnvironment(room))
	if err != nil {
		return false
	}

	// Result is guaranteed to be bool due to AsBool() during compilation.
	return result.(bool)
}

// Expression returns the original expression
func (f *Filter) Expression() string {
	return f.expression
}

// helperFunctions creates the static helper environment used during compilation
func helperFunctions() map[string]any {
	env := make(map[string]any, 8)
	addHelperFunctions(env)
	return env
}

// Helper names must not collide with the language's reserved infix
// operators (contains, startsWith, endsWith, matches); a colliding name
// is unreachable in call form.
func addHelperFunctions(env map[string]any) {
	env["hasSubstring"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	env["hasPrefix"] = func(str, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
	}
	env["hasSuffix"] = func(str, suffix string) bool {
		return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
	}
	env["lower"] = strings.ToLower
	env["upper"] = strings.ToUpper
}

// runtimeEnvironment exposes the room's fields to the expression.
func runtimeEnvironment(room portal.Room) map[string]any {
	env := make(map[string]any, 16)
	addHelperFunctions(env)

	env["Room"] = room
	env["RoomID"] = room.ID
	env["RoomName"] = room.Name
	env["Start"] = room.Start
	env["End"] = room.End
	env["Date"] = room.Date
	env["Slot"] = room.Slot()

	return env
}
