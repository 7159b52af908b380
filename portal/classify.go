package portal

import "strings"

// LoginResult is the interpreted outcome of a login submission.
type LoginResult int

const (
	LoginSuccess LoginResult = iota
	LoginWrongCaptcha
	LoginWrongCredentials
	LoginUnknown
)

// LoginClassifier decides what a login response body means. The portal only
// reports outcomes through page text, so the marker scanning lives behind
// one policy object; a markup change means swapping this, not hunting
// string checks across the codebase.
type LoginClassifier interface {
	Classify(body string) LoginResult
}

// markerClassifier scans the body for known text markers, case-insensitively,
// in priority order: success markers win over failure markers.
type markerClassifier struct{}

// NewMarkerClassifier returns the default marker-based classifier.
func NewMarkerClassifier() LoginClassifier {
	return markerClassifier{}
}

func (markerClassifier) Classify(body string) LoginResult {
	lower := strings.ToLower(body)

	switch {
	case strings.Contains(lower, "logout") || strings.Contains(lower, "dashboard"):
		return LoginSuccess
	case strings.Contains(lower, "captcha") && strings.Contains(lower, "incorrect"):
		return LoginWrongCaptcha
	case strings.Contains(lower, "password") && strings.Contains(lower, "incorrect"):
		return LoginWrongCredentials
	default:
		return LoginUnknown
	}
}
