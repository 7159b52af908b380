package captcha

import (
	"context"
	"errors"
)

// ErrRecognitionFailed is returned when the recognition service could not
// produce an answer for the image.
var ErrRecognitionFailed = errors.New("captcha recognition failed")

// Solver turns a captcha image into its text. Implementations are opaque,
// possibly slow external calls and must not retry internally; retrying is
// the caller's decision via the outer login loop.
type Solver interface {
	Solve(ctx context.Context, image []byte) (string, error)
}
