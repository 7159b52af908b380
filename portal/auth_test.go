package portal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weijiet/xmum-booker/captcha"
)

// fakeSolver implements captcha.Solver for tests.
type fakeSolver struct {
	answer string
	err    error

	calls  int
	lastIn []byte
}

func (s *fakeSolver) Solve(_ context.Context, image []byte) (string, error) {
	s.calls++
	s.lastIn = image
	return s.answer, s.err
}

const landingPage = `<html><body>
<form method="POST" action="/authenticate">
<input type="hidden" name="_token" value="tok-123">
<img src="/captcha/image.png" alt="captcha">
</form>
</body></html>`

// newLoginServer serves a captcha-protected login flow and records the
// submitted form for inspection.
func newLoginServer(t *testing.T, responseBody string) (*httptest.Server, *map[string]string) {
	t.Helper()

	submitted := make(map[string]string)
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, landingPage)
	})
	mux.HandleFunc("/captcha/image.png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("png-bytes"))
	})
	mux.HandleFunc("/authenticate", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		for key, vals := range r.PostForm {
			submitted[key] = vals[0]
		}
		fmt.Fprint(w, responseBody)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, &submitted
}

func TestLoginSuccess(t *testing.T) {
	server, submitted := newLoginServer(t, `<html><a href="/logout">Logout</a></html>`)

	client, err := NewClient(server.URL, zerolog.Nop())
	require.NoError(t, err)

	solver := &fakeSolver{answer: "AB12"}
	err = client.Login(context.Background(), Credentials{Username: "stu123", Password: "secret"}, solver)
	require.NoError(t, err)

	assert.Equal(t, 1, solver.calls)
	assert.Equal(t, []byte("png-bytes"), solver.lastIn)
	assert.Equal(t, "stu123", (*submitted)["campus-id"])
	assert.Equal(t, "secret", (*submitted)["password"])
	assert.Equal(t, "AB12", (*submitted)["captcha"])
	assert.Equal(t, "tok-123", (*submitted)["_token"])
}

func TestLoginWrongCaptcha(t *testing.T) {
	server, _ := newLoginServer(t, `<html><p>captcha incorrect</p></html>`)

	client, err := NewClient(server.URL, zerolog.Nop())
	require.NoError(t, err)

	err = client.Login(context.Background(), Credentials{Username: "u", Password: "p"}, &fakeSolver{answer: "XXXX"})
	assert.ErrorIs(t, err, ErrWrongCaptcha)
}

func TestLoginWrongCredentials(t *testing.T) {
	server, _ := newLoginServer(t, `<html><p>password incorrect</p></html>`)

	client, err := NewClient(server.URL, zerolog.Nop())
	require.NoError(t, err)

	err = client.Login(context.Background(), Credentials{Username: "u", Password: "p"}, &fakeSolver{answer: "XXXX"})
	assert.ErrorIs(t, err, ErrWrongCredentials)
}

func TestLoginUnknownFailureIncludesURL(t *testing.T) {
	server, _ := newLoginServer(t, `<html><p>maintenance window</p></html>`)

	client, err := NewClient(server.URL, zerolog.Nop())
	require.NoError(t, err)

	err = client.Login(context.Background(), Credentials{Username: "u", Password: "p"}, &fakeSolver{answer: "XXXX"})
	require.ErrorIs(t, err, ErrLoginFailed)
	assert.Contains(t, err.Error(), "/authenticate")
}

func TestLoginMissingCaptchaImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><form><input name="_token" value="t"></form></html>`)
	}))
	defer server.Close()

	client, err := NewClient(server.URL, zerolog.Nop())
	require.NoError(t, err)

	solver := &fakeSolver{answer: "never"}
	err = client.Login(context.Background(), Credentials{Username: "u", Password: "p"}, solver)
	assert.ErrorIs(t, err, ErrCaptchaNotFound)
	assert.Zero(t, solver.calls, "solver must not be called without a captcha image")
}

func TestLoginSolverFailurePropagates(t *testing.T) {
	server, submitted := newLoginServer(t, `irrelevant`)

	client, err := NewClient(server.URL, zerolog.Nop())
	require.NoError(t, err)

	err = client.Login(context.Background(), Credentials{Username: "u", Password: "p"},
		&fakeSolver{err: captcha.ErrRecognitionFailed})
	assert.ErrorIs(t, err, captcha.ErrRecognitionFailed)
	assert.Empty(t, *submitted, "credentials must not be submitted without a captcha answer")
}

// alwaysSuccess is a replacement classification policy.
type alwaysSuccess struct{}

func (alwaysSuccess) Classify(string) LoginResult { return LoginSuccess }

func TestLoginCustomClassifier(t *testing.T) {
	server, _ := newLoginServer(t, `<html><p>nothing recognizable</p></html>`)

	client, err := NewClient(server.URL, zerolog.Nop())
	require.NoError(t, err)
	client.SetClassifier(alwaysSuccess{})

	err = client.Login(context.Background(), Credentials{Username: "u", Password: "p"}, &fakeSolver{answer: "XXXX"})
	assert.NoError(t, err)
}

func TestLoginLandingPageError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client, err := NewClient(server.URL, zerolog.Nop())
	require.NoError(t, err)

	err = client.Login(context.Background(), Credentials{Username: "u", Password: "p"}, &fakeSolver{})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrCaptchaNotFound))
}
