package portal

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/weijiet/xmum-booker/captcha"
)

// Login drives the captcha-protected login protocol and establishes the
// session cookies on success. The steps run in fixed order: fetch the
// landing page, locate and download the captcha image, delegate recognition
// to the solver, then submit the credential form and classify the response.
// Every failure is recoverable at the caller; the outer login loop decides
// whether to retry.
func (c *Client) Login(ctx context.Context, creds Credentials, solver captcha.Solver) error {
	c.logger.Debug().Str("url", c.baseURL).Msg("Fetching login page")

	page, err := c.get(ctx, c.baseURL+"/")
	if err != nil {
		return fmt.Errorf("failed to fetch login page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return fmt.Errorf("failed to parse login page: %w", err)
	}

	captchaURL := findCaptchaURL(doc)
	if captchaURL == "" {
		return ErrCaptchaNotFound
	}
	if !strings.HasPrefix(captchaURL, "http") {
		captchaURL = c.baseURL + captchaURL
	}

	image, err := c.get(ctx, captchaURL)
	if err != nil {
		return fmt.Errorf("failed to download captcha: %w", err)
	}
	c.logger.Debug().Int("bytes", len(image)).Msg("Captcha downloaded")

	answer, err := solver.Solve(ctx, image)
	if err != nil {
		return fmt.Errorf("captcha recognition: %w", err)
	}
	c.logger.Debug().Str("captcha", answer).Msg("Captcha recognized")

	form := url.Values{
		"campus-id": {creds.Username},
		"password":  {creds.Password},
		"captcha":   {answer},
	}
	if token, ok := doc.Find(`input[name="_token"]`).Attr("value"); ok {
		form.Set("_token", token)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+authenticatePath, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create login request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read login response: %w", err)
	}

	switch c.classifier.Classify(string(body)) {
	case LoginSuccess:
		c.logger.Info().Msg("Login successful")
		return nil
	case LoginWrongCaptcha:
		return ErrWrongCaptcha
	case LoginWrongCredentials:
		return ErrWrongCredentials
	default:
		// Keep the final URL for diagnostics; redirects may have moved us.
		return fmt.Errorf("%w (url=%s)", ErrLoginFailed, resp.Request.URL)
	}
}

// findCaptchaURL returns the src of the first image whose path mentions
// "captcha", or "" when the page has none.
func findCaptchaURL(doc *goquery.Document) string {
	var src string
	doc.Find("img").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		val, ok := s.Attr("src")
		if ok && strings.Contains(strings.ToLower(val), "captcha") {
			src = val
			return false
		}
		return true
	})
	return src
}
