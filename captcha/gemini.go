package captcha

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	genai "github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"
)

const solvePrompt = "Return ONLY the captcha characters, no explanations."

// GeminiSolver recognizes captcha images with the Gemini API.
type GeminiSolver struct {
	client *genai.Client
	model  *genai.GenerativeModel
	logger zerolog.Logger
}

// NewGeminiSolver creates a solver backed by the given API key and model name.
func NewGeminiSolver(ctx context.Context, apiKey, model string, logger zerolog.Logger) (*GeminiSolver, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = "gemini-flash-latest"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiSolver{
		client: client,
		model:  client.GenerativeModel(model),
		logger: logger,
	}, nil
}

// Solve sends the image to Gemini and returns the recognized characters.
// Any failure, including an empty answer, collapses to ErrRecognitionFailed
// with the cause logged.
func (s *GeminiSolver) Solve(ctx context.Context, image []byte) (string, error) {
	resp, err := s.model.GenerateContent(ctx,
		genai.Text(solvePrompt),
		genai.ImageData(imageFormat(image), image),
	)
	if err != nil {
		s.logger.Error().Err(err).Msg("Captcha recognition error")
		return "", ErrRecognitionFailed
	}

	text := extractText(resp)
	if text == "" {
		s.logger.Error().Msg("Captcha recognition returned no text")
		return "", ErrRecognitionFailed
	}

	return text, nil
}

// Close releases the underlying API client.
func (s *GeminiSolver) Close() error {
	return s.client.Close()
}

// extractText concatenates the text parts of the first candidate, trimmed.
func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			sb.WriteString(string(textPart))
		}
	}
	return strings.TrimSpace(sb.String())
}

// imageFormat sniffs the image subtype expected by the API ("png", "jpeg").
func imageFormat(image []byte) string {
	switch http.DetectContentType(image) {
	case "image/jpeg":
		return "jpeg"
	case "image/gif":
		return "gif"
	default:
		return "png"
	}
}
