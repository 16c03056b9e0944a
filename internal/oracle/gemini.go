package oracle

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/jonathan/family-swim-sf/internal/prompts"
)

// Extractor is the boundary interface the extraction controller talks to.
// Implementations return the oracle's raw response text without interpreting
// it; failures are signalled as *TransientError or *NoUsableResponseError.
type Extractor interface {
	Extract(ctx context.Context, req Request) (string, error)
}

// TextGenerator produces a plain text answer for prompts that carry no
// document, e.g. the schedule-document tie-break.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// GeminiOracle implements Extractor and TextGenerator on Google Gemini.
type GeminiOracle struct {
	client *genai.Client
	config *Config
}

// NewGeminiOracle creates a Gemini-backed oracle.
func NewGeminiOracle(ctx context.Context, config *Config, apiKey string) (*GeminiOracle, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if config == nil {
		config = DefaultConfig()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiOracle{client: client, config: config}, nil
}

// Extract sends the schedule PDF with the focus-specific prompt and returns
// the raw response text.
func (o *GeminiOracle) Extract(ctx context.Context, req Request) (string, error) {
	pdfData, err := os.ReadFile(req.PDFPath)
	if err != nil {
		return "", fmt.Errorf("failed to read PDF %s: %w", req.PDFPath, err)
	}

	prompt, err := buildPrompt(req)
	if err != nil {
		return "", err
	}

	model := o.client.GenerativeModel(o.config.GetModel(TierVision))
	model.SetTemperature(0.1) // Low temperature for consistent output
	if req.Shape == ShapeJSONArray || req.Shape == ShapeJSONObject {
		model.ResponseMIMEType = "application/json"
	}

	resp, err := model.GenerateContent(ctx,
		genai.Blob{MIMEType: "application/pdf", Data: pdfData},
		genai.Text(prompt),
	)
	if err != nil {
		return "", classifyCallError(err)
	}

	text, err := extractTextFromResponse(resp)
	if err != nil {
		return "", &NoUsableResponseError{Message: err.Error()}
	}
	if isRefusal(text) {
		return "", &NoUsableResponseError{Message: "oracle declined to answer"}
	}
	return text, nil
}

// GenerateText answers a document-free prompt on the lite tier.
func (o *GeminiOracle) GenerateText(ctx context.Context, prompt string) (string, error) {
	model := o.client.GenerativeModel(o.config.GetModel(TierLite))
	model.SetTemperature(0.1)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", classifyCallError(err)
	}
	text, err := extractTextFromResponse(resp)
	if err != nil {
		return "", &NoUsableResponseError{Message: err.Error()}
	}
	return text, nil
}

// Close releases the underlying client.
func (o *GeminiOracle) Close() error {
	if o.client != nil {
		return o.client.Close()
	}
	return nil
}

// buildPrompt selects and fills the template for the request's focus.
func buildPrompt(req Request) (string, error) {
	data := map[string]string{"Pool": req.PoolName}

	switch req.Focus.Kind {
	case FocusSingleDay:
		if req.Focus.Day == "" {
			return "", fmt.Errorf("single-day focus requires a weekday")
		}
		data["Day"] = strings.ToUpper(string(req.Focus.Day))
		return prompts.Format(prompts.MustGet("extraction.json", "extract-single-day"), data), nil
	case FocusTableMarkdown:
		return prompts.Format(prompts.MustGet("extraction.json", "table-to-markdown"), data), nil
	case FocusWholeWeek:
		return prompts.Format(prompts.MustGet("extraction.json", "extract-whole-week"), data), nil
	default:
		return "", fmt.Errorf("unknown focus kind %q", req.Focus.Kind)
	}
}

// classifyCallError maps transport-level failures onto the error taxonomy.
// Anything the API itself failed on (timeouts, rate limits, 5xx) is
// transient; the controller decides whether to escalate.
func classifyCallError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &TransientError{Message: "oracle call timed out", Cause: err}
	}
	return &TransientError{Message: "oracle call failed", Cause: err}
}

// extractTextFromResponse joins the text parts of a Gemini response.
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}
	return strings.Join(parts, ""), nil
}

// isRefusal detects responses that answer with a refusal instead of data.
func isRefusal(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return true
	}
	lower := strings.ToLower(trimmed)
	for _, marker := range []string{"i cannot", "i can't", "i'm unable", "i am unable"} {
		if strings.HasPrefix(lower, marker) {
			return true
		}
	}
	return false
}
