package geminiservice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ApexAI/internal/config"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// --- Gemini Generation Configuration ---
const (
	defaultTemperature     = 0.7
	defaultTopP            = 0.95
	defaultTopK            = 60
	defaultMaxOutputTokens = 30000

	mealTemperature     = 0.6
	mealMaxOutputTokens = 30000
)

// ErrMissingAPIKey is returned by every call when the server started without a credential.
var ErrMissingAPIKey = errors.New("GEMINI_API_KEY is not configured")

// GenerationSettings are the sampling parameters sent with a single prompt.
type GenerationSettings struct {
	Temperature     float32
	TopP            float32
	TopK            int32
	MaxOutputTokens int32
}

// DefaultSettings returns the configuration used for workout plans.
func DefaultSettings() GenerationSettings {
	return GenerationSettings{
		Temperature:     defaultTemperature,
		TopP:            defaultTopP,
		TopK:            defaultTopK,
		MaxOutputTokens: defaultMaxOutputTokens,
	}
}

// MealSettings is a copy of DefaultSettings with the output cap and temperature overridden.
func MealSettings() GenerationSettings {
	s := DefaultSettings()
	s.MaxOutputTokens = mealMaxOutputTokens
	s.Temperature = mealTemperature
	return s
}

// Generator turns a prompt into the model's raw text reply.
type Generator interface {
	Generate(ctx context.Context, prompt string, settings GenerationSettings) (string, error)
}

// Client is the Gemini-backed Generator.
type Client struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	name    string
	timeout time.Duration
}

// NewClient builds the Gemini client once at startup. Without an API key it
// returns a client that fails every call with ErrMissingAPIKey.
func NewClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	c := &Client{name: cfg.GeminiModel, timeout: cfg.GeminiTimeout}
	if !cfg.HasAPIKey() {
		return c, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(cfg.GeminiModel)
	model.SafetySettings = safetySettings()
	model.GenerationConfig = DefaultSettings().toGenai()

	c.client = client
	c.model = model
	return c, nil
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.name
}

// Generate sends the prompt with the given settings and returns the reply text.
func (c *Client) Generate(ctx context.Context, prompt string, settings GenerationSettings) (string, error) {
	if c.model == nil {
		return "", ErrMissingAPIKey
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	// The shared model is never mutated; settings apply to this call only.
	model := *c.model
	model.GenerationConfig = settings.toGenai()

	start := time.Now()
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	text, err := responseText(resp)
	if err != nil {
		return "", err
	}

	log.Debug().
		Str("model", c.name).
		Dur("latency", time.Since(start)).
		Int("reply_bytes", len(text)).
		Msg("Gemini reply received")

	return text, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

func (s GenerationSettings) toGenai() genai.GenerationConfig {
	var gc genai.GenerationConfig
	gc.SetTemperature(s.Temperature)
	gc.SetTopP(s.TopP)
	gc.SetTopK(s.TopK)
	gc.SetMaxOutputTokens(s.MaxOutputTokens)
	return gc
}

func safetySettings() []*genai.SafetySetting {
	categories := []genai.HarmCategory{
		genai.HarmCategoryHarassment,
		genai.HarmCategoryHateSpeech,
		genai.HarmCategorySexuallyExplicit,
		genai.HarmCategoryDangerousContent,
	}

	settings := make([]*genai.SafetySetting, 0, len(categories))
	for _, category := range categories {
		settings = append(settings, &genai.SafetySetting{
			Category:  category,
			Threshold: genai.HarmBlockNone,
		})
	}
	return settings
}

// responseText joins the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in Gemini response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content found in Gemini response (finish reason: %s)", candidate.FinishReason)
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("generated content is not text")
	}
	return b.String(), nil
}
