package generate

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"

	"github.com/cindysoftware/hero/internal/worksheet"
)

// defaultTemperature matches the sentence-generation prompt tuning;
// worksheet variety comes from the model, repeatability from the cache.
const defaultTemperature = 1.0

// OpenAIConfig holds configuration for the OpenAI-backed adapter.
type OpenAIConfig struct {
	APIKey      string
	PromptPath  string        // System prompt file with a {reading_level} placeholder
	ThemesDir   string        // Directory of per-theme text files (optional)
	Temperature float64       // Defaults to 1.0
	Timeout     time.Duration // HTTP timeout for the single attempt
	BaseURL     string        // Optional (tests)
	HTTPClient  *http.Client  // Optional (tests)
	Logger      *slog.Logger
	Recorder    *Recorder // Optional call record sink
}

// OpenAIAdapter generates sentences via the OpenAI Chat Completions API
// with a JSON-schema constrained response. The model comes from the
// document, not the adapter, so one adapter serves every catalog model.
type OpenAIAdapter struct {
	client      openai.Client
	promptPath  string
	themesDir   string
	temperature float64
	logger      *slog.Logger
	recorder    *Recorder
}

// NewOpenAIAdapter creates an adapter from config.
func NewOpenAIAdapter(cfg OpenAIConfig) *OpenAIAdapter {
	if cfg.Temperature <= 0 {
		cfg.Temperature = defaultTemperature
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
		// The pipeline's contract is a single attempt whose failure is
		// surfaced, so SDK transport retries are disabled too.
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &OpenAIAdapter{
		client:      openai.NewClient(opts...),
		promptPath:  cfg.PromptPath,
		themesDir:   cfg.ThemesDir,
		temperature: cfg.Temperature,
		logger:      logger,
		recorder:    cfg.Recorder,
	}
}

// Generate implements Adapter.
func (a *OpenAIAdapter) Generate(ctx context.Context, doc *worksheet.Document) (*worksheet.GenerationResult, error) {
	if doc.Model == "" {
		return nil, fmt.Errorf("%w: document has no model", ErrService)
	}

	instructions, err := systemPrompt(a.promptPath, doc.ReadingLevel)
	if err != nil {
		return nil, err
	}
	theme, err := themeContent(a.themesDir, doc.Theme)
	if err != nil {
		return nil, err
	}
	input, err := buildInput(doc, theme)
	if err != nil {
		return nil, err
	}

	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(doc.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(instructions),
			openai.UserMessage(input),
		},
		Temperature: openai.Float(a.temperature),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{
				JSONSchema: shared.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   "worksheet_sentences",
					Schema: responseSchemaMap(),
					Strict: openai.Bool(true),
				},
			},
		},
	}

	a.logger.Debug("calling generation service",
		"model", doc.Model,
		"worksheet_id", doc.WorksheetID,
		"entries", len(doc.Data))

	start := time.Now()
	resp, err := a.client.Chat.Completions.New(ctx, params)
	latency := time.Since(start)
	if err != nil {
		a.record(doc, latency, "", err)
		return nil, fmt.Errorf("%w: %v", ErrService, err)
	}
	if len(resp.Choices) == 0 {
		err := fmt.Errorf("%w: response has no choices", ErrService)
		a.record(doc, latency, "", err)
		return nil, err
	}

	content := resp.Choices[0].Message.Content
	result, err := parseResult([]byte(content))
	if err != nil {
		a.record(doc, latency, content, err)
		return nil, err
	}

	a.record(doc, latency, content, nil)
	a.logger.Debug("generation complete",
		"model", doc.Model,
		"worksheet_id", doc.WorksheetID,
		"latency_ms", latency.Milliseconds(),
		"sentences", len(result.Data))
	return result, nil
}

func (a *OpenAIAdapter) record(doc *worksheet.Document, latency time.Duration, response string, callErr error) {
	if a.recorder == nil {
		return
	}
	if err := a.recorder.Record(NewCall(doc, latency, response, callErr)); err != nil {
		a.logger.Warn("failed to record generation call", "error", err)
	}
}
