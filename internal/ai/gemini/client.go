package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/randofan/varsitylink/internal/ai"
	"github.com/randofan/varsitylink/internal/metrics"
)

const (
	defaultModel      = "gemini-2.0-flash"
	defaultMaxRetries = 3
	baseRetryDelay    = time.Second
	maxRetryDelay     = 30 * time.Second
	jsonMIMEType      = "application/json"
)

var retryAfterPattern = regexp.MustCompile(`(?i)retry (?:after|in) (\d+(?:\.\d+)?)\s*s`)

// contentModels is the part of *genai.Models the generator needs.
type contentModels interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Options configure a Generator.
type Options struct {
	APIKey string
	Model  string
	// SystemInstruction is sent with every request.
	SystemInstruction string
	// MaxRetries is the total number of attempts per prompt.
	MaxRetries int
	Logger     *zap.Logger
	Metrics    *metrics.Metrics
}

// Generator wraps the Google GenAI client. Every response is requested as
// JSON, and temporary API errors are retried with exponential backoff.
type Generator struct {
	models     contentModels
	model      string
	system     string
	maxRetries int
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

// NewGenerator creates a Generator configured for the Gemini API backend.
func NewGenerator(ctx context.Context, opts Options) (*Generator, error) {
	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return newGenerator(client.Models, opts), nil
}

func newGenerator(models contentModels, opts Options) *Generator {
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultModel
	}

	maxRetries := opts.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Generator{
		models:     models,
		model:      model,
		system:     strings.TrimSpace(opts.SystemInstruction),
		maxRetries: maxRetries,
		logger:     logger,
		metrics:    opts.Metrics,
	}
}

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.model
}

// GenerateContent sends the prompt and returns the text of the response.
// Errors wrap ai.ErrGeneration.
func (g *Generator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if g == nil || g.models == nil {
		return "", fmt.Errorf("%w: gemini generator is not initialized", ai.ErrGeneration)
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", fmt.Errorf("%w: prompt must not be empty", ai.ErrGeneration)
	}

	config := &genai.GenerateContentConfig{ResponseMIMEType: jsonMIMEType}
	if g.system != "" {
		config.SystemInstruction = genai.NewContentFromText(g.system, genai.RoleUser)
	}

	start := time.Now()
	var lastErr error
	attempts := 0
	for attempt := 1; attempt <= g.maxRetries; attempt++ {
		attempts = attempt
		text, err := g.generateOnce(ctx, prompt, config)
		if err == nil {
			g.metrics.ObserveGenerate(g.model, "ok", attempt, time.Since(start))
			return text, nil
		}
		lastErr = err

		delay, retry := retryDelay(err, attempt)
		if !retry || attempt == g.maxRetries {
			break
		}

		g.logger.Warn("gemini request failed, retrying",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", g.maxRetries),
			zap.Duration("delay", delay),
			zap.Error(err),
		)

		if err := waitFor(ctx, delay); err != nil {
			lastErr = err
			break
		}
	}

	g.metrics.ObserveGenerate(g.model, "error", attempts, time.Since(start))
	return "", fmt.Errorf("%w: %w", ai.ErrGeneration, lastErr)
}

func (g *Generator) generateOnce(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error) {
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if resp == nil {
		return "", errors.New("gemini api returned no response")
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", errors.New("gemini api returned empty response")
	}

	return output, nil
}

// retryDelay reports whether err is worth another attempt and how long to
// wait first. Only rate limits and server errors qualify, and a quota that
// asks for more than maxRetryDelay is not waited out.
func retryDelay(err error, attempt int) (time.Duration, bool) {
	code, message, ok := apiError(err)
	if !ok {
		return 0, false
	}
	if code != http.StatusTooManyRequests && code < http.StatusInternalServerError {
		return 0, false
	}

	if requested, found := requestedDelay(message); found {
		if requested > maxRetryDelay {
			return 0, false
		}
		return requested, true
	}

	delay := baseRetryDelay << (attempt - 1)
	if delay > maxRetryDelay || delay <= 0 {
		delay = maxRetryDelay
	}
	return delay, true
}

func apiError(err error) (int, string, bool) {
	var value genai.APIError
	if errors.As(err, &value) {
		return value.Code, value.Message, true
	}

	var ptr *genai.APIError
	if errors.As(err, &ptr) && ptr != nil {
		return ptr.Code, ptr.Message, true
	}

	return 0, "", false
}

func requestedDelay(message string) (time.Duration, bool) {
	match := retryAfterPattern.FindStringSubmatch(message)
	if len(match) < 2 {
		return 0, false
	}

	seconds, err := strconv.ParseFloat(match[1], 64)
	if err != nil || seconds < 0 {
		return 0, false
	}
	return time.Duration(seconds * float64(time.Second)), true
}

var sleep = time.Sleep

// waitFor sleeps for d unless ctx ends first.
func waitFor(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	pause := sleep
	done := make(chan struct{})
	go func() {
		defer close(done)
		pause(d)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}
