package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/randofan/varsitylink/internal/ai"
	"github.com/randofan/varsitylink/internal/drafting"
	"github.com/randofan/varsitylink/internal/logger"
	"github.com/randofan/varsitylink/internal/metrics"
)

//go:embed prompt.md
var promptTemplate string

// SystemInstruction is the campaign strategist instruction sent with every
// request unless the configuration overrides it.
//
//go:embed system.md
var SystemInstruction string

const (
	defaultMaxLogLength = 200
	// maxInputRunes bounds every user supplied value placed in the prompt.
	maxInputRunes = 2000
	noCustomSport = "None"
)

var outcomes = []drafting.Outcome{
	drafting.Kept,
	drafting.Missing,
	drafting.Coerced,
	drafting.CoercionSkipped,
	drafting.PassedThrough,
}

// Drafter asks the model for a draft and normalizes the answer against the
// schema registered for the requested kind.
type Drafter struct {
	generator ai.Generator
	registry  *drafting.Registry
	logger    *zap.Logger
	metrics   *metrics.Metrics
	maxLogLen int
}

var _ ai.Drafter = (*Drafter)(nil)

func NewDrafter(generator ai.Generator, registry *drafting.Registry, log *zap.Logger, m *metrics.Metrics, maxLogLength int) *Drafter {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if registry == nil {
		registry = drafting.NewRegistry()
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Drafter{
		generator: generator,
		registry:  registry,
		logger:    log,
		metrics:   m,
		maxLogLen: maxLogLength,
	}
}

func (d *Drafter) Draft(ctx context.Context, req ai.DraftRequest, kind string) (drafting.Draft, error) {
	if d == nil || d.generator == nil {
		return nil, fmt.Errorf("%w: drafter has no generator", ai.ErrGeneration)
	}

	schema, err := d.registry.Lookup(kind)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(kind) == "" {
		kind = drafting.CampaignStrategy
	}

	if strings.TrimSpace(req.CampaignSummary) == "" {
		return nil, fmt.Errorf("%w: campaign summary is required", ai.ErrInvalidRequest)
	}

	log := logger.WithFields(d.logger, append(
		logger.AIFields("gemini", d.generator.Model()),
		logger.DraftFields(kind, req.CampaignID)...,
	)...)

	prompt := buildPrompt(req, schema)

	log.Debug("gemini generate content request",
		zap.Strings("fields", schema.Names()),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.Preview(prompt, d.maxLogLen)),
	)

	raw, err := d.generator.GenerateContent(ctx, prompt)
	if err != nil {
		d.metrics.ObserveDraft(kind, metrics.DraftGenerateError)
		if !errors.Is(err, ai.ErrGeneration) {
			err = fmt.Errorf("%w: %w", ai.ErrGeneration, err)
		}
		return nil, err
	}

	log.Debug("gemini generate content response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.Preview(raw, d.maxLogLen)),
	)

	draft, report, err := drafting.NormalizeWithReport(extractJSON(raw), schema)
	if err != nil {
		d.metrics.ObserveDraft(kind, metrics.DraftParseError)
		log.Warn("model returned unparsable draft",
			zap.String("response_preview", logger.Preview(raw, d.maxLogLen)),
			zap.Error(err),
		)
		return nil, err
	}

	fields := make([]zap.Field, 0, len(outcomes))
	for _, outcome := range outcomes {
		n := report.Count(outcome)
		d.metrics.ObserveDraftFields(kind, outcome.String(), n)
		fields = append(fields, zap.Int(outcome.String(), n))
	}
	d.metrics.ObserveDraft(kind, metrics.DraftOK)

	log.Info("draft normalized", fields...)
	return draft, nil
}

func buildPrompt(req ai.DraftRequest, schema drafting.Schema) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Campaign Summary: {{SUMMARY}}\nBudget: {{BUDGET}}\nSports: {{SPORTS}}\n\nFields:\n{{FIELDS}}\n\nJSON Response:"
	}

	sports := make([]string, 0, len(req.Sports)+1)
	for _, sport := range req.Sports {
		if sport = sanitizeInput(sport); sport != "" {
			sports = append(sports, sport)
		}
	}

	custom := sanitizeInput(req.CustomSport)
	if custom != "" {
		sports = append(sports, custom)
	} else {
		custom = noCustomSport
	}

	replacer := strings.NewReplacer(
		"{{SUMMARY}}", sanitizeInput(req.CampaignSummary),
		"{{BUDGET}}", sanitizeInput(req.Budget),
		"{{PARTNERS}}", sanitizeInput(req.AthletePartnerCount),
		"{{SPORTS}}", strings.Join(sports, ", "),
		"{{CUSTOM_SPORT}}", custom,
		"{{FIELDS}}", describeFields(schema),
	)
	return strings.TrimSpace(replacer.Replace(template))
}

func describeFields(schema drafting.Schema) string {
	lines := make([]string, 0, len(schema))
	for _, field := range schema {
		lines = append(lines, fmt.Sprintf("- %s (%s)", field.Name, field.Kind))
	}
	return strings.Join(lines, "\n")
}

// sanitizeInput keeps user text on a single line, swaps square brackets for
// parentheses so the text cannot pose as a prompt section, and caps its length.
func sanitizeInput(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	s = strings.NewReplacer("[", "(", "]", ")").Replace(s)
	if utf8.RuneCountInString(s) > maxInputRunes {
		s = string([]rune(s)[:maxInputRunes])
	}
	return s
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}
