package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/randofan/varsitylink/internal/ai"
	"github.com/randofan/varsitylink/internal/ai/gemini"
	"github.com/randofan/varsitylink/internal/drafting"
	"github.com/randofan/varsitylink/internal/logger"
	"github.com/randofan/varsitylink/internal/metrics"
	"github.com/randofan/varsitylink/internal/secrets"
	"github.com/randofan/varsitylink/internal/store"
)

var errDraftsDisabled = errors.New("draft generation is disabled (set ai.enabled: true)")

// resolveDatabase returns the backend and dsn, reading the dsn from
// database.dsn-file when it is set.
func resolveDatabase(cfg DatabaseConfig) (store.Backend, string, error) {
	backend, err := store.ParseBackend(cfg.Backend)
	if err != nil {
		return "", "", err
	}

	dsn, err := secrets.Load(secrets.Source{
		Name:  "database dsn",
		File:  cfg.DSNFile,
		Value: cfg.DSN,
	})
	if err != nil {
		return "", "", fmt.Errorf("%w (set database.dsn, database.dsn-file or DATABASE_URL)", err)
	}

	return backend, dsn, nil
}

func openStore(ctx context.Context, cfg DatabaseConfig, log *zap.Logger) (*store.Store, error) {
	backend, dsn, err := resolveDatabase(cfg)
	if err != nil {
		return nil, err
	}
	return store.Open(ctx, backend, dsn, log)
}

// newRegistry registers the configured draft kinds next to the built in one.
func newRegistry(kinds []DraftKindConfig) (*drafting.Registry, error) {
	registry := drafting.NewRegistry()

	for _, k := range kinds {
		schema := make(drafting.Schema, 0, len(k.Fields))
		for _, f := range k.Fields {
			kind, err := drafting.ParseFieldKind(f.Kind)
			if err != nil {
				return nil, fmt.Errorf("draft kind %q field %q: %w", k.Kind, f.Name, err)
			}
			schema = append(schema, drafting.Field{Name: strings.TrimSpace(f.Name), Kind: kind})
		}

		if err := registry.Register(k.Kind, schema); err != nil {
			return nil, err
		}
	}

	return registry, nil
}

// newDrafter builds the configured drafter. It returns errDraftsDisabled when
// ai.enabled is false.
func newDrafter(ctx context.Context, cfg *AIConfig, registry *drafting.Registry, m *metrics.Metrics, log *zap.Logger) (ai.Drafter, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errDraftsDisabled
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	if cfg.Gemini == nil {
		return nil, errors.New("gemini configuration is required when ai is enabled")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		File:  cfg.Gemini.APIKeyFile,
		Env:   "GEMINI_API_KEY",
		Value: cfg.Gemini.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	system := gemini.SystemInstruction
	if file := strings.TrimSpace(cfg.Gemini.SystemInstructionFile); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("reading system instruction: %w", err)
		}
		system = string(data)
	}

	genLogger := logger.WithFields(log, logger.AIFields("gemini", cfg.Gemini.Model)...).
		With(zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries))

	generator, err := gemini.NewGenerator(ctx, gemini.Options{
		APIKey:            apiKey,
		Model:             cfg.Gemini.Model,
		SystemInstruction: system,
		MaxRetries:        cfg.Gemini.MaxRetries,
		Logger:            genLogger,
		Metrics:           m,
	})
	if err != nil {
		return nil, err
	}

	return gemini.NewDrafter(generator, registry, log, m, cfg.Gemini.MaxLogLength), nil
}
