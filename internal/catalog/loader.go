package catalog

import (
	"context"
	"fmt"
	"os"

	"kart-checkout/internal/pricing"

	"github.com/rs/zerolog"
)

// fileLoader implements Loader for catalog files on the local file system.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based catalog loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "catalog-loader").Logger(),
	}
}

// Load reads a catalog file and returns its rule set.
func (l *fileLoader) Load(ctx context.Context, filePath string) (*pricing.RuleSet, error) {
	l.logger.Info().Str("file", filePath).Msg("loading pricing catalog")

	file, err := os.Open(filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to open catalog file")
		return nil, fmt.Errorf("failed to open catalog file %s: %w", filePath, err)
	}
	defer file.Close()

	rules, err := decode(ctx, file)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to read catalog file")
		return nil, fmt.Errorf("failed to read catalog file %s: %w", filePath, err)
	}

	if rules.Len() == 0 {
		l.logger.Warn().Str("file", filePath).Msg("pricing catalog is empty")
	}

	l.logger.Info().
		Str("file", filePath).
		Int("rules_loaded", rules.Len()).
		Msg("pricing catalog loaded successfully")

	return rules, nil
}
