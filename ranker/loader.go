package ranker

import (
	"context"

	"github.com/Gthulhu/smoothtask/config"
	"github.com/Gthulhu/smoothtask/domain"
	"github.com/Gthulhu/smoothtask/pkg/logger"
)

// NewRanker returns the ranker for the policy mode: nil for rules-only,
// a LinearRanker in hybrid mode, or a StubRanker when the model cannot be loaded.
// It never fails; degradation is logged.
func NewRanker(ctx context.Context, cfg config.PolicyConfig) domain.Ranker {
	if cfg.Mode != config.PolicyModeHybrid {
		return nil
	}
	model, err := LoadLinearModel(cfg.ModelPath)
	if err != nil {
		logger.Logger(ctx).Warn().Err(err).Msg("ranking model unavailable, falling back to stub ranker")
		return NewStubRanker()
	}
	logger.Logger(ctx).Info().Msgf("loaded ranking model %s", model)
	return NewLinearRanker(model)
}
