package engine

import (
	"fmt"
	"time"

	"trivia-settlement-service/internal/domain"
)

// AntiCheatConfig holds the detector thresholds.
type AntiCheatConfig struct {
	MaxSubmissionsPerMinute  float64
	SuspiciousScoreThreshold float64
}

// SessionConfig holds the resume window for session validation.
type SessionConfig struct {
	MaxResumeTime time.Duration
}

// CreditsConfig holds the wallet eligibility limits.
type CreditsConfig struct {
	AdRewardDailyLimit int
}

// ModeConfig is the per-mode competition configuration.
type ModeConfig struct {
	Period                    domain.PeriodType
	MaxWinners                int
	MinAnswersToQualify       int
	WinnerVisibilityThreshold float64 // lifetime earnings, reference currency
	PayoutAmount              float64
	PayoutCurrency            string
}

// Config is the immutable engine configuration. Build it once at startup and
// pass it by value; there is no process-wide default to mutate.
type Config struct {
	AntiCheat AntiCheatConfig
	Session   SessionConfig
	Credits   CreditsConfig

	modes map[domain.ModeType]ModeConfig
}

// NewConfig copies the mode map so later changes by the caller cannot leak in.
func NewConfig(
	antiCheat AntiCheatConfig,
	session SessionConfig,
	credits CreditsConfig,
	modes map[domain.ModeType]ModeConfig,
) Config {
	copied := make(map[domain.ModeType]ModeConfig, len(modes))
	for mode, mc := range modes {
		copied[mode] = mc
	}
	return Config{
		AntiCheat: antiCheat,
		Session:   session,
		Credits:   credits,
		modes:     copied,
	}
}

// Mode returns the configuration for a mode, failing loudly on an
// unrecognized one so a misconfigured deployment cannot pass for a
// business-rule rejection.
func (c Config) Mode(mode domain.ModeType) (ModeConfig, error) {
	mc, ok := c.modes[mode]
	if !ok {
		return ModeConfig{}, fmt.Errorf("%w: %q", domain.ErrUnknownMode, mode)
	}
	return mc, nil
}

// Modes lists the configured mode types.
func (c Config) Modes() []domain.ModeType {
	modes := make([]domain.ModeType, 0, len(c.modes))
	for mode := range c.modes {
		modes = append(modes, mode)
	}
	return modes
}
