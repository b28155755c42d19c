package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"trivia-settlement-service/internal/domain"
	"trivia-settlement-service/internal/engine"
)

type ModeConfig struct {
	Period                    string  `yaml:"period"`
	MaxWinners                int     `yaml:"max_winners"`
	MinAnswersToQualify       int     `yaml:"min_answers_to_qualify"`
	WinnerVisibilityThreshold float64 `yaml:"winner_visibility_threshold"`
	PayoutAmount              float64 `yaml:"payout_amount"`
	PayoutCurrency            string  `yaml:"payout_currency"`
}

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Questions struct {
		TTL string `yaml:"ttl"`
	} `yaml:"questions"`
	Engine struct {
		AntiCheat struct {
			MaxSubmissionsPerMinute  float64 `yaml:"max_submissions_per_minute"`
			SuspiciousScoreThreshold float64 `yaml:"suspicious_score_threshold"`
		} `yaml:"anti_cheat"`
		Session struct {
			MaxResumeTime string `yaml:"max_resume_time"`
		} `yaml:"session"`
		Credits struct {
			AdRewardDailyLimit int `yaml:"ad_reward_daily_limit"`
		} `yaml:"credits"`
		Modes map[string]ModeConfig `yaml:"modes"`
	} `yaml:"engine"`
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// EngineConfig converts the YAML view into the immutable engine
// configuration, filling defaults for anything left unset.
func (c Config) EngineConfig() (engine.Config, error) {
	anti := engine.AntiCheatConfig{
		MaxSubmissionsPerMinute:  c.Engine.AntiCheat.MaxSubmissionsPerMinute,
		SuspiciousScoreThreshold: c.Engine.AntiCheat.SuspiciousScoreThreshold,
	}
	if anti.MaxSubmissionsPerMinute == 0 {
		anti.MaxSubmissionsPerMinute = 30
	}
	if anti.SuspiciousScoreThreshold == 0 {
		anti.SuspiciousScoreThreshold = 0.95
	}

	session := engine.SessionConfig{
		MaxResumeTime: TTLDuration(c.Engine.Session.MaxResumeTime, 24*time.Hour),
	}

	credits := engine.CreditsConfig{
		AdRewardDailyLimit: c.Engine.Credits.AdRewardDailyLimit,
	}
	if credits.AdRewardDailyLimit == 0 {
		credits.AdRewardDailyLimit = 5
	}

	modes := make(map[domain.ModeType]engine.ModeConfig, len(c.Engine.Modes))
	for name, mc := range c.Engine.Modes {
		period := domain.PeriodType(mc.Period)
		switch period {
		case domain.PeriodWeekly, domain.PeriodMonthly:
		default:
			return engine.Config{}, fmt.Errorf("mode %q: unknown period %q", name, mc.Period)
		}
		modes[domain.ModeType(name)] = engine.ModeConfig{
			Period:                    period,
			MaxWinners:                mc.MaxWinners,
			MinAnswersToQualify:       mc.MinAnswersToQualify,
			WinnerVisibilityThreshold: mc.WinnerVisibilityThreshold,
			PayoutAmount:              mc.PayoutAmount,
			PayoutCurrency:            mc.PayoutCurrency,
		}
	}
	if len(modes) == 0 {
		modes = defaultModes()
	}

	return engine.NewConfig(anti, session, credits, modes), nil
}

func defaultModes() map[domain.ModeType]engine.ModeConfig {
	return map[domain.ModeType]engine.ModeConfig{
		domain.ModeFree: {
			Period:                    domain.PeriodWeekly,
			MaxWinners:                10,
			MinAnswersToQualify:       10,
			WinnerVisibilityThreshold: 1000,
			PayoutAmount:              50,
			PayoutCurrency:            "USD",
		},
		domain.ModePremium: {
			Period:                    domain.PeriodMonthly,
			MaxWinners:                3,
			MinAnswersToQualify:       20,
			WinnerVisibilityThreshold: 1000,
			PayoutAmount:              500,
			PayoutCurrency:            "USD",
		},
	}
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
