package engine

import "trivia-settlement-service/internal/domain"

// minHumanResponseTime is the floor below which sustained answering is not
// plausible for a human reading the question.
const minHumanResponseTime = 2.0 // seconds

// minPatternLengthForVariation is how many submissions we need before a flat
// correctness pattern counts as evidence rather than a short streak.
const minPatternLengthForVariation = 10

// DetectAntiCheat scores a rolling submission view against the configured
// thresholds. Each triggered check appends a reason and raises the risk
// level; a triggered check never lowers an already-higher level. The result
// is advisory: enforcement belongs to the caller.
func DetectAntiCheat(check domain.AntiCheatCheck, cfg AntiCheatConfig) domain.AntiCheatResult {
	var reasons []string
	risk := domain.RiskLow

	raise := func(level domain.RiskLevel, reason string) {
		reasons = append(reasons, reason)
		if level > risk {
			risk = level
		}
	}

	if check.SubmissionRate > cfg.MaxSubmissionsPerMinute {
		raise(domain.RiskHigh, "excessive submission rate")
	}

	if n := len(check.ScorePattern); n > 0 {
		correct := 0
		for _, ok := range check.ScorePattern {
			if ok {
				correct++
			}
		}
		if float64(correct)/float64(n) > cfg.SuspiciousScoreThreshold {
			raise(domain.RiskMedium, "suspiciously high accuracy")
		}
	}

	if len(check.ScorePattern) > 0 && check.AverageResponseTime < minHumanResponseTime {
		raise(domain.RiskMedium, "unrealistic response times")
	}

	if len(check.ScorePattern) > minPatternLengthForVariation && flatPattern(check.ScorePattern) {
		raise(domain.RiskHigh, "lack of natural variation")
	}

	return domain.AntiCheatResult{
		IsSuspicious: len(reasons) > 0,
		Reasons:      reasons,
		RiskLevel:    risk,
	}
}

// flatPattern reports whether every adjacent pair in the sequence is
// identical, i.e. the whole pattern is one value.
func flatPattern(pattern []bool) bool {
	for i := 1; i < len(pattern); i++ {
		if pattern[i] != pattern[i-1] {
			return false
		}
	}
	return true
}
