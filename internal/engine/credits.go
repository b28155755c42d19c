package engine

import (
	"fmt"
	"time"

	"trivia-settlement-service/internal/domain"
)

// CanClaimDailyCredits reports whether a daily credit grant is available:
// yes if the wallet never claimed, or if the current UTC calendar day is
// later than the day of the last claim. The boundary is midnight UTC, not a
// rolling 24 hours. This is the check half of a check-then-act pair; the
// caller owns the atomic act.
func CanClaimDailyCredits(lastClaimAt *time.Time, now time.Time) (bool, error) {
	if lastClaimAt == nil {
		return true, nil
	}
	if lastClaimAt.After(now.Add(ClockSkewTolerance)) {
		return false, fmt.Errorf("%w: lastDailyClaimAt=%s now=%s",
			domain.ErrFutureTimestamp, lastClaimAt.Format(time.RFC3339), now.Format(time.RFC3339))
	}

	last := lastClaimAt.UTC()
	lastDay := time.Date(last.Year(), last.Month(), last.Day(), 0, 0, 0, 0, time.UTC)
	today := time.Date(now.UTC().Year(), now.UTC().Month(), now.UTC().Day(), 0, 0, 0, 0, time.UTC)
	return today.After(lastDay), nil
}

// CanReceiveAdReward reports whether another capped ad reward may be claimed:
// yes once the daily counter is due for reset, or while the counter is under
// the limit.
func CanReceiveAdReward(adRewardsToday int, adRewardsResetAt time.Time, dailyLimit int, now time.Time) bool {
	if !now.Before(adRewardsResetAt) {
		return true
	}
	return adRewardsToday < dailyLimit
}
