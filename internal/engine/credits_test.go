package engine

import (
	"errors"
	"testing"
	"time"

	"trivia-settlement-service/internal/domain"
)

func TestDailyClaimNeverClaimed(t *testing.T) {
	ok, err := CanClaimDailyCredits(nil, time.Now())
	if err != nil {
		t.Fatalf("claim check: %v", err)
	}
	if !ok {
		t.Fatalf("a wallet that never claimed can always claim")
	}
}

func TestDailyClaimUTCDayBoundary(t *testing.T) {
	claimed := time.Date(2024, 1, 1, 23, 59, 59, 0, time.UTC)

	sameDay, err := CanClaimDailyCredits(&claimed, time.Date(2024, 1, 1, 23, 59, 59, 0, time.UTC))
	if err != nil {
		t.Fatalf("claim check: %v", err)
	}
	if sameDay {
		t.Fatalf("same UTC day must not allow a second claim")
	}

	nextDay, err := CanClaimDailyCredits(&claimed, time.Date(2024, 1, 2, 0, 0, 1, 0, time.UTC))
	if err != nil {
		t.Fatalf("claim check: %v", err)
	}
	if !nextDay {
		t.Fatalf("two seconds past midnight UTC is a new day")
	}
}

func TestDailyClaimNotRolling24h(t *testing.T) {
	// 23 hours later but already the next calendar day: claimable.
	claimed := time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC)
	ok, err := CanClaimDailyCredits(&claimed, time.Date(2024, 1, 2, 1, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("claim check: %v", err)
	}
	if !ok {
		t.Fatalf("day boundary is midnight UTC, not a rolling window")
	}
}

func TestDailyClaimFutureTimestampRejected(t *testing.T) {
	claimed := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	_, err := CanClaimDailyCredits(&claimed, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	if !errors.Is(err, domain.ErrFutureTimestamp) {
		t.Fatalf("expected ErrFutureTimestamp, got %v", err)
	}
}

func TestAdRewardUnderLimit(t *testing.T) {
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	resetAt := now.Add(14 * time.Hour)
	if !CanReceiveAdReward(3, resetAt, 5, now) {
		t.Fatalf("3 of 5 rewards used: another is allowed")
	}
	if CanReceiveAdReward(5, resetAt, 5, now) {
		t.Fatalf("limit reached before reset: claim must be denied")
	}
}

func TestAdRewardStaleCounterResets(t *testing.T) {
	now := time.Date(2024, 1, 2, 0, 0, 1, 0, time.UTC)
	resetAt := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	if !CanReceiveAdReward(5, resetAt, 5, now) {
		t.Fatalf("counter past its reset time is stale; claim is allowed")
	}
}
