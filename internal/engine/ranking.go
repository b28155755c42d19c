package engine

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"trivia-settlement-service/internal/domain"
)

// RanksBefore is the tie-break comparator: higher score first, then lower
// average response time, then earlier completion. It is a strict weak order;
// entries equal on all three compare false both ways and a stable sort leaves
// them in input order.
func RanksBefore(a, b domain.LeaderboardEntry) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.AverageResponseTime != b.AverageResponseTime {
		return a.AverageResponseTime < b.AverageResponseTime
	}
	return a.CompletedAt.Before(b.CompletedAt)
}

// DetermineWinners filters the entries to qualified ones, orders them with
// the tie-break comparator and mints Winner records for the top maxWinners.
// Disqualified or under-qualified entries never win, whatever their score.
//
// A qualified entry without a completion timestamp is a caller contract
// violation and fails the whole settlement rather than silently ranking last.
func DetermineWinners(
	entries []domain.LeaderboardEntry,
	periodID string,
	maxWinners, minAnswersToQualify int,
	payoutAmount float64,
	payoutCurrency string,
) ([]domain.Winner, error) {
	if maxWinners < 0 {
		return nil, fmt.Errorf("%w: maxWinners %d", domain.ErrInvalidWinnerLimit, maxWinners)
	}

	qualified := make([]domain.LeaderboardEntry, 0, len(entries))
	for _, e := range entries {
		if !e.IsQualified || e.AnsweredQuestions < minAnswersToQualify {
			continue
		}
		if e.CompletedAt.IsZero() {
			return nil, fmt.Errorf("%w: session %s", domain.ErrMissingCompletedAt, e.SessionID)
		}
		qualified = append(qualified, e)
	}

	sort.SliceStable(qualified, func(i, j int) bool {
		return RanksBefore(qualified[i], qualified[j])
	})

	if maxWinners < len(qualified) {
		qualified = qualified[:maxWinners]
	}

	winners := make([]domain.Winner, 0, len(qualified))
	for i, e := range qualified {
		winners = append(winners, domain.Winner{
			ID:             uuid.NewString(),
			UserID:         e.UserID,
			PeriodID:       periodID,
			Rank:           i + 1,
			Score:          e.Score,
			PayoutAmount:   payoutAmount,
			PayoutCurrency: payoutCurrency,
			Status:         domain.WinnerPending,
		})
	}
	return winners, nil
}
