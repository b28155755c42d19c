package memory

import (
	"context"
	"sync"

	"trivia-settlement-service/internal/domain"
)

// WinnerStore is an in-memory implementation of app.WinnerRepository. The
// settled set is the compare-and-swap guard: the first Settle for a period
// wins, every later one gets domain.ErrPeriodSettled.
type WinnerStore struct {
	mu      sync.RWMutex
	winners map[string][]domain.Winner
	settled map[string]bool
}

func NewWinnerStore() *WinnerStore {
	return &WinnerStore{
		winners: make(map[string][]domain.Winner),
		settled: make(map[string]bool),
	}
}

func (s *WinnerStore) Settle(_ context.Context, periodID string, winners []domain.Winner) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.settled[periodID] {
		return domain.ErrPeriodSettled
	}
	s.settled[periodID] = true
	stored := make([]domain.Winner, len(winners))
	copy(stored, winners)
	s.winners[periodID] = stored
	return nil
}

func (s *WinnerStore) ByPeriod(_ context.Context, periodID string) ([]domain.Winner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored := s.winners[periodID]
	out := make([]domain.Winner, len(stored))
	copy(out, stored)
	return out, nil
}
