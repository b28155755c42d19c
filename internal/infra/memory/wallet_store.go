package memory

import (
	"context"
	"sync"

	"trivia-settlement-service/internal/domain"
)

// WalletStore is an in-memory read model of user wallets, seeded by whatever
// owns wallet mutation (tests, or a sync job in a single-process deploy).
type WalletStore struct {
	mu      sync.RWMutex
	wallets map[string]domain.Wallet
}

func NewWalletStore() *WalletStore {
	return &WalletStore{
		wallets: make(map[string]domain.Wallet),
	}
}

func (s *WalletStore) Get(_ context.Context, userID string) (domain.Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	wallet, ok := s.wallets[userID]
	if !ok {
		return domain.Wallet{}, domain.ErrWalletNotFound
	}
	return wallet, nil
}

func (s *WalletStore) Put(wallet domain.Wallet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wallets[wallet.UserID] = wallet
}
