package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SettlementLock is the per-period mutual exclusion around settlement runs.
// The winner store's settled-flag CAS already makes settlement effectively
// once; this lock keeps concurrent runs from doing the ranking work twice.
type SettlementLock struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSettlementLock(client *redis.Client, ttl time.Duration) *SettlementLock {
	return &SettlementLock{client: client, ttl: ttl}
}

// TryLock returns true when this caller holds the period lock. The TTL keeps
// a crashed settler from wedging the period forever.
func (l *SettlementLock) TryLock(ctx context.Context, periodID string) (bool, error) {
	ok, err := l.client.SetNX(ctx, l.key(periodID), "1", l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire settlement lock: %w", err)
	}
	return ok, nil
}

func (l *SettlementLock) Unlock(ctx context.Context, periodID string) error {
	if err := l.client.Del(ctx, l.key(periodID)).Err(); err != nil {
		return fmt.Errorf("release settlement lock: %w", err)
	}
	return nil
}

func (l *SettlementLock) key(periodID string) string {
	return "settlement:lock:" + periodID
}
