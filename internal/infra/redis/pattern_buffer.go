package redis

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"trivia-settlement-service/internal/domain"
)

// rateWindow is the trailing window the submission rate is computed over.
const rateWindow = time.Minute

// PatternBuffer keeps the rolling anti-cheat view per session in Redis so a
// restarted service does not forget a session's cadence mid-game.
// Notes:
//   - A local mutex serializes appends in-process; running multiple writers
//     against one session would additionally need a Lua script or a Redis
//     lock around Append.
//   - Keys expire after ttl so abandoned sessions clean themselves up.
type PatternBuffer struct {
	client *redis.Client
	ttl    time.Duration
	mu     sync.Mutex
}

func NewPatternBuffer(client *redis.Client, ttl time.Duration) *PatternBuffer {
	return &PatternBuffer{client: client, ttl: ttl}
}

func (b *PatternBuffer) Append(ctx context.Context, sessionID string, sample domain.PatternSample) (domain.AntiCheatCheck, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	bit := "0"
	if sample.Correct {
		bit = "1"
	}

	patternKey := b.key(sessionID, "pattern")
	timesKey := b.key(sessionID, "times")
	totalKey := b.key(sessionID, "totaltime")

	seq, err := b.client.RPush(ctx, patternKey, bit).Result()
	if err != nil {
		return domain.AntiCheatCheck{}, fmt.Errorf("append pattern: %w", err)
	}

	at := float64(sample.At.UnixMilli())
	pipe := b.client.Pipeline()
	pipe.ZAdd(ctx, timesKey, redis.Z{Score: at, Member: seq})
	pipe.ZRemRangeByScore(ctx, timesKey, "-inf", fmt.Sprintf("%f", at-float64(rateWindow.Milliseconds())))
	pipe.IncrByFloat(ctx, totalKey, sample.ResponseTime)
	if b.ttl > 0 {
		pipe.Expire(ctx, patternKey, b.ttl)
		pipe.Expire(ctx, timesKey, b.ttl)
		pipe.Expire(ctx, totalKey, b.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return domain.AntiCheatCheck{}, fmt.Errorf("append sample: %w", err)
	}

	bits, err := b.client.LRange(ctx, patternKey, 0, -1).Result()
	if err != nil {
		return domain.AntiCheatCheck{}, fmt.Errorf("read pattern: %w", err)
	}
	recent, err := b.client.ZCard(ctx, timesKey).Result()
	if err != nil {
		return domain.AntiCheatCheck{}, fmt.Errorf("read rate: %w", err)
	}
	totalRaw, err := b.client.Get(ctx, totalKey).Result()
	if err != nil {
		return domain.AntiCheatCheck{}, fmt.Errorf("read total time: %w", err)
	}
	totalTime, err := strconv.ParseFloat(totalRaw, 64)
	if err != nil {
		return domain.AntiCheatCheck{}, fmt.Errorf("parse total time: %w", err)
	}

	pattern := make([]bool, len(bits))
	for i, raw := range bits {
		pattern[i] = raw == "1"
	}
	return domain.AntiCheatCheck{
		SubmissionRate:      float64(recent),
		ScorePattern:        pattern,
		AverageResponseTime: totalTime / float64(len(pattern)),
		DeviceID:            sample.DeviceID,
		IPAddress:           sample.IPAddress,
	}, nil
}

func (b *PatternBuffer) Flag(ctx context.Context, sessionID string) error {
	// Flags outlive the sample keys: settlement may run well after play.
	if err := b.client.Set(ctx, b.key(sessionID, "flag"), "1", 0).Err(); err != nil {
		return fmt.Errorf("set flag: %w", err)
	}
	return nil
}

func (b *PatternBuffer) IsFlagged(ctx context.Context, sessionID string) (bool, error) {
	n, err := b.client.Exists(ctx, b.key(sessionID, "flag")).Result()
	if err != nil {
		return false, fmt.Errorf("read flag: %w", err)
	}
	return n > 0, nil
}

func (b *PatternBuffer) key(sessionID, field string) string {
	return "anticheat:" + sessionID + ":" + field
}
