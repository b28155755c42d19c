package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"trivia-settlement-service/internal/domain"
)

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestPatternBufferAccumulates(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	buffer := NewPatternBuffer(newClient(mr), time.Hour)
	ctx := context.Background()
	base := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)

	var check domain.AntiCheatCheck
	for i, correct := range []bool{true, false, true, true} {
		check, err = buffer.Append(ctx, "s1", domain.PatternSample{
			Correct:      correct,
			ResponseTime: 5,
			At:           base.Add(time.Duration(i) * 10 * time.Second),
		})
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	want := []bool{true, false, true, true}
	if len(check.ScorePattern) != len(want) {
		t.Fatalf("expected %d samples, got %d", len(want), len(check.ScorePattern))
	}
	for i := range want {
		if check.ScorePattern[i] != want[i] {
			t.Fatalf("pattern order lost: %v", check.ScorePattern)
		}
	}
	if check.SubmissionRate != 4 {
		t.Fatalf("expected rate 4 inside the window, got %v", check.SubmissionRate)
	}
	if check.AverageResponseTime != 5 {
		t.Fatalf("unexpected avg response time %v", check.AverageResponseTime)
	}
}

func TestPatternBufferDropsOldSubmissionsFromRate(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	buffer := NewPatternBuffer(newClient(mr), time.Hour)
	ctx := context.Background()
	base := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)

	if _, err := buffer.Append(ctx, "s1", domain.PatternSample{Correct: true, ResponseTime: 4, At: base}); err != nil {
		t.Fatalf("append: %v", err)
	}
	check, err := buffer.Append(ctx, "s1", domain.PatternSample{
		Correct: false, ResponseTime: 4, At: base.Add(3 * time.Minute),
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if check.SubmissionRate != 1 {
		t.Fatalf("stale sample must leave the rate window, got %v", check.SubmissionRate)
	}
	if len(check.ScorePattern) != 2 {
		t.Fatalf("pattern keeps full history, got %v", check.ScorePattern)
	}
}

func TestPatternBufferFlagSurvivesSampleExpiry(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	buffer := NewPatternBuffer(newClient(mr), time.Minute)
	ctx := context.Background()

	if _, err := buffer.Append(ctx, "s1", domain.PatternSample{Correct: true, ResponseTime: 2, At: time.Now()}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := buffer.Flag(ctx, "s1"); err != nil {
		t.Fatalf("flag: %v", err)
	}

	mr.FastForward(2 * time.Minute) // sample keys expire, flag must not

	flagged, err := buffer.IsFlagged(ctx, "s1")
	if err != nil {
		t.Fatalf("is flagged: %v", err)
	}
	if !flagged {
		t.Fatalf("flag must outlive the sample TTL")
	}
	if mr.Exists("anticheat:s1:pattern") {
		t.Fatalf("sample keys should have expired")
	}
}
