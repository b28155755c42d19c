package memory

import (
	"context"
	"testing"
	"time"

	"trivia-settlement-service/internal/domain"
)

func TestPatternBufferRollingView(t *testing.T) {
	buffer := NewPatternBuffer()
	ctx := context.Background()
	base := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)

	var check domain.AntiCheatCheck
	var err error
	for i, correct := range []bool{true, false, true} {
		check, err = buffer.Append(ctx, "s1", domain.PatternSample{
			Correct:      correct,
			ResponseTime: 4,
			At:           base.Add(time.Duration(i) * 10 * time.Second),
		})
		if err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	if len(check.ScorePattern) != 3 {
		t.Fatalf("expected 3 samples in pattern, got %d", len(check.ScorePattern))
	}
	if !check.ScorePattern[0] || check.ScorePattern[1] || !check.ScorePattern[2] {
		t.Fatalf("pattern order lost: %v", check.ScorePattern)
	}
	if check.SubmissionRate != 3 {
		t.Fatalf("all samples inside the window, expected rate 3, got %v", check.SubmissionRate)
	}
	if check.AverageResponseTime != 4 {
		t.Fatalf("unexpected avg response time %v", check.AverageResponseTime)
	}
}

func TestPatternBufferRateWindowSlides(t *testing.T) {
	buffer := NewPatternBuffer()
	ctx := context.Background()
	base := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)

	if _, err := buffer.Append(ctx, "s1", domain.PatternSample{Correct: true, ResponseTime: 3, At: base}); err != nil {
		t.Fatalf("append: %v", err)
	}
	check, err := buffer.Append(ctx, "s1", domain.PatternSample{
		Correct: true, ResponseTime: 3, At: base.Add(2 * time.Minute),
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if check.SubmissionRate != 1 {
		t.Fatalf("old sample should have left the window, got rate %v", check.SubmissionRate)
	}
	if len(check.ScorePattern) != 2 {
		t.Fatalf("pattern keeps full history, got %d", len(check.ScorePattern))
	}
}

func TestPatternBufferKeepsSessionsSeparate(t *testing.T) {
	buffer := NewPatternBuffer()
	ctx := context.Background()
	now := time.Now()

	if _, err := buffer.Append(ctx, "s1", domain.PatternSample{Correct: true, At: now}); err != nil {
		t.Fatalf("append: %v", err)
	}
	check, err := buffer.Append(ctx, "s2", domain.PatternSample{Correct: false, At: now})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if len(check.ScorePattern) != 1 || check.ScorePattern[0] {
		t.Fatalf("sessions must not share buffers, got %v", check.ScorePattern)
	}
}

func TestPatternBufferFlag(t *testing.T) {
	buffer := NewPatternBuffer()
	ctx := context.Background()

	flagged, err := buffer.IsFlagged(ctx, "s1")
	if err != nil || flagged {
		t.Fatalf("fresh session must be unflagged, got %v %v", flagged, err)
	}
	if err := buffer.Flag(ctx, "s1"); err != nil {
		t.Fatalf("flag: %v", err)
	}
	flagged, err = buffer.IsFlagged(ctx, "s1")
	if err != nil || !flagged {
		t.Fatalf("expected flagged, got %v %v", flagged, err)
	}
}
