package memory

import (
	"context"
	"sync"
	"time"

	"trivia-settlement-service/internal/domain"
)

// rateWindow is the trailing window the submission rate is computed over.
const rateWindow = time.Minute

// PatternBuffer keeps the rolling anti-cheat view per session in memory.
// A single mutex serializes Append across sessions, which satisfies the
// per-session serialization the detector input requires.
type PatternBuffer struct {
	mu       sync.Mutex
	sessions map[string]*sessionPattern
}

type sessionPattern struct {
	samples []domain.PatternSample
	flagged bool
}

func NewPatternBuffer() *PatternBuffer {
	return &PatternBuffer{
		sessions: make(map[string]*sessionPattern),
	}
}

func (b *PatternBuffer) Append(_ context.Context, sessionID string, sample domain.PatternSample) (domain.AntiCheatCheck, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	sp, ok := b.sessions[sessionID]
	if !ok {
		sp = &sessionPattern{}
		b.sessions[sessionID] = sp
	}
	sp.samples = append(sp.samples, sample)
	return rollingCheck(sp.samples, sample), nil
}

func (b *PatternBuffer) Flag(_ context.Context, sessionID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	sp, ok := b.sessions[sessionID]
	if !ok {
		sp = &sessionPattern{}
		b.sessions[sessionID] = sp
	}
	sp.flagged = true
	return nil
}

func (b *PatternBuffer) IsFlagged(_ context.Context, sessionID string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	sp, ok := b.sessions[sessionID]
	return ok && sp.flagged, nil
}

// rollingCheck derives the detector input from the full sample history:
// submissions/minute over the trailing window ending at the newest sample,
// mean response time and the correctness pattern over the whole session.
func rollingCheck(samples []domain.PatternSample, latest domain.PatternSample) domain.AntiCheatCheck {
	pattern := make([]bool, len(samples))
	var totalTime float64
	recent := 0
	cutoff := latest.At.Add(-rateWindow)
	for i, s := range samples {
		pattern[i] = s.Correct
		totalTime += s.ResponseTime
		if s.At.After(cutoff) {
			recent++
		}
	}
	return domain.AntiCheatCheck{
		SubmissionRate:      float64(recent),
		ScorePattern:        pattern,
		AverageResponseTime: totalTime / float64(len(samples)),
		DeviceID:            latest.DeviceID,
		IPAddress:           latest.IPAddress,
	}
}
