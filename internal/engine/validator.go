package engine

import (
	"fmt"
	"strings"
	"time"

	"trivia-settlement-service/internal/domain"
)

// ClockSkewTolerance is how far ahead of the server clock a recorded
// timestamp may sit before it is treated as corrupt data.
const ClockSkewTolerance = 5 * time.Minute

// ValidateSession classifies a session snapshot. It never mutates anything;
// callers apply the verdict (e.g. persisting an EXPIRED status) themselves.
//
// Inactivity beyond the resume window trumps the recorded status: a session
// that still says ACTIVE but went quiet too long is invalid.
func ValidateSession(s domain.GameSession, now time.Time, maxResume time.Duration) (domain.SessionValidation, error) {
	if s.LastActivityAt.After(now.Add(ClockSkewTolerance)) {
		return domain.SessionValidation{}, fmt.Errorf(
			"%w: session %s lastActivityAt=%s now=%s",
			domain.ErrFutureTimestamp, s.ID, s.LastActivityAt.Format(time.RFC3339), now.Format(time.RFC3339),
		)
	}

	if now.Sub(s.LastActivityAt) > maxResume {
		return domain.SessionValidation{
			IsValid:   false,
			CanResume: false,
			Reason:    "expired due to inactivity",
		}, nil
	}

	switch s.Status {
	case domain.SessionCompleted:
		return domain.SessionValidation{
			IsValid:   true,
			CanResume: false,
			Reason:    "already completed",
		}, nil
	case domain.SessionCancelled, domain.SessionExpired:
		return domain.SessionValidation{
			IsValid:   false,
			CanResume: false,
			Reason:    "session " + strings.ToLower(string(s.Status)),
		}, nil
	default:
		return domain.SessionValidation{
			IsValid:   true,
			CanResume: s.CurrentQuestionIndex < s.TotalQuestions,
		}, nil
	}
}
