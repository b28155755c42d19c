package app

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"trivia-settlement-service/internal/domain"
	"trivia-settlement-service/internal/engine"
)

// SessionRepository abstracts how session snapshots are stored (in-memory, Redis, etc).
type SessionRepository interface {
	Get(ctx context.Context, sessionID string) (domain.GameSession, error)
	Save(ctx context.Context, session domain.GameSession) error
	CompletedByPeriod(ctx context.Context, periodID string) ([]domain.GameSession, error)
}

// QuestionRepository loads question content (from cache/backing store).
type QuestionRepository interface {
	GetQuestionSet(ctx context.Context, setID string) (domain.QuestionSet, error)
}

// PatternBuffer accumulates per-session submission cadence for the anti-cheat
// detector. Implementations serialize Append per session ID, so replayed
// concurrent submissions cannot interleave a session's pattern.
type PatternBuffer interface {
	Append(ctx context.Context, sessionID string, sample domain.PatternSample) (domain.AntiCheatCheck, error)
	Flag(ctx context.Context, sessionID string) error
	IsFlagged(ctx context.Context, sessionID string) (bool, error)
}

// WinnerRepository persists settlement output. Settle must be effectively
// once per period: a second call returns domain.ErrPeriodSettled and leaves
// the stored winner set untouched.
type WinnerRepository interface {
	Settle(ctx context.Context, periodID string, winners []domain.Winner) error
	ByPeriod(ctx context.Context, periodID string) ([]domain.Winner, error)
}

// WalletRepository reads the wallet view owned by the wallet service.
type WalletRepository interface {
	Get(ctx context.Context, userID string) (domain.Wallet, error)
}

// SettlementService contains the competition settlement and integrity use cases.
type SettlementService struct {
	sessions  SessionRepository
	questions QuestionRepository
	buffer    PatternBuffer
	winners   WinnerRepository
	wallets   WalletRepository
	cfg       engine.Config
	now       func() time.Time
}

func NewSettlementService(
	sessions SessionRepository,
	questions QuestionRepository,
	buffer PatternBuffer,
	winners WinnerRepository,
	wallets WalletRepository,
	cfg engine.Config,
) *SettlementService {
	return &SettlementService{
		sessions:  sessions,
		questions: questions,
		buffer:    buffer,
		winners:   winners,
		wallets:   wallets,
		cfg:       cfg,
		now:       time.Now,
	}
}

// WithClock is test-only for deterministic timestamps.
func (s *SettlementService) WithClock(now func() time.Time) *SettlementService {
	s.now = now
	return s
}

// StartedSession is a new session plus the question order the client plays in.
type StartedSession struct {
	Session domain.GameSession `json:"session"`
	Order   []domain.Question  `json:"order"`
}

// StartSession creates a session over a shuffled question ordering. A non-nil
// seed reproduces the same ordering, which lets a resumed client rebuild the
// exact sequence it started with.
func (s *SettlementService) StartSession(
	ctx context.Context,
	userID, periodID, questionSetID string,
	seed *uint64,
) (StartedSession, error) {
	set, err := s.questions.GetQuestionSet(ctx, questionSetID)
	if err != nil {
		return StartedSession{}, err
	}

	var order []domain.Question
	if seed != nil {
		order = engine.Shuffle(set.Questions, *seed)
	} else {
		order = engine.ShuffleRandom(set.Questions)
	}

	now := s.now()
	session := domain.GameSession{
		ID:             uuid.NewString(),
		UserID:         userID,
		PeriodID:       periodID,
		QuestionSetID:  questionSetID,
		Status:         domain.SessionActive,
		TotalQuestions: len(order),
		StartedAt:      now,
		LastActivityAt: now,
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return StartedSession{}, err
	}
	return StartedSession{Session: session, Order: order}, nil
}

// SubmissionResult is the verdict on one answer event.
type SubmissionResult struct {
	Validation domain.SessionValidation `json:"validation"`
	Accepted   bool                     `json:"accepted"`
	Correct    bool                     `json:"correct"`
	Score      int                      `json:"score"`
	AntiCheat  domain.AntiCheatResult   `json:"antiCheat"`
}

// RecordSubmission validates the session, scores the answer, folds it into
// the session snapshot and the anti-cheat buffer, and returns the advisory
// detector output. An invalid session yields a typed verdict, not an error;
// the session record is updated to EXPIRED when inactivity killed it.
func (s *SettlementService) RecordSubmission(ctx context.Context, sub domain.Submission) (SubmissionResult, error) {
	session, err := s.sessions.Get(ctx, sub.SessionID)
	if err != nil {
		return SubmissionResult{}, err
	}

	now := s.now()
	validation, err := engine.ValidateSession(session, now, s.cfg.Session.MaxResumeTime)
	if err != nil {
		return SubmissionResult{}, err
	}
	if !validation.IsValid || !validation.CanResume {
		if validation.Reason == "expired due to inactivity" && session.Status != domain.SessionExpired {
			session.Status = domain.SessionExpired
			if err := s.sessions.Save(ctx, session); err != nil {
				return SubmissionResult{}, err
			}
		}
		return SubmissionResult{Validation: validation, Score: session.Score}, nil
	}

	correct, err := s.scoreSubmission(ctx, session.QuestionSetID, sub)
	if err != nil {
		return SubmissionResult{}, err
	}

	session = advanceSession(session, sub, correct, now)
	if err := s.sessions.Save(ctx, session); err != nil {
		return SubmissionResult{}, err
	}

	check, err := s.buffer.Append(ctx, session.ID, domain.PatternSample{
		Correct:      correct,
		ResponseTime: sub.ResponseTime,
		DeviceID:     sub.DeviceID,
		IPAddress:    sub.IPAddress,
		At:           now,
	})
	if err != nil {
		return SubmissionResult{}, err
	}

	antiCheat := engine.DetectAntiCheat(check, s.cfg.AntiCheat)
	if antiCheat.RiskLevel == domain.RiskHigh {
		// Enforcement decision lives here, not in the detector: HIGH risk
		// sessions are excluded from settlement, play itself continues.
		if err := s.buffer.Flag(ctx, session.ID); err != nil {
			return SubmissionResult{}, err
		}
	}

	return SubmissionResult{
		Validation: validation,
		Accepted:   true,
		Correct:    correct,
		Score:      session.Score,
		AntiCheat:  antiCheat,
	}, nil
}

// scoreSubmission checks the selected option against the question content.
// Skips are accepted but never score.
func (s *SettlementService) scoreSubmission(ctx context.Context, setID string, sub domain.Submission) (bool, error) {
	if sub.IsSkipped {
		return false, nil
	}

	set, err := s.questions.GetQuestionSet(ctx, setID)
	if err != nil {
		return false, err
	}

	var question *domain.Question
	for i := range set.Questions {
		if set.Questions[i].ID == sub.QuestionID {
			question = &set.Questions[i]
			break
		}
	}
	if question == nil {
		return false, domain.ErrQuestionNotFound
	}

	for _, opt := range question.Options {
		if opt.ID == sub.SelectedOption {
			return opt.Correct, nil
		}
	}
	return false, domain.ErrOptionNotFound
}

// advanceSession folds one accepted submission into the snapshot. Score stays
// equal to CorrectAnswers throughout.
func advanceSession(session domain.GameSession, sub domain.Submission, correct bool, now time.Time) domain.GameSession {
	session.CurrentQuestionIndex++
	switch {
	case sub.IsSkipped:
		session.SkippedAnswers++
	case correct:
		session.AnsweredQuestions++
		session.CorrectAnswers++
	default:
		session.AnsweredQuestions++
		session.IncorrectAnswers++
	}
	session.Score = session.CorrectAnswers
	session.TotalTimeSpent += sub.ResponseTime
	session.AverageResponseTime = session.TotalTimeSpent / float64(session.CurrentQuestionIndex)
	session.LastActivityAt = now

	if session.CurrentQuestionIndex >= session.TotalQuestions {
		session.Status = domain.SessionCompleted
		completedAt := now
		session.CompletedAt = &completedAt
	}
	return session
}

// SettlePeriod turns every completed session of a period into a leaderboard
// entry, ranks them, and persists the winners. Safe to retry: once a period
// is settled, later calls return the stored winner set unchanged.
func (s *SettlementService) SettlePeriod(ctx context.Context, periodID string, mode domain.ModeType) ([]domain.Winner, error) {
	mc, err := s.cfg.Mode(mode)
	if err != nil {
		return nil, err
	}

	sessions, err := s.sessions.CompletedByPeriod(ctx, periodID)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.LeaderboardEntry, 0, len(sessions))
	for _, session := range sessions {
		if session.Status != domain.SessionCompleted || session.CompletedAt == nil {
			continue
		}
		flagged, err := s.buffer.IsFlagged(ctx, session.ID)
		if err != nil {
			return nil, err
		}
		entries = append(entries, domain.LeaderboardEntry{
			UserID:              session.UserID,
			SessionID:           session.ID,
			Score:               session.Score,
			AverageResponseTime: session.AverageResponseTime,
			CompletedAt:         *session.CompletedAt,
			AnsweredQuestions:   session.AnsweredQuestions,
			IsQualified:         !flagged,
		})
	}

	winners, err := engine.DetermineWinners(
		entries, periodID, mc.MaxWinners, mc.MinAnswersToQualify, mc.PayoutAmount, mc.PayoutCurrency,
	)
	if err != nil {
		return nil, err
	}

	if err := s.winners.Settle(ctx, periodID, winners); err != nil {
		if errors.Is(err, domain.ErrPeriodSettled) {
			return s.winners.ByPeriod(ctx, periodID)
		}
		return nil, err
	}
	return winners, nil
}

// WinnersView returns what the given viewer is allowed to see for a period:
// the real winner list when their lifetime earnings clear the mode threshold,
// otherwise a synthetic placeholder board. A missing wallet counts as zero
// earnings.
func (s *SettlementService) WinnersView(ctx context.Context, periodID string, mode domain.ModeType, viewerID string) (domain.WinnerBoard, error) {
	mc, err := s.cfg.Mode(mode)
	if err != nil {
		return domain.WinnerBoard{}, err
	}

	var earnings float64
	wallet, err := s.wallets.Get(ctx, viewerID)
	switch {
	case err == nil:
		earnings = wallet.LifetimeEarnings
	case errors.Is(err, domain.ErrWalletNotFound):
		earnings = 0
	default:
		return domain.WinnerBoard{}, err
	}

	show, err := engine.ShouldShowActualWinners(earnings, mode, s.cfg)
	if err != nil {
		return domain.WinnerBoard{}, err
	}

	if !show {
		return domain.WinnerBoard{
			PeriodID:  periodID,
			Synthetic: true,
			Placeholders: engine.GenerateSyntheticWinners(
				mc.MaxWinners, mc.PayoutAmount, mc.PayoutCurrency, s.now(),
			),
		}, nil
	}

	winners, err := s.winners.ByPeriod(ctx, periodID)
	if err != nil {
		return domain.WinnerBoard{}, err
	}
	return domain.WinnerBoard{PeriodID: periodID, Winners: winners}, nil
}

// CanClaimDailyCredits is the check half of the daily claim; the wallet
// service serializes the act half per user.
func (s *SettlementService) CanClaimDailyCredits(ctx context.Context, userID string) (bool, error) {
	wallet, err := s.wallets.Get(ctx, userID)
	if errors.Is(err, domain.ErrWalletNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return engine.CanClaimDailyCredits(wallet.LastDailyClaimAt, s.now())
}

// CanReceiveAdReward checks the capped ad-reward eligibility for a user.
func (s *SettlementService) CanReceiveAdReward(ctx context.Context, userID string) (bool, error) {
	wallet, err := s.wallets.Get(ctx, userID)
	if errors.Is(err, domain.ErrWalletNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return engine.CanReceiveAdReward(
		wallet.AdRewardsToday, wallet.AdRewardsResetAt, s.cfg.Credits.AdRewardDailyLimit, s.now(),
	), nil
}
