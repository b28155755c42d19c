package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"trivia-settlement-service/internal/domain"
)

type sessionRow struct {
	bun.BaseModel `bun:"table:game_sessions,alias:s"`

	ID                   string     `bun:"id,pk"`
	UserID               string     `bun:"user_id,notnull"`
	PeriodID             string     `bun:"period_id,notnull"`
	QuestionSetID        string     `bun:"question_set_id,notnull"`
	Status               string     `bun:"status,notnull"`
	CurrentQuestionIndex int        `bun:"current_question_index,notnull"`
	TotalQuestions       int        `bun:"total_questions,notnull"`
	Score                int        `bun:"score,notnull"`
	AnsweredQuestions    int        `bun:"answered_questions,notnull"`
	CorrectAnswers       int        `bun:"correct_answers,notnull"`
	IncorrectAnswers     int        `bun:"incorrect_answers,notnull"`
	SkippedAnswers       int        `bun:"skipped_answers,notnull"`
	TotalTimeSpent       float64    `bun:"total_time_spent,notnull"`
	AverageResponseTime  float64    `bun:"average_response_time,notnull"`
	StartedAt            time.Time  `bun:"started_at,notnull"`
	LastActivityAt       time.Time  `bun:"last_activity_at,notnull"`
	CompletedAt          *time.Time `bun:"completed_at"`
}

// SessionStore persists session snapshots in Postgres so settlement can run
// from any process, not just the one that served the game.
type SessionStore struct {
	db *bun.DB
}

func NewSessionStore(db *bun.DB) *SessionStore {
	return &SessionStore{db: db}
}

func (s *SessionStore) Get(ctx context.Context, sessionID string) (domain.GameSession, error) {
	row := new(sessionRow)
	err := s.db.NewSelect().Model(row).Where("s.id = ?", sessionID).Scan(ctx)
	if err == sql.ErrNoRows {
		return domain.GameSession{}, domain.ErrSessionNotFound
	}
	if err != nil {
		return domain.GameSession{}, fmt.Errorf("load session: %w", err)
	}
	return row.toDomain(), nil
}

func (s *SessionStore) Save(ctx context.Context, session domain.GameSession) error {
	row := fromDomain(session)
	_, err := s.db.NewInsert().
		Model(&row).
		On("CONFLICT (id) DO UPDATE").
		Set("status = EXCLUDED.status").
		Set("current_question_index = EXCLUDED.current_question_index").
		Set("score = EXCLUDED.score").
		Set("answered_questions = EXCLUDED.answered_questions").
		Set("correct_answers = EXCLUDED.correct_answers").
		Set("incorrect_answers = EXCLUDED.incorrect_answers").
		Set("skipped_answers = EXCLUDED.skipped_answers").
		Set("total_time_spent = EXCLUDED.total_time_spent").
		Set("average_response_time = EXCLUDED.average_response_time").
		Set("last_activity_at = EXCLUDED.last_activity_at").
		Set("completed_at = EXCLUDED.completed_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *SessionStore) CompletedByPeriod(ctx context.Context, periodID string) ([]domain.GameSession, error) {
	var rows []sessionRow
	err := s.db.NewSelect().
		Model(&rows).
		Where("s.period_id = ?", periodID).
		Where("s.status = ?", string(domain.SessionCompleted)).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("load completed sessions: %w", err)
	}
	sessions := make([]domain.GameSession, 0, len(rows))
	for _, row := range rows {
		sessions = append(sessions, row.toDomain())
	}
	return sessions, nil
}

func (r sessionRow) toDomain() domain.GameSession {
	return domain.GameSession{
		ID:                   r.ID,
		UserID:               r.UserID,
		PeriodID:             r.PeriodID,
		QuestionSetID:        r.QuestionSetID,
		Status:               domain.SessionStatus(r.Status),
		CurrentQuestionIndex: r.CurrentQuestionIndex,
		TotalQuestions:       r.TotalQuestions,
		Score:                r.Score,
		AnsweredQuestions:    r.AnsweredQuestions,
		CorrectAnswers:       r.CorrectAnswers,
		IncorrectAnswers:     r.IncorrectAnswers,
		SkippedAnswers:       r.SkippedAnswers,
		TotalTimeSpent:       r.TotalTimeSpent,
		AverageResponseTime:  r.AverageResponseTime,
		StartedAt:            r.StartedAt,
		LastActivityAt:       r.LastActivityAt,
		CompletedAt:          r.CompletedAt,
	}
}

func fromDomain(session domain.GameSession) sessionRow {
	return sessionRow{
		ID:                   session.ID,
		UserID:               session.UserID,
		PeriodID:             session.PeriodID,
		QuestionSetID:        session.QuestionSetID,
		Status:               string(session.Status),
		CurrentQuestionIndex: session.CurrentQuestionIndex,
		TotalQuestions:       session.TotalQuestions,
		Score:                session.Score,
		AnsweredQuestions:    session.AnsweredQuestions,
		CorrectAnswers:       session.CorrectAnswers,
		IncorrectAnswers:     session.IncorrectAnswers,
		SkippedAnswers:       session.SkippedAnswers,
		TotalTimeSpent:       session.TotalTimeSpent,
		AverageResponseTime:  session.AverageResponseTime,
		StartedAt:            session.StartedAt,
		LastActivityAt:       session.LastActivityAt,
		CompletedAt:          session.CompletedAt,
	}
}
