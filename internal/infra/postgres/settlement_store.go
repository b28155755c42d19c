package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"trivia-settlement-service/internal/domain"
)

type periodRow struct {
	bun.BaseModel `bun:"table:periods,alias:p"`

	ID        string     `bun:"id,pk"`
	Mode      string     `bun:"mode,notnull"`
	StartDate time.Time  `bun:"start_date,notnull"`
	EndDate   time.Time  `bun:"end_date,notnull"`
	Status    string     `bun:"status,notnull"`
	SettledAt *time.Time `bun:"settled_at"`
}

type winnerRow struct {
	bun.BaseModel `bun:"table:winners,alias:w"`

	ID             string  `bun:"id,pk"`
	UserID         string  `bun:"user_id,notnull"`
	PeriodID       string  `bun:"period_id,notnull"`
	Rank           int     `bun:"rank,notnull"`
	Score          int     `bun:"score,notnull"`
	PayoutAmount   float64 `bun:"payout_amount,notnull"`
	PayoutCurrency string  `bun:"payout_currency,notnull"`
	Status         string  `bun:"status,notnull"`
}

// SettlementStore persists periods and winners in Postgres. The settled_at
// column is the settlement guard: the conditional UPDATE inside Settle is the
// compare-and-swap that makes retried or concurrent settlement runs converge
// on one winner set.
type SettlementStore struct {
	db *bun.DB
}

func NewSettlementStore(db *bun.DB) *SettlementStore {
	return &SettlementStore{db: db}
}

// EnsurePeriod inserts the period row if it does not exist yet. Idempotent,
// safe for every settlement participant to call.
func (s *SettlementStore) EnsurePeriod(ctx context.Context, period domain.Period) error {
	row := &periodRow{
		ID:        period.ID,
		Mode:      string(period.Mode),
		StartDate: period.StartDate,
		EndDate:   period.EndDate,
		Status:    string(period.Status),
	}
	if _, err := s.db.NewInsert().Model(row).Ignore().Exec(ctx); err != nil {
		return fmt.Errorf("ensure period: %w", err)
	}
	return nil
}

// GetPeriod loads one period row.
func (s *SettlementStore) GetPeriod(ctx context.Context, periodID string) (domain.Period, error) {
	row := new(periodRow)
	err := s.db.NewSelect().Model(row).Where("p.id = ?", periodID).Scan(ctx)
	if err == sql.ErrNoRows {
		return domain.Period{}, domain.ErrPeriodNotFound
	}
	if err != nil {
		return domain.Period{}, fmt.Errorf("load period: %w", err)
	}
	return domain.Period{
		ID:        row.ID,
		Mode:      domain.ModeType(row.Mode),
		StartDate: row.StartDate,
		EndDate:   row.EndDate,
		Status:    domain.PeriodStatus(row.Status),
	}, nil
}

// Settle writes the winner set for a period exactly once. The second and
// later calls observe settled_at already set and get domain.ErrPeriodSettled.
func (s *SettlementStore) Settle(ctx context.Context, periodID string, winners []domain.Winner) error {
	return s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model((*periodRow)(nil)).
			Set("settled_at = ?", time.Now().UTC()).
			Set("status = ?", string(domain.PeriodCompleted)).
			Where("id = ?", periodID).
			Where("settled_at IS NULL").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("mark period settled: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("mark period settled: %w", err)
		}
		if affected == 0 {
			exists, err := tx.NewSelect().
				Model((*periodRow)(nil)).
				Where("id = ?", periodID).
				Exists(ctx)
			if err != nil {
				return fmt.Errorf("check period: %w", err)
			}
			if !exists {
				return domain.ErrPeriodNotFound
			}
			return domain.ErrPeriodSettled
		}

		if len(winners) == 0 {
			return nil
		}
		rows := make([]winnerRow, 0, len(winners))
		for _, w := range winners {
			rows = append(rows, winnerRow{
				ID:             w.ID,
				UserID:         w.UserID,
				PeriodID:       w.PeriodID,
				Rank:           w.Rank,
				Score:          w.Score,
				PayoutAmount:   w.PayoutAmount,
				PayoutCurrency: w.PayoutCurrency,
				Status:         string(w.Status),
			})
		}
		if _, err := tx.NewInsert().Model(&rows).Exec(ctx); err != nil {
			return fmt.Errorf("insert winners: %w", err)
		}
		return nil
	})
}

// ByPeriod returns the stored winner set ordered by rank.
func (s *SettlementStore) ByPeriod(ctx context.Context, periodID string) ([]domain.Winner, error) {
	var rows []winnerRow
	err := s.db.NewSelect().
		Model(&rows).
		Where("w.period_id = ?", periodID).
		Order("rank ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("load winners: %w", err)
	}
	winners := make([]domain.Winner, 0, len(rows))
	for _, row := range rows {
		winners = append(winners, domain.Winner{
			ID:             row.ID,
			UserID:         row.UserID,
			PeriodID:       row.PeriodID,
			Rank:           row.Rank,
			Score:          row.Score,
			PayoutAmount:   row.PayoutAmount,
			PayoutCurrency: row.PayoutCurrency,
			Status:         domain.WinnerStatus(row.Status),
		})
	}
	return winners, nil
}
