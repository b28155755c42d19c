package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"trivia-settlement-service/internal/app"
	"trivia-settlement-service/internal/config"
	"trivia-settlement-service/internal/domain"
	"trivia-settlement-service/internal/engine"
	"trivia-settlement-service/internal/infra/memory"
	pginfra "trivia-settlement-service/internal/infra/postgres"
	redisinfra "trivia-settlement-service/internal/infra/redis"
)

// NewSettleCmd settles a competition period from the command line. Without an
// explicit period ID it settles the current window of the given mode.
func NewSettleCmd(configPath *string) *cobra.Command {
	var mode string
	var periodID string
	cmd := &cobra.Command{
		Use:   "settle",
		Short: "Settle a competition period and persist its winners",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSettle(cmd.Context(), *configPath, domain.ModeType(mode), periodID)
		},
	}
	cmd.Flags().StringVar(&mode, "mode", string(domain.ModeFree), "competition mode to settle")
	cmd.Flags().StringVar(&periodID, "period", "", "period ID to settle (defaults to the current window)")
	return cmd
}

func runSettle(ctx context.Context, configPath string, mode domain.ModeType, periodID string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	engineCfg, err := cfg.EngineConfig()
	if err != nil {
		return err
	}
	modeCfg, err := engineCfg.Mode(mode)
	if err != nil {
		return err
	}

	// Settlement reads completed sessions, so it only makes sense against the
	// shared store; a fresh process has no in-memory sessions to settle.
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("settle requires a configured postgres url")
	}
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.URL)))
	bunDB := bun.NewDB(sqldb, pgdialect.New())
	defer bunDB.Close()

	start, end, err := engine.CurrentWindow(modeCfg.Period, time.Now().UTC())
	if err != nil {
		return err
	}
	if periodID == "" {
		periodID = engine.WindowID(mode, modeCfg.Period, start)
	}

	store := pginfra.NewSettlementStore(bunDB)
	if err := store.EnsurePeriod(ctx, domain.Period{
		ID:        periodID,
		Mode:      mode,
		StartDate: start,
		EndDate:   end,
		Status:    domain.PeriodActive,
	}); err != nil {
		return err
	}

	var buffer app.PatternBuffer = memory.NewPatternBuffer()
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		// Anti-cheat flags written by the serving process live here.
		buffer = redisinfra.NewPatternBuffer(client, config.TTLDuration(cfg.Redis.TTL, 30*time.Minute))

		lock := redisinfra.NewSettlementLock(client, 2*time.Minute)
		acquired, err := lock.TryLock(ctx, periodID)
		if err != nil {
			return err
		}
		if !acquired {
			return fmt.Errorf("period %s is being settled by another process", periodID)
		}
		defer func() {
			if err := lock.Unlock(context.Background(), periodID); err != nil {
				log.Printf("release settlement lock: %v", err)
			}
		}()
	}

	service := app.NewSettlementService(
		pginfra.NewSessionStore(bunDB),
		memory.NewQuestionRepository(memory.NewStaticQuestionLoader(nil), time.Minute),
		buffer,
		store,
		memory.NewWalletStore(),
		engineCfg,
	)

	settled, err := service.SettlePeriod(ctx, periodID, mode)
	if errors.Is(err, domain.ErrPeriodSettled) {
		log.Printf("period %s already settled", periodID)
		return nil
	}
	if err != nil {
		return err
	}
	log.Printf("settled period %s with %d winners", periodID, len(settled))
	for _, w := range settled {
		log.Printf("  rank %d: user %s score %d (%.2f %s)", w.Rank, w.UserID, w.Score, w.PayoutAmount, w.PayoutCurrency)
	}
	return nil
}
