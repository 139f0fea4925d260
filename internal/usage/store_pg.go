package usage

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type pgStore struct {
	DB *sql.DB
}

// NewPGStore constructs a Postgres-backed usage store.
func NewPGStore(db *sql.DB) *pgStore {
	return &pgStore{DB: db}
}

func (s *pgStore) Get(ctx context.Context, userID string) (Usage, error) {
	return s.ensure(ctx, userID)
}

func (s *pgStore) EnsurePeriod(ctx context.Context, userID string) (Usage, error) {
	return s.ensure(ctx, userID)
}

func (s *pgStore) Consume(ctx context.Context, userID string, n int) (Usage, error) {
	if n <= 0 {
		return s.ensure(ctx, userID)
	}
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return Usage{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	u, err := s.lockAndEnsure(ctx, tx, userID)
	if err != nil {
		return Usage{}, err
	}

	if u.Used+n > u.Limit {
		err = ErrLimitReached
		return Usage{}, err
	}
	u.Used += n
	if _, err = tx.ExecContext(ctx, `
UPDATE usage_counters SET used = $1 WHERE user_id = $2`, u.Used, userID); err != nil {
		return Usage{}, err
	}
	if err = tx.Commit(); err != nil {
		return Usage{}, err
	}
	return u, nil
}

func (s *pgStore) Reset(ctx context.Context, userID string) (Usage, error) {
	now := time.Now().UTC()
	if _, err := s.DB.ExecContext(ctx, `
INSERT INTO usage_counters (user_id, used, limit_value, period_start)
VALUES ($1, 0, $2, $3)
ON CONFLICT (user_id) DO UPDATE SET used = 0, period_start = EXCLUDED.period_start`,
		userID, defaultLimit, now); err != nil {
		return Usage{}, err
	}
	return Usage{Limit: defaultLimit, Used: 0, ResetsAt: now.Add(periodLength)}, nil
}

func (s *pgStore) ensure(ctx context.Context, userID string) (Usage, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return Usage{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()
	u, err := s.lockAndEnsure(ctx, tx, userID)
	if err != nil {
		return Usage{}, err
	}
	if err = tx.Commit(); err != nil {
		return Usage{}, err
	}
	return u, nil
}

func (s *pgStore) lockAndEnsure(ctx context.Context, tx *sql.Tx, userID string) (Usage, error) {
	now := time.Now().UTC()

	var u Usage
	var periodStart time.Time
	row := tx.QueryRowContext(ctx, `
SELECT used, limit_value, period_start FROM usage_counters WHERE user_id = $1 FOR UPDATE`, userID)
	err := row.Scan(&u.Used, &u.Limit, &periodStart)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			u = defaultUsage()
			if _, err = tx.ExecContext(ctx, `
INSERT INTO usage_counters (user_id, used, limit_value, period_start) VALUES ($1, $2, $3, $4)`,
				userID, u.Used, u.Limit, now); err != nil {
				return Usage{}, err
			}
			return u, nil
		}
		return Usage{}, err
	}

	u.ResetsAt = periodStart.Add(periodLength)
	if !now.Before(u.ResetsAt) {
		u.Used = 0
		u.ResetsAt = now.Add(periodLength)
		if _, err = tx.ExecContext(ctx, `
UPDATE usage_counters SET used = 0, period_start = $1 WHERE user_id = $2`, now, userID); err != nil {
			return Usage{}, err
		}
	}
	return u, nil
}
