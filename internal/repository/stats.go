package repository

import (
	"context"
	"fmt"

	"github.com/Evgen-Mutagen/tapcash/internal/model"
)

type StatsRepository interface {
	// GetOrCreate returns the user's stats, inserting a zero row on first access.
	GetOrCreate(ctx context.Context, userID int64) (*model.UserStats, error)
	AddCoins(ctx context.Context, userID int64, delta int64) (*model.UserStats, error)
}

type statsRepository struct {
	db *Database
}

func NewStatsRepository(db *Database) StatsRepository {
	return &statsRepository{db: db}
}

const statsColumns = `id, user_id, coins, total_withdrawn, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStats(row rowScanner) (*model.UserStats, error) {
	var s model.UserStats
	if err := row.Scan(&s.ID, &s.UserID, &s.Coins, &s.TotalWithdrawn, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *statsRepository) GetOrCreate(ctx context.Context, userID int64) (*model.UserStats, error) {
	insert := `INSERT INTO user_stats (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`
	if _, err := r.db.db.ExecContext(ctx, insert, userID); err != nil {
		return nil, fmt.Errorf("failed to create stats: %w", err)
	}

	query := `SELECT ` + statsColumns + ` FROM user_stats WHERE user_id = $1`
	stats, err := scanStats(r.db.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}
	return stats, nil
}

func (r *statsRepository) AddCoins(ctx context.Context, userID int64, delta int64) (*model.UserStats, error) {
	query := `INSERT INTO user_stats (user_id, coins) VALUES ($1, $2)
              ON CONFLICT (user_id) DO UPDATE
              SET coins = user_stats.coins + EXCLUDED.coins, updated_at = NOW()
              RETURNING ` + statsColumns

	stats, err := scanStats(r.db.db.QueryRowContext(ctx, query, userID, delta))
	if err != nil {
		return nil, fmt.Errorf("failed to add coins: %w", err)
	}
	return stats, nil
}
