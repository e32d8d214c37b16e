package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Evgen-Mutagen/tapcash/internal/model"
)

type WithdrawalRepository interface {
	// Apply debits the user's coins, credits total withdrawn and appends the
	// withdrawal in one transaction. ErrInsufficientCoins leaves both untouched.
	Apply(ctx context.Context, withdrawal *model.Withdrawal) (*model.UserStats, error)
	GetByUserID(ctx context.Context, userID int64, limit int) ([]*model.Withdrawal, error)
}

type withdrawalRepository struct {
	db *Database
}

func NewWithdrawalRepository(db *Database) WithdrawalRepository {
	return &withdrawalRepository{db: db}
}

func (r *withdrawalRepository) Apply(ctx context.Context, w *model.Withdrawal) (*model.UserStats, error) {
	tx, err := r.db.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	debit := `UPDATE user_stats
              SET coins = coins - $1,
                  total_withdrawn = total_withdrawn + $2,
                  updated_at = NOW()
              WHERE user_id = $3 AND coins >= $1
              RETURNING ` + statsColumns
	stats, err := scanStats(tx.QueryRowContext(ctx, debit, w.CoinsSpent, w.Amount, w.UserID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInsufficientCoins
	}
	if err != nil {
		return nil, fmt.Errorf("failed to debit stats: %w", err)
	}

	insert := `INSERT INTO withdrawals (id, user_id, amount, coins_spent, paypal_email, status, batch_id, created_at)
               VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err = tx.ExecContext(ctx, insert,
		w.ID,
		w.UserID,
		w.Amount,
		w.CoinsSpent,
		w.PayPalEmail,
		string(w.Status),
		w.BatchID,
		w.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create withdrawal: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit withdrawal: %w", err)
	}
	return stats, nil
}

func (r *withdrawalRepository) GetByUserID(ctx context.Context, userID int64, limit int) ([]*model.Withdrawal, error) {
	query := `SELECT id, user_id, amount, coins_spent, paypal_email, status, batch_id, created_at
              FROM withdrawals
              WHERE user_id = $1
              ORDER BY created_at DESC
              LIMIT $2`
	rows, err := r.db.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var withdrawals []*model.Withdrawal
	for rows.Next() {
		var w model.Withdrawal
		var status string
		if err := rows.Scan(&w.ID, &w.UserID, &w.Amount, &w.CoinsSpent, &w.PayPalEmail, &status, &w.BatchID, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		w.Status = model.WithdrawalStatus(status)
		withdrawals = append(withdrawals, &w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return withdrawals, nil
}
