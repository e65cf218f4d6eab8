package subscriptions

import (
	"context"
	"database/sql"
	"errors"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Get(ctx context.Context, userID string) (Subscription, error) {
	const query = `
SELECT user_id, plan, status, price_id, updated_at
FROM subscriptions
WHERE user_id = $1
LIMIT 1`
	var sub Subscription
	var priceID sql.NullString
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(
		&sub.UserID,
		&sub.Plan,
		&sub.Status,
		&priceID,
		&sub.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Subscription{}, ErrNotFound
		}
		return Subscription{}, err
	}
	if priceID.Valid {
		sub.PriceID = priceID.String
	}
	return sub, nil
}

func (r *PGRepo) Upsert(ctx context.Context, sub Subscription) error {
	const query = `
INSERT INTO subscriptions (user_id, plan, status, price_id, updated_at)
VALUES ($1, $2, $3, $4, now())
ON CONFLICT (user_id) DO UPDATE SET
  plan = EXCLUDED.plan,
  status = EXCLUDED.status,
  price_id = EXCLUDED.price_id,
  updated_at = now()`
	_, err := r.DB.ExecContext(ctx, query,
		sub.UserID,
		sub.Plan,
		sub.Status,
		nullableString(sub.PriceID),
	)
	return err
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
