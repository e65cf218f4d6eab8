package users

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("user not found")

type Repo interface {
	Upsert(ctx context.Context, user User) error
	GetByID(ctx context.Context, userID string) (User, error)
	SetPlan(ctx context.Context, userID, plan string) error
}
