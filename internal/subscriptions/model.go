package subscriptions

import (
	"errors"
	"time"
)

const (
	StatusActive   = "active"
	StatusCanceled = "canceled"
	StatusInactive = "inactive"
)

var ErrNotFound = errors.New("subscription not found")

// Subscription is the billing state of one user. Absence of a record means
// the free plan.
type Subscription struct {
	UserID    string    `json:"-"`
	Plan      string    `json:"plan"`
	Status    string    `json:"status"`
	PriceID   string    `json:"priceId,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}
