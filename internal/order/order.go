package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bundle-bot/internal/catalog"
)

type State string

const (
	StateAwaitingBundle State = "awaiting_bundle"
	StateAwaitingPhone  State = "awaiting_phone"
	StateSubmitted      State = "submitted"
)

var (
	ErrNotFound          = errors.New("pending order not found")
	ErrInvalidTransition = errors.New("invalid order transition")
)

// PendingOrder is the in-progress purchase of a single user.
type PendingOrder struct {
	UserID      int64     `json:"user_id" db:"user_id"`
	State       State     `json:"state" db:"state"`
	BundleCode  string    `json:"bundle_code,omitempty" db:"bundle_code"`
	Price       string    `json:"price,omitempty" db:"price"`
	PhoneNumber string    `json:"phone_number,omitempty" db:"phone_number"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

func NewPendingOrder(userID int64) *PendingOrder {
	return &PendingOrder{
		UserID:    userID,
		State:     StateAwaitingBundle,
		UpdatedAt: time.Now().UTC(),
	}
}

// ChooseBundle copies code and price from the catalog entry and waits for a phone.
// A previous phone number is dropped.
func (o *PendingOrder) ChooseBundle(b catalog.Bundle) {
	o.BundleCode = b.Code
	o.Price = b.Price
	o.PhoneNumber = ""
	o.State = StateAwaitingPhone
	o.UpdatedAt = time.Now().UTC()
}

// AttachPhone completes the order. Only valid while awaiting a phone number.
func (o *PendingOrder) AttachPhone(phone string) error {
	if o.State != StateAwaitingPhone || o.BundleCode == "" {
		return fmt.Errorf("%w: attach phone in state %s", ErrInvalidTransition, o.State)
	}
	o.PhoneNumber = phone
	o.State = StateSubmitted
	o.UpdatedAt = time.Now().UTC()
	return nil
}

// Store keeps one pending order per user. Save overwrites.
type Store interface {
	Get(ctx context.Context, userID int64) (*PendingOrder, error)
	Save(ctx context.Context, o *PendingOrder) error
}
