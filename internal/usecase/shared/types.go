package shared

import (
	"time"

	"github.com/google/uuid"
)

// Minimal snapshots for command-side validation reads. Full projections live
// in the readmodel package.

type BookingSnapshot struct {
	Token          string
	Status         string
	ExternalID     *string
	FailureReason  *string
	AmountMinor    int64
	Currency       string
	GuestFirstName string
	GuestEmail     string
	UserID         uuid.UUID
}

type PaymentSnapshot struct {
	TxnID        string
	BookingToken string
	Status       string
	AmountMinor  int64
	Currency     string
}

type UserSnapshot struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Role         string
	IsActive     bool
	LastLogin    *time.Time
}
