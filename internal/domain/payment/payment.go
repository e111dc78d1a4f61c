package payment

import (
	"errors"
	"strings"
	"time"

	"staybook/internal/domain/booking"
)

type Status string

const (
	// StatusInitiated means the redirect request was signed and handed to
	// the gateway; no callback has arrived yet.
	StatusInitiated Status = "initiated"
	// StatusVerified means a callback arrived, its digest matched a
	// candidate and the gateway reported success.
	StatusVerified Status = "verified"
	// StatusRejected covers both a failed digest check and a gateway
	// failure status. Terminal; a retry pays under a new transaction id.
	StatusRejected Status = "rejected"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusInitiated, StatusVerified, StatusRejected:
		return true
	}
	return false
}

func (s Status) IsTerminal() bool {
	return s == StatusVerified || s == StatusRejected
}

var (
	ErrEmptyTxnID        = errors.New("transaction id is required")
	ErrEmptyBookingToken = errors.New("booking token is required")
	ErrEmptyProductInfo  = errors.New("product description is required")
	ErrAlreadySettled    = errors.New("payment already settled")
)

// Payment tracks one gateway transaction from redirect to callback. The
// transaction id is the gateway-facing key; the booking token links it back
// to the reservation.
type Payment struct {
	txnID        string
	bookingToken string
	amount       booking.Money
	productInfo  string
	firstName    string
	email        string
	status       Status
	gatewayState string
	createdAt    time.Time
	updatedAt    time.Time
}

func New(txnID, bookingToken string, amount booking.Money, productInfo, firstName, email string, now time.Time) (*Payment, error) {
	txnID = strings.TrimSpace(txnID)
	if txnID == "" {
		return nil, ErrEmptyTxnID
	}
	bookingToken = strings.TrimSpace(bookingToken)
	if bookingToken == "" {
		return nil, ErrEmptyBookingToken
	}
	productInfo = strings.TrimSpace(productInfo)
	if productInfo == "" {
		return nil, ErrEmptyProductInfo
	}

	return &Payment{
		txnID:        txnID,
		bookingToken: bookingToken,
		amount:       amount,
		productInfo:  productInfo,
		firstName:    firstName,
		email:        email,
		status:       StatusInitiated,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

func Reconstruct(txnID, bookingToken string, amount booking.Money, productInfo, firstName, email string, status Status, gatewayState string, createdAt, updatedAt time.Time) *Payment {
	return &Payment{
		txnID:        txnID,
		bookingToken: bookingToken,
		amount:       amount,
		productInfo:  productInfo,
		firstName:    firstName,
		email:        email,
		status:       status,
		gatewayState: gatewayState,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (p *Payment) TxnID() string         { return p.txnID }
func (p *Payment) BookingToken() string  { return p.bookingToken }
func (p *Payment) Amount() booking.Money { return p.amount }
func (p *Payment) ProductInfo() string   { return p.productInfo }
func (p *Payment) FirstName() string     { return p.firstName }
func (p *Payment) Email() string         { return p.email }
func (p *Payment) Status() Status        { return p.status }
func (p *Payment) GatewayState() string  { return p.gatewayState }
func (p *Payment) CreatedAt() time.Time  { return p.createdAt }
func (p *Payment) UpdatedAt() time.Time  { return p.updatedAt }

// Verify settles the payment after a digest-checked success callback.
// Settlement is one-way; a second callback for a settled payment is refused.
func (p *Payment) Verify(gatewayState string, now time.Time) error {
	if p.status.IsTerminal() {
		return ErrAlreadySettled
	}
	p.status = StatusVerified
	p.gatewayState = gatewayState
	p.updatedAt = now
	return nil
}

// Reject settles the payment as failed. Used for digest mismatches and for
// gateway failure statuses alike.
func (p *Payment) Reject(gatewayState string, now time.Time) error {
	if p.status.IsTerminal() {
		return ErrAlreadySettled
	}
	p.status = StatusRejected
	p.gatewayState = gatewayState
	p.updatedAt = now
	return nil
}
