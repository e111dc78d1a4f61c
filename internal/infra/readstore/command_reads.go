package readstore

import (
	"context"

	"staybook/internal/infra"
	"staybook/internal/infra/db"
	"staybook/internal/pkg/pgconv"
	"staybook/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgtype"
)

// CommandReads serves the minimal lookups command handlers need for
// validation. Bound to one DBTX, which is the pool outside transactions and
// the transaction inside one.
type CommandReads struct {
	dbtx db.DBTX
}

func NewCommandReads(dbtx db.DBTX) *CommandReads {
	return &CommandReads{dbtx: dbtx}
}

const bookingSnapshotSQL = `
SELECT token, status, external_id, failure_reason, amount_minor, currency, guest_first_name, guest_email, user_id
FROM reservation_states
WHERE token = $1`

func (c *CommandReads) BookingByToken(ctx context.Context, token string) (*shared.BookingSnapshot, error) {
	var (
		s                         shared.BookingSnapshot
		externalID, failureReason pgtype.Text
	)
	err := c.dbtx.QueryRow(ctx, bookingSnapshotSQL, token).Scan(
		&s.Token, &s.Status, &externalID, &failureReason,
		&s.AmountMinor, &s.Currency, &s.GuestFirstName, &s.GuestEmail, &s.UserID,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation state not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to read reservation state", err)
	}
	s.ExternalID = pgconv.StringPtrFromPgtype(externalID)
	s.FailureReason = pgconv.StringPtrFromPgtype(failureReason)
	return &s, nil
}

const paymentSnapshotSQL = `
SELECT txn_id, booking_token, status, amount_minor, currency
FROM payments
WHERE txn_id = $1`

func (c *CommandReads) PaymentByTxnID(ctx context.Context, txnID string) (*shared.PaymentSnapshot, error) {
	var s shared.PaymentSnapshot
	err := c.dbtx.QueryRow(ctx, paymentSnapshotSQL, txnID).Scan(
		&s.TxnID, &s.BookingToken, &s.Status, &s.AmountMinor, &s.Currency,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("payment not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to read payment", err)
	}
	return &s, nil
}

const userSnapshotSQL = `
SELECT id, email, password_hash, role, is_active, last_login
FROM users
WHERE email = $1`

func (c *CommandReads) UserByEmail(ctx context.Context, email string) (*shared.UserSnapshot, error) {
	var (
		s         shared.UserSnapshot
		lastLogin pgtype.Timestamptz
	)
	err := c.dbtx.QueryRow(ctx, userSnapshotSQL, email).Scan(
		&s.ID, &s.Email, &s.PasswordHash, &s.Role, &s.IsActive, &lastLogin,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to read user", err)
	}
	s.LastLogin = pgconv.TimePtrFromPgtype(lastLogin)
	return &s, nil
}
