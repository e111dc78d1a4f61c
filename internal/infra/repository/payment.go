package repository

import (
	"context"
	"time"

	"staybook/internal/domain/booking"
	"staybook/internal/domain/payment"
	"staybook/internal/infra"
	"staybook/internal/infra/db"
	"staybook/internal/pkg/pgconv"

	"github.com/jackc/pgx/v5/pgtype"
)

type PaymentRepository struct{}

func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{}
}

const createPaymentSQL = `
INSERT INTO payments (
    txn_id, booking_token, amount_minor, currency,
    product_info, first_name, email, status, gateway_state
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

func (r *PaymentRepository) Create(ctx context.Context, tx db.DBTX, p *payment.Payment) error {
	_, err := tx.Exec(ctx, createPaymentSQL,
		p.TxnID(),
		p.BookingToken(),
		p.Amount().MinorUnits(),
		p.Amount().Currency(),
		p.ProductInfo(),
		p.FirstName(),
		p.Email(),
		string(p.Status()),
		pgconv.NullableString(p.GatewayState()),
	)
	if err != nil {
		return wrapPgErr("failed to create payment", err)
	}
	return nil
}

const findPaymentForUpdateSQL = `
SELECT txn_id, booking_token, amount_minor, currency,
       product_info, first_name, email, status, gateway_state,
       created_at, updated_at
FROM payments
WHERE txn_id = $1
FOR UPDATE`

// FindByTxnIDForUpdate locks the row; gateway callbacks may be delivered
// more than once concurrently.
func (r *PaymentRepository) FindByTxnIDForUpdate(ctx context.Context, tx db.DBTX, txnID string) (*payment.Payment, error) {
	var (
		token, bookingToken, currency         string
		productInfo, firstName, email, status string
		gatewayState                          pgtype.Text
		amountMinor                           int64
		createdAt, updatedAt                  time.Time
	)

	err := tx.QueryRow(ctx, findPaymentForUpdateSQL, txnID).Scan(
		&token, &bookingToken, &amountMinor, &currency,
		&productInfo, &firstName, &email, &status, &gatewayState,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("payment not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find payment", err)
	}

	amount, err := booking.NewMoney(amountMinor, currency)
	if err != nil {
		return nil, infra.WrapRepoErr("stored payment amount is invalid", err)
	}

	return payment.Reconstruct(
		token, bookingToken, amount, productInfo, firstName, email,
		payment.Status(status), pgconv.StringFromPgtype(gatewayState),
		createdAt, updatedAt,
	), nil
}

const updatePaymentStateSQL = `
UPDATE payments
SET status = $2,
    gateway_state = $3,
    updated_at = now()
WHERE txn_id = $1`

func (r *PaymentRepository) UpdateState(ctx context.Context, tx db.DBTX, p *payment.Payment) error {
	tag, err := tx.Exec(ctx, updatePaymentStateSQL,
		p.TxnID(),
		string(p.Status()),
		pgconv.NullableString(p.GatewayState()),
	)
	if err != nil {
		return wrapPgErr("failed to update payment", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("payment vanished during update", nil, infra.KindStaleState)
	}
	return nil
}
