package readstore

import (
	"context"

	"staybook/internal/infra"
	"staybook/internal/infra/db"
	"staybook/internal/pkg/pgconv"
	"staybook/internal/usecase/readmodel"

	"github.com/jackc/pgx/v5/pgtype"
)

type PaymentReadStore struct{}

func NewPaymentReadStore() *PaymentReadStore {
	return &PaymentReadStore{}
}

const findPaymentViewSQL = `
SELECT txn_id, booking_token, status, gateway_state,
       amount_minor, currency, product_info, first_name, email,
       created_at, updated_at
FROM payments
WHERE txn_id = $1`

func (r *PaymentReadStore) FindByTxnID(ctx context.Context, dbtx db.DBTX, txnID string) (*readmodel.PaymentView, error) {
	var (
		v            readmodel.PaymentView
		gatewayState pgtype.Text
	)
	err := dbtx.QueryRow(ctx, findPaymentViewSQL, txnID).Scan(
		&v.TxnID, &v.BookingToken, &v.Status, &gatewayState,
		&v.AmountMinor, &v.Currency, &v.ProductInfo, &v.FirstName, &v.Email,
		&v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("payment not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find payment", err)
	}
	v.GatewayState = pgconv.StringFromPgtype(gatewayState)
	return &v, nil
}

const listPaymentsByBookingSQL = `
SELECT txn_id, booking_token, status, gateway_state,
       amount_minor, currency, product_info, first_name, email,
       created_at, updated_at
FROM payments
WHERE booking_token = $1
ORDER BY created_at DESC`

func (r *PaymentReadStore) ListByBookingToken(ctx context.Context, dbtx db.DBTX, token string) ([]readmodel.PaymentView, error) {
	rows, err := dbtx.Query(ctx, listPaymentsByBookingSQL, token)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list payments", err)
	}
	defer rows.Close()

	views := make([]readmodel.PaymentView, 0)
	for rows.Next() {
		var (
			v            readmodel.PaymentView
			gatewayState pgtype.Text
		)
		if err := rows.Scan(
			&v.TxnID, &v.BookingToken, &v.Status, &gatewayState,
			&v.AmountMinor, &v.Currency, &v.ProductInfo, &v.FirstName, &v.Email,
			&v.CreatedAt, &v.UpdatedAt,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan payment", err)
		}
		v.GatewayState = pgconv.StringFromPgtype(gatewayState)
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to list payments", err)
	}
	return views, nil
}
