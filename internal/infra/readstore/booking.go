package readstore

import (
	"context"

	"staybook/internal/infra"
	"staybook/internal/infra/db"
	"staybook/internal/pkg/pgconv"
	"staybook/internal/usecase/readmodel"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type BookingReadStore struct{}

func NewBookingReadStore() *BookingReadStore {
	return &BookingReadStore{}
}

const bookingViewColumns = `
       token, status, external_id, failure_reason,
       check_in, check_out, room_type_code, rate_plan_code,
       adults, children, amount_minor, currency,
       guest_first_name, guest_last_name, guest_email, guest_phone, guest_country,
       special_requests, channel_id, user_id, confirmed_at, created_at, updated_at`

const findBookingViewSQL = `
SELECT` + bookingViewColumns + `
FROM reservation_states
WHERE token = $1`

func (r *BookingReadStore) FindByToken(ctx context.Context, dbtx db.DBTX, token string) (*readmodel.BookingView, error) {
	row := dbtx.QueryRow(ctx, findBookingViewSQL, token)
	view, err := scanBookingView(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation", err)
	}
	return view, nil
}

const listBookingsByUserSQL = `
SELECT` + bookingViewColumns + `
FROM reservation_states
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

func (r *BookingReadStore) ListByUser(ctx context.Context, dbtx db.DBTX, userID uuid.UUID, limit, offset int32) ([]readmodel.BookingView, error) {
	rows, err := dbtx.Query(ctx, listBookingsByUserSQL, pgconv.UUIDToPgtype(userID), limit, offset)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reservations", err)
	}
	defer rows.Close()

	views := make([]readmodel.BookingView, 0)
	for rows.Next() {
		view, err := scanBookingView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan reservation", err)
		}
		views = append(views, *view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to list reservations", err)
	}
	return views, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBookingView(row rowScanner) (*readmodel.BookingView, error) {
	var (
		v                         readmodel.BookingView
		externalID, failureReason pgtype.Text
		confirmedAt               pgtype.Timestamptz
	)
	err := row.Scan(
		&v.Token, &v.Status, &externalID, &failureReason,
		&v.CheckIn, &v.CheckOut, &v.RoomTypeCode, &v.RatePlanCode,
		&v.Adults, &v.Children, &v.AmountMinor, &v.Currency,
		&v.GuestFirstName, &v.GuestLastName, &v.GuestEmail, &v.GuestPhone, &v.GuestCountry,
		&v.SpecialRequests, &v.ChannelID, &v.UserID, &confirmedAt, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	v.ExternalID = pgconv.StringPtrFromPgtype(externalID)
	v.FailureReason = pgconv.StringPtrFromPgtype(failureReason)
	v.ConfirmedAt = pgconv.TimePtrFromPgtype(confirmedAt)
	return &v, nil
}
