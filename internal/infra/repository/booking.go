package repository

import (
	"context"

	"staybook/internal/domain/booking"
	"staybook/internal/infra"
	"staybook/internal/infra/db"
	"staybook/internal/infra/repository/converter"
	"staybook/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type BookingRepository struct{}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{}
}

const createBookingSQL = `
INSERT INTO reservation_states (
    token, user_id, status, external_id, failure_reason,
    check_in, check_out, room_type_code, rate_plan_code,
    adults, children, amount_minor, currency,
    guest_first_name, guest_last_name, guest_email, guest_phone, guest_country,
    special_requests, channel_id
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`

func (r *BookingRepository) Create(ctx context.Context, tx db.DBTX, s *booking.State, userID uuid.UUID) error {
	n := s.Notification()
	_, err := tx.Exec(ctx, createBookingSQL,
		s.Token(),
		pgconv.UUIDToPgtype(userID),
		s.Status().String(),
		pgconv.NullableString(s.ExternalID()),
		pgconv.NullableString(s.FailureReason()),
		n.Stay().CheckIn(),
		n.Stay().CheckOut(),
		n.RoomTypeCode(),
		n.RatePlanCode(),
		int32(n.Occupancy().Adults()),
		int32(n.Occupancy().Children()),
		n.Total().MinorUnits(),
		n.Total().Currency(),
		n.Guest().FirstName(),
		n.Guest().LastName(),
		n.Guest().Email(),
		n.Guest().Phone(),
		n.Guest().Country(),
		n.SpecialRequests(),
		n.ChannelID(),
	)
	if err != nil {
		return wrapPgErr("failed to create reservation state", err)
	}
	return nil
}

const findBookingForUpdateSQL = `
SELECT token, status, external_id, failure_reason,
       check_in, check_out, room_type_code, rate_plan_code,
       adults, children, amount_minor, currency,
       guest_first_name, guest_last_name, guest_email, guest_phone, guest_country,
       special_requests, channel_id, created_at, updated_at
FROM reservation_states
WHERE token = $1
FOR UPDATE`

// FindByTokenForUpdate locks the row so concurrent confirmation deliveries
// for one token serialize.
func (r *BookingRepository) FindByTokenForUpdate(ctx context.Context, tx db.DBTX, token string) (*booking.State, error) {
	row := tx.QueryRow(ctx, findBookingForUpdateSQL, token)

	var raw converter.BookingRow
	err := row.Scan(
		&raw.Token, &raw.Status, &raw.ExternalID, &raw.FailureReason,
		&raw.CheckIn, &raw.CheckOut, &raw.RoomTypeCode, &raw.RatePlanCode,
		&raw.Adults, &raw.Children, &raw.AmountMinor, &raw.Currency,
		&raw.GuestFirstName, &raw.GuestLastName, &raw.GuestEmail, &raw.GuestPhone, &raw.GuestCountry,
		&raw.SpecialRequests, &raw.ChannelID, &raw.CreatedAt, &raw.UpdatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation state not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation state", err)
	}

	state, err := converter.BookingStateFromRow(raw)
	if err != nil {
		return nil, infra.WrapRepoErr("stored reservation state is invalid", err)
	}
	return state, nil
}

const updateBookingStateSQL = `
UPDATE reservation_states
SET status = $2,
    external_id = $3,
    failure_reason = $4,
    confirmed_at = CASE WHEN $2 = 'confirmed' AND confirmed_at IS NULL THEN now() ELSE confirmed_at END,
    updated_at = now()
WHERE token = $1`

func (r *BookingRepository) UpdateState(ctx context.Context, tx db.DBTX, s *booking.State) error {
	tag, err := tx.Exec(ctx, updateBookingStateSQL,
		s.Token(),
		s.Status().String(),
		pgconv.NullableString(s.ExternalID()),
		pgconv.NullableString(s.FailureReason()),
	)
	if err != nil {
		return wrapPgErr("failed to update reservation state", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("reservation state vanished during update", nil, infra.KindStaleState)
	}
	return nil
}
