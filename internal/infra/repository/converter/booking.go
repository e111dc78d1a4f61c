package converter

import (
	"time"

	"staybook/internal/domain/booking"
	"staybook/internal/pkg/pgconv"

	"github.com/jackc/pgx/v5/pgtype"
)

// BookingRow mirrors the reservation_states columns a state reconstruction
// needs.
type BookingRow struct {
	Token           string
	Status          string
	ExternalID      pgtype.Text
	FailureReason   pgtype.Text
	CheckIn         time.Time
	CheckOut        time.Time
	RoomTypeCode    string
	RatePlanCode    string
	Adults          int32
	Children        int32
	AmountMinor     int64
	Currency        string
	GuestFirstName  string
	GuestLastName   string
	GuestEmail      string
	GuestPhone      string
	GuestCountry    string
	SpecialRequests string
	ChannelID       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// BookingStateFromRow rebuilds the domain state through the value-object
// constructors, so a row that no longer satisfies the domain invariants is
// reported instead of silently accepted.
func BookingStateFromRow(row BookingRow) (*booking.State, error) {
	stay, err := booking.NewStayWindow(row.CheckIn, row.CheckOut)
	if err != nil {
		return nil, err
	}
	occ, err := booking.NewOccupancy(int(row.Adults), int(row.Children))
	if err != nil {
		return nil, err
	}
	total, err := booking.NewMoney(row.AmountMinor, row.Currency)
	if err != nil {
		return nil, err
	}
	guest, err := booking.NewGuest(row.GuestFirstName, row.GuestLastName, row.GuestEmail, row.GuestPhone, row.GuestCountry)
	if err != nil {
		return nil, err
	}
	n, err := booking.NewNotification(
		row.Token, stay, row.RoomTypeCode, row.RatePlanCode,
		occ, total, guest, row.SpecialRequests, row.ChannelID,
	)
	if err != nil {
		return nil, err
	}

	return booking.ReconstructState(
		row.Token,
		booking.Status(row.Status),
		pgconv.StringFromPgtype(row.ExternalID),
		pgconv.StringFromPgtype(row.FailureReason),
		n,
		row.CreatedAt,
		row.UpdatedAt,
	), nil
}
