package request

import (
	"strings"
	"time"

	"staybook/internal/domain/booking"
)

type CreateBookingRequest struct {
	CheckIn         time.Time `json:"check_in" binding:"required"`
	CheckOut        time.Time `json:"check_out" binding:"required"`
	RoomTypeCode    string    `json:"room_type_code" binding:"required"`
	RatePlanCode    string    `json:"rate_plan_code" binding:"required"`
	Adults          int       `json:"adults" binding:"required,min=1"`
	Children        int       `json:"children" binding:"min=0"`
	AmountMinor     int64     `json:"amount_minor" binding:"required,min=0"`
	Currency        string    `json:"currency" binding:"required,len=3"`
	GuestFirstName  string    `json:"guest_first_name" binding:"required"`
	GuestLastName   string    `json:"guest_last_name" binding:"required"`
	GuestEmail      string    `json:"guest_email" binding:"required,email"`
	GuestPhone      string    `json:"guest_phone"`
	GuestCountry    string    `json:"guest_country"`
	SpecialRequests string    `json:"special_requests"`
	ChannelID       string    `json:"channel_id" binding:"required"`
}

// ToNotification builds the immutable notification for one send attempt
// under the given correlation token.
func (r CreateBookingRequest) ToNotification(token string) (*booking.Notification, error) {
	stay, err := booking.NewStayWindow(r.CheckIn, r.CheckOut)
	if err != nil {
		return nil, err
	}
	occ, err := booking.NewOccupancy(r.Adults, r.Children)
	if err != nil {
		return nil, err
	}
	total, err := booking.NewMoney(r.AmountMinor, strings.ToUpper(r.Currency))
	if err != nil {
		return nil, err
	}
	guest, err := booking.NewGuest(r.GuestFirstName, r.GuestLastName, r.GuestEmail, r.GuestPhone, r.GuestCountry)
	if err != nil {
		return nil, err
	}

	return booking.NewNotification(
		token, stay, r.RoomTypeCode, r.RatePlanCode,
		occ, total, guest, r.SpecialRequests, r.ChannelID,
	)
}

type CancelBookingRequest struct {
	Reason string `json:"reason"`
}
