package readmodel

import (
	"time"

	"github.com/google/uuid"
)

// BookingView is the query-side projection of one reservation, denormalized
// for API responses.
type BookingView struct {
	Token           string     `json:"token"`
	Status          string     `json:"status"`
	ExternalID      *string    `json:"external_id"`
	FailureReason   *string    `json:"failure_reason"`
	CheckIn         time.Time  `json:"check_in"`
	CheckOut        time.Time  `json:"check_out"`
	RoomTypeCode    string     `json:"room_type_code"`
	RatePlanCode    string     `json:"rate_plan_code"`
	Adults          int32      `json:"adults"`
	Children        int32      `json:"children"`
	AmountMinor     int64      `json:"amount_minor"`
	Currency        string     `json:"currency"`
	GuestFirstName  string     `json:"guest_first_name"`
	GuestLastName   string     `json:"guest_last_name"`
	GuestEmail      string     `json:"guest_email"`
	GuestPhone      string     `json:"guest_phone"`
	GuestCountry    string     `json:"guest_country"`
	SpecialRequests string     `json:"special_requests"`
	ChannelID       string     `json:"channel_id"`
	UserID          uuid.UUID  `json:"user_id"`
	ConfirmedAt     *time.Time `json:"confirmed_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
