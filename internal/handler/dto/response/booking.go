package response

import (
	"time"

	"staybook/internal/usecase/commands"
	"staybook/internal/usecase/readmodel"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type BookingResponse struct {
	Token           string     `json:"token"`
	Status          string     `json:"status"`
	ExternalID      *string    `json:"external_id,omitempty"`
	FailureReason   *string    `json:"failure_reason,omitempty"`
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
	SpecialRequests string     `json:"special_requests,omitempty"`
	ChannelID       string     `json:"channel_id,omitempty"`
	UserID          uuid.UUID  `json:"user_id"`
	ConfirmedAt     *time.Time `json:"confirmed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func FromBookingView(v *readmodel.BookingView) *BookingResponse {
	var resp BookingResponse
	_ = copier.Copy(&resp, v)
	return &resp
}

func FromBookingViews(views []readmodel.BookingView) []*BookingResponse {
	res := make([]*BookingResponse, len(views))
	for i := range views {
		res[i] = FromBookingView(&views[i])
	}
	return res
}

type SubmitBookingResponse struct {
	Token         string  `json:"token"`
	Status        string  `json:"status"`
	ExternalID    *string `json:"external_id,omitempty"`
	FailureReason *string `json:"failure_reason,omitempty"`
	Attempts      int     `json:"attempts"`
}

func FromSubmitResult(r *commands.SubmitBookingResult) *SubmitBookingResponse {
	return &SubmitBookingResponse{
		Token:         r.Token,
		Status:        r.Status.String(),
		ExternalID:    optional(r.ExternalID),
		FailureReason: optional(r.Reason),
		Attempts:      r.Attempts,
	}
}

type CancelBookingResponse struct {
	Token   string `json:"token"`
	Outcome string `json:"outcome"`
	Reason  string `json:"reason,omitempty"`
}

func FromCancelResult(r *commands.CancelBookingResult) *CancelBookingResponse {
	return &CancelBookingResponse{
		Token:   r.Token,
		Outcome: r.Outcome.String(),
		Reason:  r.Reason,
	}
}

type StatusCheckResponse struct {
	Token      string  `json:"token"`
	Status     string  `json:"status"`
	ExternalID *string `json:"external_id,omitempty"`
	Reason     string  `json:"reason,omitempty"`
}

func FromStatusCheckResult(r *commands.StatusCheckResult) *StatusCheckResponse {
	return &StatusCheckResponse{
		Token:      r.Token,
		Status:     r.Status.String(),
		ExternalID: optional(r.ExternalID),
		Reason:     r.Reason,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
