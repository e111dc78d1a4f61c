//go:build unit || e2e

package builder

import (
	"time"

	"staybook/internal/domain/booking"
	reqdto "staybook/internal/handler/dto/request"
)

type BookingBuilder struct {
	Token           string
	CheckIn         time.Time
	CheckOut        time.Time
	RoomTypeCode    string
	RatePlanCode    string
	Adults          int
	Children        int
	AmountMinor     int64
	Currency        string
	GuestFirstName  string
	GuestLastName   string
	GuestEmail      string
	GuestPhone      string
	GuestCountry    string
	SpecialRequests string
	ChannelID       string
}

func NewBookingBuilder() *BookingBuilder {
	checkIn := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	return &BookingBuilder{
		Token:          "PW2609140030",
		CheckIn:        checkIn,
		CheckOut:       checkIn.AddDate(0, 0, 2),
		RoomTypeCode:   "DLX",
		RatePlanCode:   "BAR",
		Adults:         2,
		Children:       0,
		AmountMinor:    50005,
		Currency:       "INR",
		GuestFirstName: "Asha",
		GuestLastName:  "Nair",
		GuestEmail:     "asha@example.com",
		GuestPhone:     "+911234567890",
		GuestCountry:   "IN",
		ChannelID:      "WEB",
	}
}

func (b *BookingBuilder) BuildDTO() reqdto.CreateBookingRequest {
	return reqdto.CreateBookingRequest{
		CheckIn:         b.CheckIn,
		CheckOut:        b.CheckOut,
		RoomTypeCode:    b.RoomTypeCode,
		RatePlanCode:    b.RatePlanCode,
		Adults:          b.Adults,
		Children:        b.Children,
		AmountMinor:     b.AmountMinor,
		Currency:        b.Currency,
		GuestFirstName:  b.GuestFirstName,
		GuestLastName:   b.GuestLastName,
		GuestEmail:      b.GuestEmail,
		GuestPhone:      b.GuestPhone,
		GuestCountry:    b.GuestCountry,
		SpecialRequests: b.SpecialRequests,
		ChannelID:       b.ChannelID,
	}
}

func (b *BookingBuilder) BuildNotification() (*booking.Notification, error) {
	return b.BuildDTO().ToNotification(b.Token)
}

func (b *BookingBuilder) BuildState() (*booking.State, error) {
	n, err := b.BuildNotification()
	if err != nil {
		return nil, err
	}
	return booking.NewSubmittedState(n), nil
}

// Fluent builder methods
func (b *BookingBuilder) WithToken(token string) *BookingBuilder {
	b.Token = token
	return b
}

func (b *BookingBuilder) WithStay(checkIn, checkOut time.Time) *BookingBuilder {
	b.CheckIn = checkIn
	b.CheckOut = checkOut
	return b
}

func (b *BookingBuilder) WithAmount(minorUnits int64, currency string) *BookingBuilder {
	b.AmountMinor = minorUnits
	b.Currency = currency
	return b
}

func (b *BookingBuilder) WithOccupancy(adults, children int) *BookingBuilder {
	b.Adults = adults
	b.Children = children
	return b
}

func (b *BookingBuilder) WithSpecialRequests(requests string) *BookingBuilder {
	b.SpecialRequests = requests
	return b
}
