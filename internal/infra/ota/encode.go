package ota

import (
	"encoding/xml"

	"staybook/internal/domain/booking"
	"staybook/internal/pkg/clock"
	"staybook/internal/pkg/config"
	"staybook/internal/pkg/errs"
)

var ErrEncoding = errs.New("booking notification violates protocol invariants")

const requestorTypeHotel = "10"

// Codec renders outbound envelopes for one property. It is pure apart from
// reading the clock for envelope timestamps.
type Codec struct {
	hotelCode string
	username  string
	password  string
	clk       clock.Clock
}

func NewCodec(cfg config.ChannelConfig, clk clock.Clock) *Codec {
	return &Codec{
		hotelCode: cfg.HotelCode,
		username:  cfg.Username,
		password:  cfg.Password,
		clk:       clk,
	}
}

// EncodeBookingNotification renders the OTA_HotelResNotifRQ document for one
// send attempt. The correlation token is echoed in the EchoToken attribute
// and the amount is rendered with exactly two fractional digits.
func (c *Codec) EncodeBookingNotification(n *booking.Notification) ([]byte, error) {
	if err := validateNotification(n); err != nil {
		return nil, err
	}

	guest := n.Guest()
	customer := Customer{
		PersonName: PersonName{
			GivenName: guest.FirstName(),
			Surname:   guest.LastName(),
		},
		Email: guest.Email(),
	}
	if guest.Phone() != "" {
		customer.Telephone = &Telephone{PhoneNumber: guest.Phone()}
	}
	if guest.Country() != "" {
		customer.Address = &Address{CountryName: guest.Country()}
	}

	guestCounts := []GuestCount{
		{AgeQualifyingCode: AgeQualifyingAdult, Count: n.Occupancy().Adults()},
	}
	if n.Occupancy().Children() > 0 {
		guestCounts = append(guestCounts, GuestCount{
			AgeQualifyingCode: AgeQualifyingChild,
			Count:             n.Occupancy().Children(),
		})
	}

	globalInfo := &ResGlobalInfo{}
	if n.SpecialRequests() != "" {
		globalInfo.Comments = &Comments{Comment: []string{n.SpecialRequests()}}
	}

	now := c.clk.Now().UTC()
	rq := HotelResNotifRQ{
		Xmlns:     Namespace,
		TimeStamp: now.Format(TimestampLayout),
		Version:   Version,
		EchoToken: n.Token(),
		ResStatus: "Commit",
		POS:       c.pos(n.ChannelID()),
		HotelReservations: HotelReservations{
			HotelReservation: []HotelReservation{{
				CreateDateTime: now.Format(TimestampLayout),
				RoomStays: &RoomStays{
					RoomStay: []RoomStay{{
						RoomTypes: RoomTypes{RoomType: []RoomType{{RoomTypeCode: n.RoomTypeCode()}}},
						RatePlans: RatePlans{RatePlan: []RatePlan{{RatePlanCode: n.RatePlanCode()}}},
						GuestCounts: GuestCounts{GuestCount: guestCounts},
						TimeSpan: TimeSpan{
							Start: n.Stay().CheckIn().Format(DateLayout),
							End:   n.Stay().CheckOut().Format(DateLayout),
						},
						Total: Total{
							AmountAfterTax: n.Total().AmountString(),
							CurrencyCode:   n.Total().Currency(),
						},
						BasicPropertyInfo: &BasicPropertyInfo{HotelCode: c.hotelCode},
					}},
				},
				ResGuests: &ResGuests{
					ResGuest: []ResGuest{{
						Profiles: Profiles{
							ProfileInfo: []ProfileInfo{{Profile: Profile{Customer: customer}}},
						},
					}},
				},
				ResGlobalInfo: globalInfo,
			}},
		},
	}

	return marshal(rq)
}

// EncodeCancellation builds the cancellation-shaped request from the stored
// notification. The external id identifies the booking when known; the
// correlation token is used until confirmation delivered one.
func (c *Codec) EncodeCancellation(state *booking.State, reason string) ([]byte, error) {
	n := state.Notification()
	if n == nil {
		return nil, errs.Mark(errs.New("state carries no notification"), ErrEncoding)
	}

	unique := UniqueID{Type: ResIDTypePMS, ID: state.ExternalID()}
	if unique.ID == "" {
		unique = UniqueID{Type: requestorTypeHotel, ID: state.Token()}
	}

	rq := CancelRQ{
		Xmlns:      Namespace,
		TimeStamp:  c.clk.Now().UTC().Format(TimestampLayout),
		Version:    Version,
		EchoToken:  state.Token(),
		CancelType: "Cancel",
		POS:        c.pos(n.ChannelID()),
		UniqueID:   unique,
	}
	if reason != "" {
		rq.Reasons = &Reasons{Reason: []string{reason}}
	}

	return marshal(rq)
}

// EncodeStatusQuery builds the retrieve-by-token request used by status
// checks.
func (c *Codec) EncodeStatusQuery(token string) ([]byte, error) {
	if token == "" {
		return nil, errs.Mark(errs.New("correlation token is required"), ErrEncoding)
	}

	rq := ReadRQ{
		Xmlns:     Namespace,
		TimeStamp: c.clk.Now().UTC().Format(TimestampLayout),
		Version:   Version,
		EchoToken: token,
		POS:       c.pos(""),
		UniqueID:  UniqueID{Type: requestorTypeHotel, ID: token},
	}
	return marshal(rq)
}

func (c *Codec) pos(channelID string) POS {
	pos := POS{
		Source: Source{
			RequestorID: RequestorID{
				Type:            requestorTypeHotel,
				ID:              c.username,
				MessagePassword: c.password,
			},
		},
	}
	if channelID != "" {
		pos.Source.BookingChannel = &BookingChannel{Type: "7", CompanyName: channelID}
	}
	return pos
}

// validateNotification re-checks the wire invariants. States reconstructed
// from storage bypass the domain constructors, so the codec cannot assume
// them.
func validateNotification(n *booking.Notification) error {
	if !n.Stay().CheckOut().After(n.Stay().CheckIn()) {
		return errs.Mark(errs.New("check-out not after check-in"), ErrEncoding)
	}
	if n.Occupancy().Adults() < 1 || n.Occupancy().Children() < 0 {
		return errs.Mark(errs.New("invalid occupancy counts"), ErrEncoding)
	}
	if n.Total().MinorUnits() < 0 {
		return errs.Mark(errs.New("negative amount"), ErrEncoding)
	}
	return nil
}

func marshal(v any) ([]byte, error) {
	body, err := xml.Marshal(v)
	if err != nil {
		return nil, errs.Mark(err, ErrEncoding)
	}
	return append([]byte(xml.Header), body...), nil
}
