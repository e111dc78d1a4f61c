//go:build unit

package ota_test

import (
	"encoding/xml"
	"testing"
	"time"

	"staybook/internal/domain/booking"
	"staybook/internal/infra/ota"
	"staybook/internal/pkg/clock"
	"staybook/internal/pkg/config"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCodec(t *testing.T) *ota.Codec {
	t.Helper()
	clk := clock.NewMockClock(time.Date(2026, 9, 14, 10, 30, 0, 0, time.UTC))
	return ota.NewCodec(config.NewTestConfig().Channel, clk)
}

func sampleNotification(t *testing.T) *booking.Notification {
	t.Helper()

	stay, err := booking.NewStayWindow(
		time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 16, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)

	occ, err := booking.NewOccupancy(2, 1)
	require.NoError(t, err)

	total, err := booking.NewMoney(50005, "INR")
	require.NoError(t, err)

	guest, err := booking.NewGuest("Zuber", "Shaikh", "zuber@tdd.com", "+91-9800000000", "IN")
	require.NoError(t, err)

	n, err := booking.NewNotification("PW2509140030", stay, "DLX", "BAR", occ, total, guest, "late check-in", "web")
	require.NoError(t, err)
	return n
}

func TestEncodeBookingNotification(t *testing.T) {
	t.Run("round trip preserves token, stay and amount", func(t *testing.T) {
		raw, err := testCodec(t).EncodeBookingNotification(sampleNotification(t))
		require.NoError(t, err)

		var rq ota.HotelResNotifRQ
		require.NoError(t, xml.Unmarshal(raw, &rq))

		assert.Equal(t, "PW2509140030", rq.EchoToken)
		assert.Equal(t, "Commit", rq.ResStatus)
		assert.Equal(t, ota.Namespace, rq.Xmlns)
		assert.Equal(t, "2026-09-14T10:30:00", rq.TimeStamp)

		require.Len(t, rq.HotelReservations.HotelReservation, 1)
		res := rq.HotelReservations.HotelReservation[0]
		require.NotNil(t, res.RoomStays)
		require.Len(t, res.RoomStays.RoomStay, 1)
		stay := res.RoomStays.RoomStay[0]

		assert.Equal(t, "2026-09-14", stay.TimeSpan.Start)
		assert.Equal(t, "2026-09-16", stay.TimeSpan.End)
		assert.Equal(t, "500.05", stay.Total.AmountAfterTax)
		assert.Equal(t, "INR", stay.Total.CurrencyCode)
		assert.Equal(t, "DLX", stay.RoomTypes.RoomType[0].RoomTypeCode)
		assert.Equal(t, "BAR", stay.RatePlans.RatePlan[0].RatePlanCode)
		require.NotNil(t, stay.BasicPropertyInfo)
		assert.Equal(t, "STAY001", stay.BasicPropertyInfo.HotelCode)
	})

	t.Run("guest profile round trips intact", func(t *testing.T) {
		raw, err := testCodec(t).EncodeBookingNotification(sampleNotification(t))
		require.NoError(t, err)

		var rq ota.HotelResNotifRQ
		require.NoError(t, xml.Unmarshal(raw, &rq))

		want := &ota.ResGuests{
			ResGuest: []ota.ResGuest{{
				Profiles: ota.Profiles{
					ProfileInfo: []ota.ProfileInfo{{
						Profile: ota.Profile{
							Customer: ota.Customer{
								PersonName: ota.PersonName{GivenName: "Zuber", Surname: "Shaikh"},
								Telephone:  &ota.Telephone{PhoneNumber: "+91-9800000000"},
								Email:      "zuber@tdd.com",
								Address:    &ota.Address{CountryName: "IN"},
							},
						},
					}},
				},
			}},
		}
		got := rq.HotelReservations.HotelReservation[0].ResGuests
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("guest block mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("guest counts split adults and children by age code", func(t *testing.T) {
		raw, err := testCodec(t).EncodeBookingNotification(sampleNotification(t))
		require.NoError(t, err)

		var rq ota.HotelResNotifRQ
		require.NoError(t, xml.Unmarshal(raw, &rq))

		counts := rq.HotelReservations.HotelReservation[0].RoomStays.RoomStay[0].GuestCounts.GuestCount
		require.Len(t, counts, 2)
		assert.Equal(t, ota.AgeQualifyingAdult, counts[0].AgeQualifyingCode)
		assert.Equal(t, 2, counts[0].Count)
		assert.Equal(t, ota.AgeQualifyingChild, counts[1].AgeQualifyingCode)
		assert.Equal(t, 1, counts[1].Count)
	})

	t.Run("credentials ride in the POS block", func(t *testing.T) {
		raw, err := testCodec(t).EncodeBookingNotification(sampleNotification(t))
		require.NoError(t, err)

		var rq ota.HotelResNotifRQ
		require.NoError(t, xml.Unmarshal(raw, &rq))

		assert.Equal(t, "test", rq.POS.Source.RequestorID.ID)
		assert.Equal(t, "test", rq.POS.Source.RequestorID.MessagePassword)
		require.NotNil(t, rq.POS.Source.BookingChannel)
		assert.Equal(t, "web", rq.POS.Source.BookingChannel.CompanyName)
	})

	t.Run("special request surfaces as a comment", func(t *testing.T) {
		raw, err := testCodec(t).EncodeBookingNotification(sampleNotification(t))
		require.NoError(t, err)

		var rq ota.HotelResNotifRQ
		require.NoError(t, xml.Unmarshal(raw, &rq))

		info := rq.HotelReservations.HotelReservation[0].ResGlobalInfo
		require.NotNil(t, info)
		require.NotNil(t, info.Comments)
		assert.Equal(t, []string{"late check-in"}, info.Comments.Comment)
	})

	t.Run("zero valued notification fails encoding", func(t *testing.T) {
		// Reconstruction from storage bypasses the domain constructors, so
		// the codec re-checks the wire invariants itself.
		var zero booking.Notification
		_, err := testCodec(t).EncodeBookingNotification(&zero)
		assert.ErrorIs(t, err, ota.ErrEncoding)
	})
}

func TestEncodeCancellation(t *testing.T) {
	t.Run("uses external id once confirmed", func(t *testing.T) {
		n := sampleNotification(t)
		s := booking.NewSubmittedState(n)
		require.NoError(t, s.Acknowledge())
		require.NoError(t, s.Confirm("PMS123456"))

		raw, err := testCodec(t).EncodeCancellation(s, "guest request")
		require.NoError(t, err)

		var rq ota.CancelRQ
		require.NoError(t, xml.Unmarshal(raw, &rq))
		assert.Equal(t, ota.ResIDTypePMS, rq.UniqueID.Type)
		assert.Equal(t, "PMS123456", rq.UniqueID.ID)
		assert.Equal(t, "Cancel", rq.CancelType)
		require.NotNil(t, rq.Reasons)
		assert.Equal(t, []string{"guest request"}, rq.Reasons.Reason)
	})

	t.Run("falls back to correlation token before confirmation", func(t *testing.T) {
		s := booking.NewSubmittedState(sampleNotification(t))

		raw, err := testCodec(t).EncodeCancellation(s, "")
		require.NoError(t, err)

		var rq ota.CancelRQ
		require.NoError(t, xml.Unmarshal(raw, &rq))
		assert.Equal(t, "PW2509140030", rq.UniqueID.ID)
		assert.NotEqual(t, ota.ResIDTypePMS, rq.UniqueID.Type)
		assert.Nil(t, rq.Reasons)
	})
}
