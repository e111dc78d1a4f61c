//go:build unit

package booking_test

import (
	"testing"
	"time"

	"staybook/internal/domain/booking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validNotification(t *testing.T) *booking.Notification {
	t.Helper()

	stay, err := booking.NewStayWindow(
		time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 16, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)

	occ, err := booking.NewOccupancy(2, 1)
	require.NoError(t, err)

	total, err := booking.NewMoney(50000, "INR")
	require.NoError(t, err)

	guest, err := booking.NewGuest("Zuber", "Shaikh", "zuber@tdd.com", "+91-9800000000", "IN")
	require.NoError(t, err)

	n, err := booking.NewNotification("PW2509140030", stay, "DLX", "BAR", occ, total, guest, "late check-in", "web")
	require.NoError(t, err)
	return n
}

func TestStateTransitions(t *testing.T) {
	t.Run("submitted to acknowledged to confirmed", func(t *testing.T) {
		s := booking.NewSubmittedState(validNotification(t))
		require.Equal(t, booking.StatusSubmitted, s.Status())

		require.NoError(t, s.Acknowledge())
		assert.Equal(t, booking.StatusAcknowledged, s.Status())

		require.NoError(t, s.Confirm("PMS123456"))
		assert.Equal(t, booking.StatusConfirmed, s.Status())
		assert.Equal(t, "PMS123456", s.ExternalID())
	})

	t.Run("confirmation may arrive before the acknowledgment", func(t *testing.T) {
		s := booking.NewSubmittedState(validNotification(t))

		require.NoError(t, s.Confirm("PMS123456"))
		assert.Equal(t, booking.StatusConfirmed, s.Status())
	})

	t.Run("duplicate acknowledgment is a no-op", func(t *testing.T) {
		s := booking.NewSubmittedState(validNotification(t))
		require.NoError(t, s.Acknowledge())
		require.NoError(t, s.Acknowledge())
		assert.Equal(t, booking.StatusAcknowledged, s.Status())
	})

	t.Run("repeat confirmation with same id reports already confirmed", func(t *testing.T) {
		s := booking.NewSubmittedState(validNotification(t))
		require.NoError(t, s.Confirm("PMS123456"))

		err := s.Confirm("PMS123456")
		assert.ErrorIs(t, err, booking.ErrAlreadyConfirmed)
		assert.Equal(t, "PMS123456", s.ExternalID())
	})

	t.Run("conflicting confirmation never overwrites the external id", func(t *testing.T) {
		s := booking.NewSubmittedState(validNotification(t))
		require.NoError(t, s.Confirm("PMS123456"))

		err := s.Confirm("PMS999999")
		assert.ErrorIs(t, err, booking.ErrConfirmationConflict)
		assert.Equal(t, "PMS123456", s.ExternalID())
	})

	t.Run("confirmed reservations cannot fail", func(t *testing.T) {
		s := booking.NewSubmittedState(validNotification(t))
		require.NoError(t, s.Confirm("PMS123456"))

		assert.ErrorIs(t, s.Fail("late rejection"), booking.ErrInvalidTransition)
		assert.Equal(t, booking.StatusConfirmed, s.Status())
	})

	t.Run("failed reservations are terminal", func(t *testing.T) {
		s := booking.NewSubmittedState(validNotification(t))
		require.NoError(t, s.Fail("connection refused"))
		assert.Equal(t, booking.StatusFailed, s.Status())
		assert.Equal(t, "connection refused", s.FailureReason())

		assert.ErrorIs(t, s.Acknowledge(), booking.ErrInvalidTransition)
		assert.ErrorIs(t, s.Confirm("PMS123456"), booking.ErrConfirmationConflict)
	})

	t.Run("confirmation requires an external id", func(t *testing.T) {
		s := booking.NewSubmittedState(validNotification(t))
		assert.ErrorIs(t, s.Confirm(""), booking.ErrEmptyExternalID)
	})
}

func TestValueObjects(t *testing.T) {
	t.Run("stay window rejects non-positive length", func(t *testing.T) {
		day := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)

		_, err := booking.NewStayWindow(day, day)
		assert.ErrorIs(t, err, booking.ErrInvalidStayWindow)

		_, err = booking.NewStayWindow(day, day.AddDate(0, 0, -1))
		assert.ErrorIs(t, err, booking.ErrInvalidStayWindow)
	})

	t.Run("stay window counts nights", func(t *testing.T) {
		day := time.Date(2026, 9, 14, 23, 30, 0, 0, time.UTC)
		w, err := booking.NewStayWindow(day, day.AddDate(0, 0, 3))
		require.NoError(t, err)
		assert.Equal(t, 3, w.Nights())
	})

	t.Run("occupancy requires an adult", func(t *testing.T) {
		_, err := booking.NewOccupancy(0, 2)
		assert.ErrorIs(t, err, booking.ErrInvalidOccupancy)

		_, err = booking.NewOccupancy(1, -1)
		assert.ErrorIs(t, err, booking.ErrInvalidOccupancy)
	})

	t.Run("money renders two fractional digits", func(t *testing.T) {
		tests := []struct {
			minor int64
			want  string
		}{
			{50000, "500.00"},
			{50005, "500.05"},
			{99, "0.99"},
			{0, "0.00"},
		}
		for _, tt := range tests {
			m, err := booking.NewMoney(tt.minor, "INR")
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.AmountString())
		}
	})

	t.Run("money rejects negative amounts", func(t *testing.T) {
		_, err := booking.NewMoney(-1, "INR")
		assert.ErrorIs(t, err, booking.ErrNegativeAmount)
	})

	t.Run("notification requires token and codes", func(t *testing.T) {
		n := validNotification(t)

		_, err := booking.NewNotification("", n.Stay(), "DLX", "BAR", n.Occupancy(), n.Total(), n.Guest(), "", "web")
		assert.ErrorIs(t, err, booking.ErrEmptyToken)

		_, err = booking.NewNotification("T1", n.Stay(), "", "BAR", n.Occupancy(), n.Total(), n.Guest(), "", "web")
		assert.ErrorIs(t, err, booking.ErrMissingRoomType)

		_, err = booking.NewNotification("T1", n.Stay(), "DLX", "", n.Occupancy(), n.Total(), n.Guest(), "", "web")
		assert.ErrorIs(t, err, booking.ErrMissingRatePlan)
	})
}
