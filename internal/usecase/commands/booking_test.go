//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"staybook/internal/domain/booking"
	"staybook/internal/domain/user"
	"staybook/internal/infra"
	"staybook/internal/infra/channel"
	"staybook/internal/infra/db"
	"staybook/internal/pkg/clock"
	"staybook/internal/pkg/errs"
	"staybook/internal/usecase/commands"
	"staybook/internal/usecase/shared"
	"staybook/tests/common/builder"
	commandsmock "staybook/tests/mock/commands"
	sharedmock "staybook/tests/mock/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type BookingCommandsTestSuite struct {
	suite.Suite
	mockCtrl *gomock.Controller
	uow      *sharedmock.MockUnitOfWork
	tx       *sharedmock.MockTx
	bookings *sharedmock.MockBookingRepository
	reads    *sharedmock.MockCommandReads
	gateway  *commandsmock.MockChannelGateway
	useCase  commands.BookingCommands
}

func TestBookingCommandsSuite(t *testing.T) {
	suite.Run(t, new(BookingCommandsTestSuite))
}

func (s *BookingCommandsTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.uow = sharedmock.NewMockUnitOfWork(s.mockCtrl)
	s.tx = sharedmock.NewMockTx(s.mockCtrl)
	s.bookings = sharedmock.NewMockBookingRepository(s.mockCtrl)
	s.reads = sharedmock.NewMockCommandReads(s.mockCtrl)
	s.gateway = commandsmock.NewMockChannelGateway(s.mockCtrl)

	s.tx.EXPECT().Bookings().Return(s.bookings).AnyTimes()
	s.tx.EXPECT().DB().Return(nil).AnyTimes()
	s.uow.EXPECT().CommandReads().Return(s.reads).AnyTimes()
	s.uow.EXPECT().Within(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context, shared.Tx) error) error {
			return fn(ctx, s.tx)
		}).AnyTimes()

	fixed := clock.NewMockClock(time.Date(2026, 9, 14, 10, 30, 0, 0, time.UTC))
	s.useCase = commands.NewBookingUseCase(s.uow, s.gateway, fixed)
}

func (s *BookingCommandsTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

// expectCreate captures the state the use case persists so later lock reads
// can hand back the same instance.
func (s *BookingCommandsTestSuite) expectCreate(created **booking.State) {
	s.bookings.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ db.DBTX, st *booking.State, _ uuid.UUID) error {
			*created = st
			return nil
		})
}

func (s *BookingCommandsTestSuite) expectLockedRead(created **booking.State) {
	s.bookings.EXPECT().FindByTokenForUpdate(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ db.DBTX, _ string) (*booking.State, error) {
			return *created, nil
		})
}

func (s *BookingCommandsTestSuite) TestSubmitBooking() {
	userID := uuid.New()
	req := builder.NewBookingBuilder().BuildDTO()

	s.Run("acknowledgment leaves the booking acknowledged", func() {
		var created *booking.State
		s.expectCreate(&created)
		s.gateway.EXPECT().Submit(gomock.Any(), gomock.Any()).
			Return(channel.SubmissionResult{Outcome: channel.OutcomeAcknowledged, Attempts: 1}, nil)
		s.expectLockedRead(&created)
		s.bookings.EXPECT().UpdateState(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		result, err := s.useCase.SubmitBooking(context.Background(), req, userID)
		s.Require().NoError(err)
		s.Equal(booking.StatusAcknowledged, result.Status)
		s.Equal(1, result.Attempts)
		s.Empty(result.ExternalID)
		s.Equal(booking.StatusAcknowledged, created.Status())
	})

	s.Run("confirmation report riding on the acknowledgment confirms in one step", func() {
		var created *booking.State
		s.expectCreate(&created)
		s.gateway.EXPECT().Submit(gomock.Any(), gomock.Any()).
			Return(channel.SubmissionResult{
				Outcome:    channel.OutcomeAcknowledged,
				ExternalID: "PMS123456",
				Attempts:   1,
			}, nil)
		s.expectLockedRead(&created)
		s.bookings.EXPECT().UpdateState(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		result, err := s.useCase.SubmitBooking(context.Background(), req, userID)
		s.Require().NoError(err)
		s.Equal(booking.StatusConfirmed, result.Status)
		s.Equal("PMS123456", result.ExternalID)
		s.Equal("PMS123456", created.ExternalID())
	})

	s.Run("rejection fails the booking with the counterparty's reason", func() {
		var created *booking.State
		s.expectCreate(&created)
		s.gateway.EXPECT().Submit(gomock.Any(), gomock.Any()).
			Return(channel.SubmissionResult{
				Outcome:  channel.OutcomeRejected,
				Reason:   "no availability",
				Attempts: 1,
			}, nil)
		s.expectLockedRead(&created)
		s.bookings.EXPECT().UpdateState(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		result, err := s.useCase.SubmitBooking(context.Background(), req, userID)
		s.Require().NoError(err)
		s.Equal(booking.StatusFailed, result.Status)
		s.Equal("no availability", result.Reason)
		s.Equal("no availability", created.FailureReason())
	})

	s.Run("timeout applies no transition and leaves the token submitted", func() {
		var created *booking.State
		s.expectCreate(&created)
		s.gateway.EXPECT().Submit(gomock.Any(), gomock.Any()).
			Return(channel.SubmissionResult{
				Outcome:  channel.OutcomeTransportFailure,
				Reason:   "timeout: context deadline exceeded",
				Timeout:  true,
				Attempts: 3,
			}, nil)
		// No lock read and no update: the real outcome is unknown.

		result, err := s.useCase.SubmitBooking(context.Background(), req, userID)
		s.Require().NoError(err)
		s.Equal(booking.StatusSubmitted, result.Status)
		s.Equal(booking.StatusSubmitted, created.Status())
	})

	s.Run("transport exhaustion without timeout fails the booking", func() {
		var created *booking.State
		s.expectCreate(&created)
		s.gateway.EXPECT().Submit(gomock.Any(), gomock.Any()).
			Return(channel.SubmissionResult{
				Outcome:  channel.OutcomeTransportFailure,
				Reason:   "connection refused",
				Attempts: 3,
			}, nil)
		s.expectLockedRead(&created)
		s.bookings.EXPECT().UpdateState(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		result, err := s.useCase.SubmitBooking(context.Background(), req, userID)
		s.Require().NoError(err)
		s.Equal(booking.StatusFailed, result.Status)
	})

	s.Run("token collision mints a fresh token and retries", func() {
		var tokens []string
		dup := infra.WrapRepoErr("duplicate token", errs.New("dup"), infra.KindDuplicateKey)
		s.bookings.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ db.DBTX, st *booking.State, _ uuid.UUID) error {
				tokens = append(tokens, st.Token())
				if len(tokens) == 1 {
					return dup
				}
				return nil
			}).Times(2)
		s.gateway.EXPECT().Submit(gomock.Any(), gomock.Any()).
			Return(channel.SubmissionResult{Outcome: channel.OutcomeAcknowledged, Attempts: 1}, nil)
		s.bookings.EXPECT().FindByTokenForUpdate(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ db.DBTX, token string) (*booking.State, error) {
				st, err := builder.NewBookingBuilder().WithToken(token).BuildState()
				s.Require().NoError(err)
				return st, nil
			})
		s.bookings.EXPECT().UpdateState(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		result, err := s.useCase.SubmitBooking(context.Background(), req, userID)
		s.Require().NoError(err)
		s.Require().Len(tokens, 2)
		s.Equal(tokens[1], result.Token)
	})

	s.Run("exhausted token minting surfaces as a duplicate token error", func() {
		s.bookings.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(infra.WrapRepoErr("duplicate token", errs.New("dup"), infra.KindDuplicateKey)).
			Times(3)

		_, err := s.useCase.SubmitBooking(context.Background(), req, userID)
		s.Require().ErrorIs(err, commands.ErrDuplicateToken)
	})

	s.Run("invalid stay window is rejected before any persistence", func() {
		bad := req
		bad.CheckOut = bad.CheckIn.AddDate(0, 0, -1)

		_, err := s.useCase.SubmitBooking(context.Background(), bad, userID)
		s.Require().ErrorIs(err, commands.ErrDomainValidation)
	})
}

func (s *BookingCommandsTestSuite) TestCancelBooking() {
	ownerID := uuid.New()

	snapshot := func(userID uuid.UUID) *shared.BookingSnapshot {
		return &shared.BookingSnapshot{
			Token:       "PW2609140030",
			Status:      "acknowledged",
			AmountMinor: 50005,
			Currency:    "INR",
			UserID:      userID,
		}
	}
	lockedState := func() *booking.State {
		st, err := builder.NewBookingBuilder().BuildState()
		s.Require().NoError(err)
		s.Require().NoError(st.Acknowledge())
		return st
	}

	s.Run("acknowledged cancellation fails the booking locally", func() {
		state := lockedState()
		s.reads.EXPECT().BookingByToken(gomock.Any(), "PW2609140030").Return(snapshot(ownerID), nil)
		s.bookings.EXPECT().FindByTokenForUpdate(gomock.Any(), gomock.Any(), "PW2609140030").
			Return(state, nil).Times(2)
		s.gateway.EXPECT().Cancel(gomock.Any(), state, "plans changed").
			Return(channel.CancellationResult{Outcome: channel.OutcomeAcknowledged, Attempts: 1}, nil)
		s.bookings.EXPECT().UpdateState(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		result, err := s.useCase.CancelBooking(context.Background(), "PW2609140030", ownerID, user.RoleGuest, "plans changed")
		s.Require().NoError(err)
		s.Equal(channel.OutcomeAcknowledged, result.Outcome)
		s.Equal(booking.StatusFailed, state.Status())
		s.Equal("cancelled: plans changed", state.FailureReason())
	})

	s.Run("rejected cancellation leaves local state untouched", func() {
		state := lockedState()
		s.reads.EXPECT().BookingByToken(gomock.Any(), "PW2609140030").Return(snapshot(ownerID), nil)
		s.bookings.EXPECT().FindByTokenForUpdate(gomock.Any(), gomock.Any(), "PW2609140030").
			Return(state, nil)
		s.gateway.EXPECT().Cancel(gomock.Any(), state, "").
			Return(channel.CancellationResult{Outcome: channel.OutcomeRejected, Reason: "too late", Attempts: 1}, nil)

		result, err := s.useCase.CancelBooking(context.Background(), "PW2609140030", ownerID, user.RoleGuest, "")
		s.Require().NoError(err)
		s.Equal(channel.OutcomeRejected, result.Outcome)
		s.Equal(booking.StatusAcknowledged, state.Status())
	})

	s.Run("guests cannot cancel a booking they do not own", func() {
		s.reads.EXPECT().BookingByToken(gomock.Any(), "PW2609140030").Return(snapshot(uuid.New()), nil)

		_, err := s.useCase.CancelBooking(context.Background(), "PW2609140030", ownerID, user.RoleGuest, "")
		s.Require().ErrorIs(err, commands.ErrBookingAccessDenied)
	})

	s.Run("staff may cancel any booking", func() {
		state := lockedState()
		s.reads.EXPECT().BookingByToken(gomock.Any(), "PW2609140030").Return(snapshot(uuid.New()), nil)
		s.bookings.EXPECT().FindByTokenForUpdate(gomock.Any(), gomock.Any(), "PW2609140030").
			Return(state, nil).Times(2)
		s.gateway.EXPECT().Cancel(gomock.Any(), state, "overbooked").
			Return(channel.CancellationResult{Outcome: channel.OutcomeAcknowledged, Attempts: 1}, nil)
		s.bookings.EXPECT().UpdateState(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		_, err := s.useCase.CancelBooking(context.Background(), "PW2609140030", ownerID, user.RoleStaff, "overbooked")
		s.Require().NoError(err)
	})

	s.Run("unknown token is reported as not found", func() {
		s.reads.EXPECT().BookingByToken(gomock.Any(), "MISSING00001").
			Return(nil, infra.WrapRepoErr("booking not found", nil, infra.KindNotFound))

		_, err := s.useCase.CancelBooking(context.Background(), "MISSING00001", ownerID, user.RoleGuest, "")
		s.Require().ErrorIs(err, commands.ErrBookingNotFound)
	})
}

func (s *BookingCommandsTestSuite) TestVerifyBookingStatus() {
	snapshot := &shared.BookingSnapshot{
		Token:  "PW2609140030",
		Status: "acknowledged",
		UserID: uuid.New(),
	}

	s.Run("confirmed answer applies the guarded transition", func() {
		state, err := builder.NewBookingBuilder().BuildState()
		s.Require().NoError(err)
		s.Require().NoError(state.Acknowledge())

		s.reads.EXPECT().BookingByToken(gomock.Any(), "PW2609140030").Return(snapshot, nil)
		s.gateway.EXPECT().CheckStatus(gomock.Any(), "PW2609140030").
			Return(channel.StatusResult{Status: channel.StatusConfirmed, ExternalID: "PMS123456"}, nil)
		s.bookings.EXPECT().FindByTokenForUpdate(gomock.Any(), gomock.Any(), "PW2609140030").
			Return(state, nil)
		s.bookings.EXPECT().UpdateState(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		result, err := s.useCase.VerifyBookingStatus(context.Background(), "PW2609140030")
		s.Require().NoError(err)
		s.Equal(channel.StatusConfirmed, result.Status)
		s.Equal("PMS123456", result.ExternalID)
		s.Equal(booking.StatusConfirmed, state.Status())
	})

	s.Run("already confirmed with the same id is an idempotent no-op", func() {
		state, err := builder.NewBookingBuilder().BuildState()
		s.Require().NoError(err)
		s.Require().NoError(state.Confirm("PMS123456"))

		s.reads.EXPECT().BookingByToken(gomock.Any(), "PW2609140030").Return(snapshot, nil)
		s.gateway.EXPECT().CheckStatus(gomock.Any(), "PW2609140030").
			Return(channel.StatusResult{Status: channel.StatusConfirmed, ExternalID: "PMS123456"}, nil)
		s.bookings.EXPECT().FindByTokenForUpdate(gomock.Any(), gomock.Any(), "PW2609140030").
			Return(state, nil)
		// No UpdateState: nothing changed.

		_, err = s.useCase.VerifyBookingStatus(context.Background(), "PW2609140030")
		s.Require().NoError(err)
	})

	s.Run("verification required answer is never synthesized into confirmed", func() {
		s.reads.EXPECT().BookingByToken(gomock.Any(), "PW2609140030").Return(snapshot, nil)
		s.gateway.EXPECT().CheckStatus(gomock.Any(), "PW2609140030").
			Return(channel.StatusResult{Status: channel.StatusVerificationRequired, Reason: "unreachable"}, nil)
		// No transaction at all.

		result, err := s.useCase.VerifyBookingStatus(context.Background(), "PW2609140030")
		s.Require().NoError(err)
		s.Equal(channel.StatusVerificationRequired, result.Status)
		s.Equal("unreachable", result.Reason)
	})

	s.Run("unknown token is reported as not found", func() {
		s.reads.EXPECT().BookingByToken(gomock.Any(), "MISSING00001").
			Return(nil, infra.WrapRepoErr("booking not found", nil, infra.KindNotFound))

		_, err := s.useCase.VerifyBookingStatus(context.Background(), "MISSING00001")
		s.Require().ErrorIs(err, commands.ErrBookingNotFound)
	})
}
