package commands

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"log/slog"

	"staybook/internal/domain/booking"
	"staybook/internal/domain/user"
	reqdto "staybook/internal/handler/dto/request"
	"staybook/internal/infra"
	"staybook/internal/infra/channel"
	"staybook/internal/pkg/clock"
	"staybook/internal/pkg/errs"
	"staybook/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrBookingNotFound         = errs.New("booking not found")
	ErrBookingAccessDenied     = errs.New("booking belongs to another user")
	ErrDuplicateToken          = errs.New("correlation token already used")
	ErrChannelRejected         = errs.New("channel manager rejected the request")
	ErrChannelUnreachable      = errs.New("channel manager unreachable")
	ErrDomainValidation        = errs.New("domain validation error")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

type SubmitBookingResult struct {
	Token      string
	Status     booking.Status
	ExternalID string
	Reason     string
	Attempts   int
}

type CancelBookingResult struct {
	Token   string
	Outcome channel.Outcome
	Reason  string
}

type StatusCheckResult struct {
	Token      string
	Status     channel.Status
	ExternalID string
	Reason     string
}

type BookingCommands interface {
	SubmitBooking(ctx context.Context, req reqdto.CreateBookingRequest, userID uuid.UUID) (*SubmitBookingResult, error)
	CancelBooking(ctx context.Context, token string, userID uuid.UUID, role user.Role, reason string) (*CancelBookingResult, error)
	VerifyBookingStatus(ctx context.Context, token string) (*StatusCheckResult, error)
}

type bookingUseCaseImpl struct {
	uow     shared.UnitOfWork
	gateway ChannelGateway
	clock   clock.Clock
}

func NewBookingUseCase(uow shared.UnitOfWork, gateway ChannelGateway, clk clock.Clock) BookingCommands {
	return &bookingUseCaseImpl{
		uow:     uow,
		gateway: gateway,
		clock:   clk,
	}
}

// SubmitBooking records the Submitted state, sends the notification once,
// and applies the classified outcome. A timed-out attempt applies no
// transition: its real outcome is unknown and the token stays Submitted for
// a later status check.
func (b *bookingUseCaseImpl) SubmitBooking(ctx context.Context, req reqdto.CreateBookingRequest, userID uuid.UUID) (*SubmitBookingResult, error) {
	var (
		token string
		n     *booking.Notification
	)
	for attempt := 1; ; attempt++ {
		token = b.newCorrelationToken()

		var err error
		n, err = req.ToNotification(token)
		if err != nil {
			return nil, errs.Mark(err, ErrDomainValidation)
		}

		state := booking.NewSubmittedState(n)
		err = b.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			return tx.Bookings().Create(ctx, tx.DB(), state, userID)
		})
		if err == nil {
			break
		}
		if infra.IsKind(err, infra.KindDuplicateKey) {
			if attempt < tokenMintAttempts {
				slog.Warn("correlation token collision, minting a fresh one", "token", token)
				continue
			}
			return nil, errs.Mark(err, ErrDuplicateToken)
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	res, err := b.gateway.Submit(ctx, n)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	status, applyErr := b.applySubmissionResult(ctx, token, res)
	if applyErr != nil {
		return nil, applyErr
	}

	return &SubmitBookingResult{
		Token:      token,
		Status:     status,
		ExternalID: res.ExternalID,
		Reason:     res.Reason,
		Attempts:   res.Attempts,
	}, nil
}

func (b *bookingUseCaseImpl) applySubmissionResult(ctx context.Context, token string, res channel.SubmissionResult) (booking.Status, error) {
	if res.Timeout {
		slog.Warn("submission outcome unknown, leaving state untouched", "token", token)
		return booking.StatusSubmitted, nil
	}

	var status booking.Status
	err := b.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		state, err := tx.Bookings().FindByTokenForUpdate(ctx, tx.DB(), token)
		if err != nil {
			return err
		}

		switch res.Outcome {
		case channel.OutcomeAcknowledged:
			if err := state.Acknowledge(); err != nil {
				return errs.Mark(err, ErrDomainValidation)
			}
			if res.ExternalID != "" {
				if err := state.Confirm(res.ExternalID); err != nil {
					return errs.Mark(err, ErrDomainValidation)
				}
			}
		default:
			if err := state.Fail(res.Reason); err != nil {
				return errs.Mark(err, ErrDomainValidation)
			}
		}

		status = state.Status()
		return tx.Bookings().UpdateState(ctx, tx.DB(), state)
	})
	if err != nil {
		return "", errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return status, nil
}

// CancelBooking sends the cancellation shape rebuilt from the stored
// notification. Guests may only cancel their own bookings; staff may cancel
// any.
func (b *bookingUseCaseImpl) CancelBooking(ctx context.Context, token string, userID uuid.UUID, role user.Role, reason string) (*CancelBookingResult, error) {
	snap, err := b.uow.CommandReads().BookingByToken(ctx, token)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrBookingNotFound)
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if role == user.RoleGuest && snap.UserID != userID {
		return nil, ErrBookingAccessDenied
	}

	var state *booking.State
	err = b.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		state, err = tx.Bookings().FindByTokenForUpdate(ctx, tx.DB(), token)
		return err
	})
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	res, err := b.gateway.Cancel(ctx, state, reason)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	if res.Outcome == channel.OutcomeAcknowledged && !state.Status().IsTerminal() {
		err = b.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			locked, err := tx.Bookings().FindByTokenForUpdate(ctx, tx.DB(), token)
			if err != nil {
				return err
			}
			if locked.Status().IsTerminal() {
				return nil
			}
			if err := locked.Fail("cancelled: " + reason); err != nil {
				return errs.Mark(err, ErrDomainValidation)
			}
			return tx.Bookings().UpdateState(ctx, tx.DB(), locked)
		})
		if err != nil {
			return nil, errs.Mark(err, ErrDatabaseOperationFailed)
		}
	}

	return &CancelBookingResult{Token: token, Outcome: res.Outcome, Reason: res.Reason}, nil
}

// VerifyBookingStatus asks the counterparty for the current status. A
// confirmed answer is applied through the same guarded transition the
// webhook path uses; an unreachable counterparty stays verification
// required, never synthesized into confirmed.
func (b *bookingUseCaseImpl) VerifyBookingStatus(ctx context.Context, token string) (*StatusCheckResult, error) {
	if _, err := b.uow.CommandReads().BookingByToken(ctx, token); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrBookingNotFound)
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	res, err := b.gateway.CheckStatus(ctx, token)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	if res.Status == channel.StatusConfirmed && res.ExternalID != "" {
		err = b.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			state, err := tx.Bookings().FindByTokenForUpdate(ctx, tx.DB(), token)
			if err != nil {
				return err
			}
			switch err := state.Confirm(res.ExternalID); err {
			case nil:
				return tx.Bookings().UpdateState(ctx, tx.DB(), state)
			case booking.ErrAlreadyConfirmed:
				return nil
			default:
				return errs.Mark(err, ErrDomainValidation)
			}
		})
		if err != nil {
			return nil, errs.Mark(err, ErrDatabaseOperationFailed)
		}
	}

	return &StatusCheckResult{
		Token:      token,
		Status:     res.Status,
		ExternalID: res.ExternalID,
		Reason:     res.Reason,
	}, nil
}

// tokenMintAttempts bounds the duplicate-key retries when minting a
// correlation token.
const tokenMintAttempts = 3

// newCorrelationToken mints a caller-assigned token, unique per send
// attempt. Uniqueness is ultimately enforced by the primary key.
func (b *bookingUseCaseImpl) newCorrelationToken() string {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err == nil {
		return fmt.Sprintf("PW%s%04d", b.clock.Now().UTC().Format("0601021504"), binary.BigEndian.Uint32(buf[:])%10000)
	}
	return fmt.Sprintf("PW%s%04d", b.clock.Now().UTC().Format("0601021504"), b.clock.Now().UnixNano()%10000)
}
