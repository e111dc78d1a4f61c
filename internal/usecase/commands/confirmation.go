package commands

import (
	"context"
	"log/slog"

	"staybook/internal/domain/booking"
	"staybook/internal/infra"
	"staybook/internal/infra/ota"
	"staybook/internal/pkg/errs"
	"staybook/internal/usecase/shared"
)

var (
	ErrMalformedConfirmation = errs.New("malformed confirmation message")
	ErrConfirmationConflict  = errs.New("confirmation conflicts with confirmed reservation")
)

// CorrelationOutcome classifies one inbound confirmation delivery.
type CorrelationOutcome string

const (
	// CorrelationApplied: the external id was recorded; the reservation is
	// now Confirmed.
	CorrelationApplied CorrelationOutcome = "applied"
	// CorrelationIgnored: the message was not a confirmation report.
	CorrelationIgnored CorrelationOutcome = "ignored"
	// CorrelationUnknownToken: no local state matches; the counterparty
	// may resend, so this is logged rather than fatal.
	CorrelationUnknownToken CorrelationOutcome = "unknown_token"
	// CorrelationDuplicate: a repeat delivery with the same external id.
	CorrelationDuplicate CorrelationOutcome = "duplicate"
	// CorrelationConflict: the delivery disagrees with an already recorded
	// external id. Requires manual reconciliation.
	CorrelationConflict CorrelationOutcome = "conflict"
)

type CorrelationResult struct {
	Outcome    CorrelationOutcome
	Token      string
	ExternalID string
}

type ConfirmationCommands interface {
	HandleInboundConfirmation(ctx context.Context, raw []byte) (*CorrelationResult, error)
}

type confirmationUseCaseImpl struct {
	uow shared.UnitOfWork
}

func NewConfirmationUseCase(uow shared.UnitOfWork) ConfirmationCommands {
	return &confirmationUseCaseImpl{uow: uow}
}

// HandleInboundConfirmation correlates an out-of-band confirmation report
// with the reservation that originated its token. Concurrent duplicate
// deliveries serialize on the row lock, so the Confirmed transition applies
// exactly once.
func (c *confirmationUseCaseImpl) HandleInboundConfirmation(ctx context.Context, raw []byte) (*CorrelationResult, error) {
	reply, err := ota.Decode(raw)
	if err != nil {
		return nil, errs.Mark(err, ErrMalformedConfirmation)
	}

	if reply.Kind != ota.KindConfirmationReport || !reply.Success {
		return &CorrelationResult{Outcome: CorrelationIgnored, Token: reply.Token}, nil
	}
	if reply.Token == "" {
		slog.Warn("confirmation report without correlation token")
		return &CorrelationResult{Outcome: CorrelationUnknownToken}, nil
	}

	result := &CorrelationResult{Token: reply.Token, ExternalID: reply.ExternalID}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		state, err := tx.Bookings().FindByTokenForUpdate(ctx, tx.DB(), reply.Token)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				slog.Warn("confirmation for unknown token", "token", reply.Token)
				result.Outcome = CorrelationUnknownToken
				return nil
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		switch err := state.Confirm(reply.ExternalID); err {
		case nil:
			result.Outcome = CorrelationApplied
			return tx.Bookings().UpdateState(ctx, tx.DB(), state)
		case booking.ErrAlreadyConfirmed:
			result.Outcome = CorrelationDuplicate
			return nil
		case booking.ErrConfirmationConflict:
			slog.Error("confirmation conflict",
				"token", reply.Token,
				"stored_external_id", state.ExternalID(),
				"delivered_external_id", reply.ExternalID)
			result.Outcome = CorrelationConflict
			return nil
		default:
			return errs.Mark(err, ErrDomainValidation)
		}
	})
	if err != nil {
		return nil, err
	}

	if result.Outcome == CorrelationConflict {
		return result, ErrConfirmationConflict
	}
	return result, nil
}
