package queries

import (
	"context"

	"staybook/internal/domain/user"
	"staybook/internal/infra/db"
	"staybook/internal/pkg/errs"
	"staybook/internal/usecase/readmodel"
	"staybook/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrPaymentNotFound = errs.New("payment not found")

type PaymentQueries interface {
	GetByTxnID(ctx context.Context, actorID uuid.UUID, role user.Role, txnID string) (*readmodel.PaymentView, error)
	ListByBooking(ctx context.Context, actorID uuid.UUID, role user.Role, bookingToken string) ([]readmodel.PaymentView, error)
}

type PaymentViewRepo interface {
	FindByTxnID(ctx context.Context, dbtx db.DBTX, txnID string) (*readmodel.PaymentView, error)
	ListByBookingToken(ctx context.Context, dbtx db.DBTX, token string) ([]readmodel.PaymentView, error)
}

type paymentQueriesImpl struct {
	uow      shared.UnitOfWork
	repo     PaymentViewRepo
	bookings BookingViewRepo
}

func NewPaymentQueries(uow shared.UnitOfWork, repo PaymentViewRepo, bookings BookingViewRepo) PaymentQueries {
	return &paymentQueriesImpl{uow: uow, repo: repo, bookings: bookings}
}

func (q *paymentQueriesImpl) GetByTxnID(ctx context.Context, actorID uuid.UUID, role user.Role, txnID string) (*readmodel.PaymentView, error) {
	var view *readmodel.PaymentView
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		var err error
		view, err = q.repo.FindByTxnID(ctx, dbtx, txnID)
		if err != nil {
			return errs.Mark(err, ErrPaymentNotFound)
		}
		return q.authorize(ctx, dbtx, actorID, role, view.BookingToken)
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (q *paymentQueriesImpl) ListByBooking(ctx context.Context, actorID uuid.UUID, role user.Role, bookingToken string) ([]readmodel.PaymentView, error) {
	var views []readmodel.PaymentView
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		if err := q.authorize(ctx, dbtx, actorID, role, bookingToken); err != nil {
			return err
		}
		var err error
		views, err = q.repo.ListByBookingToken(ctx, dbtx, bookingToken)
		return err
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

// authorize resolves the owning booking so guests only see payments on
// their own reservations.
func (q *paymentQueriesImpl) authorize(ctx context.Context, dbtx db.DBTX, actorID uuid.UUID, role user.Role, bookingToken string) error {
	if role != user.RoleGuest {
		return nil
	}
	bv, err := q.bookings.FindByToken(ctx, dbtx, bookingToken)
	if err != nil {
		return errs.Mark(err, ErrBookingNotFound)
	}
	if bv.UserID != actorID {
		return ErrBookingAccessDenied
	}
	return nil
}
