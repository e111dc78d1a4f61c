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

var (
	ErrBookingNotFound     = errs.New("booking not found")
	ErrBookingAccessDenied = errs.New("booking belongs to another user")
)

const defaultListLimit = 50

type BookingQueries interface {
	GetByToken(ctx context.Context, actorID uuid.UUID, role user.Role, token string) (*readmodel.BookingView, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int32) ([]readmodel.BookingView, error)
}

type BookingViewRepo interface {
	FindByToken(ctx context.Context, dbtx db.DBTX, token string) (*readmodel.BookingView, error)
	ListByUser(ctx context.Context, dbtx db.DBTX, userID uuid.UUID, limit, offset int32) ([]readmodel.BookingView, error)
}

type bookingQueriesImpl struct {
	uow  shared.UnitOfWork
	repo BookingViewRepo
}

func NewBookingQueries(uow shared.UnitOfWork, repo BookingViewRepo) BookingQueries {
	return &bookingQueriesImpl{uow: uow, repo: repo}
}

func (q *bookingQueriesImpl) GetByToken(ctx context.Context, actorID uuid.UUID, role user.Role, token string) (*readmodel.BookingView, error) {
	var view *readmodel.BookingView
	err := q.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		var err error
		view, err = q.repo.FindByToken(ctx, dbtx, token)
		return err
	})
	if err != nil {
		return nil, errs.Mark(err, ErrBookingNotFound)
	}
	if role == user.RoleGuest && view.UserID != actorID {
		return nil, ErrBookingAccessDenied
	}
	return view, nil
}

func (q *bookingQueriesImpl) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int32) ([]readmodel.BookingView, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if offset < 0 {
		offset = 0
	}

	var views []readmodel.BookingView
	err := q.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		var err error
		views, err = q.repo.ListByUser(ctx, dbtx, userID, limit, offset)
		return err
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}
