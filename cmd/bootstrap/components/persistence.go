package components

import (
	"staybook/internal/infra/readstore"
	"staybook/internal/infra/uow"
	"staybook/internal/usecase"
	"staybook/internal/usecase/queries"
	"staybook/internal/usecase/shared"

	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		// UnitOfWork
		fx.Annotate(
			uow.NewPostgresUoW,
			fx.As(new(shared.UnitOfWork)),
		),
		// Booking
		fx.Annotate(
			readstore.NewBookingReadStore,
			fx.As(new(queries.BookingViewRepo)),
		),
		// Payment
		fx.Annotate(
			readstore.NewPaymentReadStore,
			fx.As(new(queries.PaymentViewRepo)),
		),
		// User
		fx.Annotate(
			readstore.NewUserReadStore,
			fx.As(new(usecase.UserReadStore)),
		),
	),
)
