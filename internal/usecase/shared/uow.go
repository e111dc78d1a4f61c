package shared

import (
	"context"
	"time"

	"staybook/internal/domain/booking"
	"staybook/internal/domain/payment"
	"staybook/internal/domain/user"
	"staybook/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Bookings() BookingRepository
	Payments() PaymentRepository
	Users() UserRepository
	Reads() CommandReads
	DB() db.DBTX
}

type CommandReads interface {
	BookingByToken(ctx context.Context, token string) (*BookingSnapshot, error)
	PaymentByTxnID(ctx context.Context, txnID string) (*PaymentSnapshot, error)
	UserByEmail(ctx context.Context, email string) (*UserSnapshot, error)
}

type BookingRepository interface {
	Create(ctx context.Context, tx db.DBTX, s *booking.State, userID uuid.UUID) error
	// FindByTokenForUpdate takes a row lock so concurrent confirmation
	// deliveries for one token serialize instead of racing.
	FindByTokenForUpdate(ctx context.Context, tx db.DBTX, token string) (*booking.State, error)
	UpdateState(ctx context.Context, tx db.DBTX, s *booking.State) error
}

type PaymentRepository interface {
	Create(ctx context.Context, tx db.DBTX, p *payment.Payment) error
	FindByTxnIDForUpdate(ctx context.Context, tx db.DBTX, txnID string) (*payment.Payment, error)
	UpdateState(ctx context.Context, tx db.DBTX, p *payment.Payment) error
}

type UserRepository interface {
	Create(ctx context.Context, tx db.DBTX, u *user.User) (uuid.UUID, error)
	UpdateLastLogin(ctx context.Context, tx db.DBTX, userID uuid.UUID, at time.Time) error
}
