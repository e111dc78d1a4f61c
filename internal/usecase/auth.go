package usecase

import (
	"context"

	"staybook/internal/domain/user"
	"staybook/internal/infra"
	"staybook/internal/infra/db"
	"staybook/internal/pkg/clock"
	"staybook/internal/pkg/errs"
	"staybook/internal/pkg/jwt"
	"staybook/internal/pkg/password"
	"staybook/internal/usecase/readmodel"
	"staybook/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound       = errs.New("user not found")
	ErrEmailAlreadyTaken  = errs.New("email already registered")
	ErrInvalidCredentials = errs.New("invalid email or password")
	ErrUserInactive       = errs.New("user account is inactive")
	ErrTokenGeneration    = errs.New("token generation failed")
	ErrTokenValidation    = errs.New("token validation failed")
)

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type UserReadStore interface {
	FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*readmodel.UserView, error)
}

type AuthUseCase interface {
	Register(ctx context.Context, email, rawPassword string) (*readmodel.UserView, error)
	Login(ctx context.Context, email, rawPassword string) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*readmodel.UserView, error)
}

type authUseCaseImpl struct {
	uow        shared.UnitOfWork
	userReads  UserReadStore
	jwtService *jwt.Service
	clock      clock.Clock
}

func NewAuthUseCase(uow shared.UnitOfWork, userReads UserReadStore, jwtService *jwt.Service, clk clock.Clock) AuthUseCase {
	return &authUseCaseImpl{
		uow:        uow,
		userReads:  userReads,
		jwtService: jwtService,
		clock:      clk,
	}
}

// Register creates a guest account. Role elevation is an operational task,
// not an API feature.
func (a *authUseCaseImpl) Register(ctx context.Context, email, rawPassword string) (*readmodel.UserView, error) {
	emailVO, err := user.NewEmail(email)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidCredentials)
	}
	passwordVO, err := user.NewPassword(rawPassword)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidCredentials)
	}

	hash, err := password.HashPassword(passwordVO.Value())
	if err != nil {
		return nil, errs.Wrap(err, "failed to hash password")
	}

	entity := user.NewUser(emailVO, hash, user.RoleGuest)

	var id uuid.UUID
	err = a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		id, err = tx.Users().Create(ctx, tx.DB(), entity)
		return err
	})
	if err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return nil, errs.Mark(err, ErrEmailAlreadyTaken)
		}
		return nil, err
	}

	var view *readmodel.UserView
	err = a.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		view, err = a.userReads.FindByID(ctx, dbtx, id)
		return err
	})
	if err != nil {
		return nil, errs.Mark(err, ErrUserNotFound)
	}
	return view, nil
}

func (a *authUseCaseImpl) Login(ctx context.Context, email, rawPassword string) (*TokenPair, error) {
	snap, err := a.uow.CommandReads().UserByEmail(ctx, email)
	if err != nil {
		// Indistinguishable from a bad password on purpose.
		return nil, errs.Mark(err, ErrInvalidCredentials)
	}
	if !snap.IsActive {
		return nil, ErrUserInactive
	}
	if err := password.ComparePassword(snap.PasswordHash, rawPassword); err != nil {
		return nil, errs.Mark(err, ErrInvalidCredentials)
	}

	role, err := user.NewRole(snap.Role)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}

	pair, err := a.issueTokens(snap.ID, role)
	if err != nil {
		return nil, err
	}

	err = a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Users().UpdateLastLogin(ctx, tx.DB(), snap.ID, a.clock.Now())
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

func (a *authUseCaseImpl) Refresh(_ context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := a.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenValidation)
	}
	role, err := user.NewRole(claims.Role)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenValidation)
	}
	return a.issueTokens(claims.UserID, role)
}

func (a *authUseCaseImpl) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*readmodel.UserView, error) {
	var view *readmodel.UserView
	err := a.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		var err error
		view, err = a.userReads.FindByID(ctx, dbtx, userID)
		return err
	})
	if err != nil {
		return nil, errs.Mark(err, ErrUserNotFound)
	}
	if !view.IsActive {
		return nil, ErrUserInactive
	}
	return view, nil
}

func (a *authUseCaseImpl) issueTokens(userID uuid.UUID, role user.Role) (*TokenPair, error) {
	access, err := a.jwtService.GenerateAccessToken(userID, role)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}
	refresh, err := a.jwtService.GenerateRefreshToken(userID, role)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
