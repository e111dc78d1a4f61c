package readstore

import (
	"context"

	"staybook/internal/infra"
	"staybook/internal/infra/db"
	"staybook/internal/pkg/pgconv"
	"staybook/internal/usecase/readmodel"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type UserReadStore struct{}

func NewUserReadStore() *UserReadStore {
	return &UserReadStore{}
}

const findUserByIDSQL = `
SELECT id, email, role, is_active, last_login, created_at
FROM users
WHERE id = $1`

func (r *UserReadStore) FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*readmodel.UserView, error) {
	var (
		v         readmodel.UserView
		lastLogin pgtype.Timestamptz
	)
	err := dbtx.QueryRow(ctx, findUserByIDSQL, pgconv.UUIDToPgtype(id)).Scan(
		&v.ID, &v.Email, &v.Role, &v.IsActive, &lastLogin, &v.CreatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find user by ID", err)
	}
	v.LastLogin = pgconv.TimePtrFromPgtype(lastLogin)
	return &v, nil
}

const findUserByEmailSQL = `
SELECT id, email, password_hash, role, is_active
FROM users
WHERE email = $1`

func (r *UserReadStore) FindByEmail(ctx context.Context, dbtx db.DBTX, email string) (*readmodel.AuthUser, error) {
	var v readmodel.AuthUser
	err := dbtx.QueryRow(ctx, findUserByEmailSQL, email).Scan(
		&v.ID, &v.Email, &v.PasswordHash, &v.Role, &v.IsActive,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find user by email", err)
	}
	return &v, nil
}
