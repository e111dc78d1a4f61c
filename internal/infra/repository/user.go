package repository

import (
	"context"
	"time"

	"staybook/internal/domain/user"
	"staybook/internal/infra"
	"staybook/internal/infra/db"
	"staybook/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type UserRepository struct{}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

const createUserSQL = `
INSERT INTO users (id, email, password_hash, role, is_active)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`

func (r *UserRepository) Create(ctx context.Context, tx db.DBTX, u *user.User) (uuid.UUID, error) {
	var id uuid.UUID
	err := tx.QueryRow(ctx, createUserSQL,
		pgconv.UUIDToPgtype(u.ID()),
		u.Email().Value(),
		u.PasswordHash(),
		u.Role().String(),
		u.IsActive(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, wrapPgErr("failed to create user", err)
	}
	return id, nil
}

const updateLastLoginSQL = `
UPDATE users SET last_login = $2, updated_at = now() WHERE id = $1`

func (r *UserRepository) UpdateLastLogin(ctx context.Context, tx db.DBTX, userID uuid.UUID, at time.Time) error {
	tag, err := tx.Exec(ctx, updateLastLoginSQL, pgconv.UUIDToPgtype(userID), pgconv.TimeToPgtype(at))
	if err != nil {
		return wrapPgErr("failed to update last login", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
	}
	return nil
}
