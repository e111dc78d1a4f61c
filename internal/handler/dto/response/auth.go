package response

import (
	"time"

	"staybook/internal/usecase/readmodel"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type UserResponse struct {
	ID        uuid.UUID  `json:"id"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	IsActive  bool       `json:"is_active"`
	LastLogin *time.Time `json:"last_login,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func FromUserView(v *readmodel.UserView) *UserResponse {
	var resp UserResponse
	_ = copier.Copy(&resp, v)
	return &resp
}

type LoginResponse struct {
	AccessToken string        `json:"access_token"`
	User        *UserResponse `json:"user,omitempty"`
}

type RefreshResponse struct {
	AccessToken string `json:"access_token"`
}
