package port

import (
	"context"

	"usersphere/internal/core/domain"
	"usersphere/internal/core/model/request"
)

type AuthService interface {
	Registration(ctx context.Context, req *request.RegisterRequest) (*domain.User, error)
	Authenticate(ctx context.Context, req *request.LoginRequest) (*domain.User, error)
}
