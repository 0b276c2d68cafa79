package http

import (
	"context"

	"usersphere/internal/adapter/http/handler"
	"usersphere/internal/core/port"
	"usersphere/internal/core/service"
	"usersphere/internal/shared"
	"usersphere/pkg/auth"
)

type Container struct {
	UserRepo port.UserRepository

	UserUseCase port.UserService
	AuthUseCase port.AuthService

	HomeHandler *handler.HomeHandler
	AuthHandler *handler.AuthHandler
	UserHandler *handler.UserHandler
}

func NewContainer(userRepo port.UserRepository, ping func(ctx context.Context) error, jwtSvc *auth.JWT, metrics *shared.AppMetrics) *Container {
	authSvc := service.NewAuthService(userRepo)
	userSvc := service.NewUserService(userRepo)

	homeHandler := handler.NewHomeHandler(userSvc, ping)
	authHandler := handler.NewAuthHandler(authSvc, jwtSvc, metrics)
	userHandler := handler.NewUserHandler(userSvc, metrics)

	return &Container{
		UserRepo: userRepo,

		UserUseCase: userSvc,
		AuthUseCase: authSvc,

		HomeHandler: homeHandler,
		AuthHandler: authHandler,
		UserHandler: userHandler,
	}
}
