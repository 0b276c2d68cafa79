package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"usersphere/internal/core/domain"
	"usersphere/internal/core/model/request"
	"usersphere/internal/core/port"
	"usersphere/internal/core/util"
)

type AuthService struct {
	repo port.UserRepository
}

func NewAuthService(repo port.UserRepository) *AuthService {
	return &AuthService{repo}
}

func (as *AuthService) Registration(ctx context.Context, req *request.RegisterRequest) (*domain.User, error) {
	_, err := as.repo.GetByEmail(ctx, req.Email)

	if err == nil {
		return nil, domain.ErrEmailTaken
	}

	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	encrypted, err := util.GenerateEncrypt(req.Password)

	if err != nil {
		return nil, fmt.Errorf("error creating encrypted password")
	}

	now := time.Now()

	user := domain.User{
		UUID:              uuid.New(),
		Name:              req.Name,
		Email:             req.Email,
		EncryptedPassword: encrypted,
		Age:               req.Age,
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	savedUser, err := as.repo.Create(ctx, user)

	if err != nil {
		return nil, err
	}

	return &savedUser, nil
}

func (as *AuthService) Authenticate(ctx context.Context, req *request.LoginRequest) (*domain.User, error) {
	user, err := as.repo.GetByEmail(ctx, req.Email)

	if err != nil {
		slog.Error("Auth#Authenticate", "get_by_email", err)
		return nil, domain.ErrInvalidCredentials
	}

	if !user.IsActive {
		slog.Error("Auth#Authenticate", "inactive_user", user.UUID.String())
		return nil, domain.ErrInvalidCredentials
	}

	if err := util.ComparePassword(req.Password, user.EncryptedPassword); err != nil {
		slog.Error("Auth#Authenticate", "compare_password", err)
		return nil, domain.ErrInvalidCredentials
	}

	slog.Info("Auth#Authenticate", "user", user.UUID.String())

	return &user, nil
}
