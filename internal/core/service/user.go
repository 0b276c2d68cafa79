package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"usersphere/internal/core/domain"
	"usersphere/internal/core/port"
)

type UserService struct {
	repo port.UserRepository
}

func NewUserService(repo port.UserRepository) *UserService {
	return &UserService{repo}
}

func (us *UserService) Create(ctx context.Context, user domain.User) (domain.User, error) {
	now := time.Now()

	newData := domain.User{
		UUID:              uuid.New(),
		Name:              user.Name,
		Email:             user.Email,
		EncryptedPassword: user.EncryptedPassword,
		Age:               user.Age,
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
		DeletedAt:         nil,
	}

	user, err := us.repo.Create(ctx, newData)

	if err != nil {
		return domain.User{}, err
	}

	return user, nil
}

func (us *UserService) GetUserByUUID(ctx context.Context, uid string) (domain.User, error) {
	user, err := us.repo.GetByUUID(ctx, uid)

	if err != nil {
		return domain.User{}, err
	}

	return user, nil
}

func (us *UserService) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	user, err := us.repo.GetByEmail(ctx, email)

	if err != nil {
		return domain.User{}, err
	}

	return user, nil
}

func (us *UserService) GetAllUsers(ctx context.Context) ([]domain.User, error) {
	return us.repo.GetAll(ctx)
}

func (us *UserService) SearchUsers(ctx context.Context, term string) ([]domain.User, error) {
	return us.repo.Search(ctx, term)
}

func (us *UserService) UpdateByUUID(ctx context.Context, uid string, changes domain.UserUpdate) (domain.User, error) {
	// An empty patch is a read, not a write.
	if changes.IsEmpty() {
		return us.repo.GetByUUID(ctx, uid)
	}

	return us.repo.UpdateByUUID(ctx, uid, changes)
}

func (us *UserService) DeleteByUUID(ctx context.Context, uid string) error {
	return us.repo.SoftDeleteByUUID(ctx, uid)
}

func (us *UserService) RestoreByUUID(ctx context.Context, uid string) (domain.User, error) {
	return us.repo.RestoreByUUID(ctx, uid)
}

func (us *UserService) PermanentlyDeleteByUUID(ctx context.Context, uid string) error {
	return us.repo.HardDeleteByUUID(ctx, uid)
}

func (us *UserService) CountActiveUsers(ctx context.Context) (int, error) {
	return us.repo.CountActive(ctx)
}
