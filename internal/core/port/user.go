package port

import (
	"context"

	"usersphere/internal/core/domain"
)

type UserRepository interface {
	GetByUUID(ctx context.Context, uuid string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetAll(ctx context.Context) ([]domain.User, error)
	Search(ctx context.Context, term string) ([]domain.User, error)
	Create(ctx context.Context, user domain.User) (domain.User, error)
	UpdateByUUID(ctx context.Context, uuid string, changes domain.UserUpdate) (domain.User, error)
	SoftDeleteByUUID(ctx context.Context, uuid string) error
	RestoreByUUID(ctx context.Context, uuid string) (domain.User, error)
	HardDeleteByUUID(ctx context.Context, uuid string) error
	CountActive(ctx context.Context) (int, error)
}

type UserService interface {
	GetUserByUUID(ctx context.Context, uuid string) (domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
	GetAllUsers(ctx context.Context) ([]domain.User, error)
	SearchUsers(ctx context.Context, term string) ([]domain.User, error)
	Create(ctx context.Context, user domain.User) (domain.User, error)
	UpdateByUUID(ctx context.Context, uuid string, changes domain.UserUpdate) (domain.User, error)
	DeleteByUUID(ctx context.Context, uuid string) error
	RestoreByUUID(ctx context.Context, uuid string) (domain.User, error)
	PermanentlyDeleteByUUID(ctx context.Context, uuid string) error
	CountActiveUsers(ctx context.Context) (int, error)
}
