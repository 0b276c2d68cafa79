package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID                int
	UUID              uuid.UUID
	Name              string `validate:"required,min=2,max=100"`
	Email             string `validate:"required,email,max=120"`
	EncryptedPassword string `validate:"required,max=255"`
	Age               *int   `validate:"omitempty,gte=1,lte=150"`
	IsActive          bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
	DeletedAt         *time.Time
}

func (u *User) IsDeleted() bool {
	return u.DeletedAt != nil
}

// UserUpdate carries a partial update. Nil fields are left untouched.
type UserUpdate struct {
	Name              *string
	Email             *string
	EncryptedPassword *string
	Age               *int
}

func (u *UserUpdate) IsEmpty() bool {
	return u.Name == nil && u.Email == nil && u.EncryptedPassword == nil && u.Age == nil
}
