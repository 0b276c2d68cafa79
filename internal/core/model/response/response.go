package response

import (
	"time"

	"usersphere/internal/core/domain"
)

type UserResponse struct {
	UUID      string    `json:"uuid,omitempty"`
	Name      string    `json:"name,omitempty"`
	Email     string    `json:"email,omitempty"`
	Age       *int      `json:"age,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewUserResponse(user domain.User) UserResponse {
	return UserResponse{
		UUID:      user.UUID.String(),
		Name:      user.Name,
		Email:     user.Email,
		Age:       user.Age,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

type UserListResponse struct {
	Count int            `json:"count"`
	Users []UserResponse `json:"users"`
}

func NewUserListResponse(users []domain.User) UserListResponse {
	list := make([]UserResponse, 0, len(users))

	for _, user := range users {
		list = append(list, NewUserResponse(user))
	}

	return UserListResponse{
		Count: len(list),
		Users: list,
	}
}

type TokenResponse struct {
	Token string `json:"token"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Users    int    `json:"active_users"`
}

type InfoResponse struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ResponseError struct {
	Code    string            `json:"code"`
	Errors  []ValidationError `json:"errors"`
	Details any               `json:"details,omitempty"`
}

type SuccessResponse struct {
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error ResponseError `json:"error"`
}
