package request

type RegisterRequest struct {
	Name     string `json:"name,omitempty" validate:"required,min=2,max=100"`
	Email    string `json:"email,omitempty" validate:"required,email,max=120"`
	Password string `json:"password,omitempty" validate:"required,min=6,max=128"`
	Age      *int   `json:"age,omitempty" validate:"omitempty,gte=1,lte=150"`
}

type LoginRequest struct {
	Email    string `json:"email,omitempty" validate:"required,email,max=120"`
	Password string `json:"password,omitempty" validate:"required,min=6,max=128"`
}

type UserRequest struct {
	Name     string `json:"name,omitempty" validate:"required,min=2,max=100"`
	Email    string `json:"email,omitempty" validate:"required,email,max=120"`
	Password string `json:"password,omitempty" validate:"required,min=6,max=128"`
	Age      *int   `json:"age,omitempty" validate:"omitempty,gte=1,lte=150"`
}

// UpdateUserRequest is a partial update. Absent fields keep their value.
type UpdateUserRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email,max=120"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=6,max=128"`
	Age      *int    `json:"age,omitempty" validate:"omitempty,gte=1,lte=150"`
}
