package dto

type UserDTO struct {
	ID           uint64 `json:"id"`
	NationalID   string `json:"national_id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone,omitempty"`
	RoleID       uint64 `json:"role_id"`
	RoleName     string `json:"role_name,omitempty"`
	Active       bool   `json:"active"`
	CreatedAt    string `json:"created_at"`
	LastAccessAt string `json:"last_access_at,omitempty"`
}

type CreateUserDTO struct {
	NationalID string `json:"national_id" validate:"required,min=3"`
	FirstName  string `json:"first_name" validate:"required,min=1"`
	LastName   string `json:"last_name" validate:"required,min=1"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone,omitempty"`
	Password   string `json:"password" validate:"required,min=6"`
	RoleID     uint64 `json:"role_id" validate:"required,gt=0"`
}

type UpdateUserDTO struct {
	FirstName *string `json:"first_name,omitempty" validate:"omitempty,min=1"`
	LastName  *string `json:"last_name,omitempty" validate:"omitempty,min=1"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone     *string `json:"phone,omitempty"`
	Password  *string `json:"password,omitempty" validate:"omitempty,min=6"`
	RoleID    *uint64 `json:"role_id,omitempty" validate:"omitempty,gt=0"`
	Active    *bool   `json:"active,omitempty"`
}
