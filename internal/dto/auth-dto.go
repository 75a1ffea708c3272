package dto

type LoginDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type RegisterDTO struct {
	NationalID string `json:"national_id" validate:"required,min=3"`
	FirstName  string `json:"first_name" validate:"required,min=1"`
	LastName   string `json:"last_name" validate:"required,min=1"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone,omitempty"`
	Password   string `json:"password" validate:"required,min=6"`
}

type AuthResponseDTO struct {
	AccessToken string        `json:"accessToken"`
	ExpiresIn   int64         `json:"expiresIn"`
	User        UserPublicDTO `json:"user"`
}

type UserPublicDTO struct {
	ID       uint64 `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	RoleID   uint64 `json:"role_id"`
	RoleName string `json:"role_name"`
}
