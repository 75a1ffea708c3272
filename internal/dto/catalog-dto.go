package dto

// CatalogItemDTO is the wire shape for every reference table (roles,
// categories, article states, loan states).
type CatalogItemDTO struct {
	ID        uint64 `json:"id"`
	Code      string `json:"code,omitempty"`
	Name      string `json:"name"`
	Active    bool   `json:"active"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

type CreateCatalogItemDTO struct {
	Name string `json:"name" validate:"required,min=1"`
	Code string `json:"code,omitempty" validate:"omitempty,uppercase,min=2"`
}

type UpdateCatalogItemDTO struct {
	Name   *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Active *bool   `json:"active,omitempty"`
}
