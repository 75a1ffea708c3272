package dto

import "github.com/aarondl/null/v8"

type ArticleDTO struct {
	ID           uint64       `json:"id"`
	Code         string       `json:"code"`
	Name         string       `json:"name"`
	Team         string       `json:"team,omitempty"`
	Season       string       `json:"season,omitempty"`
	Size         string       `json:"size,omitempty"`
	Color        string       `json:"color,omitempty"`
	Price        null.Float64 `json:"price"`
	CategoryID   uint64       `json:"category_id"`
	CategoryName string       `json:"category_name,omitempty"`
	StateID      uint64       `json:"state_id"`
	StateCode    string       `json:"state_code"`
	StateName    string       `json:"state_name,omitempty"`
	Location     string       `json:"location,omitempty"`
	Stock        int          `json:"stock"`
	Active       bool         `json:"active"`
	CreatedAt    string       `json:"created_at"`
	UpdatedAt    string       `json:"updated_at,omitempty"`
}

type CreateArticleDTO struct {
	Code       string       `json:"code" validate:"required,min=1"`
	Name       string       `json:"name" validate:"required,min=1"`
	Team       string       `json:"team,omitempty"`
	Season     string       `json:"season,omitempty"`
	Size       string       `json:"size,omitempty"`
	Color      string       `json:"color,omitempty"`
	Price      null.Float64 `json:"price" validate:"omitempty"`
	CategoryID uint64       `json:"category_id" validate:"required,gt=0"`
	Location   string       `json:"location,omitempty"`
	Stock      int          `json:"stock" validate:"gte=0"`
}

type UpdateArticleDTO struct {
	Code     *string      `json:"code,omitempty" validate:"omitempty,min=1"`
	Name     *string      `json:"name,omitempty" validate:"omitempty,min=1"`
	Team     *string      `json:"team,omitempty"`
	Season   *string      `json:"season,omitempty"`
	Size     *string      `json:"size,omitempty"`
	Color    *string      `json:"color,omitempty"`
	Price    null.Float64 `json:"price,omitempty"`
	Category *uint64      `json:"category_id,omitempty" validate:"omitempty,gt=0"`
	StateID  *uint64      `json:"state_id,omitempty" validate:"omitempty,gt=0"`
	Location *string      `json:"location,omitempty"`
	Stock    *int         `json:"stock,omitempty" validate:"omitempty,gte=0"`
}

// StockSummaryDTO answers the aggregate stock queries.
type StockSummaryDTO struct {
	TotalStock     int `json:"totalStock"`
	AvailableStock int `json:"availableStock"`
}
