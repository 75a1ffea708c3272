package dto

import "github.com/aarondl/null/v8"

type LoanDTO struct {
	ID                  uint64      `json:"id"`
	UserID              uint64      `json:"user_id"`
	UserName            string      `json:"user_name,omitempty"`
	ArticleID           uint64      `json:"article_id"`
	ArticleCode         string      `json:"article_code,omitempty"`
	ArticleName         string      `json:"article_name,omitempty"`
	StateID             uint64      `json:"state_id"`
	StateCode           string      `json:"state_code"`
	StateName           string      `json:"state_name,omitempty"`
	RequestedAt         string      `json:"requested_at"`
	EstimatedDeliveryAt null.String `json:"estimated_delivery_at"`
	EstimatedReturnAt   null.String `json:"estimated_return_at"`
	DeliveredAt         null.String `json:"delivered_at"`
	ReturnedAt          null.String `json:"returned_at"`
	ApprovedBy          null.Uint64 `json:"approved_by"`
	ApprovedAt          null.String `json:"approved_at"`
	Observations        string      `json:"observations,omitempty"`
	CreatedAt           string      `json:"created_at"`
	UpdatedAt           string      `json:"updated_at,omitempty"`
}

type CreateLoanDTO struct {
	UserID              uint64    `json:"user_id" validate:"required,gt=0"`
	ArticleID           uint64    `json:"article_id" validate:"required,gt=0"`
	EstimatedDeliveryAt null.Time `json:"estimated_delivery_at"`
	EstimatedReturnAt   null.Time `json:"estimated_return_at"`
	Observations        string    `json:"observations,omitempty"`
}

// UpdateLoanDTO covers the non-lifecycle fields; it is accepted in any
// state and never changes the state itself.
type UpdateLoanDTO struct {
	EstimatedDeliveryAt null.Time `json:"estimated_delivery_at"`
	EstimatedReturnAt   null.Time `json:"estimated_return_at"`
	Observations        *string   `json:"observations,omitempty"`
}

// ApproveLoanDTO moves a pending loan to approved. When DeliveredAt is set
// the loan goes straight to delivered and the article flips to loaned.
type ApproveLoanDTO struct {
	Observations string    `json:"observations,omitempty"`
	DeliveredAt  null.Time `json:"delivered_at"`
}

type RejectLoanDTO struct {
	Observations string `json:"observations,omitempty"`
}

type ReturnLoanDTO struct {
	Observations string `json:"observations,omitempty"`
}
