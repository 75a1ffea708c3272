package entities

import (
	"database/sql"
	"time"
)

type Loan struct {
	ID                  uint64
	UserID              uint64
	UserName            sql.NullString
	ArticleID           uint64
	ArticleCode         sql.NullString
	ArticleName         sql.NullString
	LoanStateID         uint64
	StateCode           string
	StateName           sql.NullString
	RequestedAt         time.Time
	EstimatedDeliveryAt sql.NullTime
	EstimatedReturnAt   sql.NullTime
	DeliveredAt         sql.NullTime
	ReturnedAt          sql.NullTime
	ApprovedBy          sql.NullInt64
	ApprovedAt          sql.NullTime
	Observations        sql.NullString
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
