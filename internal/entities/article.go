package entities

import (
	"database/sql"
	"time"
)

type Article struct {
	ID             uint64
	Code           string
	Name           string
	Team           sql.NullString
	Season         sql.NullString
	Size           sql.NullString
	Color          sql.NullString
	Price          sql.NullFloat64
	CategoryID     uint64
	CategoryName   sql.NullString
	ArticleStateID uint64
	StateCode      string
	StateName      sql.NullString
	Location       sql.NullString
	Stock          int
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
