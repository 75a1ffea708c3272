package entities

import (
	"database/sql"
	"time"
)

// LoanReportFilter narrows the loan activity report.
type LoanReportFilter struct {
	DateFrom    *time.Time
	DateTo      *time.Time
	StateCodes  []string
	UserIDs     []uint64
	Page        int
	PerPage     int
}

type LoanReportItem struct {
	LoanID       uint64
	UserName     sql.NullString
	ArticleCode  sql.NullString
	ArticleName  sql.NullString
	StateName    sql.NullString
	RequestedAt  time.Time
	DeliveredAt  sql.NullTime
	ReturnedAt   sql.NullTime
	ApproverName sql.NullString
	Observations sql.NullString
}

type ArticleReportItem struct {
	ArticleID    uint64
	Code         string
	Name         string
	CategoryName sql.NullString
	StateName    sql.NullString
	Location     sql.NullString
	Stock        int
	Price        sql.NullFloat64
	ActiveLoans  int
}
