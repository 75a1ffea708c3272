package entities

import (
	"database/sql"
	"time"
)

type AuditLog struct {
	ID        uint64
	UserID    sql.NullInt64
	Action    string
	TableName string
	RecordID  sql.NullInt64
	OldValue  []byte
	NewValue  []byte
	ClientIP  sql.NullString
	UserAgent sql.NullString
	RequestID sql.NullString
	CreatedAt time.Time
}
