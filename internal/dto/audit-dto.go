package dto

import "encoding/json"

type AuditLogDTO struct {
	ID        uint64          `json:"id"`
	UserID    *uint64         `json:"user_id,omitempty"`
	Action    string          `json:"action"`
	TableName string          `json:"table_name"`
	RecordID  *uint64         `json:"record_id,omitempty"`
	OldValue  json.RawMessage `json:"old_value,omitempty"`
	NewValue  json.RawMessage `json:"new_value,omitempty"`
	ClientIP  string          `json:"client_ip,omitempty"`
	UserAgent string          `json:"user_agent,omitempty"`
	RequestID string          `json:"request_id,omitempty"`
	CreatedAt string          `json:"created_at"`
}

type CleanupResultDTO struct {
	DeletedRows int64 `json:"deletedRows"`
	CutoffDays  int   `json:"cutoffDays"`
}
