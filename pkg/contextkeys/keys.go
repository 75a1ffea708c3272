package contextkeys

type contextKey string

const (
	UserIDKey    contextKey = "UserID"
	UserRoleKey  contextKey = "UserRole"
	RequestIDKey contextKey = "RequestID"
	ClientIPKey  contextKey = "ClientIP"
	UserAgentKey contextKey = "UserAgent"
)
