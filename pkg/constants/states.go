package constants

// Loan state codes. These match the `code` column of loan_states seeded by
// the migrations; services resolve states through these constants, never by
// display name.
const (
	LoanPending   = "PENDING"
	LoanApproved  = "APPROVED"
	LoanDelivered = "DELIVERED"
	LoanReturned  = "RETURNED"
	LoanRejected  = "REJECTED"
	LoanOverdue   = "OVERDUE"
)

// Active (non-terminal) loan states. A (user, article) pair may hold at most
// one loan in any of these states.
var ActiveLoanStates = []string{
	LoanPending,
	LoanApproved,
	LoanDelivered,
}

func IsActiveLoanState(code string) bool {
	for _, s := range ActiveLoanStates {
		if s == code {
			return true
		}
	}
	return false
}

// Article state codes, matching article_states.code.
const (
	ArticleAvailable   = "AVAILABLE"
	ArticleLoaned      = "LOANED"
	ArticleMaintenance = "MAINTENANCE"
	ArticleDamaged     = "DAMAGED"
)

// Audit action verbs.
const (
	ActionCreate  = "CREATE"
	ActionUpdate  = "UPDATE"
	ActionDelete  = "DELETE"
	ActionLogin   = "LOGIN"
	ActionApprove = "APPROVE"
	ActionReject  = "REJECT"
	ActionDeliver = "DELIVER"
	ActionReturn  = "RETURN"
	ActionExport  = "EXPORT"
	ActionCleanup = "CLEANUP"
)

// Role names and their seeded ids. Self-registered accounts get RoleUserID.
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"

	RoleAdminID uint64 = 1
	RoleUserID  uint64 = 2
)
