package dto

type LoanReportItemDTO struct {
	LoanID       uint64 `json:"loan_id"`
	UserName     string `json:"user_name"`
	ArticleCode  string `json:"article_code"`
	ArticleName  string `json:"article_name"`
	StateName    string `json:"state_name"`
	RequestedAt  string `json:"requested_at"`
	DeliveredAt  string `json:"delivered_at,omitempty"`
	ReturnedAt   string `json:"returned_at,omitempty"`
	ApproverName string `json:"approver_name,omitempty"`
	Observations string `json:"observations,omitempty"`
}

type ArticleReportItemDTO struct {
	ArticleID    uint64  `json:"article_id"`
	Code         string  `json:"code"`
	Name         string  `json:"name"`
	CategoryName string  `json:"category_name"`
	StateName    string  `json:"state_name"`
	Location     string  `json:"location,omitempty"`
	Stock        int     `json:"stock"`
	Price        float64 `json:"price,omitempty"`
	ActiveLoans  int     `json:"active_loans"`
}
