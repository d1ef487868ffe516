package approval

import (
	"time"

	"github.com/shopspring/decimal"
)

type ApproveInput struct {
	LoanID  string
	AdminID string
}

type RejectInput struct {
	LoanID  string
	AdminID string
	Reason  string
}

type ReviewDTO struct {
	LoanID        string           `json:"loan_id"`
	Status        string           `json:"status"`
	DueDate       *time.Time       `json:"due_date,omitempty"`
	Disbursed     *decimal.Decimal `json:"disbursed,omitempty"`
	TransactionID string           `json:"transaction_id,omitempty"`
	RejectReason  string           `json:"reject_reason,omitempty"`
	ReviewedAt    time.Time        `json:"reviewed_at"`
}
