package repayment

import (
	"time"

	"github.com/shopspring/decimal"

	"coinlend-backend/internal/domain/accrual"
	domain "coinlend-backend/internal/domain/repayment"
)

type SubmitInput struct {
	UserID             string
	LoanID             string
	Amount             decimal.Decimal
	Type               domain.Type
	Receipt            []byte
	ReceiptContentType string
}

type ApproveInput struct {
	RepaymentID string
	AdminID     string
}

type RejectInput struct {
	RepaymentID string
	AdminID     string
	Reason      string
}

type RepaymentDTO struct {
	RepaymentID  string              `json:"repayment_id"`
	LoanID       string              `json:"loan_id"`
	UserID       string              `json:"user_id"`
	Amount       decimal.Decimal     `json:"amount"`
	Type         string              `json:"repayment_type"`
	Status       string              `json:"status"`
	ReceiptRef   string              `json:"receipt_ref,omitempty"`
	RejectReason string              `json:"reject_reason,omitempty"`
	Allocation   *accrual.Allocation `json:"allocation,omitempty"`
	Preview      *accrual.Allocation `json:"preview,omitempty"`
	LoanSettled  bool                `json:"loan_settled,omitempty"`
	ReviewedAt   *time.Time          `json:"reviewed_at,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
}

func toDTO(r *domain.Repayment) RepaymentDTO {
	dto := RepaymentDTO{
		RepaymentID:  r.RepaymentID,
		LoanID:       r.PublicLoanID,
		UserID:       r.UserID,
		Amount:       r.Amount,
		Type:         string(r.Type),
		Status:       string(r.Status),
		ReceiptRef:   r.ReceiptRef,
		RejectReason: r.RejectReason,
		ReviewedAt:   r.ReviewedAt,
		CreatedAt:    r.CreatedAt,
	}
	if r.Status == domain.StatusApproved {
		a := r.Allocation()
		dto.Allocation = &a
	}
	return dto
}
