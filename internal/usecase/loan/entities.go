package loan

import (
	"time"

	"github.com/shopspring/decimal"

	"coinlend-backend/internal/domain/accrual"
	domain "coinlend-backend/internal/domain/loan"
)

type ApplyInput struct {
	BorrowerID string
	Principal  decimal.Decimal
}

type LoanDTO struct {
	LoanID          string             `json:"loan_id"`
	BorrowerID      string             `json:"borrower_id"`
	Principal       decimal.Decimal    `json:"principal"`
	Currency        string             `json:"currency"`
	InterestRate    decimal.Decimal    `json:"interest_rate"`
	TermDays        int                `json:"term_days"`
	Status          string             `json:"status"`
	EffectiveStatus string             `json:"effective_status"`
	BorrowDate      time.Time          `json:"borrow_date"`
	DueDate         *time.Time         `json:"due_date,omitempty"`
	RepaidDate      *time.Time         `json:"repaid_date,omitempty"`
	RejectReason    string             `json:"reject_reason,omitempty"`
	Owed            *accrual.Breakdown `json:"owed,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
}

// QuoteDTO is what a borrower would settle right now.
type QuoteDTO struct {
	LoanID          string              `json:"loan_id"`
	EffectiveStatus string              `json:"effective_status"`
	Owed            accrual.Breakdown   `json:"owed"`
	Paid            accrual.Allocation  `json:"paid"`
	Outstanding     accrual.Breakdown   `json:"outstanding"`
	Amount          *decimal.Decimal    `json:"amount,omitempty"`
	Preview         *accrual.Allocation `json:"preview,omitempty"`
	QuotedAt        time.Time           `json:"quoted_at"`
}

func toDTO(l *domain.Loan, s accrual.Schedule, now time.Time) LoanDTO {
	dto := LoanDTO{
		LoanID:          l.LoanID,
		BorrowerID:      l.BorrowerID,
		Principal:       l.Principal,
		Currency:        l.Currency,
		InterestRate:    l.InterestRate,
		TermDays:        l.TermDays,
		Status:          string(l.Status),
		EffectiveStatus: string(l.Status),
		BorrowDate:      l.BorrowDate,
		DueDate:         l.DueDate,
		RepaidDate:      l.RepaidDate,
		RejectReason:    l.RejectReason,
		CreatedAt:       l.CreatedAt,
	}
	if l.Status.Active() {
		b := s.Calculate(l.Principal, l.BorrowDate, now)
		dto.Owed = &b
		dto.EffectiveStatus = string(domain.EffectiveStatus(l.Status, b.Overdue()))
	}
	return dto
}
