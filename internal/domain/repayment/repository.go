package repayment

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, r *Repayment) error
	GetByRepaymentID(ctx context.Context, repaymentID string) (*Repayment, error)
	// ListByLoanID returns repayments oldest first.
	ListByLoanID(ctx context.Context, loanID uint64) ([]Repayment, error)
	ListByStatus(ctx context.Context, status Status, limit int) ([]Repayment, error)
	// Review flips pending -> to, reporting whether this call won.
	Review(ctx context.Context, id uint64, to Status, reviewer, reason string, at time.Time) (bool, error)
	Save(ctx context.Context, r *Repayment) error
}
