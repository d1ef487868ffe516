package loan

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	// GetByLoanIDForUpdate locks the row until the surrounding tx ends.
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*Loan, error)
	ListByBorrowerID(ctx context.Context, borrowerID string) ([]Loan, error)
	CountByBorrowerAndStatus(ctx context.Context, borrowerID string, statuses ...Status) (int64, error)
	// ListByStatus pages by ascending numeric id, starting after afterID.
	ListByStatus(ctx context.Context, afterID uint64, limit int, statuses ...Status) ([]Loan, error)
	// ListRecent is newest first; an empty status matches all.
	ListRecent(ctx context.Context, status Status, limit int) ([]Loan, error)
	// UpdateStatus moves the loan only if it is currently in one of from;
	// it reports whether a row changed.
	UpdateStatus(ctx context.Context, id uint64, to Status, at time.Time, from ...Status) (bool, error)
	// MarkRepaid closes an approved/overdue loan and stamps repaid_date.
	MarkRepaid(ctx context.Context, id uint64, at time.Time) (bool, error)
	Save(ctx context.Context, l *Loan) error
}
