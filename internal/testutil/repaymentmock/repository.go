package repaymentmock

import (
	"context"
	"time"

	domain "coinlend-backend/internal/domain/repayment"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn           func(ctx context.Context, r *domain.Repayment) error
	GetByRepaymentIDFn func(ctx context.Context, repaymentID string) (*domain.Repayment, error)
	ListByLoanIDFn     func(ctx context.Context, loanID uint64) ([]domain.Repayment, error)
	ListByStatusFn     func(ctx context.Context, status domain.Status, limit int) ([]domain.Repayment, error)
	ReviewFn           func(ctx context.Context, id uint64, to domain.Status, reviewer, reason string, at time.Time) (bool, error)
	SaveFn             func(ctx context.Context, r *domain.Repayment) error
}

func (m *Repo) Create(ctx context.Context, r *domain.Repayment) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, r)
	}
	return nil
}

func (m *Repo) GetByRepaymentID(ctx context.Context, repaymentID string) (*domain.Repayment, error) {
	if m.GetByRepaymentIDFn != nil {
		return m.GetByRepaymentIDFn(ctx, repaymentID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByLoanID(ctx context.Context, loanID uint64) ([]domain.Repayment, error) {
	if m.ListByLoanIDFn != nil {
		return m.ListByLoanIDFn(ctx, loanID)
	}
	return nil, nil
}

func (m *Repo) ListByStatus(ctx context.Context, status domain.Status, limit int) ([]domain.Repayment, error) {
	if m.ListByStatusFn != nil {
		return m.ListByStatusFn(ctx, status, limit)
	}
	return nil, nil
}

func (m *Repo) Review(ctx context.Context, id uint64, to domain.Status, reviewer, reason string, at time.Time) (bool, error) {
	if m.ReviewFn != nil {
		return m.ReviewFn(ctx, id, to, reviewer, reason, at)
	}
	return false, nil
}

func (m *Repo) Save(ctx context.Context, r *domain.Repayment) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, r)
	}
	return nil
}
