package loanmock

import (
	"context"
	"time"

	domain "coinlend-backend/internal/domain/loan"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Unset lookups return context.Canceled; unset writes are no-ops.
type Repo struct {
	CreateFn                   func(ctx context.Context, l *domain.Loan) error
	GetByLoanIDFn              func(ctx context.Context, loanID string) (*domain.Loan, error)
	GetByLoanIDForUpdateFn     func(ctx context.Context, loanID string) (*domain.Loan, error)
	ListByBorrowerIDFn         func(ctx context.Context, borrowerID string) ([]domain.Loan, error)
	CountByBorrowerAndStatusFn func(ctx context.Context, borrowerID string, statuses ...domain.Status) (int64, error)
	ListByStatusFn             func(ctx context.Context, afterID uint64, limit int, statuses ...domain.Status) ([]domain.Loan, error)
	ListRecentFn               func(ctx context.Context, status domain.Status, limit int) ([]domain.Loan, error)
	UpdateStatusFn             func(ctx context.Context, id uint64, to domain.Status, at time.Time, from ...domain.Status) (bool, error)
	MarkRepaidFn               func(ctx context.Context, id uint64, at time.Time) (bool, error)
	SaveFn                     func(ctx context.Context, l *domain.Loan) error
}

func (m *Repo) Create(ctx context.Context, l *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDFn != nil {
		return m.GetByLoanIDFn(ctx, loanID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDForUpdateFn != nil {
		return m.GetByLoanIDForUpdateFn(ctx, loanID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByBorrowerID(ctx context.Context, borrowerID string) ([]domain.Loan, error) {
	if m.ListByBorrowerIDFn != nil {
		return m.ListByBorrowerIDFn(ctx, borrowerID)
	}
	return nil, context.Canceled
}

func (m *Repo) CountByBorrowerAndStatus(ctx context.Context, borrowerID string, statuses ...domain.Status) (int64, error) {
	if m.CountByBorrowerAndStatusFn != nil {
		return m.CountByBorrowerAndStatusFn(ctx, borrowerID, statuses...)
	}
	return 0, context.Canceled
}

func (m *Repo) ListByStatus(ctx context.Context, afterID uint64, limit int, statuses ...domain.Status) ([]domain.Loan, error) {
	if m.ListByStatusFn != nil {
		return m.ListByStatusFn(ctx, afterID, limit, statuses...)
	}
	return nil, context.Canceled
}

func (m *Repo) ListRecent(ctx context.Context, status domain.Status, limit int) ([]domain.Loan, error) {
	if m.ListRecentFn != nil {
		return m.ListRecentFn(ctx, status, limit)
	}
	return nil, context.Canceled
}

func (m *Repo) UpdateStatus(ctx context.Context, id uint64, to domain.Status, at time.Time, from ...domain.Status) (bool, error) {
	if m.UpdateStatusFn != nil {
		return m.UpdateStatusFn(ctx, id, to, at, from...)
	}
	return false, nil
}

func (m *Repo) MarkRepaid(ctx context.Context, id uint64, at time.Time) (bool, error) {
	if m.MarkRepaidFn != nil {
		return m.MarkRepaidFn(ctx, id, at)
	}
	return false, nil
}

func (m *Repo) Save(ctx context.Context, l *domain.Loan) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, l)
	}
	return nil
}
