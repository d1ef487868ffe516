package gormrepo

import (
	"context"
	"time"

	loanDomain "coinlend-backend/internal/domain/loan"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *LoanRepository) Save(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *LoanRepository) GetByLoanID(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).Where("loan_id = ?", loanID).First(&out)
	return &out, res.Error
}

func (r *LoanRepository) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("loan_id = ?", loanID).
		First(&out)
	return &out, res.Error
}

func (r *LoanRepository) ListByBorrowerID(ctx context.Context, borrowerID string) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	res := r.db.WithContext(ctx).
		Where("borrower_id = ?", borrowerID).
		Order("created_at DESC, id DESC").
		Find(&out)
	return out, res.Error
}

func (r *LoanRepository) CountByBorrowerAndStatus(ctx context.Context, borrowerID string, statuses ...loanDomain.Status) (int64, error) {
	var n int64
	res := r.db.WithContext(ctx).Model(&loanDomain.Loan{}).
		Where("borrower_id = ? AND status IN ?", borrowerID, statuses).
		Count(&n)
	return n, res.Error
}

func (r *LoanRepository) ListByStatus(ctx context.Context, afterID uint64, limit int, statuses ...loanDomain.Status) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	res := r.db.WithContext(ctx).
		Where("id > ? AND status IN ?", afterID, statuses).
		Order("id ASC").
		Limit(limit).
		Find(&out)
	return out, res.Error
}

func (r *LoanRepository) ListRecent(ctx context.Context, status loanDomain.Status, limit int) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	q := r.db.WithContext(ctx).Order("created_at DESC, id DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	return out, q.Find(&out).Error
}

func (r *LoanRepository) UpdateStatus(ctx context.Context, id uint64, to loanDomain.Status, at time.Time, from ...loanDomain.Status) (bool, error) {
	res := r.db.WithContext(ctx).Model(&loanDomain.Loan{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(map[string]any{"status": to, "status_updated_at": at})
	return res.RowsAffected == 1, res.Error
}

func (r *LoanRepository) MarkRepaid(ctx context.Context, id uint64, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&loanDomain.Loan{}).
		Where("id = ? AND status IN ?", id, []loanDomain.Status{loanDomain.StatusApproved, loanDomain.StatusOverdue}).
		Updates(map[string]any{"status": loanDomain.StatusRepaid, "status_updated_at": at, "repaid_date": at})
	return res.RowsAffected == 1, res.Error
}
