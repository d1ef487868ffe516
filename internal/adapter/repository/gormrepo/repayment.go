package gormrepo

import (
	"context"
	"time"

	repaymentDomain "coinlend-backend/internal/domain/repayment"

	"gorm.io/gorm"
)

type RepaymentRepository struct{ db *gorm.DB }

func NewRepaymentRepository(db *gorm.DB) *RepaymentRepository {
	return &RepaymentRepository{db: db}
}

func (r *RepaymentRepository) Create(ctx context.Context, p *repaymentDomain.Repayment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *RepaymentRepository) Save(ctx context.Context, p *repaymentDomain.Repayment) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *RepaymentRepository) GetByRepaymentID(ctx context.Context, repaymentID string) (*repaymentDomain.Repayment, error) {
	var out repaymentDomain.Repayment
	res := r.db.WithContext(ctx).Where("repayment_id = ?", repaymentID).First(&out)
	return &out, res.Error
}

func (r *RepaymentRepository) ListByLoanID(ctx context.Context, loanID uint64) ([]repaymentDomain.Repayment, error) {
	var out []repaymentDomain.Repayment
	res := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("created_at ASC, id ASC").
		Find(&out)
	return out, res.Error
}

func (r *RepaymentRepository) ListByStatus(ctx context.Context, status repaymentDomain.Status, limit int) ([]repaymentDomain.Repayment, error) {
	var out []repaymentDomain.Repayment
	q := r.db.WithContext(ctx).Order("created_at DESC, id DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	return out, q.Find(&out).Error
}

func (r *RepaymentRepository) Review(ctx context.Context, id uint64, to repaymentDomain.Status, reviewer, reason string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&repaymentDomain.Repayment{}).
		Where("id = ? AND status = ?", id, repaymentDomain.StatusPending).
		Updates(map[string]any{
			"status":        to,
			"reviewed_by":   reviewer,
			"reject_reason": reason,
			"reviewed_at":   at,
		})
	return res.RowsAffected == 1, res.Error
}
