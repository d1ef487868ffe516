package gormrepo

import (
	"context"

	creditDomain "coinlend-backend/internal/domain/credit"

	"gorm.io/gorm"
)

type CreditLogRepository struct{ db *gorm.DB }

func NewCreditLogRepository(db *gorm.DB) *CreditLogRepository {
	return &CreditLogRepository{db: db}
}

// Create only ever inserts; credit logs are never updated.
func (r *CreditLogRepository) Create(ctx context.Context, l *creditDomain.Log) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *CreditLogRepository) ExistsForLoanOn(ctx context.Context, loanID uint64, day string) (bool, error) {
	var n int64
	res := r.db.WithContext(ctx).Model(&creditDomain.Log{}).
		Where("loan_id = ? AND log_date = ?", loanID, day).
		Count(&n)
	return n > 0, res.Error
}

func (r *CreditLogRepository) ListByUser(ctx context.Context, userID string, limit int) ([]creditDomain.Log, error) {
	var out []creditDomain.Log
	q := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	return out, q.Find(&out).Error
}
