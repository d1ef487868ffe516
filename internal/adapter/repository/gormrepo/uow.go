package gormrepo

import (
	"context"

	"coinlend-backend/internal/domain/loan"
	"coinlend-backend/internal/domain/uow"

	"gorm.io/gorm"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

// NewRepos binds every repository to db (a plain handle or a tx).
func NewRepos(db *gorm.DB) uow.Repos {
	return uow.Repos{
		Loans:        &LoanRepository{db: db},
		Repayments:   &RepaymentRepository{db: db},
		Profiles:     &ProfileRepository{db: db},
		Assets:       &AssetRepository{db: db},
		Transactions: &TransactionRepository{db: db},
		KYC:          &KYCRepository{db: db},
		CreditLogs:   &CreditLogRepository{db: db},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepos(tx))
	})
}

func (u *GormUoW) WithinLoanTx(ctx context.Context, loanID string, fn func(r uow.Repos, l *loan.Loan) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := NewRepos(tx)
		// lock the loan row up-front to prevent races
		l, err := r.Loans.GetByLoanIDForUpdate(ctx, loanID)
		if err != nil {
			return err
		}
		return fn(r, l)
	})
}
