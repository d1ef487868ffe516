package uow

import (
	"context"

	"coinlend-backend/internal/domain/account"
	"coinlend-backend/internal/domain/credit"
	"coinlend-backend/internal/domain/loan"
	"coinlend-backend/internal/domain/repayment"
)

// Repos are bound to the same transaction.
type Repos struct {
	Loans        loan.Repository
	Repayments   repayment.Repository
	Profiles     account.ProfileRepository
	Assets       account.AssetRepository
	Transactions account.TransactionRepository
	KYC          account.KYCRepository
	CreditLogs   credit.LogRepository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock loan first, then pass it in
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}
