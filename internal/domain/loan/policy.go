package loan

import (
	"github.com/shopspring/decimal"

	"coinlend-backend/internal/domain/accrual"
)

// Policy holds the lending limits applied at application time.
type Policy struct {
	MinAmount      decimal.Decimal  `yaml:"min_loan_amount"`
	MaxAmount      decimal.Decimal  `yaml:"max_loan_amount"`
	MaxActiveLoans int              `yaml:"max_active_loans"`
	Schedule       accrual.Schedule `yaml:"schedule"`
}

const (
	MinLoanAmount  = 5_000
	MaxLoanAmount  = 100_000
	MaxActiveLoans = 3
)

func DefaultPolicy() Policy {
	return Policy{
		MinAmount:      decimal.NewFromInt(MinLoanAmount),
		MaxAmount:      decimal.NewFromInt(MaxLoanAmount),
		MaxActiveLoans: MaxActiveLoans,
		Schedule:       accrual.DefaultSchedule(),
	}
}

// InRange checks min <= amount <= max.
func (p Policy) InRange(amount decimal.Decimal) bool {
	return amount.GreaterThanOrEqual(p.MinAmount) && amount.LessThanOrEqual(p.MaxAmount)
}
