package loan

import (
	"github.com/shopspring/decimal"

	"coinlend-backend/internal/domain/accrual"
)

func accrualAlloc(penalty, interest, principal int64) accrual.Allocation {
	return accrual.Allocation{
		Penalty:   decimal.NewFromInt(penalty),
		Interest:  decimal.NewFromInt(interest),
		Principal: decimal.NewFromInt(principal),
	}
}
