package repayment

import (
	"github.com/shopspring/decimal"

	"coinlend-backend/internal/domain/accrual"
)

const MaxReceiptBytes = 5 << 20

// DefaultTolerance absorbs drift between the quoted total and submission time.
var DefaultTolerance = decimal.NewFromFloat(0.01)

// Proposal is what the borrower submits.
type Proposal struct {
	Amount       decimal.Decimal
	Type         Type
	ReceiptBytes int
}

// Accepted is the validated amount the pending record is created with.
type Accepted struct {
	Amount  decimal.Decimal
	Type    Type
	Preview accrual.Allocation
}

// Validator checks a proposal against the current owed total.
type Validator struct {
	Tolerance       decimal.Decimal
	MaxReceiptBytes int
}

func NewValidator() Validator {
	return Validator{Tolerance: DefaultTolerance, MaxReceiptBytes: MaxReceiptBytes}
}

// Validate uses the default tolerance and receipt cap.
func Validate(p Proposal, owed accrual.Breakdown) (Accepted, error) {
	return NewValidator().Validate(p, owed)
}

func (v Validator) Validate(p Proposal, owed accrual.Breakdown) (Accepted, error) {
	if !p.Type.Valid() {
		return Accepted{}, ErrInvalidType
	}
	if v.MaxReceiptBytes > 0 && p.ReceiptBytes > v.MaxReceiptBytes {
		return Accepted{}, ErrPayloadTooLarge
	}

	amount := p.Amount
	if p.Type.SettlesInFull() {
		amount = owed.Total
	}
	if !amount.IsPositive() {
		return Accepted{}, ErrInvalidAmount
	}
	limit := owed.Total.Mul(decimal.NewFromInt(1).Add(v.Tolerance))
	if amount.GreaterThan(limit) {
		return Accepted{}, ErrAmountExceedsOwed
	}

	return Accepted{
		Amount:  amount,
		Type:    p.Type,
		Preview: accrual.Allocate(amount, owed),
	}, nil
}
