package accrual

import "github.com/shopspring/decimal"

// Allocation splits a repayment across obligation categories.
type Allocation struct {
	Penalty   decimal.Decimal `json:"penalty"`
	Interest  decimal.Decimal `json:"interest"`
	Principal decimal.Decimal `json:"principal"`
	Excess    decimal.Decimal `json:"excess"`
}

// Total is the sum of all parts including excess.
func (a Allocation) Total() decimal.Decimal {
	return a.Penalty.Add(a.Interest).Add(a.Principal).Add(a.Excess)
}

// Allocate pays down penalty first, then interest, then principal.
// Whatever is left after the outstanding total lands in Excess.
func Allocate(amount decimal.Decimal, outstanding Breakdown) Allocation {
	rest := amount
	if rest.IsNegative() {
		rest = decimal.Zero
	}
	take := func(owed decimal.Decimal) decimal.Decimal {
		if owed.IsNegative() {
			owed = decimal.Zero
		}
		paid := decimal.Min(rest, owed)
		rest = rest.Sub(paid)
		return paid
	}

	var a Allocation
	a.Penalty = take(outstanding.Penalty)
	a.Interest = take(outstanding.Interest)
	a.Principal = take(outstanding.Principal)
	a.Excess = rest
	return a
}

// Outstanding subtracts what was already allocated from owed, per category,
// never going below zero.
func Outstanding(owed Breakdown, paid Allocation) Breakdown {
	sub := func(a, b decimal.Decimal) decimal.Decimal {
		if d := a.Sub(b); d.IsPositive() {
			return d
		}
		return decimal.Zero
	}
	out := owed
	out.Penalty = sub(owed.Penalty, paid.Penalty)
	out.Interest = sub(owed.Interest, paid.Interest)
	out.Principal = sub(owed.Principal, paid.Principal)
	out.Total = out.Principal.Add(out.Interest).Add(out.Penalty)
	return out
}
