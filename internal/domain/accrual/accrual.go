// Package accrual computes what a borrower owes on a loan at a given instant.
//
// The schedule is tiered by whole days since the borrow date: an interest-free
// grace window, a daily-interest window, and a penalty window in which interest
// is frozen and a daily penalty accrues instead. Nothing here is cached; callers
// recompute on every read so the figures follow the wall clock.
package accrual

import (
	"time"

	"github.com/shopspring/decimal"
)

const day = 24 * time.Hour

// Schedule holds the tier boundaries and daily rates.
type Schedule struct {
	GraceDays         int             `yaml:"grace_days"`
	PenaltyAfterDays  int             `yaml:"penalty_after_days"`
	DailyInterestRate decimal.Decimal `yaml:"daily_interest_rate"`
	DailyPenaltyRate  decimal.Decimal `yaml:"daily_penalty_rate"`
}

// DefaultSchedule: days 0-7 free, 1%/day on days 8-15, then 2%/day penalty.
func DefaultSchedule() Schedule {
	return Schedule{
		GraceDays:         7,
		PenaltyAfterDays:  15,
		DailyInterestRate: decimal.NewFromFloat(0.01),
		DailyPenaltyRate:  decimal.NewFromFloat(0.02),
	}
}

// Breakdown is the derived owed amount; never persisted.
type Breakdown struct {
	Principal   decimal.Decimal `json:"principal"`
	Interest    decimal.Decimal `json:"interest"`
	Penalty     decimal.Decimal `json:"penalty"`
	Total       decimal.Decimal `json:"total"`
	DaysElapsed int             `json:"days_elapsed"`

	penaltyAfter int
}

// Overdue reports whether the penalty tier has been entered.
func (b Breakdown) Overdue() bool { return b.DaysElapsed > b.threshold() }

// DaysOverdue is the number of whole days past the penalty threshold.
func (b Breakdown) DaysOverdue() int {
	if d := b.DaysElapsed - b.threshold(); d > 0 {
		return d
	}
	return 0
}

func (b Breakdown) threshold() int {
	if b.penaltyAfter == 0 {
		return DefaultSchedule().PenaltyAfterDays
	}
	return b.penaltyAfter
}

// DaysElapsed truncates now-borrowDate to whole days. A clock that reads
// earlier than borrowDate yields 0.
func DaysElapsed(borrowDate, now time.Time) int {
	d := now.Sub(borrowDate)
	if d <= 0 {
		return 0
	}
	return int(d / day)
}

// Calculate evaluates the default schedule.
func Calculate(principal decimal.Decimal, borrowDate, now time.Time) Breakdown {
	return DefaultSchedule().Calculate(principal, borrowDate, now)
}

// Calculate evaluates s for principal borrowed at borrowDate, as of now.
func (s Schedule) Calculate(principal decimal.Decimal, borrowDate, now time.Time) Breakdown {
	return s.AtDay(principal, DaysElapsed(borrowDate, now))
}

// AtDay evaluates s for a given number of elapsed days.
func (s Schedule) AtDay(principal decimal.Decimal, days int) Breakdown {
	if days < 0 {
		days = 0
	}
	interest := decimal.Zero
	penalty := decimal.Zero

	switch {
	case days <= s.GraceDays:
	case days <= s.PenaltyAfterDays:
		interest = principal.Mul(s.DailyInterestRate).Mul(decimal.NewFromInt(int64(days - s.GraceDays)))
	default:
		window := int64(s.PenaltyAfterDays - s.GraceDays)
		interest = principal.Mul(s.DailyInterestRate).Mul(decimal.NewFromInt(window))
		penalty = principal.Mul(s.DailyPenaltyRate).Mul(decimal.NewFromInt(int64(days - s.PenaltyAfterDays)))
	}

	return Breakdown{
		Principal:    principal,
		Interest:     interest,
		Penalty:      penalty,
		Total:        principal.Add(interest).Add(penalty),
		DaysElapsed:  days,
		penaltyAfter: s.PenaltyAfterDays,
	}
}

// DueDate is the end of the interest window; penalties start the day after.
func (s Schedule) DueDate(borrowDate time.Time) time.Time {
	return borrowDate.Add(time.Duration(s.PenaltyAfterDays) * day)
}
