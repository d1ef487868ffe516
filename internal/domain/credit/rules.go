package credit

import (
	"errors"
	"time"
)

const (
	VelocityWindow    = time.Hour
	VelocityThreshold = 3
	VelocityPenalty   = 10
	OverduePerDay     = 2
	MinScore          = 0
	WithdrawMinScore  = 100
)

type Action string

const (
	ActionWithdraw Action = "withdraw"
	ActionTrade    Action = "trade"
)

func (a Action) Reason() Reason {
	if a == ActionTrade {
		return ReasonTradeVelocity
	}
	return ReasonWithdrawalVelocity
}

var (
	ErrRateLimited    = errors.New("too many attempts, action blocked")
	ErrCreditTooLow   = errors.New("credit score too low")
	ErrAlreadyApplied = errors.New("credit penalty already applied")
)

// CanWithdraw: any deduction blocks withdrawals until the score is restored.
func CanWithdraw(score int) bool { return score >= WithdrawMinScore }

// OverdueDeduction is 2 points per day past the penalty threshold.
func OverdueDeduction(daysOverdue int) int {
	if daysOverdue <= 0 {
		return 0
	}
	return OverduePerDay * daysOverdue
}

// Apply subtracts delta from score, never going below MinScore.
func Apply(score, delta int) int {
	if n := score - delta; n > MinScore {
		return n
	}
	return MinScore
}
