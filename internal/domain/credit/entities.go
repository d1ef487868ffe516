package credit

import (
	"time"
)

type Reason string

const (
	ReasonWithdrawalVelocity Reason = "withdrawal_velocity"
	ReasonTradeVelocity      Reason = "trade_velocity"
	ReasonLoanOverdue        Reason = "loan_overdue"
	ReasonAdminRestore       Reason = "admin_restore"
)

// Log is an append-only record of one score change.
type Log struct {
	ID            uint64    `gorm:"primaryKey;column:id" json:"-"`
	UserID        string    `gorm:"size:32;not null;index" json:"user_id"`
	LoanID        *uint64   `gorm:"uniqueIndex:ux_credit_logs_loan_day" json:"-"`
	LogDate       string    `gorm:"size:10;not null;uniqueIndex:ux_credit_logs_loan_day" json:"log_date"`
	PreviousScore int       `gorm:"not null" json:"previous_score"`
	NewScore      int       `gorm:"not null" json:"new_score"`
	Delta         int       `gorm:"not null" json:"delta"`
	Reason        Reason    `gorm:"size:32;not null" json:"reason"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
}

func (Log) TableName() string { return "credit_logs" }

// LogDate renders the UTC calendar day used for once-per-day guards.
func LogDate(t time.Time) string { return t.UTC().Format("2006-01-02") }
