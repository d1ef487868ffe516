package loan

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusRepaid   Status = "repaid"
	StatusOverdue  Status = "overdue"
)

// Active loans count against the concurrent-loan limit and accept repayments.
func (s Status) Active() bool { return s == StatusApproved || s == StatusOverdue }

func (s Status) Terminal() bool { return s == StatusRejected || s == StatusRepaid }

const CurrencyUSDT = "USDT"

type Loan struct {
	ID           uint64          `gorm:"primaryKey;column:id" json:"-"`
	LoanID       string          `gorm:"size:32;uniqueIndex:ux_loans_loan_id" json:"loan_id"`
	BorrowerID   string          `gorm:"size:32;index:idx_loans_borrower_status" json:"borrower_id"`
	Principal    decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"principal"`
	Currency     string          `gorm:"size:16;not null;default:'USDT'" json:"currency"`
	InterestRate decimal.Decimal `gorm:"type:decimal(8,6);not null" json:"interest_rate"`
	TermDays     int             `gorm:"not null" json:"term_days"`
	Status       Status          `gorm:"size:16;not null;default:'pending';index:idx_loans_borrower_status" json:"status"`
	BorrowDate   time.Time       `gorm:"not null" json:"borrow_date"`
	DueDate      *time.Time      `json:"due_date,omitempty"`
	RepaidDate   *time.Time      `json:"repaid_date,omitempty"`
	ReviewedBy   string          `gorm:"size:32" json:"-"`
	RejectReason string          `gorm:"type:text" json:"reject_reason,omitempty"`
	StatusAt     time.Time       `gorm:"column:status_updated_at" json:"status_updated_at"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (Loan) TableName() string { return "loans" }
