package repayment

import (
	"time"

	"github.com/shopspring/decimal"

	"coinlend-backend/internal/domain/accrual"
)

type Type string

const (
	TypePartial   Type = "partial"
	TypeEarlyFull Type = "early_full"
	TypeFull      Type = "full"
)

func (t Type) Valid() bool { return t == TypePartial || t == TypeEarlyFull || t == TypeFull }

// SettlesInFull reports whether the amount is pinned to the owed total.
func (t Type) SettlesInFull() bool { return t == TypeFull || t == TypeEarlyFull }

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Repayment is one borrower-submitted repayment awaiting admin review.
type Repayment struct {
	ID            uint64          `gorm:"primaryKey;column:id" json:"-"`
	RepaymentID   string          `gorm:"size:32;uniqueIndex:ux_loan_repayments_repayment_id" json:"repayment_id"`
	LoanID        uint64          `gorm:"not null;index:idx_loan_repayments_loan_status" json:"-"`
	PublicLoanID  string          `gorm:"column:loan_public_id;size:32;not null" json:"loan_id"`
	UserID        string          `gorm:"size:32;not null;index" json:"user_id"`
	Amount        decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"amount"`
	Type          Type            `gorm:"column:repayment_type;size:16;not null" json:"repayment_type"`
	Status        Status          `gorm:"size:16;not null;default:'pending';index:idx_loan_repayments_loan_status" json:"status"`
	RejectReason  string          `gorm:"type:text" json:"reject_reason,omitempty"`
	ReceiptRef    string          `gorm:"type:text" json:"receipt_ref,omitempty"`
	PenaltyPaid   decimal.Decimal `gorm:"type:decimal(20,8);not null;default:0" json:"penalty_paid"`
	InterestPaid  decimal.Decimal `gorm:"type:decimal(20,8);not null;default:0" json:"interest_paid"`
	PrincipalPaid decimal.Decimal `gorm:"type:decimal(20,8);not null;default:0" json:"principal_paid"`
	ExcessPaid    decimal.Decimal `gorm:"type:decimal(20,8);not null;default:0" json:"excess_paid"`
	ReviewedBy    string          `gorm:"size:32" json:"-"`
	ReviewedAt    *time.Time      `json:"reviewed_at,omitempty"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Repayment) TableName() string { return "loan_repayments" }

// Allocation returns the persisted split (zero until approved).
func (r Repayment) Allocation() accrual.Allocation {
	return accrual.Allocation{
		Penalty:   r.PenaltyPaid,
		Interest:  r.InterestPaid,
		Principal: r.PrincipalPaid,
		Excess:    r.ExcessPaid,
	}
}

func (r *Repayment) SetAllocation(a accrual.Allocation) {
	r.PenaltyPaid = a.Penalty
	r.InterestPaid = a.Interest
	r.PrincipalPaid = a.Principal
	r.ExcessPaid = a.Excess
}

// PaidSoFar sums the persisted allocations of approved repayments.
func PaidSoFar(list []Repayment) accrual.Allocation {
	var sum accrual.Allocation
	for _, r := range list {
		if r.Status != StatusApproved {
			continue
		}
		a := r.Allocation()
		sum.Penalty = sum.Penalty.Add(a.Penalty)
		sum.Interest = sum.Interest.Add(a.Interest)
		sum.Principal = sum.Principal.Add(a.Principal)
		sum.Excess = sum.Excess.Add(a.Excess)
	}
	return sum
}
