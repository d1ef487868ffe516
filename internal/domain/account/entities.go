package account

import (
	"time"

	"github.com/shopspring/decimal"
)

type KYCStatus string

const (
	KYCNone     KYCStatus = "none"
	KYCPending  KYCStatus = "pending"
	KYCVerified KYCStatus = "verified"
	KYCRejected KYCStatus = "rejected"
)

const InitialCreditScore = 100

// Profile is the per-user row holding KYC state, freeze flag and credit score.
type Profile struct {
	ID          uint64    `gorm:"primaryKey;column:id" json:"-"`
	UserID      string    `gorm:"size:32;uniqueIndex:ux_profiles_user_id" json:"user_id"`
	KYCStatus   KYCStatus `gorm:"column:kyc_status;size:16;not null;default:'none'" json:"kyc_status"`
	Frozen      bool      `gorm:"not null;default:false" json:"frozen"`
	CreditScore int       `gorm:"not null;default:100" json:"credit_score"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Profile) TableName() string { return "profiles" }

// Asset is a user's balance in one currency.
type Asset struct {
	ID        uint64          `gorm:"primaryKey;column:id" json:"-"`
	UserID    string          `gorm:"size:32;not null;uniqueIndex:ux_assets_user_currency" json:"user_id"`
	Currency  string          `gorm:"size:16;not null;uniqueIndex:ux_assets_user_currency" json:"currency"`
	Balance   decimal.Decimal `gorm:"type:decimal(20,8);not null;default:0" json:"balance"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Asset) TableName() string { return "assets" }

type TxType string

const (
	TxLoanDisbursement TxType = "loan_disbursement"
	TxLoanRepayment    TxType = "loan_repayment"
	TxWithdrawal       TxType = "withdrawal"
	TxDeposit          TxType = "deposit"
)

type TxStatus string

const (
	TxPending   TxStatus = "pending"
	TxCompleted TxStatus = "completed"
	TxRejected  TxStatus = "rejected"
)

// Transaction is a ledger line. Amount is signed from the user's point of view.
type Transaction struct {
	ID            uint64          `gorm:"primaryKey;column:id" json:"-"`
	TransactionID string          `gorm:"size:32;uniqueIndex:ux_transactions_tx_id" json:"transaction_id"`
	UserID        string          `gorm:"size:32;not null;index" json:"user_id"`
	Type          TxType          `gorm:"size:32;not null;index:idx_transactions_type_status" json:"type"`
	Status        TxStatus        `gorm:"size:16;not null;index:idx_transactions_type_status" json:"status"`
	Currency      string          `gorm:"size:16;not null" json:"currency"`
	Amount        decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"amount"`
	Reference     string          `gorm:"size:64" json:"reference,omitempty"`
	Address       string          `gorm:"size:128" json:"address,omitempty"`
	Note          string          `gorm:"type:text" json:"note,omitempty"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Transaction) TableName() string { return "transactions" }

// KYCRecord is one identity submission.
type KYCRecord struct {
	ID             uint64     `gorm:"primaryKey;column:id" json:"-"`
	KYCID          string     `gorm:"column:kyc_id;size:32;uniqueIndex:ux_kyc_records_kyc_id" json:"kyc_id"`
	UserID         string     `gorm:"size:32;not null;index" json:"user_id"`
	FullName       string     `gorm:"size:128;not null" json:"full_name"`
	DocumentType   string     `gorm:"size:32;not null" json:"document_type"`
	DocumentNumber string     `gorm:"size:64;not null" json:"document_number"`
	Status         KYCStatus  `gorm:"size:16;not null;index" json:"status"`
	RejectReason   string     `gorm:"type:text" json:"reject_reason,omitempty"`
	ReviewedAt     *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (KYCRecord) TableName() string { return "kyc_records" }
