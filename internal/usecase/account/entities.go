package account

import (
	"time"

	"github.com/shopspring/decimal"

	domain "coinlend-backend/internal/domain/account"
)

type ProfileDTO struct {
	UserID      string           `json:"user_id"`
	KYCStatus   domain.KYCStatus `json:"kyc_status"`
	Frozen      bool             `json:"frozen"`
	CreditScore int              `json:"credit_score"`
	CanWithdraw bool             `json:"can_withdraw"`
	Balances    []BalanceDTO     `json:"balances"`
}

type BalanceDTO struct {
	Currency string          `json:"currency"`
	Balance  decimal.Decimal `json:"balance"`
}

type KYCInput struct {
	UserID         string
	FullName       string
	DocumentType   string
	DocumentNumber string
}

type ReviewKYCInput struct {
	KYCID   string
	AdminID string
	Approve bool
	Reason  string
}

type WithdrawInput struct {
	UserID   string
	Currency string
	Amount   decimal.Decimal
	Address  string
}

type ReviewWithdrawalInput struct {
	TransactionID string
	AdminID       string
	Approve       bool
	Reason        string
}

type TransactionDTO struct {
	TransactionID string          `json:"transaction_id"`
	UserID        string          `json:"user_id"`
	Type          domain.TxType   `json:"type"`
	Status        domain.TxStatus `json:"status"`
	Currency      string          `json:"currency"`
	Amount        decimal.Decimal `json:"amount"`
	Address       string          `json:"address,omitempty"`
	Note          string          `json:"note,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

func toTxDTO(t *domain.Transaction) *TransactionDTO {
	return &TransactionDTO{
		TransactionID: t.TransactionID,
		UserID:        t.UserID,
		Type:          t.Type,
		Status:        t.Status,
		Currency:      t.Currency,
		Amount:        t.Amount,
		Address:       t.Address,
		Note:          t.Note,
		CreatedAt:     t.CreatedAt,
	}
}
