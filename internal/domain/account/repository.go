package account

import (
	"context"

	"github.com/shopspring/decimal"
)

type ProfileRepository interface {
	// GetOrCreate returns the profile, inserting defaults on first access.
	GetOrCreate(ctx context.Context, userID string) (*Profile, error)
	GetForUpdate(ctx context.Context, userID string) (*Profile, error)
	Save(ctx context.Context, p *Profile) error
}

// AssetRepository mutates balances with single-statement increments so
// concurrent writers never read-modify-write.
type AssetRepository interface {
	ListByUser(ctx context.Context, userID string) ([]Asset, error)
	Credit(ctx context.Context, userID, currency string, amount decimal.Decimal) error
	// Debit fails with ErrInsufficientBalance when balance < amount.
	Debit(ctx context.Context, userID, currency string, amount decimal.Decimal) error
}

type TransactionRepository interface {
	Create(ctx context.Context, tx *Transaction) error
	GetByTransactionID(ctx context.Context, txID string) (*Transaction, error)
	ListByTypeStatus(ctx context.Context, typ TxType, status TxStatus, limit int) ([]Transaction, error)
	// UpdateStatus flips from -> to, reporting whether a row changed.
	UpdateStatus(ctx context.Context, id uint64, from, to TxStatus, note string) (bool, error)
}

type KYCRepository interface {
	Create(ctx context.Context, k *KYCRecord) error
	GetByKYCID(ctx context.Context, kycID string) (*KYCRecord, error)
	ListByStatus(ctx context.Context, status KYCStatus, limit int) ([]KYCRecord, error)
	Save(ctx context.Context, k *KYCRecord) error
}
