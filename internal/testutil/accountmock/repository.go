package accountmock

import (
	"context"

	"github.com/shopspring/decimal"

	domain "coinlend-backend/internal/domain/account"
)

var (
	_ domain.ProfileRepository     = (*Profiles)(nil)
	_ domain.AssetRepository       = (*Assets)(nil)
	_ domain.TransactionRepository = (*Transactions)(nil)
	_ domain.KYCRepository         = (*KYC)(nil)
)

// Profiles is a function-backed ProfileRepository.
type Profiles struct {
	GetOrCreateFn  func(ctx context.Context, userID string) (*domain.Profile, error)
	GetForUpdateFn func(ctx context.Context, userID string) (*domain.Profile, error)
	SaveFn         func(ctx context.Context, p *domain.Profile) error
}

// Verified returns a mock whose reads yield a KYC-verified profile for any user.
func Verified() *Profiles {
	get := func(_ context.Context, userID string) (*domain.Profile, error) {
		return &domain.Profile{UserID: userID, KYCStatus: domain.KYCVerified, CreditScore: domain.InitialCreditScore}, nil
	}
	return &Profiles{GetOrCreateFn: get, GetForUpdateFn: get}
}

func (m *Profiles) GetOrCreate(ctx context.Context, userID string) (*domain.Profile, error) {
	if m.GetOrCreateFn != nil {
		return m.GetOrCreateFn(ctx, userID)
	}
	return nil, context.Canceled
}

func (m *Profiles) GetForUpdate(ctx context.Context, userID string) (*domain.Profile, error) {
	if m.GetForUpdateFn != nil {
		return m.GetForUpdateFn(ctx, userID)
	}
	return nil, context.Canceled
}

func (m *Profiles) Save(ctx context.Context, p *domain.Profile) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, p)
	}
	return nil
}

type Assets struct {
	ListByUserFn func(ctx context.Context, userID string) ([]domain.Asset, error)
	CreditFn     func(ctx context.Context, userID, currency string, amount decimal.Decimal) error
	DebitFn      func(ctx context.Context, userID, currency string, amount decimal.Decimal) error
}

func (m *Assets) ListByUser(ctx context.Context, userID string) ([]domain.Asset, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID)
	}
	return nil, nil
}

func (m *Assets) Credit(ctx context.Context, userID, currency string, amount decimal.Decimal) error {
	if m.CreditFn != nil {
		return m.CreditFn(ctx, userID, currency, amount)
	}
	return nil
}

func (m *Assets) Debit(ctx context.Context, userID, currency string, amount decimal.Decimal) error {
	if m.DebitFn != nil {
		return m.DebitFn(ctx, userID, currency, amount)
	}
	return nil
}

type Transactions struct {
	CreateFn             func(ctx context.Context, tx *domain.Transaction) error
	GetByTransactionIDFn func(ctx context.Context, txID string) (*domain.Transaction, error)
	ListByTypeStatusFn   func(ctx context.Context, typ domain.TxType, status domain.TxStatus, limit int) ([]domain.Transaction, error)
	UpdateStatusFn       func(ctx context.Context, id uint64, from, to domain.TxStatus, note string) (bool, error)
}

func (m *Transactions) Create(ctx context.Context, tx *domain.Transaction) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, tx)
	}
	return nil
}

func (m *Transactions) GetByTransactionID(ctx context.Context, txID string) (*domain.Transaction, error) {
	if m.GetByTransactionIDFn != nil {
		return m.GetByTransactionIDFn(ctx, txID)
	}
	return nil, context.Canceled
}

func (m *Transactions) ListByTypeStatus(ctx context.Context, typ domain.TxType, status domain.TxStatus, limit int) ([]domain.Transaction, error) {
	if m.ListByTypeStatusFn != nil {
		return m.ListByTypeStatusFn(ctx, typ, status, limit)
	}
	return nil, nil
}

func (m *Transactions) UpdateStatus(ctx context.Context, id uint64, from, to domain.TxStatus, note string) (bool, error) {
	if m.UpdateStatusFn != nil {
		return m.UpdateStatusFn(ctx, id, from, to, note)
	}
	return false, nil
}

type KYC struct {
	CreateFn       func(ctx context.Context, k *domain.KYCRecord) error
	GetByKYCIDFn   func(ctx context.Context, kycID string) (*domain.KYCRecord, error)
	ListByStatusFn func(ctx context.Context, status domain.KYCStatus, limit int) ([]domain.KYCRecord, error)
	SaveFn         func(ctx context.Context, k *domain.KYCRecord) error
}

func (m *KYC) Create(ctx context.Context, k *domain.KYCRecord) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, k)
	}
	return nil
}

func (m *KYC) GetByKYCID(ctx context.Context, kycID string) (*domain.KYCRecord, error) {
	if m.GetByKYCIDFn != nil {
		return m.GetByKYCIDFn(ctx, kycID)
	}
	return nil, context.Canceled
}

func (m *KYC) ListByStatus(ctx context.Context, status domain.KYCStatus, limit int) ([]domain.KYCRecord, error) {
	if m.ListByStatusFn != nil {
		return m.ListByStatusFn(ctx, status, limit)
	}
	return nil, nil
}

func (m *KYC) Save(ctx context.Context, k *domain.KYCRecord) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, k)
	}
	return nil
}
