package gormrepo

import (
	"context"

	accountDomain "coinlend-backend/internal/domain/account"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ---- profiles ----

type ProfileRepository struct{ db *gorm.DB }

func NewProfileRepository(db *gorm.DB) *ProfileRepository { return &ProfileRepository{db: db} }

func (r *ProfileRepository) ensure(ctx context.Context, userID string) error {
	p := accountDomain.Profile{
		UserID:      userID,
		KYCStatus:   accountDomain.KYCNone,
		CreditScore: accountDomain.InitialCreditScore,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(&p).Error
}

func (r *ProfileRepository) GetOrCreate(ctx context.Context, userID string) (*accountDomain.Profile, error) {
	if err := r.ensure(ctx, userID); err != nil {
		return nil, err
	}
	var out accountDomain.Profile
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&out)
	return &out, res.Error
}

func (r *ProfileRepository) GetForUpdate(ctx context.Context, userID string) (*accountDomain.Profile, error) {
	if err := r.ensure(ctx, userID); err != nil {
		return nil, err
	}
	var out accountDomain.Profile
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&out)
	return &out, res.Error
}

func (r *ProfileRepository) Save(ctx context.Context, p *accountDomain.Profile) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// ---- assets ----

type AssetRepository struct{ db *gorm.DB }

func NewAssetRepository(db *gorm.DB) *AssetRepository { return &AssetRepository{db: db} }

func (r *AssetRepository) ListByUser(ctx context.Context, userID string) ([]accountDomain.Asset, error) {
	var out []accountDomain.Asset
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("currency ASC").Find(&out)
	return out, res.Error
}

// Credit upserts the row and increments in one statement.
func (r *AssetRepository) Credit(ctx context.Context, userID, currency string, amount decimal.Decimal) error {
	a := accountDomain.Asset{UserID: userID, Currency: currency, Balance: amount}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "currency"}},
			DoUpdates: clause.Assignments(map[string]any{"balance": gorm.Expr("balance + ?", amount)}),
		}).
		Create(&a).Error
}

func (r *AssetRepository) Debit(ctx context.Context, userID, currency string, amount decimal.Decimal) error {
	res := r.db.WithContext(ctx).Model(&accountDomain.Asset{}).
		Where("user_id = ? AND currency = ? AND balance >= ?", userID, currency, amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return accountDomain.ErrInsufficientBalance
	}
	return nil
}

// ---- transactions ----

type TransactionRepository struct{ db *gorm.DB }

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, tx *accountDomain.Transaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

func (r *TransactionRepository) GetByTransactionID(ctx context.Context, txID string) (*accountDomain.Transaction, error) {
	var out accountDomain.Transaction
	res := r.db.WithContext(ctx).Where("transaction_id = ?", txID).First(&out)
	return &out, res.Error
}

func (r *TransactionRepository) ListByTypeStatus(ctx context.Context, typ accountDomain.TxType, status accountDomain.TxStatus, limit int) ([]accountDomain.Transaction, error) {
	var out []accountDomain.Transaction
	q := r.db.WithContext(ctx).Where("type = ?", typ).Order("created_at DESC, id DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	return out, q.Find(&out).Error
}

func (r *TransactionRepository) UpdateStatus(ctx context.Context, id uint64, from, to accountDomain.TxStatus, note string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&accountDomain.Transaction{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{"status": to, "note": note})
	return res.RowsAffected == 1, res.Error
}

// ---- kyc ----

type KYCRepository struct{ db *gorm.DB }

func NewKYCRepository(db *gorm.DB) *KYCRepository { return &KYCRepository{db: db} }

func (r *KYCRepository) Create(ctx context.Context, k *accountDomain.KYCRecord) error {
	return r.db.WithContext(ctx).Create(k).Error
}

func (r *KYCRepository) GetByKYCID(ctx context.Context, kycID string) (*accountDomain.KYCRecord, error) {
	var out accountDomain.KYCRecord
	res := r.db.WithContext(ctx).Where("kyc_id = ?", kycID).First(&out)
	return &out, res.Error
}

func (r *KYCRepository) ListByStatus(ctx context.Context, status accountDomain.KYCStatus, limit int) ([]accountDomain.KYCRecord, error) {
	var out []accountDomain.KYCRecord
	q := r.db.WithContext(ctx).Order("created_at DESC, id DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	return out, q.Find(&out).Error
}

func (r *KYCRepository) Save(ctx context.Context, k *accountDomain.KYCRecord) error {
	return r.db.WithContext(ctx).Save(k).Error
}
