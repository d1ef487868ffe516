package gormrepo

import (
	"context"
	"errors"
	"sync"
	"testing"

	domain "coinlend-backend/internal/domain/account"
	"coinlend-backend/internal/testutil/sqlitetest"
	"coinlend-backend/pkg/id"

	"github.com/shopspring/decimal"
)

func TestProfile_GetOrCreateDefaults(t *testing.T) {
	repo := NewProfileRepository(sqlitetest.Open(t))
	ctx := context.Background()
	user := id.NewID32()

	p, err := repo.GetOrCreate(ctx, user)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if p.CreditScore != 100 || p.KYCStatus != domain.KYCNone || p.Frozen {
		t.Fatalf("unexpected defaults: %+v", p)
	}

	p.Frozen = true
	if err := repo.Save(ctx, p); err != nil {
		t.Fatal(err)
	}
	again, err := repo.GetForUpdate(ctx, user)
	if err != nil {
		t.Fatalf("GetForUpdate: %v", err)
	}
	if again.ID != p.ID || !again.Frozen {
		t.Fatalf("second read should see the same row: %+v", again)
	}
}

func TestAsset_CreditDebit(t *testing.T) {
	repo := NewAssetRepository(sqlitetest.Open(t))
	ctx := context.Background()
	user := id.NewID32()

	if err := repo.Credit(ctx, user, "USDT", decimal.NewFromInt(500)); err != nil {
		t.Fatalf("Credit 1: %v", err)
	}
	if err := repo.Credit(ctx, user, "USDT", decimal.NewFromInt(250)); err != nil {
		t.Fatalf("Credit 2: %v", err)
	}
	if err := repo.Debit(ctx, user, "USDT", decimal.NewFromInt(700)); err != nil {
		t.Fatalf("Debit: %v", err)
	}
	if err := repo.Debit(ctx, user, "USDT", decimal.NewFromInt(51)); !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Fatalf("overdraft: want ErrInsufficientBalance, got %v", err)
	}
	if err := repo.Debit(ctx, user, "BTC", decimal.NewFromInt(1)); !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Fatalf("missing asset: want ErrInsufficientBalance, got %v", err)
	}

	assets, err := repo.ListByUser(ctx, user)
	if err != nil {
		t.Fatal(err)
	}
	if len(assets) != 1 || !assets[0].Balance.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("unexpected assets: %+v", assets)
	}
}

func TestAsset_ConcurrentCreditsAreNotLost(t *testing.T) {
	repo := NewAssetRepository(sqlitetest.Open(t))
	ctx := context.Background()
	user := id.NewID32()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := repo.Credit(ctx, user, "USDT", decimal.NewFromInt(10)); err != nil {
				t.Errorf("Credit: %v", err)
			}
		}()
	}
	wg.Wait()

	assets, err := repo.ListByUser(ctx, user)
	if err != nil {
		t.Fatal(err)
	}
	if len(assets) != 1 || !assets[0].Balance.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("want balance 200, got %+v", assets)
	}
}

func TestTransaction_UpdateStatusOnce(t *testing.T) {
	repo := NewTransactionRepository(sqlitetest.Open(t))
	ctx := context.Background()

	tx := &domain.Transaction{
		TransactionID: id.NewID32(),
		UserID:        id.NewID32(),
		Type:          domain.TxWithdrawal,
		Status:        domain.TxPending,
		Currency:      "USDT",
		Amount:        decimal.NewFromInt(-100),
	}
	if err := repo.Create(ctx, tx); err != nil {
		t.Fatal(err)
	}

	list, err := repo.ListByTypeStatus(ctx, domain.TxWithdrawal, domain.TxPending, 10)
	if err != nil || len(list) != 1 {
		t.Fatalf("ListByTypeStatus len=%d err=%v", len(list), err)
	}

	ok, err := repo.UpdateStatus(ctx, tx.ID, domain.TxPending, domain.TxCompleted, "")
	if err != nil || !ok {
		t.Fatalf("first update ok=%v err=%v", ok, err)
	}
	ok, err = repo.UpdateStatus(ctx, tx.ID, domain.TxPending, domain.TxRejected, "late")
	if err != nil || ok {
		t.Fatalf("second update must not apply, ok=%v err=%v", ok, err)
	}
	got, _ := repo.GetByTransactionID(ctx, tx.TransactionID)
	if got.Status != domain.TxCompleted {
		t.Fatalf("status = %s", got.Status)
	}
}

func TestKYC_CreateListSave(t *testing.T) {
	repo := NewKYCRepository(sqlitetest.Open(t))
	ctx := context.Background()

	k := &domain.KYCRecord{
		KYCID:          id.NewID32(),
		UserID:         id.NewID32(),
		FullName:       "Ada Lovelace",
		DocumentType:   "passport",
		DocumentNumber: "P1234567",
		Status:         domain.KYCPending,
	}
	if err := repo.Create(ctx, k); err != nil {
		t.Fatal(err)
	}
	pending, err := repo.ListByStatus(ctx, domain.KYCPending, 0)
	if err != nil || len(pending) != 1 {
		t.Fatalf("ListByStatus len=%d err=%v", len(pending), err)
	}

	k.Status = domain.KYCVerified
	if err := repo.Save(ctx, k); err != nil {
		t.Fatal(err)
	}
	got, err := repo.GetByKYCID(ctx, k.KYCID)
	if err != nil || got.Status != domain.KYCVerified {
		t.Fatalf("got=%+v err=%v", got, err)
	}
}
