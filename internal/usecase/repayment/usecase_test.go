package repayment

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"coinlend-backend/internal/domain/accrual"
	domainLoan "coinlend-backend/internal/domain/loan"
	domain "coinlend-backend/internal/domain/repayment"
	"coinlend-backend/internal/infrastructure/objectstore"
	"coinlend-backend/internal/testutil/loanmock"
	"coinlend-backend/internal/testutil/repaymentmock"
	"coinlend-backend/internal/testutil/uowmock"
)

const (
	userID = "uuuuuuuuuuuuuuuuuuuuuuuuuuuuuuuu"
	loanID = "llllllllllllllllllllllllllllllll"
)

var fixedNow = time.Date(2025, 9, 21, 9, 0, 0, 0, time.UTC)

func loanAged(days int, status domainLoan.Status) *domainLoan.Loan {
	return &domainLoan.Loan{
		ID: 5, LoanID: loanID, BorrowerID: userID, Principal: decimal.NewFromInt(10_000), Currency: "USDT",
		Status: status, BorrowDate: fixedNow.Add(-time.Duration(days) * 24 * time.Hour),
	}
}

func newSubmitUC(l *domainLoan.Loan, reps *repaymentmock.Repo, store ReceiptStore) *Usecase {
	loans := &loanmock.Repo{GetByLoanIDFn: func(_ context.Context, id string) (*domainLoan.Loan, error) {
		if l == nil || id != l.LoanID {
			return nil, gorm.ErrRecordNotFound
		}
		return l, nil
	}}
	if reps == nil {
		reps = &repaymentmock.Repo{}
	}
	uc := NewUsecase(loans, reps, uowmock.New(), store, Options{})
	uc.now = func() time.Time { return fixedNow }
	return uc
}

func TestSubmit_PartialCreatesPendingWithPreview(t *testing.T) {
	store := objectstore.NewMemory()
	var created *domain.Repayment
	uc := newSubmitUC(loanAged(20, domainLoan.StatusOverdue), &repaymentmock.Repo{
		CreateFn: func(_ context.Context, r *domain.Repayment) error { created = r; return nil },
	}, store)

	dto, err := uc.Submit(context.Background(), SubmitInput{
		UserID: userID, LoanID: loanID, Amount: decimal.NewFromInt(1500), Type: domain.TypePartial,
		Receipt: []byte("png-bytes"), ReceiptContentType: "image/png",
	})
	require.NoError(t, err)

	assert.Equal(t, "pending", dto.Status)
	assert.True(t, dto.Amount.Equal(decimal.NewFromInt(1500)))
	require.NotNil(t, dto.Preview)
	assert.True(t, dto.Preview.Penalty.Equal(decimal.NewFromInt(1000)))
	assert.True(t, dto.Preview.Interest.Equal(decimal.NewFromInt(500)))
	assert.Nil(t, dto.Allocation)

	require.NotNil(t, created)
	assert.Equal(t, uint64(5), created.LoanID)
	assert.True(t, strings.HasPrefix(created.ReceiptRef, "mem://receipts/"+loanID+"/"))
	obj, ok := store.Get("receipts/" + loanID + "/" + created.RepaymentID)
	require.True(t, ok)
	assert.Equal(t, "image/png", obj.ContentType)
}

func TestSubmit_FullIgnoresAmountAndNetsApproved(t *testing.T) {
	approved := domain.Repayment{Status: domain.StatusApproved}
	approved.SetAllocation(accrual.Allocation{Penalty: decimal.NewFromInt(1000)})
	reps := &repaymentmock.Repo{ListByLoanIDFn: func(context.Context, uint64) ([]domain.Repayment, error) {
		return []domain.Repayment{approved}, nil
	}}
	uc := newSubmitUC(loanAged(20, domainLoan.StatusApproved), reps, objectstore.NewMemory())

	dto, err := uc.Submit(context.Background(), SubmitInput{
		UserID: userID, LoanID: loanID, Amount: decimal.NewFromInt(1), Type: domain.TypeFull, Receipt: []byte("x"),
	})
	require.NoError(t, err)
	// 11800 owed minus the 1000 penalty already approved
	assert.True(t, dto.Amount.Equal(decimal.NewFromInt(10_800)), dto.Amount.String())
}

func TestSubmit_WithoutReceiptStillPending(t *testing.T) {
	store := objectstore.NewMemory()
	var created *domain.Repayment
	uc := newSubmitUC(loanAged(3, domainLoan.StatusApproved), &repaymentmock.Repo{
		CreateFn: func(_ context.Context, r *domain.Repayment) error { created = r; return nil },
	}, store)

	dto, err := uc.Submit(context.Background(), SubmitInput{
		UserID: userID, LoanID: loanID, Amount: decimal.NewFromInt(100), Type: domain.TypePartial,
	})
	require.NoError(t, err)
	assert.Equal(t, "pending", dto.Status)
	require.NotNil(t, created)
	assert.Empty(t, created.ReceiptRef)
	assert.Equal(t, 0, store.Len())
}

func TestSubmit_Rejections(t *testing.T) {
	big := make([]byte, domain.MaxReceiptBytes+1)
	tests := []struct {
		name string
		loan *domainLoan.Loan
		in   SubmitInput
		want error
	}{
		{"unknown loan", nil, SubmitInput{LoanID: "nope"}, domainLoan.ErrNotFound},
		{"foreign loan", loanAged(3, domainLoan.StatusApproved), SubmitInput{UserID: "other", LoanID: loanID}, domainLoan.ErrNotFound},
		{"pending loan", loanAged(3, domainLoan.StatusPending), SubmitInput{UserID: userID, LoanID: loanID}, domainLoan.ErrNotRepayable},
		{"repaid loan", loanAged(3, domainLoan.StatusRepaid), SubmitInput{UserID: userID, LoanID: loanID}, domainLoan.ErrNotRepayable},
		{"zero amount", loanAged(3, domainLoan.StatusApproved),
			SubmitInput{UserID: userID, LoanID: loanID, Amount: decimal.Zero, Type: domain.TypePartial, Receipt: []byte("x")}, domain.ErrInvalidAmount},
		{"over tolerance", loanAged(20, domainLoan.StatusApproved),
			SubmitInput{UserID: userID, LoanID: loanID, Amount: decimal.NewFromInt(15_000), Type: domain.TypePartial, Receipt: []byte("x")}, domain.ErrAmountExceedsOwed},
		{"bad type", loanAged(3, domainLoan.StatusApproved),
			SubmitInput{UserID: userID, LoanID: loanID, Amount: decimal.NewFromInt(10), Type: "weekly", Receipt: []byte("x")}, domain.ErrInvalidType},
		{"receipt too large", loanAged(3, domainLoan.StatusApproved),
			SubmitInput{UserID: userID, LoanID: loanID, Amount: decimal.NewFromInt(10), Type: domain.TypePartial, Receipt: big}, domain.ErrPayloadTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := objectstore.NewMemory()
			uc := newSubmitUC(tt.loan, &repaymentmock.Repo{CreateFn: func(context.Context, *domain.Repayment) error {
				t.Fatalf("Create must not be called")
				return nil
			}}, store)
			_, err := uc.Submit(context.Background(), tt.in)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, 0, store.Len(), "nothing uploaded on rejection")
		})
	}
}

type failingStore struct{}

func (failingStore) Put(context.Context, string, string, []byte) (string, error) {
	return "", errors.New("bucket unavailable")
}

func TestSubmit_StoreFailureCreatesNothing(t *testing.T) {
	uc := newSubmitUC(loanAged(3, domainLoan.StatusApproved), &repaymentmock.Repo{CreateFn: func(context.Context, *domain.Repayment) error {
		t.Fatalf("Create must not be called")
		return nil
	}}, failingStore{})
	_, err := uc.Submit(context.Background(), SubmitInput{UserID: userID, LoanID: loanID, Amount: decimal.NewFromInt(10), Type: domain.TypePartial, Receipt: []byte("x")})
	require.Error(t, err)
}

func TestApprove_NotPendingShortCircuits(t *testing.T) {
	reps := &repaymentmock.Repo{GetByRepaymentIDFn: func(context.Context, string) (*domain.Repayment, error) {
		return &domain.Repayment{RepaymentID: "r", Status: domain.StatusApproved}, nil
	}}
	uc := NewUsecase(&loanmock.Repo{}, reps, uowmock.New(), objectstore.NewMemory(), Options{})
	_, err := uc.Approve(context.Background(), ApproveInput{RepaymentID: "r"})
	assert.ErrorIs(t, err, domain.ErrAlreadyReviewed)

	reps.GetByRepaymentIDFn = func(context.Context, string) (*domain.Repayment, error) { return nil, gorm.ErrRecordNotFound }
	_, err = uc.Reject(context.Background(), RejectInput{RepaymentID: "r"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReject_LosesRace(t *testing.T) {
	reps := &repaymentmock.Repo{
		GetByRepaymentIDFn: func(context.Context, string) (*domain.Repayment, error) {
			return &domain.Repayment{ID: 1, RepaymentID: "r", Status: domain.StatusPending}, nil
		},
		ReviewFn: func(context.Context, uint64, domain.Status, string, string, time.Time) (bool, error) {
			return false, nil
		},
	}
	uc := NewUsecase(&loanmock.Repo{}, reps, uowmock.New(), objectstore.NewMemory(), Options{})
	_, err := uc.Reject(context.Background(), RejectInput{RepaymentID: "r", Reason: "blurry"})
	assert.ErrorIs(t, err, domain.ErrAlreadyReviewed)
}
