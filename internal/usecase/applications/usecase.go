// Package applications merges every user-submitted item awaiting or past
// admin review into one feed.
package applications

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"coinlend-backend/internal/domain/account"
	"coinlend-backend/internal/domain/loan"
	"coinlend-backend/internal/domain/repayment"
	"coinlend-backend/internal/telemetry"
)

type Kind string

const (
	KindLoan       Kind = "loan"
	KindRepayment  Kind = "repayment"
	KindKYC        Kind = "kyc"
	KindWithdrawal Kind = "withdrawal"
)

const DefaultLimit = 100

type Application struct {
	Kind      Kind             `json:"kind"`
	ID        string           `json:"id"`
	UserID    string           `json:"user_id"`
	Amount    *decimal.Decimal `json:"amount,omitempty"`
	Status    string           `json:"status"`
	Reference string           `json:"reference,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

type Filter struct {
	Kind   Kind
	Status string
	Limit  int
}

type Usecase struct {
	loans        loan.Repository
	repayments   repayment.Repository
	kyc          account.KYCRepository
	transactions account.TransactionRepository
}

func NewUsecase(loans loan.Repository, repayments repayment.Repository, kyc account.KYCRepository, transactions account.TransactionRepository) *Usecase {
	return &Usecase{loans: loans, repayments: repayments, kyc: kyc, transactions: transactions}
}

// List reads each source concurrently. Each source is already capped at
// limit, so the merged slice never needs more than limit rows per kind.
func (u *Usecase) List(ctx context.Context, f Filter) ([]Application, error) {
	ctx, span := telemetry.Start(ctx, "applications.list")
	defer span.End()

	if f.Limit <= 0 || f.Limit > DefaultLimit {
		f.Limit = DefaultLimit
	}

	var parts [4][]Application
	g, gctx := errgroup.WithContext(ctx)

	if f.wants(KindLoan) {
		g.Go(func() error {
			rows, err := u.loans.ListRecent(gctx, loan.Status(f.Status), f.Limit)
			for i := range rows {
				r := &rows[i]
				parts[0] = append(parts[0], Application{Kind: KindLoan, ID: r.LoanID, UserID: r.BorrowerID,
					Amount: amount(r.Principal), Status: string(r.Status), CreatedAt: r.CreatedAt})
			}
			return err
		})
	}
	if f.wants(KindRepayment) {
		g.Go(func() error {
			rows, err := u.repayments.ListByStatus(gctx, repayment.Status(f.Status), f.Limit)
			for i := range rows {
				r := &rows[i]
				parts[1] = append(parts[1], Application{Kind: KindRepayment, ID: r.RepaymentID, UserID: r.UserID,
					Amount: amount(r.Amount), Status: string(r.Status), Reference: r.PublicLoanID, CreatedAt: r.CreatedAt})
			}
			return err
		})
	}
	if f.wants(KindKYC) {
		g.Go(func() error {
			rows, err := u.kyc.ListByStatus(gctx, account.KYCStatus(f.Status), f.Limit)
			for i := range rows {
				r := &rows[i]
				parts[2] = append(parts[2], Application{Kind: KindKYC, ID: r.KYCID, UserID: r.UserID,
					Status: string(r.Status), Reference: r.DocumentType, CreatedAt: r.CreatedAt})
			}
			return err
		})
	}
	if f.wants(KindWithdrawal) {
		g.Go(func() error {
			rows, err := u.transactions.ListByTypeStatus(gctx, account.TxWithdrawal, account.TxStatus(f.Status), f.Limit)
			for i := range rows {
				r := &rows[i]
				parts[3] = append(parts[3], Application{Kind: KindWithdrawal, ID: r.TransactionID, UserID: r.UserID,
					Amount: amount(r.Amount.Abs()), Status: string(r.Status), Reference: r.Address, CreatedAt: r.CreatedAt})
			}
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]Application, 0, len(parts[0])+len(parts[1])+len(parts[2])+len(parts[3]))
	for _, p := range parts {
		out = append(out, p...)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (f Filter) wants(k Kind) bool { return f.Kind == "" || f.Kind == k }

// ValidKind accepts the empty kind as "all".
func ValidKind(k Kind) bool {
	switch k {
	case "", KindLoan, KindRepayment, KindKYC, KindWithdrawal:
		return true
	}
	return false
}

func amount(d decimal.Decimal) *decimal.Decimal { return &d }
