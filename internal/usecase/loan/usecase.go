package loan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"coinlend-backend/internal/domain/account"
	"coinlend-backend/internal/domain/accrual"
	domain "coinlend-backend/internal/domain/loan"
	"coinlend-backend/internal/domain/repayment"
	"coinlend-backend/internal/telemetry"
	"coinlend-backend/pkg/id"
)

type Usecase struct {
	loans      domain.Repository
	repayments repayment.Repository
	profiles   account.ProfileRepository
	policy     domain.Policy
	now        func() time.Time
}

func NewUsecase(loans domain.Repository, repayments repayment.Repository, profiles account.ProfileRepository, policy domain.Policy) *Usecase {
	return &Usecase{
		loans:      loans,
		repayments: repayments,
		profiles:   profiles,
		policy:     policy,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Apply files a pending loan after the application gates pass.
func (u *Usecase) Apply(ctx context.Context, in ApplyInput) (*LoanDTO, error) {
	ctx, span := telemetry.Start(ctx, "loan.apply")
	defer span.End()

	if !u.policy.InRange(in.Principal) {
		return nil, domain.ErrOutOfRange
	}

	p, err := u.profiles.GetOrCreate(ctx, in.BorrowerID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if p.Frozen {
		return nil, account.ErrAccountFrozen
	}
	if p.KYCStatus != account.KYCVerified {
		return nil, account.ErrNotVerified
	}

	active, err := u.loans.CountByBorrowerAndStatus(ctx, in.BorrowerID, domain.StatusApproved, domain.StatusOverdue)
	if err != nil {
		return nil, err
	}
	if active >= int64(u.policy.MaxActiveLoans) {
		return nil, domain.ErrTooManyActiveLoans
	}

	now := u.now()
	l := &domain.Loan{
		LoanID:       id.NewID32(),
		BorrowerID:   in.BorrowerID,
		Principal:    in.Principal,
		Currency:     domain.CurrencyUSDT,
		InterestRate: u.policy.Schedule.DailyInterestRate,
		TermDays:     u.policy.Schedule.PenaltyAfterDays,
		Status:       domain.StatusPending,
		BorrowDate:   now,
		StatusAt:     now,
	}
	if err := u.loans.Create(ctx, l); err != nil {
		return nil, err
	}
	dto := toDTO(l, u.policy.Schedule, now)
	return &dto, nil
}

// Get returns the borrower's loan with a live breakdown.
func (u *Usecase) Get(ctx context.Context, borrowerID, loanID string) (*LoanDTO, error) {
	l, err := u.owned(ctx, borrowerID, loanID)
	if err != nil {
		return nil, err
	}
	dto := toDTO(l, u.policy.Schedule, u.now())
	return &dto, nil
}

func (u *Usecase) List(ctx context.Context, borrowerID string) ([]LoanDTO, error) {
	list, err := u.loans.ListByBorrowerID(ctx, borrowerID)
	if err != nil {
		return nil, err
	}
	now := u.now()
	out := make([]LoanDTO, 0, len(list))
	for i := range list {
		out = append(out, toDTO(&list[i], u.policy.Schedule, now))
	}
	return out, nil
}

// Quote recomputes what is owed now, net of approved repayments. A positive
// amount adds a penalty-first allocation preview.
func (u *Usecase) Quote(ctx context.Context, borrowerID, loanID string, amount decimal.Decimal) (*QuoteDTO, error) {
	l, err := u.owned(ctx, borrowerID, loanID)
	if err != nil {
		return nil, err
	}
	if !l.Status.Active() {
		return nil, domain.ErrNotRepayable
	}
	reps, err := u.repayments.ListByLoanID(ctx, l.ID)
	if err != nil {
		return nil, err
	}

	now := u.now()
	owed := u.policy.Schedule.Calculate(l.Principal, l.BorrowDate, now)
	paid := repayment.PaidSoFar(reps)
	q := &QuoteDTO{
		LoanID:          l.LoanID,
		EffectiveStatus: string(domain.EffectiveStatus(l.Status, owed.Overdue())),
		Owed:            owed,
		Paid:            paid,
		Outstanding:     accrual.Outstanding(owed, paid),
		QuotedAt:        now,
	}
	if amount.IsPositive() {
		preview := accrual.Allocate(amount, q.Outstanding)
		q.Amount = &amount
		q.Preview = &preview
	}
	return q, nil
}

func (u *Usecase) owned(ctx context.Context, borrowerID, loanID string) (*domain.Loan, error) {
	l, err := u.loans.GetByLoanID(ctx, loanID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	// other borrowers' loans are indistinguishable from missing ones
	if l.BorrowerID != borrowerID {
		return nil, domain.ErrNotFound
	}
	return l, nil
}
