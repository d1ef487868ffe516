package repayment

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"coinlend-backend/internal/domain/account"
	"coinlend-backend/internal/domain/accrual"
	domainLoan "coinlend-backend/internal/domain/loan"
	domain "coinlend-backend/internal/domain/repayment"
	"coinlend-backend/internal/domain/uow"
	"coinlend-backend/internal/infrastructure/notify"
	"coinlend-backend/internal/telemetry"
	"coinlend-backend/pkg/id"
)

// ReceiptStore keeps uploaded proof-of-payment files.
type ReceiptStore interface {
	Put(ctx context.Context, name, contentType string, data []byte) (string, error)
}

type Usecase struct {
	loans      domainLoan.Repository
	repayments domain.Repository
	uow        uow.UnitOfWork
	store      ReceiptStore
	validator  domain.Validator
	schedule   accrual.Schedule
	pub        notify.Publisher
	now        func() time.Time
}

type Options struct {
	Validator domain.Validator
	Schedule  accrual.Schedule
	Publisher notify.Publisher
}

func NewUsecase(loans domainLoan.Repository, repayments domain.Repository, tx uow.UnitOfWork, store ReceiptStore, opts Options) *Usecase {
	if opts.Validator.MaxReceiptBytes == 0 {
		opts.Validator = domain.NewValidator()
	}
	if opts.Schedule.PenaltyAfterDays == 0 {
		opts.Schedule = accrual.DefaultSchedule()
	}
	if opts.Publisher == nil {
		opts.Publisher = notify.Nop{}
	}
	return &Usecase{
		loans:      loans,
		repayments: repayments,
		uow:        tx,
		store:      store,
		validator:  opts.Validator,
		schedule:   opts.Schedule,
		pub:        opts.Publisher,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Submit validates against what is still outstanding, stores the receipt and
// records a pending repayment. Nothing on the loan or balances changes.
func (u *Usecase) Submit(ctx context.Context, in SubmitInput) (*RepaymentDTO, error) {
	ctx, span := telemetry.Start(ctx, "repayment.submit")
	defer span.End()

	l, err := u.ownedLoan(ctx, in.UserID, in.LoanID)
	if err != nil {
		return nil, err
	}
	if !l.Status.Active() {
		return nil, domainLoan.ErrNotRepayable
	}

	prior, err := u.repayments.ListByLoanID(ctx, l.ID)
	if err != nil {
		return nil, err
	}
	now := u.now()
	owed := u.schedule.Calculate(l.Principal, l.BorrowDate, now)
	outstanding := accrual.Outstanding(owed, domain.PaidSoFar(prior))

	accepted, err := u.validator.Validate(domain.Proposal{
		Amount:       in.Amount,
		Type:         in.Type,
		ReceiptBytes: len(in.Receipt),
	}, outstanding)
	if err != nil {
		return nil, err
	}
	rep := &domain.Repayment{
		RepaymentID:  id.NewID32(),
		LoanID:       l.ID,
		PublicLoanID: l.LoanID,
		UserID:       in.UserID,
		Amount:       accepted.Amount,
		Type:         accepted.Type,
		Status:       domain.StatusPending,
	}
	// the receipt is optional
	if len(in.Receipt) > 0 {
		ref, err := u.store.Put(ctx, fmt.Sprintf("receipts/%s/%s", l.LoanID, rep.RepaymentID), in.ReceiptContentType, in.Receipt)
		if err != nil {
			return nil, fmt.Errorf("store receipt: %w", err)
		}
		rep.ReceiptRef = ref
	}

	if err := u.repayments.Create(ctx, rep); err != nil {
		return nil, err
	}

	notify.Best(ctx, u.pub, notify.Event{Type: notify.RepaymentSubmitted, UserID: in.UserID, LoanID: l.LoanID, At: now,
		Data: map[string]string{"repayment_id": rep.RepaymentID, "amount": rep.Amount.String()}})

	dto := toDTO(rep)
	dto.Preview = &accepted.Preview
	return &dto, nil
}

// ListByLoan returns the borrower's repayments for one loan, oldest first.
func (u *Usecase) ListByLoan(ctx context.Context, userID, loanID string) ([]RepaymentDTO, error) {
	l, err := u.ownedLoan(ctx, userID, loanID)
	if err != nil {
		return nil, err
	}
	list, err := u.repayments.ListByLoanID(ctx, l.ID)
	if err != nil {
		return nil, err
	}
	out := make([]RepaymentDTO, 0, len(list))
	for i := range list {
		out = append(out, toDTO(&list[i]))
	}
	return out, nil
}

// Approve settles one pending repayment. Under the loan row lock it claims the
// repayment, allocates it penalty-first against what is still outstanding,
// books the ledger row and closes the loan once nothing is left.
func (u *Usecase) Approve(ctx context.Context, in ApproveInput) (*RepaymentDTO, error) {
	ctx, span := telemetry.Start(ctx, "repayment.approve")
	defer span.End()

	rep, err := u.pending(ctx, in.RepaymentID)
	if err != nil {
		return nil, err
	}

	now := u.now()
	var settled bool
	err = u.uow.WithinLoanTx(ctx, rep.PublicLoanID, func(r uow.Repos, l *domainLoan.Loan) error {
		if !l.Status.Active() {
			if l.Status == domainLoan.StatusRepaid {
				return domainLoan.ErrAlreadySettled
			}
			return domainLoan.ErrNotRepayable
		}

		won, err := r.Repayments.Review(ctx, rep.ID, domain.StatusApproved, in.AdminID, "", now)
		if err != nil {
			return err
		}
		if !won {
			return domain.ErrAlreadyReviewed
		}

		list, err := r.Repayments.ListByLoanID(ctx, l.ID)
		if err != nil {
			return err
		}
		paid := domain.PaidSoFar(list)
		owed := u.schedule.Calculate(l.Principal, l.BorrowDate, now)
		alloc := accrual.Allocate(rep.Amount, accrual.Outstanding(owed, paid))

		rep.Status = domain.StatusApproved
		rep.ReviewedBy = in.AdminID
		rep.ReviewedAt = &now
		rep.SetAllocation(alloc)
		if err := r.Repayments.Save(ctx, rep); err != nil {
			return err
		}

		if err := r.Transactions.Create(ctx, &account.Transaction{
			TransactionID: id.NewID32(),
			UserID:        rep.UserID,
			Type:          account.TxLoanRepayment,
			Status:        account.TxCompleted,
			Currency:      l.Currency,
			Amount:        rep.Amount.Neg(),
			Reference:     rep.RepaymentID,
			Note:          "loan " + l.LoanID,
		}); err != nil {
			return err
		}

		paid.Penalty = paid.Penalty.Add(alloc.Penalty)
		paid.Interest = paid.Interest.Add(alloc.Interest)
		paid.Principal = paid.Principal.Add(alloc.Principal)
		if accrual.Outstanding(owed, paid).Total.IsPositive() {
			return nil
		}
		ok, err := r.Loans.MarkRepaid(ctx, l.ID, now)
		if err != nil {
			return err
		}
		if !ok {
			return domainLoan.ErrAlreadySettled
		}
		settled = true
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainLoan.ErrNotFound
		}
		return nil, err
	}

	log.WithFields(log.Fields{"repayment_id": rep.RepaymentID, "loan_id": rep.PublicLoanID, "settled": settled}).Info("repayment approved")
	notify.Best(ctx, u.pub, notify.Event{Type: notify.RepaymentApproved, UserID: rep.UserID, LoanID: rep.PublicLoanID, At: now,
		Data: map[string]string{"repayment_id": rep.RepaymentID}})
	if settled {
		notify.Best(ctx, u.pub, notify.Event{Type: notify.LoanRepaid, UserID: rep.UserID, LoanID: rep.PublicLoanID, At: now})
	}

	dto := toDTO(rep)
	dto.LoanSettled = settled
	return &dto, nil
}

func (u *Usecase) Reject(ctx context.Context, in RejectInput) (*RepaymentDTO, error) {
	ctx, span := telemetry.Start(ctx, "repayment.reject")
	defer span.End()

	rep, err := u.pending(ctx, in.RepaymentID)
	if err != nil {
		return nil, err
	}
	now := u.now()
	won, err := u.repayments.Review(ctx, rep.ID, domain.StatusRejected, in.AdminID, in.Reason, now)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, domain.ErrAlreadyReviewed
	}
	rep.Status = domain.StatusRejected
	rep.RejectReason = in.Reason
	rep.ReviewedBy = in.AdminID
	rep.ReviewedAt = &now

	notify.Best(ctx, u.pub, notify.Event{Type: notify.RepaymentRejected, UserID: rep.UserID, LoanID: rep.PublicLoanID, At: now,
		Data: map[string]string{"repayment_id": rep.RepaymentID, "reason": in.Reason}})
	dto := toDTO(rep)
	return &dto, nil
}

func (u *Usecase) pending(ctx context.Context, repaymentID string) (*domain.Repayment, error) {
	rep, err := u.repayments.GetByRepaymentID(ctx, repaymentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if rep.Status != domain.StatusPending {
		return nil, domain.ErrAlreadyReviewed
	}
	return rep, nil
}

func (u *Usecase) ownedLoan(ctx context.Context, userID, loanID string) (*domainLoan.Loan, error) {
	l, err := u.loans.GetByLoanID(ctx, loanID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainLoan.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if l.BorrowerID != userID {
		return nil, domainLoan.ErrNotFound
	}
	return l, nil
}
