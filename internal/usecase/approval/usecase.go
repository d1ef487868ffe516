package approval

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"coinlend-backend/internal/domain/account"
	domainLoan "coinlend-backend/internal/domain/loan"
	"coinlend-backend/internal/domain/uow"
	"coinlend-backend/internal/infrastructure/notify"
	"coinlend-backend/internal/telemetry"
	"coinlend-backend/pkg/id"
)

type Usecase struct {
	uow    uow.UnitOfWork
	policy domainLoan.Policy
	pub    notify.Publisher
	now    func() time.Time
}

func NewUsecase(tx uow.UnitOfWork, policy domainLoan.Policy, pub notify.Publisher) *Usecase {
	return &Usecase{uow: tx, policy: policy, pub: pub, now: func() time.Time { return time.Now().UTC() }}
}

// Approve disburses a pending loan: status, due date, balance credit and
// ledger row commit together under the loan row lock.
func (u *Usecase) Approve(ctx context.Context, in ApproveInput) (*ReviewDTO, error) {
	ctx, span := telemetry.Start(ctx, "loan.approve")
	defer span.End()

	var dto *ReviewDTO
	var borrower string
	now := u.now()

	err := u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *domainLoan.Loan) error {
		// State guard: only pending → approved
		if l.Status != domainLoan.StatusPending {
			if l.Status == domainLoan.StatusApproved || l.Status == domainLoan.StatusOverdue || l.Status == domainLoan.StatusRepaid {
				return domainLoan.ErrAlreadyApproved
			}
			return domainLoan.ErrInvalidTransition
		}

		p, err := r.Profiles.GetForUpdate(ctx, l.BorrowerID)
		if err != nil {
			return err
		}
		if p.Frozen {
			return account.ErrAccountFrozen
		}
		// re-check the active cap; other approvals may have landed since application
		active, err := r.Loans.CountByBorrowerAndStatus(ctx, l.BorrowerID, domainLoan.StatusApproved, domainLoan.StatusOverdue)
		if err != nil {
			return err
		}
		if active >= int64(u.policy.MaxActiveLoans) {
			return domainLoan.ErrTooManyActiveLoans
		}

		due := u.policy.Schedule.DueDate(l.BorrowDate)
		l.Status = domainLoan.StatusApproved
		l.DueDate = &due
		l.ReviewedBy = in.AdminID
		l.StatusAt = now
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}

		if err := r.Assets.Credit(ctx, l.BorrowerID, l.Currency, l.Principal); err != nil {
			return err
		}
		tx := &account.Transaction{
			TransactionID: id.NewID32(),
			UserID:        l.BorrowerID,
			Type:          account.TxLoanDisbursement,
			Status:        account.TxCompleted,
			Currency:      l.Currency,
			Amount:        l.Principal,
			Reference:     l.LoanID,
		}
		if err := r.Transactions.Create(ctx, tx); err != nil {
			return err
		}

		borrower = l.BorrowerID
		disbursed := l.Principal
		dto = &ReviewDTO{
			LoanID:        l.LoanID,
			Status:        string(l.Status),
			DueDate:       l.DueDate,
			Disbursed:     &disbursed,
			TransactionID: tx.TransactionID,
			ReviewedAt:    now,
		}
		return nil
	})
	if err != nil {
		return nil, mapNotFound(err)
	}

	notify.Best(ctx, u.pub, notify.Event{Type: notify.LoanApproved, UserID: borrower, LoanID: dto.LoanID, At: now})
	return dto, nil
}

func (u *Usecase) Reject(ctx context.Context, in RejectInput) (*ReviewDTO, error) {
	ctx, span := telemetry.Start(ctx, "loan.reject")
	defer span.End()

	var dto *ReviewDTO
	var borrower string
	now := u.now()

	err := u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *domainLoan.Loan) error {
		if !domainLoan.CanTransition(l.Status, domainLoan.StatusRejected) {
			return domainLoan.ErrInvalidTransition
		}
		l.Status = domainLoan.StatusRejected
		l.RejectReason = in.Reason
		l.ReviewedBy = in.AdminID
		l.StatusAt = now
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		borrower = l.BorrowerID
		dto = &ReviewDTO{LoanID: l.LoanID, Status: string(l.Status), RejectReason: l.RejectReason, ReviewedAt: now}
		return nil
	})
	if err != nil {
		return nil, mapNotFound(err)
	}

	notify.Best(ctx, u.pub, notify.Event{Type: notify.LoanRejected, UserID: borrower, LoanID: dto.LoanID, At: now})
	return dto, nil
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domainLoan.ErrNotFound
	}
	return err
}
