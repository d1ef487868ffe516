package credit

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"coinlend-backend/internal/domain/account"
	domain "coinlend-backend/internal/domain/credit"
	"coinlend-backend/internal/domain/loan"
	"coinlend-backend/internal/domain/uow"
	"coinlend-backend/internal/infrastructure/notify"
	"coinlend-backend/internal/telemetry"
)

type Usecase struct {
	uow    uow.UnitOfWork
	window domain.AttemptWindow
	pub    notify.Publisher
	now    func() time.Time
}

func NewUsecase(tx uow.UnitOfWork, window domain.AttemptWindow, pub notify.Publisher) *Usecase {
	if pub == nil {
		pub = notify.Nop{}
	}
	return &Usecase{uow: tx, window: window, pub: pub, now: func() time.Time { return time.Now().UTC() }}
}

type ScoreDTO struct {
	UserID        string        `json:"user_id"`
	PreviousScore int           `json:"previous_score"`
	CreditScore   int           `json:"credit_score"`
	Delta         int           `json:"delta"`
	Reason        domain.Reason `json:"reason"`
}

// Guard records an attempt of action and blocks it once the trailing window
// holds VelocityThreshold attempts. The first block in a window also costs
// VelocityPenalty points.
func (u *Usecase) Guard(ctx context.Context, userID string, action domain.Action) error {
	ctx, span := telemetry.Start(ctx, "credit.guard")
	defer span.End()

	n, err := u.window.Record(ctx, userID, action, u.now())
	if err != nil {
		return err
	}
	if n < domain.VelocityThreshold {
		return nil
	}

	first, err := u.window.MarkPenalized(ctx, userID, action)
	if err != nil {
		return err
	}
	if first {
		if _, err := u.deduct(ctx, userID, nil, domain.VelocityPenalty, action.Reason()); err != nil {
			return err
		}
	}
	return domain.ErrRateLimited
}

// ApplyOverduePenalty deducts 2 points per overdue day, at most once per UTC
// day per loan. It reports false when today's deduction already exists.
func (u *Usecase) ApplyOverduePenalty(ctx context.Context, l *loan.Loan, daysOverdue int, now time.Time) (bool, error) {
	points := domain.OverdueDeduction(daysOverdue)
	if points == 0 {
		return false, nil
	}
	loanID := l.ID
	day := domain.LogDate(now)

	var applied *ScoreDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		exists, err := r.CreditLogs.ExistsForLoanOn(ctx, loanID, day)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrAlreadyApplied
		}
		applied, err = u.deductIn(ctx, r, l.BorrowerID, &loanID, points, domain.ReasonLoanOverdue, now)
		return err
	})
	switch {
	case errors.Is(err, domain.ErrAlreadyApplied), errors.Is(err, gorm.ErrDuplicatedKey):
		return false, nil
	case err != nil:
		return false, err
	}

	notify.Best(ctx, u.pub, notify.Event{Type: notify.CreditDeducted, UserID: l.BorrowerID, LoanID: l.LoanID, At: now,
		Data: map[string]string{"reason": string(domain.ReasonLoanOverdue)}})
	log.WithFields(log.Fields{"user_id": l.BorrowerID, "loan_id": l.LoanID, "delta": applied.Delta, "score": applied.CreditScore}).Info("overdue credit penalty")
	return true, nil
}

// Restore resets a user's score to the initial value.
func (u *Usecase) Restore(ctx context.Context, userID string) (*ScoreDTO, error) {
	var out *ScoreDTO
	now := u.now()
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		p, err := r.Profiles.GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		prev := p.CreditScore
		out = &ScoreDTO{UserID: userID, PreviousScore: prev, CreditScore: account.InitialCreditScore,
			Delta: account.InitialCreditScore - prev, Reason: domain.ReasonAdminRestore}
		if prev == account.InitialCreditScore {
			return nil
		}
		p.CreditScore = account.InitialCreditScore
		if err := r.Profiles.Save(ctx, p); err != nil {
			return err
		}
		return r.CreditLogs.Create(ctx, &domain.Log{
			UserID: userID, LogDate: domain.LogDate(now), PreviousScore: prev, NewScore: p.CreditScore,
			Delta: out.Delta, Reason: domain.ReasonAdminRestore, CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (u *Usecase) deduct(ctx context.Context, userID string, loanID *uint64, points int, reason domain.Reason) (*ScoreDTO, error) {
	var out *ScoreDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		out, err = u.deductIn(ctx, r, userID, loanID, points, reason, u.now())
		return err
	})
	if err != nil {
		return nil, err
	}
	notify.Best(ctx, u.pub, notify.Event{Type: notify.CreditDeducted, UserID: userID, Data: map[string]string{"reason": string(reason)}})
	return out, nil
}

// deductIn locks the profile, applies the floor and appends the log row.
func (u *Usecase) deductIn(ctx context.Context, r uow.Repos, userID string, loanID *uint64, points int, reason domain.Reason, now time.Time) (*ScoreDTO, error) {
	p, err := r.Profiles.GetForUpdate(ctx, userID)
	if err != nil {
		return nil, err
	}
	prev := p.CreditScore
	p.CreditScore = domain.Apply(prev, points)
	if err := r.Profiles.Save(ctx, p); err != nil {
		return nil, err
	}
	entry := &domain.Log{
		UserID:        userID,
		LoanID:        loanID,
		LogDate:       domain.LogDate(now),
		PreviousScore: prev,
		NewScore:      p.CreditScore,
		Delta:         p.CreditScore - prev,
		Reason:        reason,
		CreatedAt:     now,
	}
	if err := r.CreditLogs.Create(ctx, entry); err != nil {
		return nil, err
	}
	return &ScoreDTO{UserID: userID, PreviousScore: prev, CreditScore: p.CreditScore, Delta: entry.Delta, Reason: reason}, nil
}
