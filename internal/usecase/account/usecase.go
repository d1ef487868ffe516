package account

import (
	"context"
	"errors"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	domain "coinlend-backend/internal/domain/account"
	"coinlend-backend/internal/domain/credit"
	"coinlend-backend/internal/domain/loan"
	"coinlend-backend/internal/domain/uow"
	"coinlend-backend/internal/telemetry"
	"coinlend-backend/pkg/id"
)

// Guard blocks an action when the user is attempting it too often.
type Guard interface {
	Guard(ctx context.Context, userID string, action credit.Action) error
}

type Usecase struct {
	profiles domain.ProfileRepository
	assets   domain.AssetRepository
	uow      uow.UnitOfWork
	guard    Guard
	now      func() time.Time
}

func NewUsecase(profiles domain.ProfileRepository, assets domain.AssetRepository, tx uow.UnitOfWork, guard Guard) *Usecase {
	return &Usecase{
		profiles: profiles,
		assets:   assets,
		uow:      tx,
		guard:    guard,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (u *Usecase) GetProfile(ctx context.Context, userID string) (*ProfileDTO, error) {
	p, err := u.profiles.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	assets, err := u.assets.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := &ProfileDTO{
		UserID:      p.UserID,
		KYCStatus:   p.KYCStatus,
		Frozen:      p.Frozen,
		CreditScore: p.CreditScore,
		CanWithdraw: !p.Frozen && credit.CanWithdraw(p.CreditScore),
		Balances:    make([]BalanceDTO, 0, len(assets)),
	}
	for _, a := range assets {
		out.Balances = append(out.Balances, BalanceDTO{Currency: a.Currency, Balance: a.Balance})
	}
	return out, nil
}

// SubmitKYC files a new identity submission and parks the profile in pending.
func (u *Usecase) SubmitKYC(ctx context.Context, in KYCInput) (*domain.KYCRecord, error) {
	var rec *domain.KYCRecord
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		p, err := r.Profiles.GetForUpdate(ctx, in.UserID)
		if err != nil {
			return err
		}
		switch p.KYCStatus {
		case domain.KYCPending:
			return domain.ErrKYCPending
		case domain.KYCVerified:
			return domain.ErrAlreadyReviewed
		}
		rec = &domain.KYCRecord{
			KYCID:          id.NewID32(),
			UserID:         in.UserID,
			FullName:       strings.TrimSpace(in.FullName),
			DocumentType:   in.DocumentType,
			DocumentNumber: strings.TrimSpace(in.DocumentNumber),
			Status:         domain.KYCPending,
		}
		if err := r.KYC.Create(ctx, rec); err != nil {
			return err
		}
		p.KYCStatus = domain.KYCPending
		return r.Profiles.Save(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (u *Usecase) ReviewKYC(ctx context.Context, in ReviewKYCInput) (*domain.KYCRecord, error) {
	var rec *domain.KYCRecord
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		rec, err = r.KYC.GetByKYCID(ctx, in.KYCID)
		if err != nil {
			return mapNotFound(err)
		}
		if rec.Status != domain.KYCPending {
			return domain.ErrAlreadyReviewed
		}
		at := u.now()
		rec.Status = domain.KYCRejected
		rec.RejectReason = in.Reason
		if in.Approve {
			rec.Status = domain.KYCVerified
			rec.RejectReason = ""
		}
		rec.ReviewedAt = &at
		if err := r.KYC.Save(ctx, rec); err != nil {
			return err
		}

		p, err := r.Profiles.GetForUpdate(ctx, rec.UserID)
		if err != nil {
			return err
		}
		p.KYCStatus = rec.Status
		return r.Profiles.Save(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"kyc_id": rec.KYCID, "user_id": rec.UserID, "status": rec.Status, "admin_id": in.AdminID}).Info("kyc reviewed")
	return rec, nil
}

func (u *Usecase) SetFrozen(ctx context.Context, userID string, frozen bool) (*ProfileDTO, error) {
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		p, err := r.Profiles.GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if p.Frozen == frozen {
			return nil
		}
		p.Frozen = frozen
		return r.Profiles.Save(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"user_id": userID, "frozen": frozen}).Info("account freeze updated")
	return u.GetProfile(ctx, userID)
}

// RequestWithdrawal debits the wallet up front and files a pending ledger row
// for an admin to settle.
func (u *Usecase) RequestWithdrawal(ctx context.Context, in WithdrawInput) (*TransactionDTO, error) {
	ctx, span := telemetry.Start(ctx, "account.withdraw")
	defer span.End()

	if !in.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	if in.Currency == "" {
		in.Currency = loan.CurrencyUSDT
	}

	p, err := u.profiles.GetOrCreate(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if p.Frozen {
		return nil, domain.ErrAccountFrozen
	}
	if err := u.guard.Guard(ctx, in.UserID, credit.ActionWithdraw); err != nil {
		return nil, err
	}

	var out *domain.Transaction
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		// the guard may have just cost points
		p, err := r.Profiles.GetForUpdate(ctx, in.UserID)
		if err != nil {
			return err
		}
		if p.Frozen {
			return domain.ErrAccountFrozen
		}
		if !credit.CanWithdraw(p.CreditScore) {
			return credit.ErrCreditTooLow
		}
		if err := r.Assets.Debit(ctx, in.UserID, in.Currency, in.Amount); err != nil {
			return err
		}
		out = &domain.Transaction{
			TransactionID: id.NewID32(),
			UserID:        in.UserID,
			Type:          domain.TxWithdrawal,
			Status:        domain.TxPending,
			Currency:      in.Currency,
			Amount:        in.Amount.Neg(),
			Address:       in.Address,
		}
		return r.Transactions.Create(ctx, out)
	})
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"user_id": in.UserID, "transaction_id": out.TransactionID, "amount": in.Amount.String()}).Info("withdrawal requested")
	return toTxDTO(out), nil
}

// ReviewWithdrawal settles a pending withdrawal. Rejection returns the funds.
func (u *Usecase) ReviewWithdrawal(ctx context.Context, in ReviewWithdrawalInput) (*TransactionDTO, error) {
	var out *domain.Transaction
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		tx, err := r.Transactions.GetByTransactionID(ctx, in.TransactionID)
		if err != nil {
			return mapNotFound(err)
		}
		if tx.Type != domain.TxWithdrawal {
			return domain.ErrNotFound
		}
		to := domain.TxRejected
		if in.Approve {
			to = domain.TxCompleted
		}
		ok, err := r.Transactions.UpdateStatus(ctx, tx.ID, domain.TxPending, to, in.Reason)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrAlreadyReviewed
		}
		if !in.Approve {
			if err := r.Assets.Credit(ctx, tx.UserID, tx.Currency, tx.Amount.Abs()); err != nil {
				return err
			}
		}
		tx.Status = to
		tx.Note = in.Reason
		out = tx
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"transaction_id": out.TransactionID, "status": out.Status, "admin_id": in.AdminID}).Info("withdrawal reviewed")
	return toTxDTO(out), nil
}

// CheckTradeAttempt is the pre-trade velocity check.
func (u *Usecase) CheckTradeAttempt(ctx context.Context, userID string) error {
	p, err := u.profiles.GetOrCreate(ctx, userID)
	if err != nil {
		return err
	}
	if p.Frozen {
		return domain.ErrAccountFrozen
	}
	return u.guard.Guard(ctx, userID, credit.ActionTrade)
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}
