package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"coinlend-backend/internal/usecase/account"
	"coinlend-backend/internal/usecase/credit"
)

type AccountHandler struct {
	accounts *account.Usecase
	credit   *credit.Usecase
}

func NewAccountHandler(accounts *account.Usecase, scores *credit.Usecase) *AccountHandler {
	return &AccountHandler{accounts: accounts, credit: scores}
}

func (h *AccountHandler) Me(c echo.Context) error {
	dto, err := h.accounts.GetProfile(c.Request().Context(), caller(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type kycReq struct {
	FullName       string `json:"full_name"       validate:"required,max=128"`
	DocumentType   string `json:"document_type"   validate:"required,oneof=passport id_card driver_license"`
	DocumentNumber string `json:"document_number" validate:"required,max=64"`
}

func (h *AccountHandler) SubmitKYC(c echo.Context) error {
	var req kycReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	rec, err := h.accounts.SubmitKYC(c.Request().Context(), account.KYCInput{
		UserID:         caller(c),
		FullName:       req.FullName,
		DocumentType:   req.DocumentType,
		DocumentNumber: req.DocumentNumber,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, rec)
}

type withdrawReq struct {
	Currency string          `json:"currency" validate:"omitempty,max=16"`
	Amount   decimal.Decimal `json:"amount"   validate:"required,dpos,dscale"`
	Address  string          `json:"address"  validate:"required,max=128"`
}

func (h *AccountHandler) Withdraw(c echo.Context) error {
	var req withdrawReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	dto, err := h.accounts.RequestWithdrawal(c.Request().Context(), account.WithdrawInput{
		UserID:   caller(c),
		Currency: req.Currency,
		Amount:   req.Amount,
		Address:  req.Address,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *AccountHandler) TradeAttempt(c echo.Context) error {
	if err := h.accounts.CheckTradeAttempt(c.Request().Context(), caller(c)); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"allowed": true})
}

// ---- admin ----

func (h *AccountHandler) ApproveKYC(c echo.Context) error { return h.reviewKYC(c, true) }
func (h *AccountHandler) RejectKYC(c echo.Context) error  { return h.reviewKYC(c, false) }

func (h *AccountHandler) reviewKYC(c echo.Context, approve bool) error {
	kycID, ok := param(c, "kyc_id")
	if !ok {
		return missingParam(c, "kyc_id")
	}
	in := account.ReviewKYCInput{KYCID: kycID, AdminID: caller(c), Approve: approve}
	if !approve {
		var req rejectReq
		if ok, err := bindValid(c, &req); !ok {
			return err
		}
		in.Reason = req.Reason
	}
	rec, err := h.accounts.ReviewKYC(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *AccountHandler) ApproveWithdrawal(c echo.Context) error { return h.reviewWithdrawal(c, true) }
func (h *AccountHandler) RejectWithdrawal(c echo.Context) error  { return h.reviewWithdrawal(c, false) }

func (h *AccountHandler) reviewWithdrawal(c echo.Context, approve bool) error {
	txID, ok := param(c, "tx_id")
	if !ok {
		return missingParam(c, "tx_id")
	}
	in := account.ReviewWithdrawalInput{TransactionID: txID, AdminID: caller(c), Approve: approve}
	if !approve {
		var req rejectReq
		if ok, err := bindValid(c, &req); !ok {
			return err
		}
		in.Reason = req.Reason
	}
	dto, err := h.accounts.ReviewWithdrawal(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *AccountHandler) Freeze(c echo.Context) error   { return h.setFrozen(c, true) }
func (h *AccountHandler) Unfreeze(c echo.Context) error { return h.setFrozen(c, false) }

func (h *AccountHandler) setFrozen(c echo.Context, frozen bool) error {
	userID, ok := param(c, "user_id")
	if !ok {
		return missingParam(c, "user_id")
	}
	dto, err := h.accounts.SetFrozen(c.Request().Context(), userID, frozen)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *AccountHandler) RestoreCredit(c echo.Context) error {
	userID, ok := param(c, "user_id")
	if !ok {
		return missingParam(c, "user_id")
	}
	dto, err := h.credit.Restore(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
