package http

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"coinlend-backend/internal/usecase/loan"
)

type LoanHandler struct{ uc *loan.Usecase }

func NewLoanHandler(uc *loan.Usecase) *LoanHandler { return &LoanHandler{uc: uc} }

type applyLoanReq struct {
	Principal decimal.Decimal `json:"principal" validate:"required,dpos,dscale"`
}

func (h *LoanHandler) Apply(c echo.Context) error {
	var req applyLoanReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Apply(c.Request().Context(), loan.ApplyInput{BorrowerID: caller(c), Principal: req.Principal})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LoanHandler) List(c echo.Context) error {
	list, err := h.uc.List(c.Request().Context(), caller(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"loans": list})
}

func (h *LoanHandler) Get(c echo.Context) error {
	loanID, ok := param(c, "loan_id")
	if !ok {
		return missingParam(c, "loan_id")
	}
	dto, err := h.uc.Get(c.Request().Context(), caller(c), loanID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// Quote shows the owed breakdown and, with ?amount=, how it would be split.
func (h *LoanHandler) Quote(c echo.Context) error {
	loanID, ok := param(c, "loan_id")
	if !ok {
		return missingParam(c, "loan_id")
	}
	amount := decimal.Zero
	if raw := strings.TrimSpace(c.QueryParam("amount")); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil || !d.IsPositive() {
			return badRequest(c, "amount must be a positive decimal")
		}
		amount = d
	}
	dto, err := h.uc.Quote(c.Request().Context(), caller(c), loanID, amount)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
