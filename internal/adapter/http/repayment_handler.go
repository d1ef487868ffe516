package http

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	domain "coinlend-backend/internal/domain/repayment"
	"coinlend-backend/internal/usecase/repayment"
)

type RepaymentHandler struct {
	uc         *repayment.Usecase
	maxReceipt int64
}

func NewRepaymentHandler(uc *repayment.Usecase, maxReceiptBytes int64) *RepaymentHandler {
	return &RepaymentHandler{uc: uc, maxReceipt: maxReceiptBytes}
}

// Submit takes multipart fields repayment_type, amount and an optional
// receipt file. amount is only read for partial repayments.
func (h *RepaymentHandler) Submit(c echo.Context) error {
	loanID, ok := param(c, "loan_id")
	if !ok {
		return missingParam(c, "loan_id")
	}

	typ := domain.Type(strings.TrimSpace(c.FormValue("repayment_type")))
	amount := decimal.Zero
	if !typ.SettlesInFull() {
		var err error
		amount, err = decimal.NewFromString(strings.TrimSpace(c.FormValue("amount")))
		if err != nil {
			return writeError(c, domain.ErrInvalidAmount)
		}
	}

	data, contentType, err := h.readReceipt(c)
	if err != nil {
		if errors.Is(err, domain.ErrPayloadTooLarge) {
			return writeError(c, err)
		}
		return badRequest(c, err.Error())
	}

	dto, err := h.uc.Submit(c.Request().Context(), repayment.SubmitInput{
		UserID:             caller(c),
		LoanID:             loanID,
		Amount:             amount,
		Type:               typ,
		Receipt:            data,
		ReceiptContentType: contentType,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

// readReceipt returns nil data when no receipt part was sent.
func (h *RepaymentHandler) readReceipt(c echo.Context) ([]byte, string, error) {
	fh, err := c.FormFile("receipt")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", errors.New("invalid multipart body")
	}
	if h.maxReceipt > 0 && fh.Size > h.maxReceipt {
		return nil, "", domain.ErrPayloadTooLarge
	}
	f, err := fh.Open()
	if err != nil {
		return nil, "", errors.New("unreadable receipt")
	}
	defer f.Close()

	limit := h.maxReceipt
	if limit <= 0 {
		limit = fh.Size
	}
	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, "", errors.New("unreadable receipt")
	}
	return data, fh.Header.Get(echo.HeaderContentType), nil
}

func (h *RepaymentHandler) List(c echo.Context) error {
	loanID, ok := param(c, "loan_id")
	if !ok {
		return missingParam(c, "loan_id")
	}
	list, err := h.uc.ListByLoan(c.Request().Context(), caller(c), loanID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"repayments": list})
}

type rejectReq struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

func (h *RepaymentHandler) Approve(c echo.Context) error {
	id, ok := param(c, "repayment_id")
	if !ok {
		return missingParam(c, "repayment_id")
	}
	dto, err := h.uc.Approve(c.Request().Context(), repayment.ApproveInput{RepaymentID: id, AdminID: caller(c)})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *RepaymentHandler) Reject(c echo.Context) error {
	id, ok := param(c, "repayment_id")
	if !ok {
		return missingParam(c, "repayment_id")
	}
	var req rejectReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Reject(c.Request().Context(), repayment.RejectInput{RepaymentID: id, AdminID: caller(c), Reason: req.Reason})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
