package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"coinlend-backend/internal/usecase/approval"
)

type ApprovalHandler struct{ uc *approval.Usecase }

func NewApprovalHandler(uc *approval.Usecase) *ApprovalHandler { return &ApprovalHandler{uc: uc} }

func (h *ApprovalHandler) ApproveLoan(c echo.Context) error {
	// Validate path param
	loanID, ok := param(c, "loan_id")
	if !ok {
		return missingParam(c, "loan_id")
	}
	dto, err := h.uc.Approve(c.Request().Context(), approval.ApproveInput{LoanID: loanID, AdminID: caller(c)})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *ApprovalHandler) RejectLoan(c echo.Context) error {
	loanID, ok := param(c, "loan_id")
	if !ok {
		return missingParam(c, "loan_id")
	}
	var req rejectReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Reject(c.Request().Context(), approval.RejectInput{LoanID: loanID, AdminID: caller(c), Reason: req.Reason})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
