package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"coinlend-backend/internal/domain/account"
	"coinlend-backend/internal/domain/credit"
	"coinlend-backend/internal/domain/loan"
	"coinlend-backend/internal/domain/repayment"
)

// errorStatus maps domain errors to HTTP codes; anything else is a 500.
var errorStatus = []struct {
	err  error
	code int
}{
	{loan.ErrOutOfRange, http.StatusBadRequest},
	{account.ErrInvalidAmount, http.StatusBadRequest},
	{repayment.ErrInvalidAmount, http.StatusBadRequest},
	{repayment.ErrInvalidType, http.StatusBadRequest},
	{repayment.ErrAmountExceedsOwed, http.StatusBadRequest},
	{account.ErrInsufficientBalance, http.StatusBadRequest},
	{repayment.ErrPayloadTooLarge, http.StatusRequestEntityTooLarge},

	{account.ErrNotVerified, http.StatusForbidden},
	{account.ErrAccountFrozen, http.StatusForbidden},
	{credit.ErrCreditTooLow, http.StatusForbidden},
	{credit.ErrRateLimited, http.StatusTooManyRequests},

	{loan.ErrNotFound, http.StatusNotFound},
	{repayment.ErrNotFound, http.StatusNotFound},
	{account.ErrNotFound, http.StatusNotFound},

	{loan.ErrTooManyActiveLoans, http.StatusConflict},
	{loan.ErrAlreadyApproved, http.StatusConflict},
	{loan.ErrAlreadySettled, http.StatusConflict},
	{loan.ErrInvalidTransition, http.StatusConflict},
	{loan.ErrNotRepayable, http.StatusConflict},
	{repayment.ErrAlreadyReviewed, http.StatusConflict},
	{account.ErrAlreadyReviewed, http.StatusConflict},
	{account.ErrKYCPending, http.StatusConflict},
}

func statusFor(err error) (int, bool) {
	for _, m := range errorStatus {
		if errors.Is(err, m.err) {
			return m.code, true
		}
	}
	return http.StatusInternalServerError, false
}

// writeError renders err; unmapped errors are logged and hidden.
func writeError(c echo.Context, err error) error {
	code, known := statusFor(err)
	if !known {
		log.WithError(err).WithFields(log.Fields{
			"method": c.Request().Method,
			"path":   c.Path(),
		}).Error("request failed")
		return c.JSON(code, ErrorResponse{Error: "internal error"})
	}
	return c.JSON(code, ErrorResponse{Error: err.Error()})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

func validationFailed(c echo.Context, err error) error {
	return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "validation failed",
		Details: ToFieldErrors(err),
	})
}
