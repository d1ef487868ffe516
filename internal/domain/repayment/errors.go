package repayment

import "errors"

var (
	ErrNotFound          = errors.New("repayment not found")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidType       = errors.New("invalid repayment type")
	ErrAmountExceedsOwed = errors.New("amount exceeds owed")
	ErrPayloadTooLarge   = errors.New("receipt too large")
	ErrAlreadyReviewed   = errors.New("repayment already reviewed")
)
